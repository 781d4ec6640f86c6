package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hupe1980/kdgo"
	"github.com/hupe1980/kdgo/testutil"
)

func main() {
	seed := int64(4711)
	dim := 3
	size := 100000
	k := 10

	ctx := context.Background()
	rng := testutil.NewRNG(seed)

	points := rng.UniformVectors(size, dim)
	query := rng.UniformVectors(1, dim)[0]

	kdt, err := kdgo.New(dim)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Build ---")
	fmt.Println("Dimension:", dim)
	fmt.Println("Size:", size)

	start := time.Now()

	if err := kdt.Build(ctx, points); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Seconds: %.2f\n", time.Since(start).Seconds())
	fmt.Println("Valid:", kdt.Validate())
	fmt.Println()

	fmt.Println("--- NN ---")

	start = time.Now()

	best, err := kdt.NNSearch(ctx, query)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("ID: %d, Distance: %.4f\n", best.ID, best.Distance)
	fmt.Printf("Seconds: %.8f\n\n", time.Since(start).Seconds())

	fmt.Println("--- KNN ---")

	start = time.Now()

	results, err := kdt.KNNSearch(ctx, query, k)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range results {
		fmt.Printf("ID: %d, Distance: %.4f\n", r.ID, r.Distance)
	}
	fmt.Printf("Seconds: %.8f\n\n", time.Since(start).Seconds())

	fmt.Println("--- Range ---")

	start = time.Now()

	results, err = kdt.RangeSearch(ctx, query, 0.05)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("In range:", len(results))
	fmt.Printf("Seconds: %.8f\n", time.Since(start).Seconds())
}
