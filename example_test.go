package kdgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/kdgo"
)

func ExampleNew() {
	ctx := context.Background()

	kdt, err := kdgo.New(2)
	if err != nil {
		log.Fatal(err)
	}

	points := [][]float32{{0, 0}, {3, 4}, {10, 10}}
	if err := kdt.Build(ctx, points); err != nil {
		log.Fatal(err)
	}

	best, err := kdt.NNSearch(ctx, []float32{3, 3})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("ID: %d, Distance: %.0f\n", best.ID, best.Distance)
	// Output:
	// ID: 1, Distance: 1
}

func ExampleKDTree_KNNSearch() {
	ctx := context.Background()

	kdt, err := kdgo.New(2)
	if err != nil {
		log.Fatal(err)
	}

	points := [][]float32{{0, 0}, {3, 4}, {10, 10}}
	if err := kdt.Build(ctx, points); err != nil {
		log.Fatal(err)
	}

	results, err := kdt.KNNSearch(ctx, []float32{0, 0}, 2)
	if err != nil {
		log.Fatal(err)
	}

	for _, r := range results {
		fmt.Printf("ID: %d, Distance: %.0f\n", r.ID, r.Distance)
	}
	// Output:
	// ID: 0, Distance: 0
	// ID: 1, Distance: 5
}

func ExampleKDTree_RangeSearch() {
	ctx := context.Background()

	kdt, err := kdgo.New(2)
	if err != nil {
		log.Fatal(err)
	}

	points := [][]float32{{0, 0}, {3, 4}, {10, 10}}
	if err := kdt.Build(ctx, points); err != nil {
		log.Fatal(err)
	}

	results, err := kdt.RangeSearch(ctx, []float32{0, 0}, 6)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("In range:", len(results))
	// Output:
	// In range: 2
}
