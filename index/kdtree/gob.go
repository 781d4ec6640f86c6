package kdtree

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/hupe1980/kdgo/index"
)

// gobState mirrors treeState with exported fields for gob.
type gobState struct {
	Dimension int
	Data      []float32
	Nodes     []Node
	Root      int32
}

// GobEncode method for KDTree.
func (t *KDTree) GobEncode() ([]byte, error) {
	st := t.getState()

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)

	if err := encoder.Encode(gobState{
		Dimension: st.dim,
		Data:      st.data,
		Nodes:     st.nodes,
		Root:      st.root,
	}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode method for KDTree.
// The decoded tree replaces the receiver's state atomically.
func (t *KDTree) GobDecode(data []byte) error {
	decoder := gob.NewDecoder(bytes.NewBuffer(data))

	var gs gobState
	if err := decoder.Decode(&gs); err != nil {
		return err
	}

	if err := index.ValidateDimension(gs.Dimension); err != nil {
		return err
	}
	if len(gs.Data) != len(gs.Nodes)*gs.Dimension {
		return fmt.Errorf("kdtree: corrupt snapshot: %d coordinates for %d points of dimension %d",
			len(gs.Data), len(gs.Nodes), gs.Dimension)
	}

	// Every node reference must stay inside the arena; a dangling reference
	// would fault on the first traversal.
	n := int32(len(gs.Nodes))
	if n > 0 && (gs.Root < 0 || gs.Root >= n) {
		return fmt.Errorf("kdtree: corrupt snapshot: root %d outside arena of %d nodes", gs.Root, n)
	}
	for i, node := range gs.Nodes {
		if node.Idx >= uint32(n) {
			return fmt.Errorf("kdtree: corrupt snapshot: node %d references point %d of %d", i, node.Idx, n)
		}
		if node.Left != nilNode && (node.Left < 0 || node.Left >= n) {
			return fmt.Errorf("kdtree: corrupt snapshot: node %d left child %d outside arena of %d nodes", i, node.Left, n)
		}
		if node.Right != nilNode && (node.Right < 0 || node.Right >= n) {
			return fmt.Errorf("kdtree: corrupt snapshot: node %d right child %d outside arena of %d nodes", i, node.Right, n)
		}
	}

	st := &treeState{
		dim:   gs.Dimension,
		data:  gs.Data,
		nodes: gs.Nodes,
		root:  gs.Root,
	}
	if len(st.nodes) == 0 {
		st.root = nilNode
	}

	t.writeMu.Lock()
	t.opts.Dimension = gs.Dimension
	t.state.Store(st)
	t.writeMu.Unlock()

	return nil
}
