package merkle

// ProofStep is one sibling on the path from a leaf to the root.
type ProofStep struct {
	Hash string `json:"hash"`
	// Left is true when the sibling sits to the left of the running hash.
	Left bool `json:"left"`
}

// Proof returns the sibling path that links leaves[index] to the root.
func (b *Builder) Proof(leaves []string, index int) ([]ProofStep, error) {
	if index < 0 || index >= len(leaves) {
		return nil, ErrIndexOutOfRange
	}
	levels, err := b.Tree(leaves)
	if err != nil {
		return nil, err
	}

	var steps []ProofStep
	for _, level := range levels[:len(levels)-1] {
		sib := index ^ 1
		if sib >= len(level) {
			// odd tail is paired with itself
			sib = index
		}
		steps = append(steps, ProofStep{Hash: level[sib], Left: sib < index})
		index /= 2
	}
	return steps, nil
}

// VerifyProof folds steps into leaf and compares the result with root.
func (b *Builder) VerifyProof(leaf string, steps []ProofStep, root string) (bool, error) {
	cur := leaf
	for _, s := range steps {
		var err error
		if s.Left {
			cur, err = b.node(s.Hash, cur)
		} else {
			cur, err = b.node(cur, s.Hash)
		}
		if err != nil {
			return false, err
		}
	}
	return cur == root, nil
}
