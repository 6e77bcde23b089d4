package merkle

// MerkleProof represents a proof that a leaf is included in the tree.
type MerkleProof struct {
	LeafIndex uint64

	// Leaf is the hash of the leaf being proven
	Leaf [32]byte

	// Proof contains the sibling hashes from leaf to root.
	// proof[0] is the sibling of the leaf, proof[len-1] is a child of the root
	Proof [][32]byte
}
