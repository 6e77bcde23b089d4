package merkle

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// OutputsTreeHeight is the height of the application outputs tree. Proofs for
// on-chain execution carry exactly this many siblings.
const OutputsTreeHeight = 63

// VerifyProof verifies that a leaf is included in the merkle tree with the given root.
func VerifyProof(proof *MerkleProof, root [32]byte) bool {
	if proof == nil {
		return false
	}
	return ComputeRoot(proof.Leaf, proof.LeafIndex, proof.Proof) == root
}

// ComputeRoot folds siblings into the root committed to by a leaf at index. Bit i of
// index tells whether the node is the right child at level i.
func ComputeRoot(leaf [32]byte, index uint64, siblings [][32]byte) [32]byte {
	current := leaf
	for level, sibling := range siblings {
		if (index>>uint(level))&1 == 0 {
			current = hashPair(current, sibling)
		} else {
			current = hashPair(sibling, current)
		}
	}
	return current
}

// HashOutput is the leaf hash of an encoded output.
func HashOutput(output []byte) [32]byte {
	return [32]byte(crypto.Keccak256Hash(output))
}

// hashPair computes keccak256(left || right) for two 32-byte hashes.
func hashPair(left, right [32]byte) [32]byte {
	data := make([]byte, 64)
	copy(data[0:32], left[:])
	copy(data[32:64], right[:])

	return [32]byte(crypto.Keccak256Hash(data))
}
