// Package drift detects divergence between the recorded enum state and
// what a database actually holds. Each side is hashed into a merkle tree
// whose leaves are individual enums, so a root comparison answers "any
// drift?" cheaply and the leaf hashes identify which enums diverged.
package drift

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/cbergoon/merkletree"

	"github.com/hlop3z/enumig/internal/enerr"
)

// StateHash is the merkle root over a set of enums plus the per-enum leaf
// hashes for drill-down.
type StateHash struct {
	Root  string
	Enums map[string]string
}

// enumContent implements merkletree.Content for one enum leaf.
type enumContent struct {
	name string
	hash string
}

func (c enumContent) CalculateHash() ([]byte, error) {
	h := sha256.Sum256([]byte(c.name + "=" + c.hash))
	return h[:], nil
}

func (c enumContent) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(enumContent)
	if !ok {
		return false, nil
	}
	return c.name == o.name && c.hash == o.hash, nil
}

// ComputeStateHash hashes a name-to-values mapping. Enum names are sorted
// so the root is deterministic; value order matters within an enum because
// declared types are ordered.
func ComputeStateHash(enums map[string][]string) (*StateHash, error) {
	result := &StateHash{Enums: make(map[string]string, len(enums))}

	if len(enums) == 0 {
		result.Root = emptyHash()
		return result, nil
	}

	names := make([]string, 0, len(enums))
	for name := range enums {
		names = append(names, name)
	}
	sort.Strings(names)

	var contents []merkletree.Content
	for _, name := range names {
		leaf := hashValues(enums[name])
		result.Enums[name] = leaf
		contents = append(contents, enumContent{name: name, hash: leaf})
	}

	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return nil, enerr.Wrap(enerr.ErrDriftDetected, err, "failed to build merkle tree")
	}
	result.Root = hex.EncodeToString(tree.MerkleRoot())
	return result, nil
}

// hashValues hashes an ordered value list with a length-prefixed encoding
// so ["ab","c"] and ["a","bc"] cannot collide.
func hashValues(values []string) string {
	h := sha256.New()
	for _, v := range values {
		var lenBuf [4]byte
		n := len(v)
		lenBuf[0] = byte(n >> 24)
		lenBuf[1] = byte(n >> 16)
		lenBuf[2] = byte(n >> 8)
		lenBuf[3] = byte(n)
		h.Write(lenBuf[:])
		h.Write([]byte(v))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func emptyHash() string {
	h := sha256.Sum256(nil)
	return hex.EncodeToString(h[:])
}
