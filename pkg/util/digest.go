package util

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// Digest summarizes a keyed set of values as a merkle root over sorted leaf hashes,
// so two cycles can be compared by root and diffed by key.
type Digest struct {
	Root   string
	Leaves map[string]string
}

func HashSHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func HashStringSHA256Hex(value string) string {
	return HashSHA256Hex([]byte(value))
}

// NewDigest hashes every key/value pair and folds the leaves, ordered by key, into a root.
func NewDigest(values map[string]string) Digest {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	leaves := make(map[string]string, len(values))
	level := make([]string, 0, len(keys))
	for _, k := range keys {
		h := HashStringSHA256Hex(k + "\x00" + values[k])
		leaves[k] = h
		level = append(level, h)
	}
	return Digest{Root: merkleRoot(level), Leaves: leaves}
}

// Changed returns the sorted keys whose leaves differ between d and prev,
// including keys present in only one of them.
func (d Digest) Changed(prev Digest) []string {
	var changed []string
	for k, h := range d.Leaves {
		if prevHash, ok := prev.Leaves[k]; !ok || prevHash != h {
			changed = append(changed, k)
		}
	}
	for k := range prev.Leaves {
		if _, ok := d.Leaves[k]; !ok {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}

func merkleRoot(level []string) string {
	if len(level) == 0 {
		return HashStringSHA256Hex("")
	}
	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, hashPair(left, right))
		}
		level = next
	}
	return level[0]
}

func hashPair(leftHash, rightHash string) string {
	leftBytes, errLeft := hex.DecodeString(leftHash)
	rightBytes, errRight := hex.DecodeString(rightHash)
	if errLeft != nil || errRight != nil {
		return HashStringSHA256Hex(leftHash + rightHash)
	}
	merged := make([]byte, 0, len(leftBytes)+len(rightBytes))
	merged = append(merged, leftBytes...)
	merged = append(merged, rightBytes...)
	return HashSHA256Hex(merged)
}
