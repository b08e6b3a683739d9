// Package hash computes the xxHash64 digests used to identify generated file content.
package hash

import "github.com/cespare/xxhash/v2"

// Digest computes the xxHash64 of a file's content.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}
