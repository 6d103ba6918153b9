// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pathhash provides the 64-bit content-independent string hash
// used as resource identity throughout lib/resource. The factory
// treats collision behavior as a given property of the primitive, not
// a design concern of its own.
package pathhash

import "github.com/zeebo/blake3"

// Hash returns a 64-bit hash of s, derived from the low 8 bytes of its
// BLAKE3 digest. Two distinct strings collide with negligible
// probability; canonicalized paths that differ only in unresolved
// "." or ".." segments, or in symlink targets, are NOT considered
// equal by this function — path identity is purely lexical (see
// [resource.Canonicalize]).
func Hash(s string) uint64 {
	digest := blake3.Sum256([]byte(s))
	var h uint64
	for i := 0; i < 8; i++ {
		h = h<<8 | uint64(digest[i])
	}
	return h
}
