// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"fmt"
	"strings"
)

// MaxPathLength bounds a canonicalized path, including the space a C
// caller would reserve for a terminator. The reference implementation
// enforces the same bound on its fixed 1024-byte buffer.
const MaxPathLength = 1024

// Canonicalize joins root and relative with a single "/" and collapses
// any run of consecutive "/" characters into one, keeping the first
// slash of each run. It performs no "." or ".." resolution and never
// touches the filesystem — canonicalization is purely lexical so it
// can serve as a stable identity before a file exists or without
// paying for a stat call.
//
// Two textually distinct paths that happen to name the same file (a
// symlink, or two roots with different spellings) canonicalize to two
// different identities and are cached as two separate resources. This
// is a known limitation carried over from the reference design.
func Canonicalize(root, relative string) (string, error) {
	joined := root + "/" + relative
	if len(joined) >= MaxPathLength {
		return "", fmt.Errorf("%q + %q: %w", root, relative, ErrPathTooLong)
	}

	var b strings.Builder
	b.Grow(len(joined))
	sawSlash := false
	for i := 0; i < len(joined); i++ {
		c := joined[i]
		if c == '/' {
			if sawSlash {
				continue
			}
			sawSlash = true
		} else {
			sawSlash = false
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

// extensionOf reports the substring after the last "." in name and
// whether a "." was present at all. Matches the reference's use of
// strrchr on the caller-supplied name, not the canonicalized path: a
// trailing dot with nothing after it (e.g. "file.") yields an empty
// but present extension, which later fails lookup as an unknown
// resource type rather than a missing extension.
func extensionOf(name string) (ext string, present bool) {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return "", false
	}
	return name[i+1:], true
}
