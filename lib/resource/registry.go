// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import "fmt"

// MaxResourceTypes bounds the type registry. The set of codecs is
// built once at startup, so a linear scan over this many entries is
// cheap relative to any I/O the factory does.
const MaxResourceTypes = 128

// TypeID identifies a registered codec. It is stable for the lifetime
// of the Factory that issued it and equal across every descriptor
// produced by the same codec. Unlike the reference implementation,
// which encodes the type token as a truncated registry-entry address,
// TypeID is the entry's index in the registry — a stable, portable
// value with no aliasing risk.
type TypeID uint32

// CreateFunc decodes data (the file's raw or decompressed bytes) into
// a payload. name is the original, uncanonicalized resource name
// passed to Get, useful for codecs that want to report errors with
// the caller's own spelling. A non-nil error aborts the load; the
// factory never inserts a descriptor for a failed create.
type CreateFunc func(factory *Factory, context any, data []byte, name string) (payload any, err error)

// DestroyFunc releases codec-internal state associated with a
// descriptor. It runs while the descriptor is still present in every
// index, so it may call back into the factory to look up other live
// resources if needed. Its return value, if any, is not part of the
// factory's error contract.
type DestroyFunc func(factory *Factory, context any, descriptor Descriptor)

// RecreateFunc refreshes payload in place from newly read data when
// its backing file's modification time has advanced. Implementations
// must mutate state reachable through payload rather than returning a
// new value — outstanding references to payload held by callers must
// remain valid after Recreate returns. A codec with no RecreateFunc
// cannot participate in ReloadType.
type RecreateFunc func(factory *Factory, context any, data []byte, payload any, name string) error

type registryEntry struct {
	extension string
	context   any
	create    CreateFunc
	destroy   DestroyFunc
	recreate  RecreateFunc
}

type registry struct {
	entries []registryEntry
}

func newRegistry() *registry {
	return &registry{entries: make([]registryEntry, 0, 16)}
}

func (r *registry) register(extension string, context any, create CreateFunc, destroy DestroyFunc, recreate RecreateFunc) (TypeID, error) {
	if len(r.entries) >= MaxResourceTypes {
		return 0, fmt.Errorf("registering %q: %w", extension, ErrOutOfResources)
	}
	if _, ok := r.findByExtension(extension); ok {
		return 0, fmt.Errorf("registering %q: %w", extension, ErrAlreadyRegistered)
	}

	r.entries = append(r.entries, registryEntry{
		extension: extension,
		context:   context,
		create:    create,
		destroy:   destroy,
		recreate:  recreate,
	})
	return TypeID(len(r.entries) - 1), nil
}

func (r *registry) findByExtension(extension string) (TypeID, bool) {
	for i := range r.entries {
		if r.entries[i].extension == extension {
			return TypeID(i), true
		}
	}
	return 0, false
}

func (r *registry) entry(id TypeID) (registryEntry, bool) {
	if int(id) < 0 || int(id) >= len(r.entries) {
		return registryEntry{}, false
	}
	return r.entries[id], true
}

func (r *registry) extensionOf(id TypeID) (string, bool) {
	entry, ok := r.entry(id)
	if !ok {
		return "", false
	}
	return entry.extension, true
}
