// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"sort"
	"time"
)

// Descriptor is a snapshot of a resource's factory-owned record: its
// identity hash, the payload the codec produced, which codec produced
// it, how many outstanding references exist, and the backing file's
// last-observed modification time. GetDescriptor returns a copy so
// that callers cannot mutate RefCount out from under the factory.
type Descriptor struct {
	NameHash uint64
	Payload  any
	Type     TypeID
	RefCount int
	ModTime  time.Time
}

// record is the table's internal, mutable form of a Descriptor. The
// factory holds one record per live resource; Descriptor snapshots
// are copied out of it.
type record struct {
	desc     Descriptor
	filename string // set only when the Name Index is enabled
}

// table owns the three indices described in spec §2: the Resource
// Table (by name hash), the Reverse Index (by payload), and the Name
// Index (by name hash again, to the canonical path string). All three
// are kept in lockstep by insert and remove — the single-threaded
// model makes this trivially atomic.
type table struct {
	byHash      map[uint64]*record
	byPayload   map[any]uint64
	nameIndexOn bool
}

func newTable(capacity int, nameIndexOn bool) *table {
	return &table{
		byHash:      make(map[uint64]*record, capacity),
		byPayload:   make(map[any]uint64, capacity),
		nameIndexOn: nameIndexOn,
	}
}

func (t *table) get(hash uint64) (*record, bool) {
	rec, ok := t.byHash[hash]
	return rec, ok
}

func (t *table) hashOfPayload(payload any) (uint64, bool) {
	hash, ok := t.byPayload[payload]
	return hash, ok
}

// insert adds a freshly created descriptor to every enabled index.
// filename is stored only when the Name Index is enabled; callers pass
// the canonical path unconditionally and insert ignores it otherwise.
func (t *table) insert(hash uint64, desc Descriptor, filename string) *record {
	rec := &record{desc: desc}
	if t.nameIndexOn {
		rec.filename = filename
	}
	t.byHash[hash] = rec
	t.byPayload[desc.Payload] = hash
	return rec
}

// remove deletes a resource from every index it participates in.
func (t *table) remove(hash uint64) {
	rec, ok := t.byHash[hash]
	if !ok {
		return
	}
	delete(t.byPayload, rec.desc.Payload)
	delete(t.byHash, hash)
}

func (t *table) len() int {
	return len(t.byHash)
}

// sortedHashes returns every hash currently in the table in ascending
// order, giving ReloadType a deterministic iteration order (the
// reference iterates a hash table in its own internal, effectively
// arbitrary order).
func (t *table) sortedHashes() []uint64 {
	hashes := make([]uint64, 0, len(t.byHash))
	for h := range t.byHash {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })
	return hashes
}
