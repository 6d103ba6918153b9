// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import "testing"

func TestTableInsertGetRemove(t *testing.T) {
	tbl := newTable(4, true)
	payload := new(int)
	desc := Descriptor{NameHash: 42, Payload: payload, Type: 0, RefCount: 1}
	tbl.insert(42, desc, "/data/mesh.bin")

	rec, ok := tbl.get(42)
	if !ok {
		t.Fatal("expected record to be present after insert")
	}
	if rec.filename != "/data/mesh.bin" {
		t.Errorf("filename = %q, want /data/mesh.bin", rec.filename)
	}

	hash, ok := tbl.hashOfPayload(payload)
	if !ok || hash != 42 {
		t.Fatalf("hashOfPayload = (%v, %v), want (42, true)", hash, ok)
	}

	tbl.remove(42)
	if _, ok := tbl.get(42); ok {
		t.Fatal("expected record to be gone after remove")
	}
	if _, ok := tbl.hashOfPayload(payload); ok {
		t.Fatal("expected reverse index entry to be gone after remove")
	}
}

func TestTableNameIndexDisabled(t *testing.T) {
	tbl := newTable(4, false)
	tbl.insert(1, Descriptor{Payload: new(int)}, "/data/mesh.bin")
	rec, ok := tbl.get(1)
	if !ok {
		t.Fatal("expected record to be present")
	}
	if rec.filename != "" {
		t.Errorf("filename = %q, want empty when Name Index is disabled", rec.filename)
	}
}

func TestTableSortedHashesAscending(t *testing.T) {
	tbl := newTable(4, false)
	for _, h := range []uint64{30, 10, 20} {
		tbl.insert(h, Descriptor{Payload: new(int)}, "")
	}
	got := tbl.sortedHashes()
	want := []uint64{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("len(sortedHashes()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sortedHashes()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestTableLen(t *testing.T) {
	tbl := newTable(4, false)
	if tbl.len() != 0 {
		t.Fatalf("len() = %d, want 0", tbl.len())
	}
	tbl.insert(1, Descriptor{Payload: new(int)}, "")
	if tbl.len() != 1 {
		t.Fatalf("len() = %d, want 1", tbl.len())
	}
}
