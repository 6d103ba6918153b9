// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"time"

	"github.com/bureau-foundation/resourcefactory/lib/codec"
)

// ManifestEntry is one resource's exported state, keyed by its
// canonical path (populated only when the Name Index is enabled — see
// Manifest).
type ManifestEntry struct {
	Path     string    `cbor:"path"`
	Type     string    `cbor:"type"`
	RefCount int       `cbor:"ref_count"`
	ModTime  time.Time `cbor:"mod_time"`
}

// Manifest is a point-in-time export of every resource a Factory
// currently holds live. It exists for introspection tooling
// (cmd/resourcectl, lib/resourcefs) — the factory itself never reads
// one back in.
type Manifest struct {
	GeneratedAt time.Time       `cbor:"generated_at"`
	Entries     []ManifestEntry `cbor:"entries"`
}

// Manifest snapshots every live resource. Path is only populated for
// factories created with ReloadSupport, since the Name Index is the
// only place the factory retains canonical path strings; without it
// Path is left empty and the entry does not identify its file.
func (f *Factory) Manifest() Manifest {
	m := Manifest{GeneratedAt: f.clock.Now()}
	for _, hash := range f.table.sortedHashes() {
		rec, ok := f.table.get(hash)
		if !ok {
			continue
		}
		ext, _ := f.registry.extensionOf(rec.desc.Type)
		m.Entries = append(m.Entries, ManifestEntry{
			Path:     rec.filename,
			Type:     ext,
			RefCount: rec.desc.RefCount,
			ModTime:  rec.desc.ModTime,
		})
	}
	return m
}

// EncodeManifestCBOR encodes m using the project's standard CBOR
// configuration (Core Deterministic Encoding — see lib/codec).
func EncodeManifestCBOR(m Manifest) ([]byte, error) {
	return codec.Marshal(m)
}

// DecodeManifestCBOR decodes a manifest previously produced by
// EncodeManifestCBOR.
func DecodeManifestCBOR(data []byte) (Manifest, error) {
	var m Manifest
	err := codec.Unmarshal(data, &m)
	return m, err
}
