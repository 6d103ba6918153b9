// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package resource implements a reference-counted asset factory: an
// in-memory cache that loads named files from a filesystem root,
// dispatches decoding to extension-registered codecs, tracks live
// references, and supports hot-reload of already-loaded resources
// whose backing files have changed.
//
// A [Factory] combines four pieces:
//
//   - Canonicalization ([Canonicalize]) turns a (root, name) pair into
//     a stable identity string with no filesystem calls involved.
//   - A codec registry ([Factory.RegisterType]) maps file extensions to
//     create/destroy/recreate capabilities supplied by callers.
//   - A resource table indexed three ways: by canonical-path hash (for
//     [Factory.Get] and [Factory.GetDescriptor]), by payload handle
//     (for [Factory.Acquire] and [Factory.Release]), and, when reload
//     support is enabled, by hash again to recover the stored
//     filename (for [Factory.ReloadType]).
//   - A single reusable stream buffer that every load and reload pass
//     reads file contents into before handing them to a codec.
//
// The factory has no concurrency of its own: it is designed for a
// single-threaded caller (a game's main-thread resource system) and
// provides no locking. Codecs must not call back into the factory for
// the resource they are currently creating or destroying.
//
// Payload values returned by codecs must be comparable (in practice,
// pointer types) — they are used as map keys in the factory's reverse
// index.
package resource
