// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bureau-foundation/resourcefactory/lib/clock"
	"github.com/bureau-foundation/resourcefactory/lib/pathhash"
)

// Flags configures optional Factory behavior.
type Flags uint8

const (
	// ReloadSupport enables the Name Index and ReloadType. Without it,
	// ReloadType always fails with ErrUnsupported.
	ReloadSupport Flags = 1 << iota
)

// Config are the parameters NewFactory needs. Zero values fall back to
// the same defaults as the reference implementation.
type Config struct {
	// ResourcePath is the root directory every Get and ReloadType
	// resolves names against. A path of MaxPathLength bytes or more
	// makes NewFactory fail with ErrPathTooLong.
	ResourcePath string

	// MaxResources sizes the factory's internal indices. Defaults to
	// 1024. The factory does not hard-cap the number of live
	// resources at this value — it is capacity hint, not a limit.
	MaxResources int

	// Flags is a bitset of the Flags constants above.
	Flags Flags

	// StreamBufferSize sizes the single reusable read buffer.
	// Defaults to DefaultStreamBufferSize (4 MiB).
	StreamBufferSize int
}

// Option customizes a Factory beyond its Config.
type Option func(*Factory)

// WithLogger sets the logger the factory reports warnings to (stat
// failures, oversized files, codec create failures). Defaults to a
// handler that writes warnings and errors to stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) { f.logger = logger }
}

// WithClock sets the clock used to stamp Manifest snapshots. Defaults
// to clock.Real(). Tests inject clock.Fake() for deterministic
// GeneratedAt values.
func WithClock(c clock.Clock) Option {
	return func(f *Factory) { f.clock = c }
}

// Factory is a reference-counted resource cache rooted at a single
// filesystem directory. See the package doc for the overall model. A
// Factory is not safe for concurrent use — the model is single
// threaded, matching spec §5.
type Factory struct {
	root          string
	registry      *registry
	table         *table
	buffer        *streamBuffer
	reloadSupport bool
	logger        *slog.Logger
	clock         clock.Clock
}

// NewFactory creates a Factory rooted at config.ResourcePath.
func NewFactory(config Config, opts ...Option) (*Factory, error) {
	if len(config.ResourcePath) >= MaxPathLength {
		return nil, fmt.Errorf("resource path %q: %w", config.ResourcePath, ErrPathTooLong)
	}
	if config.MaxResources <= 0 {
		config.MaxResources = 1024
	}
	if config.StreamBufferSize <= 0 {
		config.StreamBufferSize = DefaultStreamBufferSize
	}

	reloadSupport := config.Flags&ReloadSupport != 0

	f := &Factory{
		root:          config.ResourcePath,
		registry:      newRegistry(),
		table:         newTable(config.MaxResources, reloadSupport),
		buffer:        newStreamBuffer(config.StreamBufferSize),
		reloadSupport: reloadSupport,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	if f.clock == nil {
		f.clock = clock.Real()
	}
	return f, nil
}

// Close releases the factory's own resources (its stream buffer and
// indices). It does not invoke Destroy on any resource still live at
// the time of the call — like the reference implementation, closing a
// factory with outstanding descriptors leaks their codec payloads.
// This is documented, not accidental: the factory has no way to know
// whether a payload is still reachable from game state.
func (f *Factory) Close() error {
	f.buffer = nil
	f.table = nil
	return nil
}

// RegisterType adds a codec for extension (given without a leading
// dot). The registry is append-only for the lifetime of the factory —
// once a resource of a given type is live, its codec can never be
// removed out from under it (spec invariant 4).
func (f *Factory) RegisterType(extension string, context any, create CreateFunc, destroy DestroyFunc, recreate RecreateFunc) (TypeID, error) {
	if strings.Contains(extension, ".") {
		return 0, fmt.Errorf("registering %q: %w", extension, ErrInvalid)
	}
	if create == nil || destroy == nil {
		return 0, fmt.Errorf("registering %q: %w", extension, ErrInvalid)
	}
	return f.registry.register(extension, context, create, destroy, recreate)
}

// Get loads name, canonicalized against the factory's root, returning
// its payload. A second Get for the same canonical path returns the
// same payload and increments its reference count instead of
// reloading and re-decoding the file.
func (f *Factory) Get(name string) (any, error) {
	path, err := Canonicalize(f.root, name)
	if err != nil {
		return nil, err
	}
	hash := pathhash.Hash(path)

	if rec, ok := f.table.get(hash); ok {
		rec.desc.RefCount++
		return rec.desc.Payload, nil
	}

	ext, present := extensionOf(name)
	if !present {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingFileExtension)
	}

	id, ok := f.registry.findByExtension(ext)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownResourceType)
	}
	entry, _ := f.registry.entry(id)

	data, mtime, err := f.buffer.load(path)
	if err != nil {
		return nil, f.wrapLoadError(path, err)
	}

	payload, err := entry.create(f, entry.context, data, name)
	if err != nil {
		f.logger.Warn("resource create failed", "name", name, "error", err)
		return nil, fmt.Errorf("create %s: %w", name, err)
	}

	desc := Descriptor{
		NameHash: hash,
		Payload:  payload,
		Type:     id,
		RefCount: 1,
		ModTime:  mtime,
	}
	f.table.insert(hash, desc, path)
	return payload, nil
}

func (f *Factory) wrapLoadError(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		f.logger.Warn("resource not found", "path", path)
		return fmt.Errorf("%s: %w", path, ErrResourceNotFound)
	case errors.Is(err, errStreamBufferTooSmall):
		f.logger.Error("resource too large for stream buffer", "path", path)
		return fmt.Errorf("%s: %w", path, ErrStreamBufferTooSmall)
	default:
		return fmt.Errorf("%s: %w", path, errors.Join(ErrIO, err))
	}
}

// Acquire increments the reference count of an already-loaded payload.
// It fails with ErrNotLoaded if payload did not come from this
// factory's reverse index.
func (f *Factory) Acquire(payload any) error {
	hash, ok := f.table.hashOfPayload(payload)
	if !ok {
		return ErrNotLoaded
	}
	rec, _ := f.table.get(hash)
	rec.desc.RefCount++
	return nil
}

// Release decrements payload's reference count. When it reaches zero,
// the owning codec's Destroy is invoked while the descriptor is still
// present in every index, and only then are its entries removed.
func (f *Factory) Release(payload any) error {
	hash, ok := f.table.hashOfPayload(payload)
	if !ok {
		return ErrNotLoaded
	}
	rec, _ := f.table.get(hash)
	rec.desc.RefCount--
	if rec.desc.RefCount > 0 {
		return nil
	}

	entry, _ := f.registry.entry(rec.desc.Type)
	entry.destroy(f, entry.context, rec.desc)
	f.table.remove(hash)
	return nil
}

// GetDescriptor returns a copy of the stored descriptor for name. The
// copy means the caller cannot mutate the live reference count through
// the returned value.
func (f *Factory) GetDescriptor(name string) (Descriptor, error) {
	path, err := Canonicalize(f.root, name)
	if err != nil {
		return Descriptor{}, err
	}
	rec, ok := f.table.get(pathhash.Hash(path))
	if !ok {
		return Descriptor{}, fmt.Errorf("%s: %w", name, ErrNotLoaded)
	}
	return rec.desc, nil
}

// GetType returns the codec identity that produced payload.
func (f *Factory) GetType(payload any) (TypeID, error) {
	hash, ok := f.table.hashOfPayload(payload)
	if !ok {
		return 0, ErrNotLoaded
	}
	rec, _ := f.table.get(hash)
	return rec.desc.Type, nil
}

// GetTypeFromExtension returns the TypeID registered for extension.
func (f *Factory) GetTypeFromExtension(extension string) (TypeID, error) {
	id, ok := f.registry.findByExtension(extension)
	if !ok {
		return 0, fmt.Errorf("%s: %w", extension, ErrUnknownResourceType)
	}
	return id, nil
}

// GetExtensionFromType returns the extension a TypeID was registered
// under.
func (f *Factory) GetExtensionFromType(id TypeID) (string, error) {
	ext, ok := f.registry.extensionOf(id)
	if !ok {
		return "", ErrUnknownResourceType
	}
	return ext, nil
}

// ReloadType re-reads every live resource of the given type whose
// backing file's modification time has advanced since it was loaded
// or last reloaded, invoking the codec's Recreate in place so
// outstanding references remain valid. It requires the factory to
// have been created with ReloadSupport, and the type's codec to have
// supplied a RecreateFunc.
//
// ReloadType stops and returns the first error it encounters,
// matching the reference implementation's eager-return
// ReloadTypeCallback; resources after the failing one in iteration
// order are left unreloaded.
func (f *Factory) ReloadType(id TypeID) error {
	if !f.reloadSupport {
		return ErrUnsupported
	}
	entry, ok := f.registry.entry(id)
	if !ok {
		return ErrUnknownResourceType
	}
	if entry.recreate == nil {
		return ErrNoRecreate
	}

	for _, hash := range f.table.sortedHashes() {
		rec, ok := f.table.get(hash)
		if !ok || rec.desc.Type != id {
			continue
		}

		mtime, err := statResolved(rec.filename)
		if err != nil {
			f.logger.Warn("reload stat failed", "path", rec.filename, "error", err)
			return fmt.Errorf("%s: %w", rec.filename, ErrResourceNotFound)
		}
		if mtime.Equal(rec.desc.ModTime) {
			continue
		}

		data, mtime, err := f.buffer.load(rec.filename)
		if err != nil {
			return f.wrapLoadError(rec.filename, err)
		}

		if err := entry.recreate(f, entry.context, data, rec.desc.Payload, rec.filename); err != nil {
			f.logger.Warn("resource recreate failed", "path", rec.filename, "error", err)
			return fmt.Errorf("recreate %s: %w", rec.filename, err)
		}
		rec.desc.ModTime = mtime
	}
	return nil
}
