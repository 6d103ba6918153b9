// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package resourcefs exposes a resource.Factory's live Resource Table
// as a read-only FUSE filesystem: one file per loaded resource, named
// after its canonical path with leading slashes stripped and every
// remaining "/" replaced by "_", containing a JSON dump of its
// manifest entry. It exists purely for operator
// introspection — the factory never reads anything back from the
// mount.
package resourcefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/bureau-foundation/resourcefactory/lib/resource"
	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// Options configures the FUSE mount.
type Options struct {
	// Mountpoint is the directory where the filesystem is mounted.
	Mountpoint string

	// Factory is the resource.Factory whose live table is exposed.
	// It must have been created with resource.ReloadSupport, since
	// the mount reports canonical paths that only the Name Index
	// retains.
	Factory *resource.Factory

	// AllowOther permits other users (including root) to access the
	// mount. Requires user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Logger receives diagnostic messages. If nil, a handler that
	// writes errors to stderr is used.
	Logger *slog.Logger
}

// entryEntry pairs a manifest entry's JSON encoding with the file name
// it is exposed under (its canonical path with leading slashes
// stripped and other "/" replaced by "_", since FUSE entry names
// cannot contain "/").
type entryEntry struct {
	name string
	data []byte
}

// Mount mounts the introspection filesystem at the configured
// mountpoint. The caller must call Unmount on the returned Server when
// done. The mountpoint directory is created if it does not exist.
//
// The directory listing and each lookup are computed from a fresh
// Factory.Manifest() call, so they follow the live table (subject to
// the kernel's entry and attribute cache timeouts). A file's contents
// are captured when it is looked up.
func Mount(options Options) (*fuse.Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if options.Factory == nil {
		return nil, fmt.Errorf("factory is required")
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelError,
		}))
	}

	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", options.Mountpoint, err)
	}

	root := &rootNode{options: &options}

	entryTimeout := 1 * time.Second
	attrTimeout := 1 * time.Second
	negativeTimeout := 100 * time.Millisecond

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout:    &entryTimeout,
		AttrTimeout:     &attrTimeout,
		NegativeTimeout: &negativeTimeout,
		MountOptions: fuse.MountOptions{
			FsName:     "resourcefactory",
			Name:       "resourcefactory",
			AllowOther: options.AllowOther,
			Options:    []string{"ro"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting FUSE filesystem at %s: %w", options.Mountpoint, err)
	}

	options.Logger.Info("resource introspection filesystem mounted", "mountpoint", options.Mountpoint)
	return server, nil
}

// rootNode is the filesystem root: a flat directory of one file per
// live resource.
type rootNode struct {
	gofuse.Inode
	options *Options
}

var _ gofuse.InodeEmbedder = (*rootNode)(nil)
var _ gofuse.NodeLookuper = (*rootNode)(nil)
var _ gofuse.NodeReaddirer = (*rootNode)(nil)

func (r *rootNode) entries() []entryEntry {
	manifest := r.options.Factory.Manifest()
	out := make([]entryEntry, 0, len(manifest.Entries))
	for _, e := range manifest.Entries {
		name := strings.TrimLeft(e.Path, "/")
		name = strings.ReplaceAll(name, "/", "_")
		if name == "" {
			continue
		}
		data, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			r.options.Logger.Warn("marshal descriptor failed", "path", e.Path, "error", err)
			continue
		}
		out = append(out, entryEntry{name: name, data: data})
	}
	return out
}

func (r *rootNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	for _, e := range r.entries() {
		if e.name != name {
			continue
		}
		node := &descriptorNode{data: e.data}
		child := r.NewPersistentInode(ctx, node, gofuse.StableAttr{Mode: syscall.S_IFREG})
		out.Mode = syscall.S_IFREG | 0o444
		out.Size = uint64(len(e.data))
		return child, 0
	}
	return nil, syscall.ENOENT
}

func (r *rootNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	entries := r.entries()
	out := make([]fuse.DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, fuse.DirEntry{Name: e.name, Mode: syscall.S_IFREG})
	}
	return &sliceDirStream{entries: out}, 0
}

// descriptorNode is a single read-only file holding one resource's
// JSON-encoded descriptor, captured at Lookup time.
type descriptorNode struct {
	gofuse.Inode
	data []byte
}

var _ gofuse.InodeEmbedder = (*descriptorNode)(nil)
var _ gofuse.NodeGetattrer = (*descriptorNode)(nil)
var _ gofuse.NodeOpener = (*descriptorNode)(nil)
var _ gofuse.NodeReader = (*descriptorNode)(nil)

func (d *descriptorNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFREG | 0o444
	out.Size = uint64(len(d.data))
	return 0
}

func (d *descriptorNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return nil, 0, syscall.EROFS
	}
	return nil, fuse.FOPEN_KEEP_CACHE, 0
}

func (d *descriptorNode) Read(ctx context.Context, f gofuse.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	if off < 0 || off >= int64(len(d.data)) {
		return fuse.ReadResultData(nil), 0
	}
	end := off + int64(len(dest))
	if end > int64(len(d.data)) {
		end = int64(len(d.data))
	}
	return fuse.ReadResultData(d.data[off:end]), 0
}

// sliceDirStream implements fs.DirStream from a slice of entries.
type sliceDirStream struct {
	entries []fuse.DirEntry
	index   int
}

func (s *sliceDirStream) HasNext() bool {
	return s.index < len(s.entries)
}

func (s *sliceDirStream) Next() (fuse.DirEntry, syscall.Errno) {
	if s.index >= len(s.entries) {
		return fuse.DirEntry{}, syscall.EINVAL
	}
	entry := s.entries[s.index]
	s.index++
	return entry, 0
}

func (s *sliceDirStream) Close() {}
