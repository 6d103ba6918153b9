// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"time"
)

// DefaultStreamBufferSize matches the reference implementation's
// default: 4 MiB.
const DefaultStreamBufferSize = 4 * 1024 * 1024

// errStreamBufferTooSmall is the internal sentinel streamBuffer.load
// returns; Get and ReloadType wrap it as ErrStreamBufferTooSmall with
// the offending path attached.
var errStreamBufferTooSmall = errors.New("stream buffer too small")

// streamBuffer is the factory's single reusable byte buffer. Every
// load() call overwrites its contents; the returned slice is a view
// into the buffer and is only valid until the next call.
type streamBuffer struct {
	data []byte
}

func newStreamBuffer(size int) *streamBuffer {
	if size <= 0 {
		size = DefaultStreamBufferSize
	}
	return &streamBuffer{data: make([]byte, size)}
}

// load reads path into the buffer, transparently decompressing it if
// path itself is absent but a compressed sibling (path+".lz4" or
// path+".zst") exists. It returns a NUL-terminated view of the file
// contents (one byte past the returned slice is always 0, for codecs
// that expect a C-style string) and the backing file's modification
// time.
func (b *streamBuffer) load(path string) ([]byte, time.Time, error) {
	if info, err := os.Stat(path); err == nil {
		return b.loadRaw(path, info)
	} else if !os.IsNotExist(err) {
		return nil, time.Time{}, err
	}

	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		compressedPath := path + compressionSuffix(tag)
		info, err := os.Stat(compressedPath)
		if err != nil {
			continue
		}
		return b.loadCompressed(compressedPath, tag, info)
	}

	return nil, time.Time{}, os.ErrNotExist
}

func (b *streamBuffer) loadRaw(path string, info os.FileInfo) ([]byte, time.Time, error) {
	size := info.Size()
	// One byte is reserved for the NUL terminator, matching the
	// reference's "extra byte for resources expecting null-terminated
	// strings" reservation.
	if size+1 >= int64(len(b.data)) {
		return nil, time.Time{}, errStreamBufferTooSmall
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer file.Close()

	if _, err := io.ReadFull(file, b.data[:size]); err != nil {
		return nil, time.Time{}, err
	}
	b.data[size] = 0
	return b.data[:size], info.ModTime(), nil
}

func (b *streamBuffer) loadCompressed(path string, tag CompressionTag, info os.FileInfo) ([]byte, time.Time, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	if len(raw) < 8 {
		return nil, time.Time{}, errors.New("compressed resource: truncated header")
	}

	uncompressedSize := binary.LittleEndian.Uint64(raw[:8])
	if int64(uncompressedSize)+1 >= int64(len(b.data)) {
		return nil, time.Time{}, errStreamBufferTooSmall
	}

	decompressed, err := Decompress(raw[8:], tag, int(uncompressedSize))
	if err != nil {
		return nil, time.Time{}, err
	}

	n := copy(b.data, decompressed)
	b.data[n] = 0
	return b.data[:n], info.ModTime(), nil
}

// statResolved resolves path's current modification time through the
// same raw/compressed-sibling search load uses, without reading file
// contents. ReloadType uses this instead of a bare os.Stat so a
// resource loaded from a compressed sibling is checked against the
// sibling that is actually on disk, not the raw path that never
// existed in the first place.
func statResolved(path string) (time.Time, error) {
	if info, err := os.Stat(path); err == nil {
		return info.ModTime(), nil
	} else if !os.IsNotExist(err) {
		return time.Time{}, err
	}

	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		if info, err := os.Stat(path + compressionSuffix(tag)); err == nil {
			return info.ModTime(), nil
		}
	}

	return time.Time{}, os.ErrNotExist
}

func compressionSuffix(tag CompressionTag) string {
	switch tag {
	case CompressionLZ4:
		return ".lz4"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// EncodeCompressedSibling writes a compressed sibling file for path in
// the on-disk format streamBuffer.loadCompressed expects: an 8-byte
// little-endian uncompressed size followed by the compressed payload.
// It is for preparing compressed resources (this repository's own
// tests use it); the factory itself only ever reads this format.
func EncodeCompressedSibling(path string, data []byte, tag CompressionTag) error {
	compressed, err := Compress(data, tag)
	if err != nil {
		return err
	}

	out := make([]byte, 8+len(compressed))
	binary.LittleEndian.PutUint64(out[:8], uint64(len(data)))
	copy(out[8:], compressed)

	return os.WriteFile(path+compressionSuffix(tag), out, 0o644)
}
