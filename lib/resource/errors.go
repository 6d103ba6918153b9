// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import "errors"

// Errors returned at the factory API boundary. Every error a caller
// can observe wraps one of these sentinels, so callers should compare
// with errors.Is rather than matching error strings.
var (
	// ErrInvalid indicates a malformed argument to RegisterType (an
	// extension containing "." or a missing create/destroy capability).
	ErrInvalid = errors.New("resource: invalid argument")

	// ErrAlreadyRegistered indicates RegisterType was called twice for
	// the same extension.
	ErrAlreadyRegistered = errors.New("resource: extension already registered")

	// ErrOutOfResources indicates the type registry is at capacity.
	ErrOutOfResources = errors.New("resource: type registry is full")

	// ErrResourceNotFound indicates the backing file could not be
	// opened or stat'd.
	ErrResourceNotFound = errors.New("resource: file not found")

	// ErrIO indicates a read failure distinct from the file being
	// absent (a short read, a permission error mid-read, etc).
	ErrIO = errors.New("resource: i/o error")

	// ErrMissingFileExtension indicates the requested name contains no
	// "." at all. The extension is whatever follows the last "." in the
	// whole name, so a "." in a directory component counts.
	ErrMissingFileExtension = errors.New("resource: name has no file extension")

	// ErrUnknownResourceType indicates no codec is registered for the
	// requested extension.
	ErrUnknownResourceType = errors.New("resource: no codec registered for extension")

	// ErrStreamBufferTooSmall indicates the file (or its decompressed
	// form) does not fit in the factory's stream buffer.
	ErrStreamBufferTooSmall = errors.New("resource: file too large for stream buffer")

	// ErrNotLoaded indicates GetDescriptor, Acquire, Release, or
	// GetType was called with a name or payload the factory has no
	// record of.
	ErrNotLoaded = errors.New("resource: not loaded")

	// ErrPathTooLong indicates a canonicalized path would exceed
	// MaxPathLength. The reference implementation silently truncates
	// here; this factory reports the error instead (see DESIGN.md).
	ErrPathTooLong = errors.New("resource: canonical path too long")

	// ErrUnsupported indicates ReloadType was called on a factory
	// created without the ReloadSupport flag.
	ErrUnsupported = errors.New("resource: reload support not enabled")

	// ErrNoRecreate indicates ReloadType was called for a type whose
	// codec did not supply a Recreate capability.
	ErrNoRecreate = errors.New("resource: codec does not support reload")
)
