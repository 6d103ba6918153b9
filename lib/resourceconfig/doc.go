// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package resourceconfig provides YAML configuration loading for
// resource factory hosts.
//
// Configuration is loaded from a single file specified by either the
// RESOURCEFACTORY_CONFIG environment variable (via [Load]) or a
// --config flag (via [LoadFile]). There are no fallbacks, no
// ~/.config discovery, and no automatic file search. This ensures
// deterministic, auditable configuration with no hidden overrides.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Production defaults to a smaller
// stream buffer than development.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${RESOURCE_ROOT}, and ${VAR:-default} patterns are
// expanded. No other environment variables override config values.
//
// Key exports:
//
//   - [Config] -- master struct with Factory and Mount sections
//   - [Default] -- returns a Config with development defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other resourcefactory packages.
package resourceconfig
