// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package resourceconfig provides configuration loading for resource
// factory hosts (cmd/resourcectl and any long-running process
// embedding lib/resource).
//
// Configuration is loaded from a single file specified by:
//   - RESOURCEFACTORY_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
//
// The config file may contain environment-specific sections
// (development, staging, production) that override base values when
// the environment matches.
package resourceconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for a resource factory host.
type Config struct {
	// Environment identifies the deployment type (development,
	// staging, production).
	Environment Environment `yaml:"environment"`

	// Factory configures the resource.Factory itself.
	Factory FactoryConfig `yaml:"factory"`

	// Mount configures the optional read-only introspection
	// filesystem (lib/resourcefs).
	Mount MountConfig `yaml:"mount"`

	// EnvironmentOverrides contains per-environment overrides. These
	// are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per
// environment.
type ConfigOverrides struct {
	Factory *FactoryConfig `yaml:"factory,omitempty"`
	Mount   *MountConfig   `yaml:"mount,omitempty"`
}

// FactoryConfig configures a resource.Factory's construction
// parameters. Field names mirror resource.Config so LoadFile's output
// maps onto it directly.
type FactoryConfig struct {
	// ResourcePath is the root directory resources are resolved
	// against.
	ResourcePath string `yaml:"resource_path"`

	// MaxResources sizes the factory's internal indices.
	// Default: 1024.
	MaxResources int `yaml:"max_resources"`

	// ReloadSupport enables the Name Index and ReloadType.
	// Default: true.
	ReloadSupport bool `yaml:"reload_support"`

	// StreamBufferSize sizes the single reusable read buffer, in
	// bytes. Default: 4194304 (4 MiB).
	StreamBufferSize int `yaml:"stream_buffer_size"`
}

// MountConfig configures the optional FUSE introspection mount.
type MountConfig struct {
	// Enabled turns the mount on. Default: false.
	Enabled bool `yaml:"enabled"`

	// Mountpoint is the directory resourcefs is mounted at.
	Mountpoint string `yaml:"mountpoint"`
}

// Default returns the default configuration. LoadFile uses it as the
// base before loading the config file, so fields the file omits keep
// these values. This package never substitutes it for a missing config
// file; cmd/resourcectl uses it as-is when given neither --config nor
// RESOURCEFACTORY_CONFIG.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultRoot := filepath.Join(homeDir, ".cache", "resourcefactory")

	return &Config{
		Environment: Development,
		Factory: FactoryConfig{
			ResourcePath:     defaultRoot,
			MaxResources:     1024,
			ReloadSupport:    true,
			StreamBufferSize: 4 * 1024 * 1024,
		},
		Mount: MountConfig{
			Enabled:    false,
			Mountpoint: filepath.Join(defaultRoot, "mount"),
		},
	}
}

// Load loads configuration from the RESOURCEFACTORY_CONFIG environment
// variable.
//
// This is the only way to load configuration without an explicit
// path. There are no fallbacks or defaults — if RESOURCEFACTORY_CONFIG
// is not set, this fails. This ensures deterministic, auditable
// configuration with no hidden overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("RESOURCEFACTORY_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("RESOURCEFACTORY_CONFIG environment variable not set; " +
			"set it to the path of your config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment
// variables do not override config values — this ensures
// deterministic, auditable configuration. The only expansion
// performed is ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		if overrides == nil {
			// Production hosts default to a smaller, tighter buffer
			// than the interactive development default.
			overrides = &ConfigOverrides{
				Factory: &FactoryConfig{
					StreamBufferSize: 1 * 1024 * 1024,
				},
			}
		} else if overrides.Factory == nil || overrides.Factory.StreamBufferSize == 0 {
			// The same production buffer default applies when a
			// production section exists but leaves the size unset.
			c.Factory.StreamBufferSize = 1 * 1024 * 1024
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Factory != nil {
		if overrides.Factory.ResourcePath != "" {
			c.Factory.ResourcePath = overrides.Factory.ResourcePath
		}
		if overrides.Factory.MaxResources != 0 {
			c.Factory.MaxResources = overrides.Factory.MaxResources
		}
		if overrides.Factory.StreamBufferSize != 0 {
			c.Factory.StreamBufferSize = overrides.Factory.StreamBufferSize
		}
		// ReloadSupport is a bool, so it is always applied from
		// overrides when the override section is present at all.
		c.Factory.ReloadSupport = overrides.Factory.ReloadSupport
	}

	if overrides.Mount != nil {
		c.Mount.Enabled = overrides.Mount.Enabled
		if overrides.Mount.Mountpoint != "" {
			c.Mount.Mountpoint = overrides.Mount.Mountpoint
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"RESOURCE_ROOT": c.Factory.ResourcePath,
		"HOME":          os.Getenv("HOME"),
	}

	c.Factory.ResourcePath = expandVars(c.Factory.ResourcePath, vars)
	vars["RESOURCE_ROOT"] = c.Factory.ResourcePath
	c.Mount.Mountpoint = expandVars(c.Mount.Mountpoint, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Factory.ResourcePath == "" {
		errs = append(errs, fmt.Errorf("factory.resource_path is required"))
	}
	if c.Factory.MaxResources <= 0 {
		errs = append(errs, fmt.Errorf("factory.max_resources must be positive"))
	}
	if c.Factory.StreamBufferSize <= 0 {
		errs = append(errs, fmt.Errorf("factory.stream_buffer_size must be positive"))
	}
	if c.Mount.Enabled && c.Mount.Mountpoint == "" {
		errs = append(errs, fmt.Errorf("mount.mountpoint is required when mount.enabled is true"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// EnsurePaths creates the resource root and, if enabled, the mount
// directory.
func (c *Config) EnsurePaths() error {
	paths := []string{c.Factory.ResourcePath}
	if c.Mount.Enabled {
		paths = append(paths, c.Mount.Mountpoint)
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
