// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package resourceconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Factory.MaxResources != 1024 {
		t.Errorf("expected max_resources=1024, got %d", cfg.Factory.MaxResources)
	}
	if !cfg.Factory.ReloadSupport {
		t.Error("expected reload_support=true for development")
	}
	if cfg.Mount.Enabled {
		t.Error("expected mount.enabled=false by default")
	}
}

func TestLoadRequiresEnvVar(t *testing.T) {
	origConfig := os.Getenv("RESOURCEFACTORY_CONFIG")
	defer os.Setenv("RESOURCEFACTORY_CONFIG", origConfig)
	os.Unsetenv("RESOURCEFACTORY_CONFIG")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when RESOURCEFACTORY_CONFIG not set, got nil")
	}

	expectedMsg := "RESOURCEFACTORY_CONFIG environment variable not set"
	if err.Error()[:len(expectedMsg)] != expectedMsg {
		t.Errorf("expected error message to start with %q, got %q", expectedMsg, err.Error())
	}
}

func TestLoadWithEnvVar(t *testing.T) {
	origConfig := os.Getenv("RESOURCEFACTORY_CONFIG")
	defer os.Setenv("RESOURCEFACTORY_CONFIG", origConfig)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "resourcefactory.yaml")

	configContent := `
environment: staging
factory:
  resource_path: /test/resources
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	os.Setenv("RESOURCEFACTORY_CONFIG", configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}
	if cfg.Factory.ResourcePath != "/test/resources" {
		t.Errorf("expected resource_path=/test/resources, got %s", cfg.Factory.ResourcePath)
	}
}

func TestLoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "resourcefactory.yaml")

	configContent := `
environment: staging

factory:
  resource_path: /custom/resources
  max_resources: 256
  reload_support: false
  stream_buffer_size: 2097152

mount:
  enabled: true
  mountpoint: /custom/mount
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Environment != Staging {
		t.Errorf("expected environment=staging, got %s", cfg.Environment)
	}
	if cfg.Factory.ResourcePath != "/custom/resources" {
		t.Errorf("expected resource_path=/custom/resources, got %s", cfg.Factory.ResourcePath)
	}
	if cfg.Factory.MaxResources != 256 {
		t.Errorf("expected max_resources=256, got %d", cfg.Factory.MaxResources)
	}
	if cfg.Factory.ReloadSupport {
		t.Error("expected reload_support=false")
	}
	if cfg.Factory.StreamBufferSize != 2097152 {
		t.Errorf("expected stream_buffer_size=2097152, got %d", cfg.Factory.StreamBufferSize)
	}
	if !cfg.Mount.Enabled {
		t.Error("expected mount.enabled=true")
	}
	if cfg.Mount.Mountpoint != "/custom/mount" {
		t.Errorf("expected mountpoint=/custom/mount, got %s", cfg.Mount.Mountpoint)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "resourcefactory.yaml")

	configContent := `
environment: production

factory:
  resource_path: /default/resources
  stream_buffer_size: 4194304

production:
  factory:
    resource_path: /prod/resources
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Factory.ResourcePath != "/prod/resources" {
		t.Errorf("expected resource_path=/prod/resources, got %s", cfg.Factory.ResourcePath)
	}
	// stream_buffer_size was not repeated in the production override
	// section itself, so the implicit production default kicks in.
	if cfg.Factory.StreamBufferSize != 1*1024*1024 {
		t.Errorf("expected implicit production stream_buffer_size, got %d", cfg.Factory.StreamBufferSize)
	}
}

func TestEnvVarsDoNotOverride(t *testing.T) {
	origRoot := os.Getenv("RESOURCE_ROOT")
	origEnv := os.Getenv("RESOURCEFACTORY_ENVIRONMENT")
	defer func() {
		os.Setenv("RESOURCE_ROOT", origRoot)
		os.Setenv("RESOURCEFACTORY_ENVIRONMENT", origEnv)
	}()

	os.Setenv("RESOURCE_ROOT", "/env/root")
	os.Setenv("RESOURCEFACTORY_ENVIRONMENT", "staging")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "resourcefactory.yaml")

	configContent := `
environment: development
factory:
  resource_path: /file/resources
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Environment != Development {
		t.Errorf("expected environment=development from file, got %s (env vars should not override)", cfg.Environment)
	}
	if cfg.Factory.ResourcePath != "/file/resources" {
		t.Errorf("expected resource_path=/file/resources from file, got %s (env vars should not override)", cfg.Factory.ResourcePath)
	}
}

func TestExpandVars(t *testing.T) {
	tests := []struct {
		input    string
		vars     map[string]string
		expected string
	}{
		{
			input:    "${HOME}/resources",
			vars:     map[string]string{"HOME": "/home/user"},
			expected: "/home/user/resources",
		},
		{
			input:    "${MISSING:-default}",
			vars:     map[string]string{},
			expected: "default",
		},
		{
			input:    "${PRESENT:-default}",
			vars:     map[string]string{"PRESENT": "value"},
			expected: "value",
		},
		{
			input:    "${A}/${B}",
			vars:     map[string]string{"A": "first", "B": "second"},
			expected: "first/second",
		},
		{
			input:    "no variables here",
			vars:     map[string]string{},
			expected: "no variables here",
		},
	}

	for _, tt := range tests {
		result := expandVars(tt.input, tt.vars)
		if result != tt.expected {
			t.Errorf("expandVars(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "invalid environment",
			modify: func(c *Config) {
				c.Environment = "invalid"
			},
			wantErr: true,
		},
		{
			name: "empty resource path",
			modify: func(c *Config) {
				c.Factory.ResourcePath = ""
			},
			wantErr: true,
		},
		{
			name: "non-positive max resources",
			modify: func(c *Config) {
				c.Factory.MaxResources = 0
			},
			wantErr: true,
		},
		{
			name: "mount enabled without mountpoint",
			modify: func(c *Config) {
				c.Mount.Enabled = true
				c.Mount.Mountpoint = ""
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnsurePaths(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Default()
	cfg.Factory.ResourcePath = filepath.Join(tmpDir, "resources")
	cfg.Mount.Enabled = true
	cfg.Mount.Mountpoint = filepath.Join(tmpDir, "mount")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths failed: %v", err)
	}

	for _, path := range []string{cfg.Factory.ResourcePath, cfg.Mount.Mountpoint} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("path %s not created: %v", path, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("path %s is not a directory", path)
		}
	}
}
