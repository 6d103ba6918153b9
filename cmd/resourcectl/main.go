// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// resourcectl is a standalone command for exercising a resource.Factory
// against a directory of files: load one or more resources, print a
// manifest of everything currently live, optionally export that
// manifest as CBOR, and optionally mount a read-only introspection
// filesystem over the live table via lib/resourcefs.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/resourcefactory/lib/resource"
	"github.com/bureau-foundation/resourcefactory/lib/resourceconfig"
	"github.com/bureau-foundation/resourcefactory/lib/resourcefs"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var resourcePath string
	var get []string
	var manifestOut string
	var mount bool

	flagSet := pflag.NewFlagSet("resourcectl", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to a resourceconfig YAML file (overrides RESOURCEFACTORY_CONFIG)")
	flagSet.StringVar(&resourcePath, "resource-path", "", "resource root directory (overrides config)")
	flagSet.StringArrayVar(&get, "get", nil, "load a resource by name; may be repeated")
	flagSet.StringVar(&manifestOut, "manifest-cbor", "", "write a CBOR-encoded manifest snapshot to this path")
	flagSet.BoolVar(&mount, "mount", false, "mount the introspection filesystem at the configured mountpoint and block")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if resourcePath != "" {
		cfg.Factory.ResourcePath = resourcePath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	flags := resource.Flags(0)
	if cfg.Factory.ReloadSupport {
		flags |= resource.ReloadSupport
	}

	factory, err := resource.NewFactory(resource.Config{
		ResourcePath:     cfg.Factory.ResourcePath,
		MaxResources:     cfg.Factory.MaxResources,
		Flags:            flags,
		StreamBufferSize: cfg.Factory.StreamBufferSize,
	})
	if err != nil {
		return fmt.Errorf("creating factory: %w", err)
	}
	defer factory.Close()

	registerBuiltinCodecs(factory)

	for _, name := range get {
		if _, err := factory.Get(name); err != nil {
			if errors.Is(err, resource.ErrResourceNotFound) {
				fmt.Fprintf(os.Stderr, "resourcectl: %v\n", err)
				return &ExitError{Code: 2}
			}
			return fmt.Errorf("loading %s: %w", name, err)
		}
	}

	manifest := factory.Manifest()
	encoded, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	fmt.Println(string(encoded))

	if manifestOut != "" {
		data, err := resource.EncodeManifestCBOR(manifest)
		if err != nil {
			return fmt.Errorf("encoding manifest as CBOR: %w", err)
		}
		if err := os.WriteFile(manifestOut, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", manifestOut, err)
		}
	}

	if mount {
		return runMount(factory, cfg.Mount.Mountpoint)
	}
	return nil
}

func loadConfig(configPath string) (*resourceconfig.Config, error) {
	if configPath != "" {
		return resourceconfig.LoadFile(configPath)
	}
	if os.Getenv("RESOURCEFACTORY_CONFIG") != "" {
		return resourceconfig.Load()
	}
	return resourceconfig.Default(), nil
}

func runMount(factory *resource.Factory, mountpoint string) error {
	server, err := resourcefs.Mount(resourcefs.Options{
		Mountpoint: mountpoint,
		Factory:    factory,
	})
	if err != nil {
		return err
	}
	defer server.Unmount()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "resourcectl: load and inspect resources through a resource factory")
	fmt.Fprintln(os.Stderr)
	flagSet.PrintDefaults()
}
