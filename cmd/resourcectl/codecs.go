// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/resourcefactory/lib/resource"
)

// textResource is the payload produced by the "txt" codec: the raw
// file contents as a string, refreshed in place on reload.
type textResource struct {
	Content string
}

// jsonResource is the payload produced by the "json" codec: a decoded
// document, refreshed in place on reload.
type jsonResource struct {
	Document any
}

// registerBuiltinCodecs wires the two example codecs resourcectl ships
// with. Real hosts register their own game- or application-specific
// codecs the same way, via factory.RegisterType.
func registerBuiltinCodecs(factory *resource.Factory) {
	mustRegister(factory, "txt",
		func(_ *resource.Factory, _ any, data []byte, _ string) (any, error) {
			return &textResource{Content: string(data)}, nil
		},
		func(*resource.Factory, any, resource.Descriptor) {},
		func(_ *resource.Factory, _ any, data []byte, payload any, _ string) error {
			payload.(*textResource).Content = string(data)
			return nil
		},
	)

	mustRegister(factory, "json",
		func(_ *resource.Factory, _ any, data []byte, name string) (any, error) {
			var doc any
			if err := json.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("decoding %s: %w", name, err)
			}
			return &jsonResource{Document: doc}, nil
		},
		func(*resource.Factory, any, resource.Descriptor) {},
		func(_ *resource.Factory, _ any, data []byte, payload any, name string) error {
			var doc any
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("decoding %s: %w", name, err)
			}
			payload.(*jsonResource).Document = doc
			return nil
		},
	)
}

func mustRegister(factory *resource.Factory, extension string, create resource.CreateFunc, destroy resource.DestroyFunc, recreate resource.RecreateFunc) {
	if _, err := factory.RegisterType(extension, nil, create, destroy, recreate); err != nil {
		panic(fmt.Sprintf("resourcectl: registering %q codec: %v", extension, err))
	}
}
