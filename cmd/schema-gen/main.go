/*
Copyright © 2025 Jayson Grace <jayson.e.grace@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package main generates a JSON schema for nekobuild.toml project manifests.
// The generated schema enables editor completion and validation through
// taplo or any other TOML language server that understands JSON schema.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/cowdogmoo/nekobuild/buildflags"
	"github.com/cowdogmoo/nekobuild/config"
	"github.com/cowdogmoo/nekobuild/manifest"
)

var (
	output = flag.String("o", "schema/nekobuild-manifest.json", "Output path for JSON schema")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	reflector := jsonschema.Reflector{
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		FieldNameTag:               "toml",
		RequiredFromJSONSchemaTags: true,
	}

	// Type-level descriptions come from the Go sources when run from the
	// repository root; field descriptions come from struct tags.
	if err := reflector.AddGoComments("github.com/cowdogmoo/nekobuild", "./"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to extract type-level comments: %v\n", err)
	}

	schema := reflector.Reflect(&manifest.Manifest{})

	schema.ID = jsonschema.ID("https://nekobuild.dev/schema/manifest.json")
	schema.Title = "nekobuild manifest"
	schema.Description = "Schema for nekobuild.toml project manifests"

	// Restrict [defaults] to registered build flags and their legal values.
	reg := buildflags.DefaultRegistry()
	if defaults, ok := schema.Properties.Get("defaults"); ok && defaults != nil {
		defaults.PropertyNames = &jsonschema.Schema{Enum: toAny(reg.Names())}
		defaults.AdditionalProperties = nil
		defaults.Properties = jsonschema.NewProperties()
		for _, def := range reg.Definitions() {
			defaults.Properties.Set(def.Name, &jsonschema.Schema{
				Type:        "string",
				Enum:        toAny(def.Values),
				Description: def.Description,
			})
		}
	}

	if schema.Extras == nil {
		schema.Extras = make(map[string]interface{})
	}
	schema.Extras["buildFlags"] = reg.Names()

	schema.Examples = []interface{}{
		map[string]interface{}{
			"name":     "NekoEngine",
			"requires": []string{"nlohmann_json/3.11.2", "fmt/[>=10.0, <11]"},
			"defaults": map[string]interface{}{
				"shared":     buildflags.Off,
				"build-type": buildflags.BuildTypeDebug,
			},
			"stage": []interface{}{
				map[string]interface{}{
					"source":      "data/configs/MangoHud.conf",
					"destination": "MangoHud.conf",
				},
			},
		},
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	dir := filepath.Dir(*output)
	if err := os.MkdirAll(dir, config.DirPermReadWriteExec); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Append newline to satisfy end-of-file-fixer
	data = append(data, '\n')

	if err := os.WriteFile(*output, data, config.FilePermReadWrite); err != nil {
		return fmt.Errorf("failed to write schema file: %w", err)
	}

	fmt.Printf("✓ Generated JSON schema: %s\n", *output)
	return nil
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
