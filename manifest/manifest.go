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

// Package manifest reads the per-project nekobuild.toml file.
//
// A manifest names the project, lists the packages it requires, sets
// project-wide build flag defaults and declares files to stage into the
// build directory before configuring.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cowdogmoo/nekobuild/buildflags"
	"github.com/cowdogmoo/nekobuild/errors"
)

// Filename is the manifest name looked up in a source directory.
const Filename = "nekobuild.toml"

// Manifest is the decoded nekobuild.toml.
type Manifest struct {
	Name     string            `toml:"name" json:"name,omitempty" jsonschema:"description=Project name recorded in the build snapshot"`
	Requires []string          `toml:"requires" json:"requires,omitempty" jsonschema:"description=Package references as name/version or name/[range]"`
	Defaults map[string]string `toml:"defaults" json:"defaults,omitempty" jsonschema:"description=Build flag defaults keyed by flag name"`
	Stage    []StageEntry      `toml:"stage" json:"stage,omitempty" jsonschema:"description=Files copied into the build directory before configuring"`

	// Path is the file the manifest was read from; empty when none existed.
	Path string `toml:"-" json:"-"`
}

// StageEntry is one file to copy. Source is relative to the source
// directory and Destination to the build directory; an empty Destination
// keeps the source's base name.
type StageEntry struct {
	Source      string `toml:"source" json:"source" jsonschema:"required,description=Path relative to the source directory"`
	Destination string `toml:"destination" json:"destination,omitempty" jsonschema:"description=Path relative to the build directory"`
}

// Target returns the destination path relative to the build directory.
func (e StageEntry) Target() string {
	if e.Destination != "" {
		return e.Destination
	}
	return filepath.Base(e.Source)
}

// Load reads and decodes the manifest at path. Unknown keys are rejected.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap("read manifest", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap("parse manifest", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse decodes manifest content.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&m)
	if err != nil {
		return nil, err
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown manifest keys: %s", strings.Join(keys, ", "))
	}
	return &m, nil
}

// Find loads dir/nekobuild.toml. A missing file yields an empty manifest.
func Find(dir string) (*Manifest, error) {
	path := filepath.Join(dir, Filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &Manifest{}, nil
		}
		return nil, errors.Wrap("stat manifest", path, err)
	}
	return Load(path)
}

// Requirements parses every entry of Requires.
func (m *Manifest) Requirements() ([]Requirement, error) {
	reqs := make([]Requirement, 0, len(m.Requires))
	for _, ref := range m.Requires {
		req, err := ParseRequirement(ref)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// DefaultSelection resolves the manifest defaults against reg.
func (m *Manifest) DefaultSelection(reg *buildflags.Registry) (*buildflags.Selection, error) {
	sel, err := reg.Defaults(m.Defaults)
	if err != nil {
		return nil, fmt.Errorf("manifest defaults: %w", err)
	}
	return sel, nil
}

// ValidationError lists every problem found in a manifest.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}
	return "invalid manifest: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.Problems }

// Validate checks requirements, defaults and stage entries. Every problem
// is reported, not just the first, as a *ValidationError.
func (m *Manifest) Validate(reg *buildflags.Registry) error {
	var problems []error

	seen := make(map[string]string, len(m.Requires))
	for _, ref := range m.Requires {
		req, err := ParseRequirement(ref)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		if prev, dup := seen[req.Name]; dup {
			problems = append(problems, fmt.Errorf("package %q required twice (%s, %s)", req.Name, prev, ref))
			continue
		}
		seen[req.Name] = ref
	}

	if _, err := m.DefaultSelection(reg); err != nil {
		problems = append(problems, err)
	}

	targets := make(map[string]int, len(m.Stage))
	for i, entry := range m.Stage {
		if strings.TrimSpace(entry.Source) == "" {
			problems = append(problems, fmt.Errorf("stage[%d]: source is required", i))
			continue
		}
		if !filepath.IsLocal(entry.Source) {
			problems = append(problems, fmt.Errorf("stage[%d]: source %q must stay inside the source directory", i, entry.Source))
		}
		target := entry.Target()
		if !filepath.IsLocal(target) {
			problems = append(problems, fmt.Errorf("stage[%d]: destination %q must stay inside the build directory", i, target))
			continue
		}
		clean := filepath.Clean(target)
		if j, dup := targets[clean]; dup {
			problems = append(problems, fmt.Errorf("stage[%d]: destination %q already used by stage[%d]", i, target, j))
			continue
		}
		targets[clean] = i
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
