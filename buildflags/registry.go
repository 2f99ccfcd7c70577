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

package buildflags

import (
	"fmt"
	"slices"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxSuggestions caps the "did you mean" list on unknown flags.
const maxSuggestions = 3

// Registry is an immutable table of flag definitions indexed by name.
// It is safe for concurrent use.
type Registry struct {
	defs   []Definition
	byName map[string]int
	byKey  map[string]int
}

// DefaultRegistry returns a registry holding the built-in flags.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(builtinDefinitions())
	if err != nil {
		// The built-in table is fixed; a failure here is a programming error.
		panic(err)
	}
	return reg
}

// NewRegistry validates defs and builds a registry from them. Names and
// keys must be unique, every definition needs at least one legal value and
// an implicit value must itself be legal.
func NewRegistry(defs []Definition) (*Registry, error) {
	reg := &Registry{
		defs:   make([]Definition, 0, len(defs)),
		byName: make(map[string]int, len(defs)),
		byKey:  make(map[string]int, len(defs)),
	}

	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("flag %d has no name", def.Flag)
		}
		if def.Key == "" {
			return nil, fmt.Errorf("flag %q has no build key", def.Name)
		}
		if len(def.Values) == 0 {
			return nil, fmt.Errorf("flag %q has no legal values", def.Name)
		}
		if def.HasImplicit() && !def.Allows(def.Implicit) {
			return nil, fmt.Errorf("flag %q: implicit value %q is not a legal value", def.Name, def.Implicit)
		}
		if _, dup := reg.byName[def.Name]; dup {
			return nil, fmt.Errorf("duplicate flag name %q", def.Name)
		}
		if _, dup := reg.byKey[def.Key]; dup {
			return nil, fmt.Errorf("duplicate build key %q", def.Key)
		}

		def.Values = slices.Clone(def.Values)
		reg.byName[def.Name] = len(reg.defs)
		reg.byKey[def.Key] = len(reg.defs)
		reg.defs = append(reg.defs, def)
	}

	return reg, nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, error) {
	idx, ok := r.byName[name]
	if !ok {
		return Definition{}, &UnknownFlagError{Name: name, Suggestions: r.suggest(name)}
	}
	return r.copyOf(idx), nil
}

// LookupFlag returns the definition for a Flag constant.
func (r *Registry) LookupFlag(f Flag) (Definition, bool) {
	for i, def := range r.defs {
		if def.Flag == f {
			return r.copyOf(i), true
		}
	}
	return Definition{}, false
}

// LookupKey returns the definition that sets the given build key.
func (r *Registry) LookupKey(key string) (Definition, bool) {
	idx, ok := r.byKey[key]
	if !ok {
		return Definition{}, false
	}
	return r.copyOf(idx), true
}

// Definitions returns all definitions in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, len(r.defs))
	for i := range r.defs {
		out[i] = r.copyOf(i)
	}
	return out
}

// Names returns the registered flag names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for _, def := range r.defs {
		names = append(names, def.Name)
	}
	sort.Strings(names)
	return names
}

// NewSelection returns an empty selection bound to this registry.
func (r *Registry) NewSelection() *Selection {
	return &Selection{reg: r, values: map[string]string{}}
}

// Defaults builds a selection from a name to value map, such as the
// defaults section of a config file. Entries are applied in name order so
// the first failure is deterministic.
func (r *Registry) Defaults(values map[string]string) (*Selection, error) {
	sel := r.NewSelection()

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := sel.Select(name, values[name]); err != nil {
			return nil, err
		}
	}
	return sel, nil
}

func (r *Registry) copyOf(idx int) Definition {
	def := r.defs[idx]
	def.Values = slices.Clone(def.Values)
	return def
}

// suggest returns registered names that fuzzily match name, best first.
func (r *Registry) suggest(name string) []string {
	if name == "" {
		return nil
	}

	ranks := fuzzy.RankFindNormalizedFold(name, r.Names())
	if len(ranks) == 0 {
		// Fall back to the reverse direction so that longer typos like
		// "shared-libs" still point at "shared".
		for _, candidate := range r.Names() {
			if fuzzy.MatchNormalizedFold(candidate, name) {
				ranks = append(ranks, fuzzy.Rank{Source: name, Target: candidate})
			}
		}
	}
	sort.Sort(ranks)

	out := make([]string, 0, maxSuggestions)
	for _, rank := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, rank.Target)
	}
	return out
}
