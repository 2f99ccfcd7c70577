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
	"maps"
	"sort"
)

// Selection accumulates the chosen value for each build key during one
// invocation. It is not safe for concurrent use; each invocation owns its
// own selection.
type Selection struct {
	reg    *Registry
	values map[string]string
}

// Select validates value against the definition registered under name and
// records it for the definition's build key, replacing any previous value.
// On error the selection is left unchanged.
func (s *Selection) Select(name, value string) error {
	def, err := s.reg.Lookup(name)
	if err != nil {
		return err
	}
	if !def.Allows(value) {
		return &InvalidValueError{Flag: def.Name, Value: value, Allowed: def.Values}
	}
	s.values[def.Key] = value
	return nil
}

// SelectFlag is Select keyed by Flag constant.
func (s *Selection) SelectFlag(f Flag, value string) error {
	def, ok := s.reg.LookupFlag(f)
	if !ok {
		return &UnknownFlagError{Name: f.String()}
	}
	return s.Select(def.Name, value)
}

// Get returns the value chosen for a build key.
func (s *Selection) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of build keys with a chosen value.
func (s *Selection) Len() int {
	return len(s.values)
}

// Keys returns the selected build keys in sorted order.
func (s *Selection) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the build key to value mapping.
func (s *Selection) Map() map[string]string {
	return maps.Clone(s.values)
}

// Equal reports whether both selections hold the same keys and values.
func (s *Selection) Equal(other *Selection) bool {
	if s == nil || other == nil {
		return s == other
	}
	return maps.Equal(s.values, other.values)
}

// Clone returns an independent copy of the selection.
func (s *Selection) Clone() *Selection {
	return &Selection{reg: s.reg, values: maps.Clone(s.values)}
}

// Overlay returns a new selection holding the values of s with every value
// of top applied over them. Neither input is modified. Values from a
// selection bound to a different registry are revalidated against ours.
func (s *Selection) Overlay(top *Selection) (*Selection, error) {
	out := s.Clone()
	if top == nil {
		return out, nil
	}
	if top.reg == s.reg {
		maps.Copy(out.values, top.values)
		return out, nil
	}
	for _, key := range top.Keys() {
		def, ok := s.reg.LookupKey(key)
		if !ok {
			return nil, &UnknownFlagError{Name: key}
		}
		if err := out.Select(def.Name, top.values[key]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Registry returns the registry the selection validates against.
func (s *Selection) Registry() *Registry {
	return s.reg
}

// Pairs returns "KEY=VALUE" strings in key order.
func (s *Selection) Pairs() []string {
	keys := s.Keys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+s.values[k])
	}
	return out
}
