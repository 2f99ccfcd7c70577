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

package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Requirement is a package reference of the form name/version, where version
// is either an exact semantic version ("3.11.2") or a bracketed range
// ("[>=10.0 <11]").
type Requirement struct {
	Name       string
	Version    *semver.Version
	Constraint *semver.Constraints

	// raw keeps the version text as written so ranges render unchanged.
	raw string
}

// ParseRequirement parses a package reference.
func ParseRequirement(ref string) (Requirement, error) {
	ref = strings.TrimSpace(ref)
	name, version, ok := strings.Cut(ref, "/")
	if !ok || name == "" || version == "" {
		return Requirement{}, fmt.Errorf("invalid requirement %q: want name/version", ref)
	}
	if strings.ContainsAny(name, " \t@[]") {
		return Requirement{}, fmt.Errorf("invalid requirement %q: bad package name", ref)
	}

	req := Requirement{Name: name, raw: version}

	if strings.HasPrefix(version, "[") {
		if !strings.HasSuffix(version, "]") {
			return Requirement{}, fmt.Errorf("invalid requirement %q: unterminated version range", ref)
		}
		c, err := semver.NewConstraint(strings.TrimSuffix(strings.TrimPrefix(version, "["), "]"))
		if err != nil {
			return Requirement{}, fmt.Errorf("invalid requirement %q: %w", ref, err)
		}
		req.Constraint = c
		return req, nil
	}

	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return Requirement{}, fmt.Errorf("invalid requirement %q: %w", ref, err)
	}
	req.Version = v
	return req, nil
}

// IsRange reports whether the requirement pins a range instead of a version.
func (r Requirement) IsRange() bool {
	return r.Constraint != nil
}

// Satisfies reports whether version meets the requirement.
func (r Requirement) Satisfies(version string) (bool, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", version, err)
	}
	if r.Constraint != nil {
		return r.Constraint.Check(v), nil
	}
	if r.Version == nil {
		return false, nil
	}
	return r.Version.Equal(v), nil
}

// String renders the reference in the form the package manager expects.
func (r Requirement) String() string {
	if r.raw != "" {
		return r.Name + "/" + r.raw
	}
	if r.Version != nil {
		return r.Name + "/" + r.Version.Original()
	}
	if r.Constraint != nil {
		return r.Name + "/[" + r.Constraint.String() + "]"
	}
	return r.Name
}
