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

import "strings"

// Resolve turns command-line tokens into a fresh selection.
//
// Accepted forms:
//
//	--name=value   name=value    attached value
//	--name value                 next token is the value
//	--name         name          the flag's implicit value
//
// A lone "--" is ignored. With no tokens the result is an empty selection.
// The first invalid token aborts resolution and no selection is returned.
func (r *Registry) Resolve(argv []string) (*Selection, error) {
	sel := r.NewSelection()

	for i := 0; i < len(argv); i++ {
		tok := argv[i]
		if tok == "--" {
			continue
		}

		name, value, hasValue, dashed := splitToken(tok)
		def, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}

		if !hasValue {
			var next string
			if i+1 < len(argv) {
				next = argv[i+1]
			}
			switch {
			case dashed && next != "" && def.Allows(next):
				value = next
				i++
			case def.HasImplicit():
				value = def.Implicit
			case dashed && next != "" && !looksLikeFlag(next):
				value = next
				i++
			default:
				return nil, &InvalidValueError{Flag: def.Name, Allowed: def.Values}
			}
		}

		if err := sel.Select(def.Name, value); err != nil {
			return nil, err
		}
	}

	return sel, nil
}

// splitToken separates a token into flag name and optional value.
func splitToken(tok string) (name, value string, hasValue, dashed bool) {
	if rest, ok := strings.CutPrefix(tok, "--"); ok {
		tok = rest
		dashed = true
	}
	name, value, hasValue = strings.Cut(tok, "=")
	return strings.TrimSpace(name), strings.TrimSpace(value), hasValue, dashed
}

func looksLikeFlag(tok string) bool {
	return strings.HasPrefix(tok, "-") || strings.Contains(tok, "=")
}
