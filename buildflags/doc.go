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

// Package buildflags maps user-facing build options onto CMake cache
// definitions.
//
// A [Registry] is a fixed table of [Definition] values, one per [Flag]. It is
// built once at startup and never mutated, so it can be shared freely. Each
// build invocation resolves its own command-line tokens into a fresh
// [Selection]:
//
//	reg := buildflags.DefaultRegistry()
//	sel, err := reg.Resolve([]string{"--shared=ON", "build-type=Release"})
//	if err != nil {
//	    return err // *UnknownFlagError or *InvalidValueError
//	}
//	sel.Map() // map[BUILD_SHARED_LIBS:ON CMAKE_BUILD_TYPE:Release]
//
// A Selection only ever holds keys from its registry with values from the
// matching legal set. [Selection.Select] either applies fully or leaves the
// selection untouched.
package buildflags
