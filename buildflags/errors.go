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
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is.
var (
	ErrUnknownFlag  = errors.New("unknown build flag")
	ErrInvalidValue = errors.New("invalid build flag value")
)

// UnknownFlagError is returned when a flag name is not in the registry.
type UnknownFlagError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownFlagError) Error() string {
	msg := fmt.Sprintf("unknown build flag %q", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// Is matches ErrUnknownFlag.
func (e *UnknownFlagError) Is(target error) bool {
	return target == ErrUnknownFlag
}

// InvalidValueError is returned when a known flag is given a value outside
// its legal set. An empty Value means the flag was given without one.
type InvalidValueError struct {
	Flag    string
	Value   string
	Allowed []string
}

func (e *InvalidValueError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("build flag %q requires a value (allowed: %s)",
			e.Flag, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("invalid value %q for build flag %q (allowed: %s)",
		e.Value, e.Flag, strings.Join(e.Allowed, ", "))
}

// Is matches ErrInvalidValue.
func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}
