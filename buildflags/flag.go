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
	"slices"
	"strings"
)

// Flag enumerates the build options the tool understands.
type Flag int

// Recognized flags. The zero value is deliberately invalid.
const (
	FlagInvalid Flag = iota
	FlagShared
	FlagBuildType
	FlagPositionIndependent
	FlagCompileCommands
	FlagUnityBuild
)

// Build types accepted by CMAKE_BUILD_TYPE.
const (
	BuildTypeDebug          = "Debug"
	BuildTypeRelease        = "Release"
	BuildTypeRelWithDebInfo = "RelWithDebInfo"
	BuildTypeMinSizeRel     = "MinSizeRel"
)

// Toggle values for boolean CMake options.
const (
	On  = "ON"
	Off = "OFF"
)

// String returns the user-facing name of the flag.
func (f Flag) String() string {
	switch f {
	case FlagShared:
		return "shared"
	case FlagBuildType:
		return "build-type"
	case FlagPositionIndependent:
		return "pic"
	case FlagCompileCommands:
		return "compile-commands"
	case FlagUnityBuild:
		return "unity-build"
	default:
		return "invalid"
	}
}

// Definition describes one flag: its name, the CMake cache key it sets and
// the values it may take.
type Definition struct {
	Flag        Flag
	Name        string
	Key         string
	Values      []string
	Implicit    string // value used when the flag is given without one
	Description string
}

// Allows reports whether value is in the legal set.
func (d Definition) Allows(value string) bool {
	return slices.Contains(d.Values, value)
}

// HasImplicit reports whether the flag may be given without a value.
func (d Definition) HasImplicit() bool {
	return d.Implicit != ""
}

// AllowedString renders the legal values for messages and listings.
func (d Definition) AllowedString() string {
	return strings.Join(d.Values, ", ")
}

func toggle(f Flag, key, description string) Definition {
	return Definition{
		Flag:        f,
		Name:        f.String(),
		Key:         key,
		Values:      []string{On, Off},
		Implicit:    On,
		Description: description,
	}
}

// builtinDefinitions returns the flag table compiled into the binary.
// A fresh slice is returned on every call.
func builtinDefinitions() []Definition {
	return []Definition{
		toggle(FlagShared, "BUILD_SHARED_LIBS", "Build shared instead of static libraries"),
		{
			Flag: FlagBuildType,
			Name: FlagBuildType.String(),
			Key:  "CMAKE_BUILD_TYPE",
			Values: []string{
				BuildTypeDebug,
				BuildTypeRelease,
				BuildTypeRelWithDebInfo,
				BuildTypeMinSizeRel,
			},
			Description: "Build configuration for single-config generators",
		},
		toggle(FlagPositionIndependent, "CMAKE_POSITION_INDEPENDENT_CODE", "Compile position independent code"),
		toggle(FlagCompileCommands, "CMAKE_EXPORT_COMPILE_COMMANDS", "Write compile_commands.json"),
		toggle(FlagUnityBuild, "CMAKE_UNITY_BUILD", "Batch sources into unity translation units"),
	}
}
