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

package cli

// BuildCLIOptions defines command-line options for the build command.
//
// BuildCLIOptions captures options provided by the user via CLI flags
// and arguments. These are validated before being passed to the build logic.
type BuildCLIOptions struct {
	// SourceDir is the project directory holding CMakeLists.txt.
	SourceDir string

	// BuildDir is the cmake binary directory.
	BuildDir string

	// Generator selects the cmake generator (e.g., "Ninja").
	Generator string

	// Jobs is the parallel build level; zero lets cmake decide.
	Jobs int

	// Target builds a single cmake target instead of the default one.
	Target string

	// FlagArgs are the build flag tokens (shared=ON, --build-type Release).
	FlagArgs []string

	// DryRun prints the external commands instead of running them.
	DryRun bool

	// SkipPackages skips the package manager step.
	SkipPackages bool

	// SkipSnapshot skips writing the environment snapshot.
	SkipSnapshot bool

	// ConfigureOnly stops after cmake configure.
	ConfigureOnly bool
}

// Output formats accepted by the resolve and flags commands.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCMake = "cmake"
)
