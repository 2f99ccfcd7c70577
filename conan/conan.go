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

// Package conan installs manifest requirements with the conan package
// manager and points cmake at the toolchain it generates.
package conan

import (
	"context"
	"path/filepath"

	"github.com/cowdogmoo/nekobuild/errors"
	"github.com/cowdogmoo/nekobuild/logging"
	"github.com/cowdogmoo/nekobuild/manifest"
	"github.com/cowdogmoo/nekobuild/runner"
)

// DefaultCommand is the package manager binary used when none is configured.
const DefaultCommand = "conan"

// ToolchainFileName is the toolchain conan's CMakeToolchain generator writes.
const ToolchainFileName = "conan_toolchain.cmake"

// ToolchainKey is the cmake cache entry that loads the toolchain.
const ToolchainKey = "CMAKE_TOOLCHAIN_FILE"

// DefaultGenerators are passed with -g on every install.
var DefaultGenerators = []string{"CMakeDeps", "CMakeToolchain"}

// InstallOptions describe one install.
type InstallOptions struct {
	BuildDir     string
	BuildType    string
	Requirements []manifest.Requirement
}

// Installer runs conan install.
type Installer struct {
	Command      string
	BuildMissing bool
	Runner       runner.Runner
}

// NewInstaller returns an Installer using command, or DefaultCommand.
func NewInstaller(command string, buildMissing bool, r runner.Runner) *Installer {
	if command == "" {
		command = DefaultCommand
	}
	return &Installer{Command: command, BuildMissing: buildMissing, Runner: r}
}

// ToolchainFile returns the toolchain path for buildDir.
func ToolchainFile(buildDir string) string {
	return filepath.Join(buildDir, ToolchainFileName)
}

// InstallCommand renders
//
//	conan install --requires=<ref>... --output-folder <build> [--build=missing] [-s build_type=<T>] -g CMakeDeps -g CMakeToolchain
func (i *Installer) InstallCommand(opts InstallOptions) runner.Command {
	args := []string{"install"}
	for _, req := range opts.Requirements {
		args = append(args, "--requires="+req.String())
	}
	args = append(args, "--output-folder", opts.BuildDir)
	if i.BuildMissing {
		args = append(args, "--build=missing")
	}
	if opts.BuildType != "" {
		args = append(args, "-s", "build_type="+opts.BuildType)
	}
	for _, g := range DefaultGenerators {
		args = append(args, "-g", g)
	}
	return runner.Command{Name: i.Command, Args: args}
}

// Install runs conan for opts.Requirements and returns the cmake
// definitions needed to consume them. With no requirements nothing runs and
// the returned command and definitions are nil.
func (i *Installer) Install(ctx context.Context, opts InstallOptions) (*runner.Command, map[string]string, error) {
	if len(opts.Requirements) == 0 {
		logging.DebugContext(ctx, "No package requirements, skipping %s", i.Command)
		return nil, nil, nil
	}

	logging.InfoContext(ctx, "Installing %d package(s) with %s", len(opts.Requirements), i.Command)
	cmd := i.InstallCommand(opts)
	if err := i.Runner.Run(ctx, cmd); err != nil {
		return &cmd, nil, errors.Wrap("install packages", i.Command, err)
	}

	return &cmd, map[string]string{ToolchainKey: ToolchainFile(opts.BuildDir)}, nil
}
