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

// Package cmake builds and runs the cmake configure and build invocations.
package cmake

import (
	"context"
	"sort"
	"strconv"

	"github.com/cowdogmoo/nekobuild/errors"
	"github.com/cowdogmoo/nekobuild/runner"
)

// DefaultBinary is used when no cmake path is configured.
const DefaultBinary = "cmake"

// ConfigureOptions describe a configure step.
type ConfigureOptions struct {
	SourceDir   string
	BuildDir    string
	Generator   string
	Definitions map[string]string
	ExtraArgs   []string
}

// BuildOptions describe a build step.
type BuildOptions struct {
	BuildDir string
	// Config selects the configuration for multi-config generators.
	Config string
	Jobs   int
	Target string
}

// CMake drives a cmake binary through a runner.
type CMake struct {
	Binary string
	Runner runner.Runner
}

// New returns a CMake using binary, or DefaultBinary when empty.
func New(binary string, r runner.Runner) *CMake {
	if binary == "" {
		binary = DefaultBinary
	}
	return &CMake{Binary: binary, Runner: r}
}

// ConfigureCommand renders
//
//	cmake -S <src> -B <build> [-G <gen>] -DK=V... [extra...]
//
// with definitions sorted by key.
func (c *CMake) ConfigureCommand(opts ConfigureOptions) runner.Command {
	args := []string{"-S", opts.SourceDir, "-B", opts.BuildDir}
	if opts.Generator != "" {
		args = append(args, "-G", opts.Generator)
	}

	keys := make([]string, 0, len(opts.Definitions))
	for k := range opts.Definitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "-D"+k+"="+opts.Definitions[k])
	}

	args = append(args, opts.ExtraArgs...)
	return runner.Command{Name: c.Binary, Args: args}
}

// BuildCommand renders
//
//	cmake --build <build> [--config <cfg>] [--parallel <n>] [--target <t>]
func (c *CMake) BuildCommand(opts BuildOptions) runner.Command {
	args := []string{"--build", opts.BuildDir}
	if opts.Config != "" {
		args = append(args, "--config", opts.Config)
	}
	if opts.Jobs > 0 {
		args = append(args, "--parallel", strconv.Itoa(opts.Jobs))
	}
	if opts.Target != "" {
		args = append(args, "--target", opts.Target)
	}
	return runner.Command{Name: c.Binary, Args: args}
}

// Configure runs the configure step and returns the command it ran.
func (c *CMake) Configure(ctx context.Context, opts ConfigureOptions) (runner.Command, error) {
	cmd := c.ConfigureCommand(opts)
	if err := c.Runner.Run(ctx, cmd); err != nil {
		return cmd, errors.Wrap("configure", opts.BuildDir, err)
	}
	return cmd, nil
}

// Build runs the build step and returns the command it ran.
func (c *CMake) Build(ctx context.Context, opts BuildOptions) (runner.Command, error) {
	cmd := c.BuildCommand(opts)
	if err := c.Runner.Run(ctx, cmd); err != nil {
		return cmd, errors.Wrap("build", opts.BuildDir, err)
	}
	return cmd, nil
}
