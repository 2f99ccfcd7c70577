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

// Package builder runs a complete nekobuild build: it merges flag defaults
// with the command-line selection, stages project files, records a build
// snapshot, installs packages and drives cmake.
package builder

import (
	"context"

	"github.com/cowdogmoo/nekobuild/buildflags"
	"github.com/cowdogmoo/nekobuild/buildinfo"
	"github.com/cowdogmoo/nekobuild/cmake"
	"github.com/cowdogmoo/nekobuild/conan"
	"github.com/cowdogmoo/nekobuild/logging"
	"github.com/cowdogmoo/nekobuild/manifest"
	"github.com/cowdogmoo/nekobuild/runner"
	"github.com/cowdogmoo/nekobuild/stage"
)

// Stager copies manifest stage entries into the build directory.
type Stager interface {
	Stage(ctx context.Context, sourceDir, buildDir string, entries []manifest.StageEntry) ([]stage.File, error)
}

// Snapshotter records the build environment.
type Snapshotter interface {
	Record(ctx context.Context, path string, in buildinfo.Input) (*buildinfo.Snapshot, error)
}

// PackageInstaller installs requirements and returns the extra cmake
// definitions needed to consume them.
type PackageInstaller interface {
	Install(ctx context.Context, opts conan.InstallOptions) (*runner.Command, map[string]string, error)
}

// Toolchain configures and builds a cmake project.
type Toolchain interface {
	Configure(ctx context.Context, opts cmake.ConfigureOptions) (runner.Command, error)
	Build(ctx context.Context, opts cmake.BuildOptions) (runner.Command, error)
}

// Request describes one build.
type Request struct {
	SourceDir string
	BuildDir  string
	Generator string
	Jobs      int
	Target    string
	ExtraArgs []string

	// Defaults come from the global config; Manifest defaults override
	// them and Selection overrides both. Any of the three may be nil.
	Defaults  *buildflags.Selection
	Manifest  *manifest.Manifest
	Selection *buildflags.Selection

	SkipPackages bool
	SkipSnapshot bool
	// SnapshotPath is relative to BuildDir unless absolute.
	SnapshotPath string
	// ConfigureOnly stops after the configure step.
	ConfigureOnly bool
}

// Result reports what a build did.
type Result struct {
	Definitions  map[string]string `json:"definitions" yaml:"definitions"`
	Staged       []stage.File      `json:"staged,omitempty" yaml:"staged,omitempty"`
	SnapshotPath string            `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	Commands     []runner.Command  `json:"commands" yaml:"commands"`
}

// FileStager adapts stage.Stager to the Stager interface.
type FileStager struct {
	Concurrency int
}

// Stage copies entries from sourceDir into buildDir.
func (f FileStager) Stage(ctx context.Context, sourceDir, buildDir string, entries []manifest.StageEntry) ([]stage.File, error) {
	s := stage.New(sourceDir, buildDir)
	s.Concurrency = f.Concurrency
	return s.Stage(ctx, entries)
}

// PlanStager resolves stage entries without copying anything. It backs
// dry runs.
type PlanStager struct{}

// Stage returns the copies that would be made.
func (PlanStager) Stage(ctx context.Context, sourceDir, buildDir string, entries []manifest.StageEntry) ([]stage.File, error) {
	files := stage.New(sourceDir, buildDir).Plan(entries)
	for _, f := range files {
		logging.InfoContext(ctx, "[dry-run] copy %s -> %s", f.Source, f.Destination)
	}
	return files, nil
}
