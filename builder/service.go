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

package builder

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cowdogmoo/nekobuild/buildflags"
	"github.com/cowdogmoo/nekobuild/buildinfo"
	"github.com/cowdogmoo/nekobuild/cmake"
	"github.com/cowdogmoo/nekobuild/conan"
	"github.com/cowdogmoo/nekobuild/errors"
	"github.com/cowdogmoo/nekobuild/logging"
	"github.com/cowdogmoo/nekobuild/manifest"
	"github.com/cowdogmoo/nekobuild/runner"
)

// DefaultSnapshotPath is where the snapshot goes inside the build directory.
const DefaultSnapshotPath = "configs/Environment.json"

// Service coordinates the build steps. Every collaborator is an interface
// so the pipeline can be exercised without cmake or conan installed.
type Service struct {
	Registry  *buildflags.Registry
	Stager    Stager
	Snapshots Snapshotter
	Packages  PackageInstaller
	Toolchain Toolchain
}

// NewService wires the default collaborators around r. Passing a
// runner.DryRunRunner makes the external steps print instead of run.
func NewService(reg *buildflags.Registry, r runner.Runner, cmakeBinary, conanCommand string, buildMissing bool, version string) *Service {
	return &Service{
		Registry:  reg,
		Stager:    FileStager{},
		Snapshots: buildinfo.NewRecorder(version),
		Packages:  conan.NewInstaller(conanCommand, buildMissing, r),
		Toolchain: cmake.New(cmakeBinary, r),
	}
}

// Definitions merges the request's defaults, manifest defaults and
// selection, later layers winning.
func (s *Service) Definitions(req Request) (*buildflags.Selection, error) {
	merged := s.Registry.NewSelection()

	layers := []*buildflags.Selection{req.Defaults}
	if req.Manifest != nil {
		fromManifest, err := req.Manifest.DefaultSelection(s.Registry)
		if err != nil {
			return nil, err
		}
		layers = append(layers, fromManifest)
	}
	layers = append(layers, req.Selection)

	for _, layer := range layers {
		next, err := merged.Overlay(layer)
		if err != nil {
			return nil, err
		}
		merged = next
	}
	return merged, nil
}

// Run executes the build described by req. The first failing step aborts
// the build; staging failures are always fatal.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.SourceDir == "" || req.BuildDir == "" {
		return nil, fmt.Errorf("source and build directories are required")
	}
	m := req.Manifest
	if m == nil {
		m = &manifest.Manifest{}
	}
	if err := m.Validate(s.Registry); err != nil {
		return nil, err
	}

	sel, err := s.Definitions(req)
	if err != nil {
		return nil, errors.Wrap("resolve build flags", "", err)
	}
	result := &Result{Definitions: sel.Map()}
	for _, pair := range sel.Pairs() {
		logging.DebugContext(ctx, "Definition %s", pair)
	}

	if len(m.Stage) > 0 {
		staged, err := s.Stager.Stage(ctx, req.SourceDir, req.BuildDir, m.Stage)
		if err != nil {
			return nil, errors.Wrap("stage files", req.BuildDir, err)
		}
		result.Staged = staged
	}

	if !req.SkipSnapshot && s.Snapshots != nil {
		path := snapshotPath(req)
		if _, err := s.Snapshots.Record(ctx, path, buildinfo.Input{
			Project:     m.Name,
			SourceDir:   req.SourceDir,
			BuildDir:    req.BuildDir,
			Definitions: result.Definitions,
		}); err != nil {
			return nil, err
		}
		result.SnapshotPath = path
	}

	buildType, _ := sel.Get(flagKey(s.Registry, buildflags.FlagBuildType))

	cmakeDefs := sel.Map()
	if !req.SkipPackages && len(m.Requires) > 0 {
		reqs, err := m.Requirements()
		if err != nil {
			return nil, err
		}
		cmd, extra, err := s.Packages.Install(ctx, conan.InstallOptions{
			BuildDir:     req.BuildDir,
			BuildType:    buildType,
			Requirements: reqs,
		})
		if cmd != nil {
			result.Commands = append(result.Commands, *cmd)
		}
		if err != nil {
			return nil, err
		}
		for k, v := range extra {
			if _, set := cmakeDefs[k]; !set {
				cmakeDefs[k] = v
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfgCmd, err := s.Toolchain.Configure(ctx, cmake.ConfigureOptions{
		SourceDir:   req.SourceDir,
		BuildDir:    req.BuildDir,
		Generator:   req.Generator,
		Definitions: cmakeDefs,
		ExtraArgs:   req.ExtraArgs,
	})
	result.Commands = append(result.Commands, cfgCmd)
	if err != nil {
		return nil, err
	}

	if req.ConfigureOnly {
		logging.InfoContext(ctx, "Configured %s", req.BuildDir)
		return result, nil
	}

	bldCmd, err := s.Toolchain.Build(ctx, cmake.BuildOptions{
		BuildDir: req.BuildDir,
		Config:   buildType,
		Jobs:     req.Jobs,
		Target:   req.Target,
	})
	result.Commands = append(result.Commands, bldCmd)
	if err != nil {
		return nil, err
	}

	logging.InfoContext(ctx, "Build completed in %s", req.BuildDir)
	return result, nil
}

func snapshotPath(req Request) string {
	p := req.SnapshotPath
	if p == "" {
		p = DefaultSnapshotPath
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(req.BuildDir, p)
}

func flagKey(reg *buildflags.Registry, f buildflags.Flag) string {
	def, ok := reg.LookupFlag(f)
	if !ok {
		return ""
	}
	return def.Key
}
