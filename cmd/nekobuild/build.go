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

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cowdogmoo/nekobuild/buildflags"
	"github.com/cowdogmoo/nekobuild/builder"
	"github.com/cowdogmoo/nekobuild/cli"
	"github.com/cowdogmoo/nekobuild/config"
	"github.com/cowdogmoo/nekobuild/logging"
	"github.com/cowdogmoo/nekobuild/manifest"
	"github.com/cowdogmoo/nekobuild/runner"
)

// registerProjectFlags adds the flags that locate a project.
func registerProjectFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("source", "S", "", "Project source directory (default from build.source_dir)")
	cmd.Flags().StringP("build-dir", "B", "", "Build directory, relative to the source directory (default from build.dir)")
	cmd.Flags().String("manifest", "", "Project manifest, relative to the source directory (default nekobuild.toml)")
}

// registerBuildFlags adds the flags of the build itself.
func registerBuildFlags(cmd *cobra.Command) {
	registerProjectFlags(cmd)
	cmd.Flags().StringP("generator", "G", "", "CMake generator (default from build.generator or CMAKE_GENERATOR)")
	cmd.Flags().IntP("jobs", "j", 0, "Parallel build jobs (0 lets cmake decide)")
	cmd.Flags().StringP("target", "t", "", "Build a single target")
	cmd.Flags().String("cmake", "", "Path to the cmake binary")
	cmd.Flags().Bool("dry-run", false, "Print the commands without running them")
	cmd.Flags().Bool("skip-packages", false, "Skip the package install step")
	cmd.Flags().Bool("skip-snapshot", false, "Do not write the environment snapshot")
	cmd.Flags().Bool("configure-only", false, "Stop after cmake configure")
	cmd.Flags().StringP("output", "o", cli.FormatText, "Result format (text, json, yaml)")
	registerRegistryFlags(cmd)
}

// projectPaths returns absolute source and build directories. A relative
// build directory is taken relative to the source directory.
func projectPaths(cfg *config.Config) (string, string, error) {
	src, err := filepath.Abs(cfg.Build.SourceDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve source directory: %w", err)
	}
	build := cfg.Build.Dir
	if !filepath.IsAbs(build) {
		build = filepath.Join(src, build)
	}
	return src, filepath.Clean(build), nil
}

// loadManifest reads the project manifest. The default manifest may be
// absent; one named explicitly must exist.
func loadManifest(cfg *config.Config, sourceDir string) (*manifest.Manifest, error) {
	name := cfg.Build.Manifest
	if name == "" || name == manifest.Filename {
		return manifest.Find(sourceDir)
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(sourceDir, name)
	}
	return manifest.Load(name)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := configFromContext(cmd)
	if cfg == nil {
		return fmt.Errorf("configuration not initialized")
	}

	src, buildDir, err := projectPaths(cfg)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	target, _ := flags.GetString("target")
	dryRun, _ := flags.GetBool("dry-run")
	skipPackages, _ := flags.GetBool("skip-packages")
	skipSnapshot, _ := flags.GetBool("skip-snapshot")
	configureOnly, _ := flags.GetBool("configure-only")
	output, _ := flags.GetString("output")

	opts := cli.BuildCLIOptions{
		SourceDir:     src,
		BuildDir:      buildDir,
		Generator:     cfg.Build.Generator,
		Jobs:          cfg.Build.Jobs,
		Target:        target,
		FlagArgs:      buildFlagArgs(cmd, args),
		DryRun:        dryRun,
		SkipPackages:  skipPackages || !cfg.Packages.Enabled,
		SkipSnapshot:  skipSnapshot || !cfg.Snapshot.Enabled,
		ConfigureOnly: configureOnly,
	}
	validator := cli.NewValidator()
	if err := validator.ValidateBuildOptions(opts); err != nil {
		return err
	}
	if err := validator.ValidateOutputFormat(output, cli.FormatText, cli.FormatJSON, cli.FormatYAML); err != nil {
		return err
	}

	reg := buildflags.DefaultRegistry()
	sel, err := reg.Resolve(opts.FlagArgs)
	if err != nil {
		return err
	}
	defaults, err := reg.Defaults(cfg.Build.Defaults)
	if err != nil {
		return fmt.Errorf("invalid build.defaults in config: %w", err)
	}
	m, err := loadManifest(cfg, src)
	if err != nil {
		return err
	}
	extraArgs, err := cfg.Build.ExtraArgList()
	if err != nil {
		return err
	}

	var r runner.Runner = runner.NewExecRunner()
	if opts.DryRun {
		r = runner.NewDryRunRunner()
	}
	svc := builder.NewService(reg, r, cfg.Build.CMake, cfg.Packages.Command, cfg.Packages.BuildMissing, version)
	if opts.DryRun {
		svc.Stager = builder.PlanStager{}
	}

	if m.Path != "" {
		logging.InfoContext(ctx, "Using manifest %s", m.Path)
	}
	result, err := svc.Run(ctx, builder.Request{
		SourceDir:     opts.SourceDir,
		BuildDir:      opts.BuildDir,
		Generator:     opts.Generator,
		Jobs:          opts.Jobs,
		Target:        opts.Target,
		ExtraArgs:     extraArgs,
		Defaults:      defaults,
		Manifest:      m,
		Selection:     sel,
		SkipPackages:  opts.SkipPackages,
		SkipSnapshot:  opts.SkipSnapshot || opts.DryRun,
		SnapshotPath:  cfg.Snapshot.Path,
		ConfigureOnly: opts.ConfigureOnly,
	})
	if err != nil {
		return err
	}

	return cli.NewOutputFormatterTo(output, cmd.OutOrStdout()).DisplayBuildResult(ctx, result)
}
