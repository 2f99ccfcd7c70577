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

// Package main implements the nekobuild CLI, a thin layer over cmake and
// conan that turns build flags such as shared=ON or --build-type=Release
// into cmake cache definitions and runs the build.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cowdogmoo/nekobuild/config"
	"github.com/cowdogmoo/nekobuild/logging"
)

// Context key type for storing config
type configKeyType struct{}

var (
	// configKey is the context key for storing the config
	configKey = configKeyType{}

	// Root command options
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "nekobuild [flags] [build-flag...] [-- build-flag...]",
	Short: "nekobuild - configure and build CMake projects",
	Long: `nekobuild configures and builds a CMake project in one step.

Build flags select CMake cache definitions:

  nekobuild --shared --build-type Release
  nekobuild shared=ON build-type=Release
  nekobuild -- --shared --build-type Release

Run 'nekobuild flags' for the list of build flags. Defaults come from the
global config (build.defaults) and the project's nekobuild.toml; build flags
on the command line override both.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: initConfig,
	RunE:              runBuild,
	SilenceUsage:      true,
}

// buildFlagBindings maps root command flags to config keys.
var buildFlagBindings = map[string]string{
	"source":    "build.source_dir",
	"build-dir": "build.dir",
	"generator": "build.generator",
	"jobs":      "build.jobs",
	"cmake":     "build.cmake",
	"manifest":  "build.manifest",
}

func init() {
	rootCmd.Version = version

	// Global persistent flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is $XDG_CONFIG_HOME/nekobuild/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json, color)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Quiet mode - only show errors")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose mode - show debug output")

	registerBuildFlags(rootCmd)
	rootCmd.SetFlagErrorFunc(buildFlagError)

	// Add subcommands
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(flagsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// configFromContext retrieves the config from the command context.
// Returns nil if no config is stored in context.
func configFromContext(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey).(*config.Config); ok {
		return cfg
	}
	return nil
}

// initConfig initializes configuration with proper precedence:
// CLI Flags > Environment Variables > Config File > Defaults
func initConfig(cmd *cobra.Command, args []string) error {
	// 1. Load global config (handles defaults, env vars, and config file)
	var cfg *config.Config
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFromPath(cfgFile)
		if err != nil {
			return err
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			logging.Warn("failed to load config, using defaults: %v", err)
			cfg = config.Default()
		}
	}

	// 2. Create a new Viper instance for flag binding, seeded with the loaded values
	v := viper.New()
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("build.source_dir", cfg.Build.SourceDir)
	v.SetDefault("build.dir", cfg.Build.Dir)
	v.SetDefault("build.generator", cfg.Build.Generator)
	v.SetDefault("build.jobs", cfg.Build.Jobs)
	v.SetDefault("build.cmake", cfg.Build.CMake)
	v.SetDefault("build.manifest", cfg.Build.Manifest)

	// 3. Bind Cobra flags to Viper; a flag only wins when it was set
	if err := v.BindPFlag("log.level", cmd.Root().PersistentFlags().Lookup("log-level")); err != nil {
		return fmt.Errorf("failed to bind log-level flag: %w", err)
	}
	if err := v.BindPFlag("log.format", cmd.Root().PersistentFlags().Lookup("log-format")); err != nil {
		return fmt.Errorf("failed to bind log-format flag: %w", err)
	}
	BindFlagsToViper(v, cmd.Flags(), buildFlagBindings)

	// 4. Get final values from Viper (single source of truth)
	logLevel := v.GetString("log.level")
	logFormat := v.GetString("log.format")
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")

	// 5. Initialize logging with final values
	if err := logging.Initialize(logLevel, logFormat, quiet, verbose); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	if path := getCommandPath(cmd); path != "" {
		logging.Debug("Running command %s", path)
	}

	// 6. Update config with final Viper values (for use in subcommands)
	cfg.Log.Level = logLevel
	cfg.Log.Format = logFormat
	cfg.Build.SourceDir = v.GetString("build.source_dir")
	cfg.Build.Dir = v.GetString("build.dir")
	cfg.Build.Generator = v.GetString("build.generator")
	cfg.Build.Jobs = v.GetInt("build.jobs")
	cfg.Build.CMake = v.GetString("build.cmake")
	cfg.Build.Manifest = v.GetString("build.manifest")

	// 7. Store config and logger in context
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = logging.WithLogger(ctx, logger)
	cmd.SetContext(ctx)

	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// BindFlagsToViper binds flags to the config keys in bindings. Flags that
// are not defined on fs are skipped, so the same table works for every
// command.
func BindFlagsToViper(v *viper.Viper, fs *pflag.FlagSet, bindings map[string]string) {
	for name, key := range bindings {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			logging.Warn("failed to bind flag %s to viper: %v", f.Name, err)
		}
	}
}

// getCommandPath returns the command path for messages.
// For example, "nekobuild config show" returns "config.show".
func getCommandPath(cmd *cobra.Command) string {
	var parts []string
	current := cmd

	for current != nil && current.Parent() != nil {
		parts = append([]string{current.Name()}, parts...)
		current = current.Parent()
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ".")
}
