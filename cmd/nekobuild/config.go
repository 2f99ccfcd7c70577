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
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cowdogmoo/nekobuild/cli"
	"github.com/cowdogmoo/nekobuild/config"
	"github.com/cowdogmoo/nekobuild/logging"
)

const configFileName = "config.yaml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage nekobuild configuration",
	Long: `Manage nekobuild's global configuration file.

Configuration precedence (highest to lowest):
1. CLI flags
2. Environment variables (NEKOBUILD_*, CMAKE_GENERATOR, CMAKE_BUILD_PARALLEL_LEVEL, CONAN_CMD)
3. Configuration file ($XDG_CONFIG_HOME/nekobuild/config.yaml)
4. Built-in defaults`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long: `Create a new configuration file with default values.

If the file already exists, it will be overwritten only with --force.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value.

Examples:
  nekobuild config get build.generator
  nekobuild config get build.defaults.build-type`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "Overwrite existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path, err := config.ConfigFile(configFileName)
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, config.FilePermReadWrite); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logging.InfoContext(cmd.Context(), "Created config file at %s", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := configFromContext(cmd)
	if cfg == nil {
		return fmt.Errorf("configuration not initialized")
	}

	if path := activeConfigFile(); path != "" {
		logging.InfoContext(cmd.Context(), "Config file: %s", path)
	} else {
		logging.InfoContext(cmd.Context(), "No config file found, showing defaults")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := activeConfigFile()
	if path == "" {
		dirs := config.GetConfigDirs()
		if len(dirs) == 0 {
			return fmt.Errorf("no config directory available")
		}
		logging.InfoContext(cmd.Context(), "No config file exists yet; 'nekobuild config init' creates it")
		path = filepath.Join(dirs[0], configFileName)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
	return err
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if err := cli.NewValidator().ValidateConfigKey(key); err != nil {
		return err
	}
	cfg := configFromContext(cmd)
	if cfg == nil {
		return fmt.Errorf("configuration not initialized")
	}

	value, err := lookupConfigValue(cfg, key)
	if err != nil {
		return err
	}

	switch v := value.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", key, err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	default:
		_, err := fmt.Fprintln(cmd.OutOrStdout(), v)
		return err
	}
}

// lookupConfigValue walks the YAML form of cfg along a dotted key.
func lookupConfigValue(cfg *config.Config, key string) (any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	var current any = tree
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("config key not found: %s", key)
		}
		current, ok = m[part]
		if !ok {
			return nil, fmt.Errorf("config key not found: %s", key)
		}
	}
	return current, nil
}

// activeConfigFile returns the config file in effect, or "" when none exists.
func activeConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	for _, dir := range config.GetConfigDirs() {
		path := filepath.Join(dir, configFileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
