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

// Package config loads the global nekobuild configuration.
//
// Values are resolved with the precedence CLI flags > environment
// variables > config file > defaults. Environment variables use the
// NEKOBUILD_ prefix with dots replaced by underscores
// (NEKOBUILD_BUILD_DIR, NEKOBUILD_LOG_LEVEL, ...); CMAKE_GENERATOR and
// CMAKE_BUILD_PARALLEL_LEVEL are honoured as fallbacks for the generator
// and job count.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "NEKOBUILD"

// Config is the global configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Build    BuildConfig    `mapstructure:"build" yaml:"build"`
	Packages PackagesConfig `mapstructure:"packages" yaml:"packages"`
	Snapshot SnapshotConfig `mapstructure:"snapshot" yaml:"snapshot"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// BuildConfig holds settings for the CMake invocation.
type BuildConfig struct {
	SourceDir string            `mapstructure:"source_dir" yaml:"source_dir"`
	Dir       string            `mapstructure:"dir" yaml:"dir"`
	Manifest  string            `mapstructure:"manifest" yaml:"manifest"`
	Generator string            `mapstructure:"generator" yaml:"generator"`
	Jobs      int               `mapstructure:"jobs" yaml:"jobs"`
	CMake     string            `mapstructure:"cmake" yaml:"cmake"`
	ExtraArgs string            `mapstructure:"extra_args" yaml:"extra_args"`
	Defaults  map[string]string `mapstructure:"defaults" yaml:"defaults"`
}

// PackagesConfig holds settings for the package manager step.
type PackagesConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
	Command      string `mapstructure:"command" yaml:"command"`
	BuildMissing bool   `mapstructure:"build_missing" yaml:"build_missing"`
}

// SnapshotConfig controls the environment snapshot written to the build dir.
type SnapshotConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// ExtraArgList splits ExtraArgs with shell quoting rules.
func (b BuildConfig) ExtraArgList() ([]string, error) {
	if strings.TrimSpace(b.ExtraArgs) == "" {
		return nil, nil
	}
	args, err := shellquote.Split(b.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("invalid build.extra_args %q: %w", b.ExtraArgs, err)
	}
	return args, nil
}

// Load reads config.yaml from the standard locations. A missing file is not
// an error; defaults and environment overrides still apply.
func Load() (*Config, error) {
	v := NewConfigViper()
	prepare(v)

	if err := v.ReadInConfig(); err != nil && !IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return unmarshal(v)
}

// LoadFromPath reads configuration from an explicit file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	prepare(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return unmarshal(v)
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := unmarshal(v)
	if err != nil {
		// Defaults are static and always decode.
		panic(err)
	}
	return cfg
}

// NewConfigViper returns a viper instance searching the standard config
// directories and the working directory for config.yaml.
func NewConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range GetConfigDirs() {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")
	return v
}

// IsNotFoundError reports whether err means no config file was found.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	setDefaults(v)
}

func prepare(v *viper.Viper) {
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "color")

	v.SetDefault("build.source_dir", ".")
	v.SetDefault("build.dir", "build")
	v.SetDefault("build.manifest", "nekobuild.toml")
	v.SetDefault("build.generator", "")
	v.SetDefault("build.jobs", 0)
	v.SetDefault("build.cmake", "cmake")
	v.SetDefault("build.extra_args", "")
	v.SetDefault("build.defaults", map[string]string{
		"shared":     "OFF",
		"build-type": "Debug",
	})

	v.SetDefault("packages.enabled", true)
	v.SetDefault("packages.command", "conan")
	v.SetDefault("packages.build_missing", true)

	v.SetDefault("snapshot.enabled", true)
	v.SetDefault("snapshot.path", "configs/Environment.json")
}

// bindEnvVars adds the non-prefixed fallbacks CMake itself understands.
func bindEnvVars(v *viper.Viper) {
	_ = v.BindEnv("build.generator", EnvPrefix+"_BUILD_GENERATOR", "CMAKE_GENERATOR")
	_ = v.BindEnv("build.jobs", EnvPrefix+"_BUILD_JOBS", "CMAKE_BUILD_PARALLEL_LEVEL")
	_ = v.BindEnv("packages.command", EnvPrefix+"_PACKAGES_COMMAND", "CONAN_CMD")
}
