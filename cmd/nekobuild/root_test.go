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
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cowdogmoo/nekobuild/buildflags"
	"github.com/cowdogmoo/nekobuild/builder"
	"github.com/cowdogmoo/nekobuild/conan"
)

const projectManifest = `
name     = "demo"
requires = ["fmt/10.2.1"]

[defaults]
pic = "ON"

[[stage]]
source = "data/app.json"
`

func writeProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CMakeLists.txt"), []byte("project(demo)\n"), 0o644))
	if manifest != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "nekobuild.toml"), []byte(manifest), 0o644))
	}
	return dir
}

func TestRootCommandStructure(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"resolve", "flags", "config", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}

	for _, flag := range []string{"source", "build-dir", "generator", "jobs", "target", "dry-run", "skip-packages", "skip-snapshot", "configure-only", "output"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(flag), "missing flag --%s", flag)
	}
	for _, name := range buildflags.DefaultRegistry().Names() {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "missing build flag --%s", name)
		assert.NotNil(t, resolveCmd.Flags().Lookup(name), "missing build flag --%s on resolve", name)
	}
	assert.Equal(t, buildflags.On, rootCmd.Flags().Lookup("shared").NoOptDefVal)
	assert.Empty(t, rootCmd.Flags().Lookup("build-type").NoOptDefVal)
	for _, flag := range []string{"config", "log-level", "log-format", "quiet", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "missing persistent flag --%s", flag)
	}
}

func TestDashedBuildFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "attached value", args: []string{"--shared=ON"}, want: "-DBUILD_SHARED_LIBS=ON\n"},
		{name: "implicit value", args: []string{"--shared"}, want: "-DBUILD_SHARED_LIBS=ON\n"},
		{name: "separate value", args: []string{"--build-type", "Release"}, want: "-DCMAKE_BUILD_TYPE=Release\n"},
		{name: "last flag wins", args: []string{"--shared=ON", "--shared=OFF"}, want: "-DBUILD_SHARED_LIBS=OFF\n"},
		{name: "tokens after separator win", args: []string{"--shared=OFF", "--", "shared=ON"}, want: "-DBUILD_SHARED_LIBS=ON\n"},
		{
			name: "mixed with positional",
			args: []string{"--pic", "unity-build=OFF"},
			want: "-DCMAKE_POSITION_INDEPENDENT_CODE=ON -DCMAKE_UNITY_BUILD=OFF\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateConfig(t)

			out, err := executeRoot(t, append([]string{"resolve", "-o", "cmake"}, tc.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestDashedBuildFlags_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    func(dir string) []string
		wantIs  error
		wantOut string
	}{
		{
			name:    "resolve illegal value",
			args:    func(string) []string { return []string{"resolve", "--shared=MAYBE"} },
			wantIs:  buildflags.ErrInvalidValue,
			wantOut: `Error: invalid value "MAYBE" for build flag "shared"`,
		},
		{
			name:    "resolve unknown flag",
			args:    func(string) []string { return []string{"resolve", "--bogus"} },
			wantIs:  buildflags.ErrUnknownFlag,
			wantOut: `Error: unknown build flag "bogus"`,
		},
		{
			name:    "resolve unknown flag with value suggests",
			args:    func(string) []string { return []string{"resolve", "--shard=ON"} },
			wantIs:  buildflags.ErrUnknownFlag,
			wantOut: "did you mean shared",
		},
		{
			name:    "build illegal value",
			args:    func(dir string) []string { return []string{"--dry-run", "-S", dir, "--shared=MAYBE"} },
			wantIs:  buildflags.ErrInvalidValue,
			wantOut: `Error: invalid value "MAYBE"`,
		},
		{
			name:    "build unknown flag",
			args:    func(dir string) []string { return []string{"--dry-run", "-S", dir, "--bogus"} },
			wantIs:  buildflags.ErrUnknownFlag,
			wantOut: `Error: unknown build flag "bogus"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateConfig(t)
			dir := writeProject(t, "")

			out, err := executeRoot(t, tc.args(dir)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantIs)
			assert.Contains(t, out, tc.wantOut)
		})
	}
}

func TestUnknownFlag_CommandWithoutBuildFlags(t *testing.T) {
	isolateConfig(t)

	out, err := executeRoot(t, "config", "show", "--bogus")
	require.Error(t, err)
	assert.NotErrorIs(t, err, buildflags.ErrUnknownFlag)
	assert.Contains(t, err.Error(), "unknown flag: --bogus")
	assert.Contains(t, out, "Error: unknown flag: --bogus")
}

func TestBuildCommand_DashedFlagsDryRun(t *testing.T) {
	isolateConfig(t)
	dir := writeProject(t, "")

	out, err := executeRoot(t, "--dry-run", "--skip-packages", "-S", dir, "-o", "json", "--shared", "--build-type", "Release")
	require.NoError(t, err)

	var result builder.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "ON", result.Definitions["BUILD_SHARED_LIBS"])
	assert.Equal(t, "Release", result.Definitions["CMAKE_BUILD_TYPE"])
}

func TestResolveCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "json",
			args: []string{"resolve", "-o", "json", "shared=ON", "--", "--build-type", "Release"},
			want: `{
  "BUILD_SHARED_LIBS": "ON",
  "CMAKE_BUILD_TYPE": "Release"
}
`,
		},
		{
			name: "cmake",
			args: []string{"resolve", "-o", "cmake", "pic"},
			want: "-DCMAKE_POSITION_INDEPENDENT_CODE=ON\n",
		},
		{
			name: "later token wins",
			args: []string{"resolve", "-o", "cmake", "shared=ON", "shared=OFF"},
			want: "-DBUILD_SHARED_LIBS=OFF\n",
		},
		{
			name: "empty",
			args: []string{"resolve", "-o", "json"},
			want: "{}\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateConfig(t)

			out, err := executeRoot(t, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestResolveCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantIs  error
		wantMsg string
	}{
		{name: "unknown flag suggests", args: []string{"resolve", "shard=ON"}, wantIs: buildflags.ErrUnknownFlag, wantMsg: "did you mean shared"},
		{name: "invalid value", args: []string{"resolve", "build-type=Fast"}, wantIs: buildflags.ErrInvalidValue},
		{name: "bad format", args: []string{"resolve", "-o", "xml"}, wantMsg: "unknown format: xml"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateConfig(t)

			_, err := executeRoot(t, tc.args...)
			require.Error(t, err)
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			}
			if tc.wantMsg != "" {
				assert.Contains(t, err.Error(), tc.wantMsg)
			}
		})
	}
}

func TestResolveCommand_WithDefaults(t *testing.T) {
	isolateConfig(t)
	dir := writeProject(t, projectManifest)

	out, err := executeRoot(t, "resolve", "--with-defaults", "-S", dir, "-o", "json", "shared=ON")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]string{
		"BUILD_SHARED_LIBS":               "ON",
		"CMAKE_BUILD_TYPE":                "Debug",
		"CMAKE_POSITION_INDEPENDENT_CODE": "ON",
	}, got)
}

func TestFlagsCommand(t *testing.T) {
	isolateConfig(t)

	out, err := executeRoot(t, "flags", "-o", "json")
	require.NoError(t, err)

	var flags []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &flags))
	require.Len(t, flags, len(buildflags.DefaultRegistry().Definitions()))
	assert.Equal(t, "shared", flags[0]["name"])
	assert.Equal(t, "BUILD_SHARED_LIBS", flags[0]["key"])

	out, err = executeRoot(t, "flags")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "FLAG"))
	assert.Contains(t, out, "CMAKE_UNITY_BUILD")
}

func TestBuildCommand_DryRun(t *testing.T) {
	isolateConfig(t)
	dir := writeProject(t, projectManifest)
	buildDir := filepath.Join(dir, "build")

	out, err := executeRoot(t, "--dry-run", "-S", dir, "-o", "json", "-j", "4", "shared=ON")
	require.NoError(t, err)

	var result builder.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	assert.Equal(t, "ON", result.Definitions["BUILD_SHARED_LIBS"])
	assert.Equal(t, "Debug", result.Definitions["CMAKE_BUILD_TYPE"])
	assert.Equal(t, "ON", result.Definitions["CMAKE_POSITION_INDEPENDENT_CODE"])
	assert.Empty(t, result.SnapshotPath, "dry runs write no snapshot")

	require.Len(t, result.Staged, 1)
	assert.Equal(t, filepath.Join(buildDir, "app.json"), result.Staged[0].Destination)
	assert.NoFileExists(t, filepath.Join(buildDir, "app.json"))

	require.Len(t, result.Commands, 3)
	assert.Equal(t, "conan", result.Commands[0].Name)
	assert.Contains(t, result.Commands[0].Args, "--requires=fmt/10.2.1")
	assert.Equal(t, "cmake", result.Commands[1].Name)
	assert.Contains(t, result.Commands[1].Args, "-DBUILD_SHARED_LIBS=ON")
	assert.Contains(t, result.Commands[1].Args, "-D"+conan.ToolchainKey+"="+conan.ToolchainFile(buildDir))
	assert.Equal(t, []string{"--build", buildDir, "--config", "Debug", "--parallel", "4"}, result.Commands[2].Args)
}

func TestBuildCommand_DryRunSkipPackagesConfigureOnly(t *testing.T) {
	isolateConfig(t)
	dir := writeProject(t, projectManifest)

	out, err := executeRoot(t, "--dry-run", "--skip-packages", "--configure-only", "-S", dir, "-B", "out", "-o", "json")
	require.NoError(t, err)

	var result builder.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Commands, 1)
	assert.Equal(t, []string{"-S", dir, "-B", filepath.Join(dir, "out")}, result.Commands[0].Args[:4])
}

func TestBuildCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    func(dir string) []string
		wantMsg string
	}{
		{
			name:    "missing source",
			args:    func(dir string) []string { return []string{"--dry-run", "-S", filepath.Join(dir, "nope")} },
			wantMsg: "does not exist",
		},
		{
			name:    "target with configure-only",
			args:    func(dir string) []string { return []string{"--dry-run", "-S", dir, "-t", "app", "--configure-only"} },
			wantMsg: "--target",
		},
		{
			name:    "unknown build flag",
			args:    func(dir string) []string { return []string{"--dry-run", "-S", dir, "sahred=ON"} },
			wantMsg: "unknown build flag",
		},
		{
			name:    "explicit manifest missing",
			args:    func(dir string) []string { return []string{"--dry-run", "-S", dir, "--manifest", "other.toml"} },
			wantMsg: "read manifest",
		},
		{
			name:    "bad format",
			args:    func(dir string) []string { return []string{"--dry-run", "-S", dir, "-o", "cmake"} },
			wantMsg: "unknown format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateConfig(t)
			dir := writeProject(t, "")

			_, err := executeRoot(t, tc.args(dir)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestGetCommandPath(t *testing.T) {
	assert.Equal(t, "", getCommandPath(rootCmd))
	assert.Equal(t, "config.show", getCommandPath(configShowCmd))
}
