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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cowdogmoo/nekobuild/config"
)

func TestConfigInitPathShow(t *testing.T) {
	home := isolateConfig(t)
	want := filepath.Join(home, ".config", "nekobuild", "config.yaml")

	out, err := executeRoot(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)
	assert.NoFileExists(t, want)

	_, err = executeRoot(t, "config", "init")
	require.NoError(t, err)
	require.FileExists(t, want)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	var written config.Config
	require.NoError(t, yaml.Unmarshal(data, &written))
	assert.Equal(t, config.Default().Build, written.Build)

	_, err = executeRoot(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = executeRoot(t, "config", "init", "--force")
	require.NoError(t, err)

	out, err = executeRoot(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, want+"\n", out)

	out, err = executeRoot(t, "config", "show")
	require.NoError(t, err)
	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "build", shown.Build.Dir)
	assert.Equal(t, "cmake", shown.Build.CMake)
}

func TestConfigShow_EnvOverride(t *testing.T) {
	isolateConfig(t)
	t.Setenv("CMAKE_GENERATOR", "Ninja")

	out, err := executeRoot(t, "config", "show")
	require.NoError(t, err)
	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "Ninja", shown.Build.Generator)
}

func TestConfigGet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr string
	}{
		{name: "scalar", key: "build.dir", want: "build\n"},
		{name: "map entry", key: "build.defaults.build-type", want: "Debug\n"},
		{name: "bool", key: "packages.enabled", want: "true\n"},
		{name: "section", key: "snapshot", want: "enabled: true\npath: configs/Environment.json\n"},
		{name: "missing", key: "build.nope", wantErr: "config key not found"},
		{name: "malformed", key: "build..dir", wantErr: "invalid config key"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolateConfig(t)

			out, err := executeRoot(t, "config", "get", tc.key)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestConfigFlag_MissingFile(t *testing.T) {
	home := isolateConfig(t)

	_, err := executeRoot(t, "--config", filepath.Join(home, "missing.yaml"), "config", "show")
	require.Error(t, err)
}
