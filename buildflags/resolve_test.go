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

package buildflags

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Empty(t *testing.T) {
	reg := DefaultRegistry()

	for _, argv := range [][]string{nil, {}, {"--"}} {
		sel, err := reg.Resolve(argv)
		require.NoError(t, err)
		require.NotNil(t, sel)
		assert.Zero(t, sel.Len())
		assert.Empty(t, sel.Map())
	}
}

func TestResolve_SharedScenario(t *testing.T) {
	reg := DefaultRegistry()

	sel, err := reg.Resolve([]string{"--shared=ON"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"BUILD_SHARED_LIBS": "ON"}, sel.Map())

	_, err = reg.Resolve([]string{"--shared=MAYBE"})
	var invalid *InvalidValueError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "shared", invalid.Flag)
	assert.Equal(t, "MAYBE", invalid.Value)
	assert.Equal(t, []string{"ON", "OFF"}, invalid.Allowed)

	_, err = reg.Resolve([]string{"--bogus"})
	var unknown *UnknownFlagError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "bogus", unknown.Name)
}

func TestResolve_Grammar(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name string
		argv []string
		want map[string]string
	}{
		{
			name: "attached value with dashes",
			argv: []string{"--build-type=Release"},
			want: map[string]string{"CMAKE_BUILD_TYPE": "Release"},
		},
		{
			name: "attached value without dashes",
			argv: []string{"build-type=MinSizeRel"},
			want: map[string]string{"CMAKE_BUILD_TYPE": "MinSizeRel"},
		},
		{
			name: "space separated value",
			argv: []string{"--build-type", "RelWithDebInfo"},
			want: map[string]string{"CMAKE_BUILD_TYPE": "RelWithDebInfo"},
		},
		{
			name: "bare flag uses implicit value",
			argv: []string{"--shared"},
			want: map[string]string{"BUILD_SHARED_LIBS": "ON"},
		},
		{
			name: "bare positional flag uses implicit value",
			argv: []string{"pic"},
			want: map[string]string{"CMAKE_POSITION_INDEPENDENT_CODE": "ON"},
		},
		{
			name: "toggle followed by legal value consumes it",
			argv: []string{"--shared", "OFF"},
			want: map[string]string{"BUILD_SHARED_LIBS": "OFF"},
		},
		{
			name: "toggle followed by another flag",
			argv: []string{"--shared", "--pic"},
			want: map[string]string{
				"BUILD_SHARED_LIBS":               "ON",
				"CMAKE_POSITION_INDEPENDENT_CODE": "ON",
			},
		},
		{
			name: "separator is ignored",
			argv: []string{"--", "--unity-build=OFF"},
			want: map[string]string{"CMAKE_UNITY_BUILD": "OFF"},
		},
		{
			name: "mixed forms",
			argv: []string{"shared=OFF", "--build-type", "Debug", "compile-commands"},
			want: map[string]string{
				"BUILD_SHARED_LIBS":             "OFF",
				"CMAKE_BUILD_TYPE":              "Debug",
				"CMAKE_EXPORT_COMPILE_COMMANDS": "ON",
			},
		},
		{
			name: "last write wins",
			argv: []string{"--shared=ON", "--shared=OFF"},
			want: map[string]string{"BUILD_SHARED_LIBS": "OFF"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := reg.Resolve(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel.Map())
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name    string
		argv    []string
		wantErr error
		wantMsg string
	}{
		{name: "unknown flag", argv: []string{"--bogus=1"}, wantErr: ErrUnknownFlag, wantMsg: `"bogus"`},
		{name: "empty token", argv: []string{""}, wantErr: ErrUnknownFlag},
		{name: "value without name", argv: []string{"=ON"}, wantErr: ErrUnknownFlag},
		{name: "lowercase value", argv: []string{"--shared=on"}, wantErr: ErrInvalidValue, wantMsg: `"on"`},
		{name: "empty attached value", argv: []string{"--shared="}, wantErr: ErrInvalidValue, wantMsg: "requires a value"},
		{name: "missing value at end", argv: []string{"--build-type"}, wantErr: ErrInvalidValue, wantMsg: "requires a value"},
		{name: "missing value before flag", argv: []string{"--build-type", "--shared"}, wantErr: ErrInvalidValue},
		{name: "illegal space separated value", argv: []string{"--build-type", "Fast"}, wantErr: ErrInvalidValue, wantMsg: `"Fast"`},
		{name: "bare positional without implicit", argv: []string{"build-type"}, wantErr: ErrInvalidValue},
		{name: "error after valid tokens", argv: []string{"--shared", "--nope"}, wantErr: ErrUnknownFlag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := reg.Resolve(tt.argv)
			require.Error(t, err)
			assert.Nil(t, sel)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestResolve_FreshSelectionPerCall(t *testing.T) {
	reg := DefaultRegistry()

	first, err := reg.Resolve([]string{"--shared=ON"})
	require.NoError(t, err)

	second, err := reg.Resolve(nil)
	require.NoError(t, err)
	assert.Zero(t, second.Len())

	require.NoError(t, second.Select("shared", Off))
	got, _ := first.Get("BUILD_SHARED_LIBS")
	assert.Equal(t, On, got)
}
