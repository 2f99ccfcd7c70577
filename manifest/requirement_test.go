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

package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		name      string
		ref       string
		wantName  string
		wantRange bool
		wantStr   string
		wantErr   bool
	}{
		{name: "exact", ref: "nlohmann_json/3.11.2", wantName: "nlohmann_json", wantStr: "nlohmann_json/3.11.2"},
		{name: "v prefix", ref: "glm/v1.0.1", wantName: "glm", wantStr: "glm/v1.0.1"},
		{name: "range", ref: "fmt/[>=10.0, <11]", wantName: "fmt", wantRange: true, wantStr: "fmt/[>=10.0, <11]"},
		{name: "surrounding space", ref: "  zlib/1.3.1 ", wantName: "zlib", wantStr: "zlib/1.3.1"},
		{name: "no version", ref: "fmt", wantErr: true},
		{name: "empty name", ref: "/1.0.0", wantErr: true},
		{name: "empty version", ref: "fmt/", wantErr: true},
		{name: "bad version", ref: "fmt/latest", wantErr: true},
		{name: "unterminated range", ref: "fmt/[>=10", wantErr: true},
		{name: "bad range", ref: "fmt/[>>10]", wantErr: true},
		{name: "bad name", ref: "my pkg/1.0.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequirement(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, req.Name)
			assert.Equal(t, tt.wantRange, req.IsRange())
			assert.Equal(t, tt.wantStr, req.String())
		})
	}
}

func TestRequirement_Satisfies(t *testing.T) {
	exact, err := ParseRequirement("nlohmann_json/3.11.2")
	require.NoError(t, err)

	ok, err := exact.Satisfies("3.11.2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = exact.Satisfies("3.11.3")
	require.NoError(t, err)
	assert.False(t, ok)

	ranged, err := ParseRequirement("fmt/[>=10.0, <11]")
	require.NoError(t, err)

	for version, want := range map[string]bool{"10.2.1": true, "9.1.0": false, "11.0.0": false} {
		ok, err := ranged.Satisfies(version)
		require.NoError(t, err)
		assert.Equal(t, want, ok, version)
	}

	_, err = ranged.Satisfies("not-a-version")
	assert.Error(t, err)
}
