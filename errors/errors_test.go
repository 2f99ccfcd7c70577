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

package errors

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	base := New("permission denied")

	tests := []struct {
		name   string
		action string
		detail string
		err    error
		want   string
	}{
		{
			name:   "action only",
			action: "configure build",
			err:    base,
			want:   "failed to configure build: permission denied",
		},
		{
			name:   "action and detail",
			action: "stage files",
			detail: "build/MangoHud.conf",
			err:    base,
			want:   "failed to stage files (build/MangoHud.conf): permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.action, tt.detail, tt.err)
			require.Error(t, got)
			assert.Equal(t, tt.want, got.Error())
			assert.True(t, Is(got, base))
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, Wrap("load manifest", "nekobuild.toml", nil))
}

func TestWrap_PreservesChainForAs(t *testing.T) {
	pathErr := &fs.PathError{Op: "open", Path: "missing.conf", Err: fs.ErrNotExist}
	wrapped := Wrap("stage files", "", Wrap("copy", "missing.conf", pathErr))

	var target *fs.PathError
	require.True(t, As(wrapped, &target))
	assert.Equal(t, "missing.conf", target.Path)
	assert.True(t, Is(wrapped, fs.ErrNotExist))
}
