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
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/cowdogmoo/nekobuild/logging"
)

// setupTestContext creates a context with a logger suitable for testing.
func setupTestContext(t *testing.T) context.Context {
	t.Helper()
	logger := logging.NewCustomLoggerWithOptions("error", "text", true, false)
	return logging.WithLogger(context.Background(), logger)
}

// isolateConfig points every config location at empty temp directories.
func isolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home+"/.config")
	t.Setenv("XDG_CONFIG_DIRS", home+"/etc")
	for _, key := range []string{"CMAKE_GENERATOR", "CMAKE_BUILD_PARALLEL_LEVEL", "CONAN_CMD"} {
		t.Setenv(key, "")
	}
	return home
}

// resetFlags restores every flag of cmd and its children to its default,
// since the command tree is shared between tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// executeRoot runs the root command with args and returns what it wrote.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	resetBuildFlagTokens()
	cfgFile = ""
	t.Cleanup(func() {
		resetFlags(rootCmd)
		resetBuildFlagTokens()
		cfgFile = ""
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"-q"}, args...))
	err := rootCmd.ExecuteContext(setupTestContext(t))
	return buf.String(), err
}
