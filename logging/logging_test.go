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

package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/cowdogmoo/nekobuild/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level, format string, quiet, verbose bool) (*logging.CustomLogger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	l := logging.NewCustomLoggerWithOptions(level, format, quiet, verbose)
	l.ConsoleWriter = buf
	return l, buf
}

func TestNewCustomLoggerWithOptions(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		format     string
		verbose    bool
		wantLevel  slog.Level
		wantOutput logging.OutputType
	}{
		{name: "defaults", level: "info", format: "text", wantLevel: slog.LevelInfo, wantOutput: logging.PlainOutput},
		{name: "json", level: "warn", format: "json", wantLevel: slog.LevelWarn, wantOutput: logging.JSONOutput},
		{name: "color", level: "error", format: "color", wantLevel: slog.LevelError, wantOutput: logging.ColorOutput},
		{name: "verbose lowers level", level: "error", format: "plain", verbose: true, wantLevel: slog.LevelDebug, wantOutput: logging.PlainOutput},
		{name: "unknown values fall back", level: "loud", format: "xml", wantLevel: slog.LevelInfo, wantOutput: logging.PlainOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := logging.NewCustomLoggerWithOptions(tt.level, tt.format, false, tt.verbose)
			assert.Equal(t, tt.wantLevel, l.LogLevel)
			assert.Equal(t, tt.wantOutput, l.OutputType)
			assert.Equal(t, tt.verbose, l.Verbose)
		})
	}
}

func TestCustomLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferedLogger("warn", "text", false, false)

	l.Debug("debug line")
	l.Info("info line")
	l.Warn("warn line")
	l.Errorf("error %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "warn line")
	assert.Contains(t, out, "error 1")
}

func TestCustomLogger_QuietShowsOnlyErrors(t *testing.T) {
	l, buf := newBufferedLogger("debug", "text", true, true)

	l.Info("hidden")
	l.Warn("hidden too")
	l.Error(errors.New("shown"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.True(t, l.IsQuiet())

	l.SetQuiet(false)
	l.Info("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestCustomLogger_VerboseShowsDebug(t *testing.T) {
	l, buf := newBufferedLogger("info", "text", false, false)
	l.Debug("before")
	l.SetVerbose(true)
	l.Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestCustomLogger_ColorPrefixes(t *testing.T) {
	l, buf := newBufferedLogger("debug", "color", false, false)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	out := buf.String()
	for _, prefix := range []string{"[DEBUG] d", "[INFO] i", "[WARN] w", "[ERROR] e"} {
		assert.Contains(t, out, prefix)
	}
}

func TestCustomLogger_JSONLines(t *testing.T) {
	l, buf := newBufferedLogger("info", "json", false, false)
	l.Info("staged %d files", 2)

	var line map[string]string
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "staged 2 files", line["msg"])
	assert.NotEmpty(t, line["time"])
}

func TestCustomLogger_ErrorVariants(t *testing.T) {
	l, buf := newBufferedLogger("info", "text", false, false)

	l.Error(errors.New("plain error"))
	l.Error(errors.New("copy %s failed"), "MangoHud.conf")
	l.Error("format %q", "x")
	l.Error(42)
	l.ErrorErr(nil)
	l.ErrorErr(errors.New("from ErrorErr"))

	out := buf.String()
	assert.Contains(t, out, "plain error")
	assert.Contains(t, out, "copy MangoHud.conf failed")
	assert.Contains(t, out, `format "x"`)
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "from ErrorErr")
	assert.Equal(t, 5, strings.Count(out, "\n"))
}

func TestCustomLogger_NilConsoleWriter(t *testing.T) {
	l := logging.NewCustomLogger(slog.LevelInfo)
	l.ConsoleWriter = nil
	assert.NotPanics(t, func() { l.Info("dropped") })
}

func TestCustomLogger_Output(t *testing.T) {
	buf := new(bytes.Buffer)
	l := logging.NewCustomLoggerWithOptions("info", "json", false, false)
	l.OutputWriter = buf

	l.Output(map[string]string{"BUILD_SHARED_LIBS": "ON"})

	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "ON", got["BUILD_SHARED_LIBS"])

	buf.Reset()
	l.OutputType = logging.PlainOutput
	l.Output("plain")
	l.Print("raw")
	assert.Equal(t, "plain\nraw", buf.String())
}

func TestCustomLogger_ConcurrentAccess(t *testing.T) {
	l, buf := newBufferedLogger("debug", "text", false, false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l.Info("message %d", n)
			l.SetVerbose(n%2 == 0)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, strings.Count(buf.String(), "\n"))
}

func TestDetermineLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.DetermineLogLevel(in), "input %q", in)
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", logging.DebugLevel.String())
	assert.Equal(t, "INFO", logging.InfoLevel.String())
	assert.Equal(t, "WARN", logging.WarnLevel.String())
	assert.Equal(t, "ERROR", logging.ErrorLevel.String())
	assert.Equal(t, "INFO", logging.LogLevel(42).String())
	assert.Less(t, logging.DebugLevel, logging.ErrorLevel)
}

func TestInitialize(t *testing.T) {
	t.Cleanup(func() { _ = logging.Initialize("info", "text", false, false) })

	require.NoError(t, logging.Initialize("debug", "json", false, false))
	assert.Equal(t, logging.JSONOutput, logging.Default().OutputType)
	assert.Equal(t, slog.LevelDebug, logging.Default().LogLevel)

	err := logging.Initialize("info", "yaml", false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported log format")
}

func TestContextLogger(t *testing.T) {
	l, buf := newBufferedLogger("debug", "text", false, false)
	ctx := logging.WithLogger(context.Background(), l)

	assert.Same(t, l, logging.FromContext(ctx))

	logging.DebugContext(ctx, "d %s", "ctx")
	logging.InfoContext(ctx, "i")
	logging.WarnContext(ctx, "w")
	logging.ErrorContext(ctx, "e")

	out := buf.String()
	assert.Contains(t, out, "d ctx")
	assert.Equal(t, 4, strings.Count(out, "\n"))
}

func TestFromContext_Fallback(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
}
