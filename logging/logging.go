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

// Package logging provides the console logger used by nekobuild.
//
// Commands store a *CustomLogger in their context with WithLogger and the
// rest of the code logs through the context helpers (InfoContext,
// WarnContext, ...). The package-level functions log through the default
// logger configured by Initialize and are meant for code that runs before a
// context exists.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel is the severity of a message, ordered least to most severe.
type LogLevel int

// OutputType selects how console lines are rendered.
type OutputType int

// Output formats.
const (
	PlainOutput OutputType = iota
	ColorOutput
	JSONOutput
)

// Severity levels.
const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the upper-case level name.
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CustomLogger writes leveled messages to a console writer.
type CustomLogger struct {
	mu            sync.Mutex
	LogLevel      slog.Level
	OutputType    OutputType
	Quiet         bool
	Verbose       bool
	ConsoleWriter io.Writer
	OutputWriter  io.Writer
}

// NewCustomLogger returns a plain-text logger writing to stderr.
func NewCustomLogger(level slog.Level) *CustomLogger {
	return &CustomLogger{
		LogLevel:      level,
		OutputType:    PlainOutput,
		ConsoleWriter: os.Stderr,
		OutputWriter:  os.Stdout,
	}
}

// NewCustomLoggerWithOptions builds a logger from config-style strings.
// Unknown formats fall back to plain text; verbose lowers the level to debug.
func NewCustomLoggerWithOptions(logLevelStr, outputFormat string, quiet, verbose bool) *CustomLogger {
	l := NewCustomLogger(DetermineLogLevel(logLevelStr))
	l.OutputType = DetermineOutputType(outputFormat)
	l.Quiet = quiet
	l.Verbose = verbose
	if verbose && l.LogLevel > slog.LevelDebug {
		l.LogLevel = slog.LevelDebug
	}
	return l
}

// SetQuiet toggles quiet mode, in which only errors reach the console.
func (l *CustomLogger) SetQuiet(quiet bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Quiet = quiet
}

// SetVerbose toggles verbose mode, in which debug messages are shown.
func (l *CustomLogger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Verbose = verbose
}

// IsQuiet reports whether quiet mode is on.
func (l *CustomLogger) IsQuiet() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Quiet
}

// enabledLocked decides whether a message at level is written.
// Quiet wins over verbose; otherwise the configured slog level applies,
// and verbose always admits debug output. Callers must hold l.mu.
func (l *CustomLogger) enabledLocked(level LogLevel) bool {
	if l.Quiet {
		return level == ErrorLevel
	}
	if l.Verbose {
		return true
	}
	return level.slogLevel() >= l.LogLevel
}

func (l *CustomLogger) render(level LogLevel, msg string, ts time.Time) string {
	switch l.OutputType {
	case JSONOutput:
		line, err := json.Marshal(struct {
			Time    string `json:"time"`
			Level   string `json:"level"`
			Message string `json:"msg"`
		}{ts.Format(time.RFC3339), level.String(), msg})
		if err != nil {
			return msg
		}
		return string(line)
	case ColorOutput:
		stamp := ts.Format("2006-01-02 15:04:05")
		switch level {
		case DebugLevel:
			return fmt.Sprintf("[%s] %s", stamp, color.HiBlackString("[DEBUG] %s", msg))
		case WarnLevel:
			return fmt.Sprintf("[%s] %s", stamp, color.HiYellowString("[WARN] %s", msg))
		case ErrorLevel:
			return fmt.Sprintf("[%s] %s", stamp, color.HiRedString("[ERROR] %s", msg))
		default:
			return fmt.Sprintf("[%s] %s", stamp, color.HiGreenString("[INFO] %s", msg))
		}
	default:
		return fmt.Sprintf("[%s] %s", ts.Format("2006-01-02 15:04:05"), msg)
	}
}

func (l *CustomLogger) log(level LogLevel, format string, args ...interface{}) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabledLocked(level) || l.ConsoleWriter == nil {
		return
	}
	line := l.render(level, msg, time.Now())
	if _, err := fmt.Fprintln(l.ConsoleWriter, line); err != nil {
		fmt.Fprintln(os.Stderr, line)
	}
}

// Debug logs a debug message.
func (l *CustomLogger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Info logs an informational message.
func (l *CustomLogger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Warn logs a warning.
func (l *CustomLogger) Warn(format string, args ...interface{}) {
	l.log(WarnLevel, format, args...)
}

// Error logs an error. The first argument may be an error, a format string
// or any other value.
func (l *CustomLogger) Error(firstArg interface{}, args ...interface{}) {
	switch v := firstArg.(type) {
	case error:
		if len(args) == 0 {
			l.log(ErrorLevel, "%s", v.Error())
			return
		}
		l.log(ErrorLevel, v.Error(), args...)
	case string:
		l.log(ErrorLevel, v, args...)
	default:
		l.log(ErrorLevel, "%v", v)
	}
}

// Errorf logs a formatted error message.
func (l *CustomLogger) Errorf(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// ErrorErr logs err if it is non-nil.
func (l *CustomLogger) ErrorErr(err error) {
	if err != nil {
		l.log(ErrorLevel, "%s", err.Error())
	}
}

// Output writes command results to the output writer. JSON output encodes
// data as indented JSON; other formats print it with fmt.
func (l *CustomLogger) Output(data interface{}) {
	l.mu.Lock()
	w := l.OutputWriter
	jsonOut := l.OutputType == JSONOutput
	l.mu.Unlock()

	if w == nil {
		w = os.Stdout
	}

	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			l.Error("failed to encode JSON output: %v", err)
		}
		return
	}
	if _, err := fmt.Fprintln(w, data); err != nil {
		l.Error("failed to write output: %v", err)
	}
}

// Print writes s to the output writer as-is.
func (l *CustomLogger) Print(s string) {
	l.mu.Lock()
	w := l.OutputWriter
	l.mu.Unlock()

	if w == nil {
		w = os.Stdout
	}
	if _, err := fmt.Fprint(w, s); err != nil {
		l.Error("failed to write output: %v", err)
	}
}

// DetermineLogLevel maps a level name to a slog.Level, defaulting to info.
func DetermineLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DetermineOutputType maps a format name to an OutputType, defaulting to plain.
func DetermineOutputType(format string) OutputType {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONOutput
	case "color":
		return ColorOutput
	default:
		return PlainOutput
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = NewCustomLogger(slog.LevelInfo)
)

// Initialize configures the package default logger.
func Initialize(logLevelStr, outputFormat string, quiet, verbose bool) error {
	switch strings.ToLower(strings.TrimSpace(outputFormat)) {
	case "", "text", "plain", "color", "json":
	default:
		return fmt.Errorf("unsupported log format %q (use text, color or json)", outputFormat)
	}

	l := NewCustomLoggerWithOptions(logLevelStr, outputFormat, quiet, verbose)
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
	return nil
}

// Default returns the package default logger.
func Default() *CustomLogger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// Debug logs through the default logger.
func Debug(format string, args ...interface{}) { Default().Debug(format, args...) }

// Info logs through the default logger.
func Info(format string, args ...interface{}) { Default().Info(format, args...) }

// Warn logs through the default logger.
func Warn(format string, args ...interface{}) { Default().Warn(format, args...) }

// Error logs through the default logger.
func Error(firstArg interface{}, args ...interface{}) { Default().Error(firstArg, args...) }

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// WithLogger returns a context carrying l.
func WithLogger(ctx context.Context, l *CustomLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *CustomLogger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*CustomLogger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// DebugContext logs a debug message with the logger from ctx.
func DebugContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Debug(format, args...)
}

// InfoContext logs an informational message with the logger from ctx.
func InfoContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Info(format, args...)
}

// WarnContext logs a warning with the logger from ctx.
func WarnContext(ctx context.Context, format string, args ...interface{}) {
	FromContext(ctx).Warn(format, args...)
}

// ErrorContext logs an error with the logger from ctx.
func ErrorContext(ctx context.Context, firstArg interface{}, args ...interface{}) {
	FromContext(ctx).Error(firstArg, args...)
}

// OutputContext writes command results with the logger from ctx.
func OutputContext(ctx context.Context, data interface{}) {
	FromContext(ctx).Output(data)
}

// PrintContext writes raw output with the logger from ctx.
func PrintContext(ctx context.Context, s string) {
	FromContext(ctx).Print(s)
}
