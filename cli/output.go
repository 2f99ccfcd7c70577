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

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"github.com/cowdogmoo/nekobuild/buildflags"
	"github.com/cowdogmoo/nekobuild/builder"
	"github.com/cowdogmoo/nekobuild/logging"
)

// OutputFormatter formats command output for display.
type OutputFormatter struct {
	format string // text, json, yaml, cmake
	w      io.Writer
}

// NewOutputFormatter creates a formatter writing to stdout.
func NewOutputFormatter(format string) *OutputFormatter {
	return NewOutputFormatterTo(format, os.Stdout)
}

// NewOutputFormatterTo creates a formatter writing to w.
func NewOutputFormatterTo(format string, w io.Writer) *OutputFormatter {
	return &OutputFormatter{format: format, w: w}
}

// FlagInfo is the listing form of a flag definition.
type FlagInfo struct {
	Name        string   `json:"name" yaml:"name"`
	Key         string   `json:"key" yaml:"key"`
	Values      []string `json:"values" yaml:"values"`
	Implicit    string   `json:"implicit,omitempty" yaml:"implicit,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// DisplaySelection prints resolved definitions.
func (f *OutputFormatter) DisplaySelection(sel *buildflags.Selection) error {
	switch f.format {
	case FormatJSON:
		return f.encodeJSON(sel.Map())
	case FormatYAML:
		return f.encodeYAML(sel.Map())
	case FormatCMake:
		args := make([]string, 0, sel.Len())
		for _, pair := range sel.Pairs() {
			args = append(args, "-D"+pair)
		}
		_, err := fmt.Fprintln(f.w, shellquote.Join(args...))
		return err
	case FormatText, "":
		w := tabwriter.NewWriter(f.w, 0, 0, 3, ' ', 0)
		if _, err := fmt.Fprintln(w, "KEY\tVALUE"); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		for _, key := range sel.Keys() {
			value, _ := sel.Get(key)
			if _, err := fmt.Fprintf(w, "%s\t%s\n", key, value); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format: %s (supported: text, json, yaml, cmake)", f.format)
	}
}

// DisplayFlags prints the flags registered in reg.
func (f *OutputFormatter) DisplayFlags(reg *buildflags.Registry) error {
	defs := reg.Definitions()
	infos := make([]FlagInfo, 0, len(defs))
	for _, d := range defs {
		infos = append(infos, FlagInfo{
			Name:        d.Name,
			Key:         d.Key,
			Values:      d.Values,
			Implicit:    d.Implicit,
			Description: d.Description,
		})
	}

	switch f.format {
	case FormatJSON:
		return f.encodeJSON(infos)
	case FormatYAML:
		return f.encodeYAML(infos)
	case FormatText, "":
		w := tabwriter.NewWriter(f.w, 0, 0, 3, ' ', 0)
		if _, err := fmt.Fprintln(w, "FLAG\tKEY\tVALUES\tDEFAULT\tDESCRIPTION"); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		for _, d := range defs {
			implicit := d.Implicit
			if implicit == "" {
				implicit = "-"
			}
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Key, d.AllowedString(), implicit, d.Description); err != nil {
				return fmt.Errorf("failed to write flag row: %w", err)
			}
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format: %s (supported: text, json, yaml)", f.format)
	}
}

// DisplayBuildResult reports a finished build. JSON and YAML print the
// whole result; text logs a summary.
func (f *OutputFormatter) DisplayBuildResult(ctx context.Context, result *builder.Result) error {
	switch f.format {
	case FormatJSON:
		return f.encodeJSON(result)
	case FormatYAML:
		return f.encodeYAML(result)
	}

	logging.InfoContext(ctx, "Build finished with %d definition(s)", len(result.Definitions))
	for _, file := range result.Staged {
		logging.InfoContext(ctx, "Staged: %s", file.Destination)
	}
	if result.SnapshotPath != "" {
		logging.InfoContext(ctx, "Snapshot: %s", result.SnapshotPath)
	}
	for _, cmd := range result.Commands {
		logging.DebugContext(ctx, "Ran: %s", cmd)
	}
	return nil
}

func (f *OutputFormatter) encodeJSON(v any) error {
	enc := json.NewEncoder(f.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *OutputFormatter) encodeYAML(v any) error {
	enc := yaml.NewEncoder(f.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
