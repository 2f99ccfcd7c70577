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

// Package buildinfo records the environment a build was configured in.
//
// The snapshot is written as JSON into the build directory
// (configs/Environment.json by default) so a finished build can be traced
// back to the tool version, source revision, flag definitions and
// environment that produced it. Sensitive environment values are redacted
// before they are written.
package buildinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cowdogmoo/nekobuild/errors"
	"github.com/cowdogmoo/nekobuild/logging"
)

// ToolName is recorded in every snapshot.
const ToolName = "nekobuild"

// Snapshot is the document written to the build directory.
type Snapshot struct {
	Tool        string            `json:"tool"`
	Version     string            `json:"version"`
	GeneratedAt time.Time         `json:"generated_at"`
	Project     string            `json:"project,omitempty"`
	SourceDir   string            `json:"source_dir"`
	BuildDir    string            `json:"build_dir"`
	Revision    *Revision         `json:"revision,omitempty"`
	Author      string            `json:"author,omitempty"`
	Definitions map[string]string `json:"definitions"`
	Environment map[string]string `json:"environment"`
}

// Input carries the build-specific parts of a snapshot.
type Input struct {
	Project     string
	SourceDir   string
	BuildDir    string
	Definitions map[string]string
}

// AuthorSource reports the user running the build.
type AuthorSource interface {
	Author(ctx context.Context) string
}

// Recorder collects and writes snapshots. The function fields exist so
// tests can pin time, environment and repository state.
type Recorder struct {
	Version  string
	Now      func() time.Time
	Environ  func() []string
	Authors  AuthorSource
	Revision func(ctx context.Context, dir string) (*Revision, error)
}

// NewRecorder returns a Recorder reading the real clock, environment,
// ~/.gitconfig and git repository.
func NewRecorder(version string) *Recorder {
	return &Recorder{
		Version:  version,
		Now:      time.Now,
		Environ:  os.Environ,
		Authors:  NewAuthorReader(),
		Revision: ReadRevision,
	}
}

// Collect assembles a snapshot for in. A repository that cannot be read is
// logged and left out rather than failing the build.
func (r *Recorder) Collect(ctx context.Context, in Input) *Snapshot {
	snap := &Snapshot{
		Tool:        ToolName,
		Version:     r.Version,
		GeneratedAt: r.Now().UTC(),
		Project:     in.Project,
		SourceDir:   in.SourceDir,
		BuildDir:    in.BuildDir,
		Definitions: copyMap(in.Definitions),
		Environment: logging.RedactEnv(parseEnviron(r.Environ())),
	}
	if r.Authors != nil {
		snap.Author = r.Authors.Author(ctx)
	}
	if r.Revision != nil {
		rev, err := r.Revision(ctx, in.SourceDir)
		if err != nil {
			logging.WarnContext(ctx, "Could not read source revision: %v", err)
		}
		snap.Revision = rev
	}
	return snap
}

// Write encodes snap as indented JSON at path, creating parent directories.
// The file is replaced atomically.
func (r *Recorder) Write(ctx context.Context, path string, snap *Snapshot) (retErr error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Wrap("encode snapshot", "", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap("create snapshot directory", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return errors.Wrap("write snapshot", path, err)
	}
	defer func() {
		if retErr != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap("write snapshot", path, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap("write snapshot", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap("write snapshot", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap("write snapshot", path, err)
	}

	logging.DebugContext(ctx, "Wrote build snapshot to %s", path)
	return nil
}

// Record collects a snapshot for in and writes it to path.
func (r *Recorder) Record(ctx context.Context, path string, in Input) (*Snapshot, error) {
	snap := r.Collect(ctx, in)
	if err := r.Write(ctx, path, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// Read decodes a snapshot file.
func Read(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap("read snapshot", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// parseEnviron turns KEY=VALUE entries into a map. Entries without a key,
// such as the per-drive "=C:" variables on Windows, are skipped.
func parseEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
