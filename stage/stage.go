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

// Package stage copies project files into the build directory before the
// build is configured.
package stage

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/cowdogmoo/nekobuild/logging"
	"github.com/cowdogmoo/nekobuild/manifest"
)

// ErrCopyFailed matches every *CopyError.
var ErrCopyFailed = stderrors.New("copy failed")

// CopyError reports a file that could not be staged.
type CopyError struct {
	Source      string
	Destination string
	Err         error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("failed to copy %s to %s: %v", e.Source, e.Destination, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCopyFailed) true for any CopyError.
func (e *CopyError) Is(target error) bool { return target == ErrCopyFailed }

// File is a resolved copy operation with absolute paths.
type File struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
}

// Stager copies manifest stage entries from SourceDir into BuildDir.
type Stager struct {
	SourceDir string
	BuildDir  string
	// Concurrency caps parallel copies; zero or less means four.
	Concurrency int
}

// New returns a Stager for the given directories.
func New(sourceDir, buildDir string) *Stager {
	return &Stager{SourceDir: sourceDir, BuildDir: buildDir}
}

// Plan resolves entries to absolute copy operations without touching disk.
func (s *Stager) Plan(entries []manifest.StageEntry) []File {
	files := make([]File, 0, len(entries))
	for _, e := range entries {
		files = append(files, File{
			Source:      filepath.Join(s.SourceDir, e.Source),
			Destination: filepath.Join(s.BuildDir, e.Target()),
		})
	}
	return files
}

// Stage copies every entry. The first failure cancels the remaining copies
// and is returned as a *CopyError.
func (s *Stager) Stage(ctx context.Context, entries []manifest.StageEntry) ([]File, error) {
	files := s.Plan(entries)
	if len(files) == 0 {
		return files, nil
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, f := range files {
		g.Go(func() error {
			logging.DebugContext(gctx, "Staging %s -> %s", f.Source, f.Destination)
			return CopyFile(gctx, f.Source, f.Destination)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logging.InfoContext(ctx, "Staged %d file(s) into %s", len(files), s.BuildDir)
	return files, nil
}

// CopyFile copies src to dst, creating dst's parent directories and keeping
// src's permission bits. The destination is replaced atomically. Any
// failure is returned as a *CopyError.
func CopyFile(ctx context.Context, src, dst string) error {
	if err := copyFile(ctx, src, dst); err != nil {
		return &CopyError{Source: src, Destination: dst, Err: err}
	}
	return nil
}

func copyFile(ctx context.Context, src, dst string) (retErr error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := srcFile.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("failed to close source file: %w", closeErr)
		}
	}()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if retErr != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, srcFile); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(tmpName, dst)
}
