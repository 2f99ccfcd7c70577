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

// Package runner executes the external tools nekobuild drives (cmake and the
// package manager). ExecRunner runs them for real and DryRunRunner only
// records what would have run.
package runner

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/kballard/go-shellquote"
	"golang.org/x/sync/errgroup"

	"github.com/cowdogmoo/nekobuild/logging"
)

// Command is a single external invocation.
type Command struct {
	Name string   `json:"name" yaml:"name"`
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`
	// Dir is the working directory; empty means the current one.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
	// Env is appended to the inherited environment.
	Env []string `json:"env,omitempty" yaml:"env,omitempty"`
}

// String renders the command as a copy-pasteable shell line.
func (c Command) String() string {
	return shellquote.Join(append([]string{c.Name}, c.Args...)...)
}

// Runner runs commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// tailLines is how much stderr an ExitError keeps.
const tailLines = 20

// ExitError reports a command that ran and failed.
type ExitError struct {
	Command Command
	Code    int
	// Tail holds the last lines the command wrote to stderr.
	Tail []string
	Err  error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Command.Name, e.Code)
	if len(e.Tail) > 0 {
		msg += ":\n  " + strings.Join(e.Tail, "\n  ")
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec and streams their output, line by
// line, to the context logger.
type ExecRunner struct{}

// NewExecRunner returns an ExecRunner.
func NewExecRunner() *ExecRunner { return &ExecRunner{} }

// Run starts cmd and waits for it. A non-zero exit is an *ExitError.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}

	stdout, err := c.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach stdout: %w", err)
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to attach stderr: %w", err)
	}

	logging.InfoContext(ctx, "Running: %s", cmd)
	if err := c.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", cmd.Name, err)
	}

	tail := &ring{max: tailLines}
	var g errgroup.Group
	g.Go(func() error {
		return stream(stdout, func(line string) { logging.InfoContext(ctx, "%s", line) })
	})
	g.Go(func() error {
		return stream(stderr, func(line string) {
			tail.add(line)
			logging.InfoContext(ctx, "%s", line)
		})
	})
	// Pipes must be drained before Wait closes them.
	streamErr := g.Wait()

	if err := c.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s interrupted: %w", cmd.Name, ctxErr)
		}
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			return &ExitError{Command: cmd, Code: exitErr.ExitCode(), Tail: tail.lines(), Err: err}
		}
		return fmt.Errorf("%s failed: %w", cmd.Name, err)
	}
	if streamErr != nil {
		return fmt.Errorf("failed to read %s output: %w", cmd.Name, streamErr)
	}
	return nil
}

// maxLineSize bounds a single output line.
const maxLineSize = 1024 * 1024

// stream emits r line by line. After a scan error the rest of r is
// discarded so the child never blocks on a full pipe.
func stream(r io.Reader, emit func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		emit(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

type ring struct {
	mu  sync.Mutex
	max int
	buf []string
}

func (r *ring) add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf = append(r.buf, line)
	if len(r.buf) > r.max {
		r.buf = r.buf[len(r.buf)-r.max:]
	}
}

func (r *ring) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.buf...)
}

// DryRunRunner logs and records commands without running them.
type DryRunRunner struct {
	mu       sync.Mutex
	commands []Command
}

// NewDryRunRunner returns an empty DryRunRunner.
func NewDryRunRunner() *DryRunRunner { return &DryRunRunner{} }

// Run records cmd. It fails only when ctx is done.
func (d *DryRunRunner) Run(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	d.commands = append(d.commands, cmd)
	d.mu.Unlock()

	logging.InfoContext(ctx, "[dry-run] %s", cmd)
	return nil
}

// Commands returns the recorded commands in call order.
func (d *DryRunRunner) Commands() []Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Command(nil), d.commands...)
}
