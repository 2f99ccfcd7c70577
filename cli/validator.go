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
	"fmt"
	"os"
	"strings"
)

// Validator validates CLI input before passing to business logic.
type Validator struct{}

// NewValidator creates a new CLI validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateBuildOptions validates build command options for correctness and consistency.
func (v *Validator) ValidateBuildOptions(opts BuildCLIOptions) error {
	if err := v.validateDirectories(opts); err != nil {
		return err
	}

	if opts.Jobs < 0 {
		return fmt.Errorf("--jobs must be zero or positive, got %d", opts.Jobs)
	}

	if opts.Target != "" && opts.ConfigureOnly {
		return fmt.Errorf("--target cannot be combined with --configure-only")
	}

	return nil
}

// validateDirectories checks the source directory exists and the build
// directory is not an existing file.
func (v *Validator) validateDirectories(opts BuildCLIOptions) error {
	if opts.SourceDir == "" {
		return fmt.Errorf("source directory is required")
	}
	info, err := os.Stat(opts.SourceDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("source directory %s does not exist", opts.SourceDir)
	}
	if err != nil {
		return fmt.Errorf("source directory %s: %w", opts.SourceDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source directory %s is not a directory", opts.SourceDir)
	}

	if opts.BuildDir == "" {
		return fmt.Errorf("build directory is required")
	}
	if info, err := os.Stat(opts.BuildDir); err == nil && !info.IsDir() {
		return fmt.Errorf("build directory %s exists and is not a directory", opts.BuildDir)
	}
	return nil
}

// ValidateOutputFormat checks format against the formats a command supports.
func (v *Validator) ValidateOutputFormat(format string, supported ...string) error {
	for _, s := range supported {
		if format == s {
			return nil
		}
	}
	return fmt.Errorf("unknown format: %s (supported: %s)", format, strings.Join(supported, ", "))
}

// ValidateConfigKey validates a dotted config key such as log.level.
func (v *Validator) ValidateConfigKey(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}
	if !isValidConfigKey(key) {
		return fmt.Errorf("invalid config key format: %s (use dot notation like log.level)", key)
	}
	return nil
}

// isValidConfigKey checks if a config key is in valid format.
func isValidConfigKey(key string) bool {
	if key == "" {
		return false
	}

	// Must not start or end with dot
	if strings.HasPrefix(key, ".") || strings.HasSuffix(key, ".") {
		return false
	}

	// Must not have consecutive dots
	if strings.Contains(key, "..") {
		return false
	}

	return true
}
