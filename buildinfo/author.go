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

package buildinfo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/cowdogmoo/nekobuild/logging"
)

// AuthorReader reads the user's identity from ~/.gitconfig.
type AuthorReader struct {
	// Home overrides the home directory; empty means os.UserHomeDir.
	Home string
}

// NewAuthorReader creates a reader for the current user.
func NewAuthorReader() *AuthorReader {
	return &AuthorReader{}
}

// Author returns "Name <email>", "Name", "email" or "" when git has no user
// configured. Lookup problems are logged at debug level and never fail.
func (r *AuthorReader) Author(ctx context.Context) string {
	home := r.Home
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			logging.DebugContext(ctx, "Failed to get home directory: %v", err)
			return ""
		}
	}

	cfg := r.loadGitConfig(ctx, home)
	if cfg == nil {
		return ""
	}

	name, email := userInfo(cfg)
	if name == "" || email == "" {
		name, email = r.fromInclude(ctx, cfg, home, name, email)
	}
	return formatAuthor(name, email)
}

func (r *AuthorReader) loadGitConfig(ctx context.Context, home string) *ini.File {
	path := filepath.Join(home, ".gitconfig")
	cfg, err := ini.Load(path)
	if err != nil {
		logging.DebugContext(ctx, "Failed to load %s: %v", path, err)
		return nil
	}
	return cfg
}

func userInfo(cfg *ini.File) (name, email string) {
	section := cfg.Section("user")
	return section.Key("name").String(), section.Key("email").String()
}

// fromInclude fills missing values from an [include] path; values already
// found win.
func (r *AuthorReader) fromInclude(ctx context.Context, cfg *ini.File, home, name, email string) (string, string) {
	path := cfg.Section("include").Key("path").String()
	if path == "" {
		return name, email
	}
	path = expandPath(path, home)

	included, err := ini.Load(path)
	if err != nil {
		logging.DebugContext(ctx, "Failed to load included config from %s: %v", path, err)
		return name, email
	}

	incName, incEmail := userInfo(included)
	if name == "" {
		name = incName
	}
	if email == "" {
		email = incEmail
	}
	return name, email
}

// expandPath resolves ~ and environment variables. Relative include paths
// are relative to the directory holding .gitconfig.
func expandPath(path, home string) string {
	if path == "~" {
		path = home
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(home, path[2:])
	}
	path = os.ExpandEnv(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(home, path)
	}
	return path
}

func formatAuthor(name, email string) string {
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s <%s>", name, email)
	case name != "":
		return name
	default:
		return email
	}
}
