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

package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// configHome returns $XDG_CONFIG_HOME, or ~/.config when it is unset.
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config")
	}
	return ""
}

// GetConfigDirs returns the directories searched for config.yaml, highest
// priority first: the XDG config home, ~/.nekobuild, then the system XDG
// directories on Linux and the BSDs.
func GetConfigDirs() []string {
	var dirs []string

	if home := configHome(); home != "" {
		dirs = append(dirs, filepath.Join(home, appName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "."+appName))
	}

	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd":
		system := os.Getenv("XDG_CONFIG_DIRS")
		if system == "" {
			dirs = append(dirs, filepath.Join("/etc", "xdg", appName))
			break
		}
		for _, dir := range filepath.SplitList(system) {
			if dir != "" {
				dirs = append(dirs, filepath.Join(dir, appName))
			}
		}
	}

	return dirs
}

// ConfigFile returns the path where a new config file named filename is
// created, making its parent directory if needed.
func ConfigFile(filename string) (string, error) {
	home := configHome()
	if home == "" {
		return "", os.ErrNotExist
	}

	path := filepath.Join(home, appName, filename)
	if err := os.MkdirAll(filepath.Dir(path), DirPermReadWriteExec); err != nil {
		return "", err
	}
	return path, nil
}
