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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cowdogmoo/nekobuild/buildflags"
)

// flagTokens records build flags given as dashed command-line flags, in
// the order pflag parsed them, as name=value tokens for Registry.Resolve.
type flagTokens struct {
	tokens []string
}

// buildFlagValue is the pflag.Value behind --shared, --build-type and the
// other registry flags. Set only records; validation belongs to Resolve so
// a bad value surfaces as an InvalidValueError.
type buildFlagValue struct {
	name  string
	value string
	rec   *flagTokens
}

func (v *buildFlagValue) String() string { return v.value }

func (v *buildFlagValue) Set(s string) error {
	v.value = s
	v.rec.tokens = append(v.rec.tokens, v.name+"="+s)
	return nil
}

func (v *buildFlagValue) Type() string { return "value" }

// buildFlagRecorders holds the recorder of every command with registry flags.
var buildFlagRecorders = map[*cobra.Command]*flagTokens{}

// registerRegistryFlags adds one flag per registered build flag to cmd.
// Flags with an implicit value may be given bare (--shared).
func registerRegistryFlags(cmd *cobra.Command) {
	rec := &flagTokens{}
	buildFlagRecorders[cmd] = rec
	for _, def := range buildflags.DefaultRegistry().Definitions() {
		usage := fmt.Sprintf("%s [%s] (sets %s)", def.Description, def.AllowedString(), def.Key)
		f := cmd.Flags().VarPF(&buildFlagValue{name: def.Name, rec: rec}, def.Name, "", usage)
		if def.HasImplicit() {
			f.NoOptDefVal = def.Implicit
		}
	}
}

// buildFlagArgs returns the tokens to resolve for cmd: the dashed registry
// flags in command-line order, then the positional tokens, so tokens after
// -- are applied last.
func buildFlagArgs(cmd *cobra.Command, args []string) []string {
	var out []string
	if rec, ok := buildFlagRecorders[cmd]; ok {
		out = append(out, rec.tokens...)
	}
	return append(out, args...)
}

// resetBuildFlagTokens clears what earlier parses recorded.
func resetBuildFlagTokens() {
	for _, rec := range buildFlagRecorders {
		rec.tokens = nil
	}
}

// buildFlagError turns an unknown long flag on a command that takes build
// flags into an UnknownFlagError with registry suggestions. Other parse
// errors pass through.
func buildFlagError(cmd *cobra.Command, err error) error {
	if _, ok := buildFlagRecorders[cmd]; !ok {
		return err
	}
	rest, ok := strings.CutPrefix(err.Error(), "unknown flag: --")
	if !ok {
		return err
	}
	name, _, _ := strings.Cut(rest, "=")
	if _, lookupErr := buildflags.DefaultRegistry().Lookup(name); lookupErr != nil {
		return lookupErr
	}
	return err
}
