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

	"github.com/spf13/cobra"

	"github.com/cowdogmoo/nekobuild/buildflags"
	"github.com/cowdogmoo/nekobuild/builder"
	"github.com/cowdogmoo/nekobuild/cli"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [build-flag...] [-- build-flag...]",
	Short: "Resolve build flags into cmake definitions",
	Long: `Resolve build flags and print the cmake definitions they produce
without configuring anything.

Examples:
  nekobuild resolve shared=ON
  nekobuild resolve --shared --build-type Release
  nekobuild resolve -o cmake -- --shared --build-type Release
  nekobuild resolve --with-defaults -o json pic`,
	Args: cobra.ArbitraryArgs,
	RunE: runResolve,
}

func init() {
	registerProjectFlags(resolveCmd)
	registerRegistryFlags(resolveCmd)
	resolveCmd.Flags().StringP("output", "o", cli.FormatText, "Output format (text, json, yaml, cmake)")
	resolveCmd.Flags().Bool("with-defaults", false, "Merge config and manifest defaults under the given flags")
}

func runResolve(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	withDefaults, _ := cmd.Flags().GetBool("with-defaults")

	if err := cli.NewValidator().ValidateOutputFormat(output,
		cli.FormatText, cli.FormatJSON, cli.FormatYAML, cli.FormatCMake); err != nil {
		return err
	}

	reg := buildflags.DefaultRegistry()
	sel, err := reg.Resolve(buildFlagArgs(cmd, args))
	if err != nil {
		return err
	}

	if withDefaults {
		cfg := configFromContext(cmd)
		if cfg == nil {
			return fmt.Errorf("configuration not initialized")
		}
		defaults, err := reg.Defaults(cfg.Build.Defaults)
		if err != nil {
			return fmt.Errorf("invalid build.defaults in config: %w", err)
		}
		src, _, err := projectPaths(cfg)
		if err != nil {
			return err
		}
		m, err := loadManifest(cfg, src)
		if err != nil {
			return err
		}
		svc := &builder.Service{Registry: reg}
		sel, err = svc.Definitions(builder.Request{Defaults: defaults, Manifest: m, Selection: sel})
		if err != nil {
			return err
		}
	}

	return cli.NewOutputFormatterTo(output, cmd.OutOrStdout()).DisplaySelection(sel)
}
