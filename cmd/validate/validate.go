/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for tokenpipe.
package validate

import (
	"fmt"

	"github.com/spf13/cobra"

	"bennypowers.dev/tokenpipe/cmd/cmdutil"
	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/render"
	"bennypowers.dev/tokenpipe/validator"
)

// Cmd is the validate cobra command.
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the Figma export for data problems",
	Long: `Load and resolve the configured Figma export without writing output, then
report mode keys that do not belong to their collection, alias and literal
type mismatches, unresolved and circular references, and sizes that differ
suspiciously between content brands.

Configuration mismatches and duplicate paths are fatal. Everything else is a
warning unless --strict is set.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("strict", false, "Fail on warnings")
}

func run(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")

	_, p, err := cmdutil.Prepare(cmd.Context())
	if err != nil {
		return err
	}

	findings := validator.ValidateGraph(p.Graph)
	findings = append(findings, validator.CheckMagnitudes(p.Result)...)
	summary := combine.Summary(p.Result.Diagnostics)
	if err := render.Findings(cmd.OutOrStdout(), findings, summary); err != nil {
		return err
	}

	problems := len(findings)
	for _, paths := range summary {
		problems += len(paths)
	}
	if strict && problems > 0 {
		return fmt.Errorf("validation failed: %d problems", problems)
	}
	return nil
}
