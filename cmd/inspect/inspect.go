/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package inspect provides the inspect command for tokenpipe.
package inspect

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/tokenpipe/cmd/cmdutil"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/render"
)

// Cmd is the inspect cobra command.
var Cmd = &cobra.Command{
	Use:   "inspect <path-or-id>",
	Short: "Show how a variable resolves in every combination",
	Long: `Show the resolved value of a variable for every combination of the axes it
depends on, with its alias chain and, for colors, a swatch.

The argument is a variable path such as Semantic/Text/textPrimary or a
Figma variable ID.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "table", "Output format: table, markdown, json")
	Cmd.Flags().Bool("no-color", false, "Disable color swatches")
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	noColor, _ := cmd.Flags().GetBool("no-color")

	_, p, err := cmdutil.Prepare(cmd.Context())
	if err != nil {
		return err
	}
	vars, err := find(p.Graph, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, v := range vars {
		rows := render.ComputeRows(p.Result, v.ID)
		switch format {
		case "json":
			err = render.JSON(out, rows)
		case "markdown", "md":
			err = render.Markdown(out, v.Path, rows)
		case "table":
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s (%s, %s)\n", v.Path, v.Type, p.Set.Get(v.ID).Layer)
			if v.Description != "" {
				fmt.Fprintf(out, "  %s\n", v.Description)
			}
			if err = render.Table(out, rows, !noColor); err != nil {
				return err
			}
			if uses := render.Uses(p.Result, v.ID); len(uses) > 0 {
				fmt.Fprintf(out, "  uses: %s\n", strings.Join(uses, ", "))
			}
			if usedBy := render.UsedBy(p.Result, v.ID); len(usedBy) > 0 {
				fmt.Fprintf(out, "  used by: %s\n", strings.Join(usedBy, ", "))
			}
		default:
			return fmt.Errorf("unknown format %q: expected table, markdown or json", format)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// find resolves arg as a variable ID, then as a path. Paths compare
// case-insensitively when there is no exact match.
func find(g *graph.Graph, arg string) ([]*graph.Variable, error) {
	if v := g.Variable(arg); v != nil {
		return []*graph.Variable{v}, nil
	}
	if vs := g.FindByPath(arg); len(vs) > 0 {
		return vs, nil
	}
	var out []*graph.Variable
	for _, v := range g.Variables() {
		if strings.EqualFold(v.Path, arg) {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no variable with path or ID %q", arg)
	}
	return out, nil
}
