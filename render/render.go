/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package render provides shared rendering functions for CLI output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/mazznoer/csscolorparser"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/resolver"
)

// Row holds computed display values for one variable under one combination.
type Row struct {
	// Combination is the mode label, e.g. "theme=Light, density=compact".
	Combination string   `json:"combination"`
	Value       string   `json:"value"`
	State       string   `json:"state"`
	Chain       []string `json:"chain,omitempty"`
	// Fallback is the path of the variable that supplied a fallback value.
	Fallback string `json:"fallback,omitempty"`
	Detail   string `json:"detail,omitempty"`
	IsColor  bool   `json:"-"`
}

// ComputeRows returns one row per combination of the variable's affinity axes.
func ComputeRows(res *combine.Result, id string) []Row {
	g := res.Set.Graph()
	variants := res.Variants(id)
	rows := make([]Row, 0, len(variants))
	for _, v := range variants {
		tok := v.Token
		row := Row{
			Combination: res.Axes.Label(v.Combination),
			Value:       tok.Text,
			State:       tok.Value.State.String(),
			Chain:       chainNames(g, tok.Value.Chain),
		}
		if tok.Fallback() {
			if fv := g.Variable(tok.FallbackFrom); fv != nil {
				row.Fallback = fv.Path
			}
		}
		if !tok.OK() {
			row.Detail = tok.Value.Describe(g)
		} else if lv := res.Set.Get(id); lv != nil && lv.Type == graph.TypeColor {
			_, err := csscolorparser.Parse(tok.Text)
			row.IsColor = err == nil
		}
		rows = append(rows, row)
	}
	return rows
}

// Uses returns the paths of the variables id aliases in any mode, sorted.
// Dangling targets keep their raw ID.
func Uses(res *combine.Result, id string) []string {
	return paths(res.Set.Graph(), res.Set.Dependencies().Dependencies(id))
}

// UsedBy returns the paths of the variables that alias id in any mode, sorted.
func UsedBy(res *combine.Result, id string) []string {
	return paths(res.Set.Graph(), res.Set.Dependencies().Dependents(id))
}

func paths(g *graph.Graph, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if v := g.Variable(id); v != nil {
			out = append(out, v.Path)
			continue
		}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func chainNames(g *graph.Graph, chain []resolver.Step) []string {
	if len(chain) < 2 {
		return nil
	}
	out := make([]string, 0, len(chain))
	for _, s := range chain {
		name := s.VariableID
		if v := g.Variable(s.VariableID); v != nil {
			name = v.Path
			if c := g.CollectionOf(v); c != nil && len(c.Modes) > 1 {
				if m, ok := c.Mode(s.ModeID); ok {
					name += ":" + m.Name
				}
			}
		}
		out = append(out, name)
	}
	return out
}

// ColumnWidths calculates the max width needed for the combination and value columns.
func ColumnWidths(rows []Row) (combination, value int) {
	combination, value = 11, 5 // minimums for headers
	for _, r := range rows {
		combination = max(combination, len(r.Combination))
		value = max(value, len(r.Value))
	}
	return
}

// ColorSwatch returns a 24-bit ANSI color block for the given color value.
func ColorSwatch(value string) string {
	c, err := csscolorparser.Parse(value)
	if err != nil {
		return ""
	}
	r, g, b, _ := c.RGBA255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m ", r, g, b)
}

// Table renders rows as an aligned table. Swatches are drawn when color is set.
func Table(w io.Writer, rows []Row, color bool) error {
	if len(rows) == 0 {
		return nil
	}
	combW, valW := ColumnWidths(rows)
	for _, r := range rows {
		swatch := ""
		if color && r.IsColor {
			swatch = ColorSwatch(r.Value)
		}
		suffix := ""
		switch {
		case r.Detail != "":
			suffix = "  " + r.Detail
		case r.Fallback != "":
			suffix = "  (fallback from " + r.Fallback + ")"
		case len(r.Chain) > 0:
			suffix = "  " + strings.Join(r.Chain, " → ")
		}
		if _, err := fmt.Fprintf(w, "%-*s  %s%-*s%s\n", combW, r.Combination, swatch, valW, r.Value, strings.TrimRight(suffix, " ")); err != nil {
			return err
		}
	}
	return nil
}

// Markdown renders rows as a markdown table under a heading.
func Markdown(w io.Writer, title string, rows []Row) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s {#%s}\n\n", toTitleCase(title), slugify(title))
	combW, valW := ColumnWidths(rows)
	refW := 9 // "Reference"
	for _, r := range rows {
		refW = max(refW, len(reference(r)))
	}
	fmt.Fprintf(&sb, "| %-*s | %-*s | %-*s |\n", combW, "Combination", valW, "Value", refW, "Reference")
	fmt.Fprintf(&sb, "|-%s-|-%s-|-%s-|\n", strings.Repeat("-", combW), strings.Repeat("-", valW), strings.Repeat("-", refW))
	for _, r := range rows {
		fmt.Fprintf(&sb, "| %-*s | %-*s | %-*s |\n", combW, r.Combination, valW, r.Value, refW, reference(r))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func reference(r Row) string {
	if r.Fallback != "" {
		return "fallback: " + r.Fallback
	}
	return strings.Join(r.Chain, " → ")
}

// JSON renders rows as an indented JSON array.
func JSON(w io.Writer, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// slugify converts a name to a URL-safe anchor ID.
// e.g., "Semantic/Text Primary" -> "semantic-text-primary"
func slugify(name string) string {
	var result strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else if r == ' ' || r == '-' || r == '_' || r == '.' || r == '/' {
			result.WriteRune('-')
		}
	}
	s := result.String()
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

// toTitleCase converts a string to Title Case.
func toTitleCase(s string) string {
	caser := cases.Title(language.English)
	return caser.String(s)
}
