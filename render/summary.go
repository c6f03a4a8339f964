/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/pipeline"
	"bennypowers.dev/tokenpipe/validator"
)

type styles struct {
	heading lipgloss.Style
	muted   lipgloss.Style
	warn    lipgloss.Style
	ok      lipgloss.Style
}

// newStyles binds styles to w so color is only emitted for terminals.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		ok:      r.NewStyle().Foreground(lipgloss.Color("42")),
	}
}

// warningKinds lists diagnostic kinds in display order.
var warningKinds = []combine.Kind{
	combine.KindUnresolved,
	combine.KindCircular,
	combine.KindMaxDepth,
}

// Summary writes a build report: files per platform, then every
// warning path grouped by kind. Warnings are always listed.
func Summary(w io.Writer, r *pipeline.Report) error {
	st := newStyles(w)
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s\n", st.heading.Render("Built"), r.Input)
	fmt.Fprintf(&sb, "  %d variables, %d combinations\n", r.Variables, r.Combinations)
	for _, p := range r.Platforms {
		fmt.Fprintf(&sb, "  %-8s %s\n", p, st.muted.Render(fmt.Sprintf("%d files", len(r.Files[p]))))
	}
	fmt.Fprintf(&sb, "  %s %d files in %s\n", st.ok.Render("wrote"), r.FileCount(), r.OutDir)
	if len(r.Removed) > 0 {
		fmt.Fprintf(&sb, "  %s %d stale files\n", st.muted.Render("removed"), len(r.Removed))
	}

	sb.WriteString(warnings(st, r.Summary()))

	_, err := io.WriteString(w, sb.String())
	return err
}

// warnings renders warning paths grouped by kind. Empty when there are none.
func warnings(st styles, summary map[combine.Kind][]string) string {
	var sb strings.Builder
	for _, k := range warningKinds {
		paths := slices.Clone(summary[k])
		if len(paths) == 0 {
			continue
		}
		slices.Sort(paths)
		fmt.Fprintf(&sb, "%s %s (%d)\n", st.warn.Render("warning"), k, len(paths))
		for _, p := range paths {
			fmt.Fprintf(&sb, "  - %s\n", p)
		}
	}
	return sb.String()
}

// Findings writes validation findings, one per line, followed by warning
// paths from resolution.
func Findings(w io.Writer, findings []validator.ValidationError, summary map[combine.Kind][]string) error {
	st := newStyles(w)
	var sb strings.Builder
	for _, f := range findings {
		fmt.Fprintf(&sb, "%s %s\n", st.warn.Render("invalid"), f.Error())
	}
	sb.WriteString(warnings(st, summary))
	if sb.Len() == 0 {
		sb.WriteString(st.ok.Render("no problems found") + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
