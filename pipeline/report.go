/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pipeline

import (
	"slices"

	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/internal/logger"
)

// Report summarises a build.
type Report struct {
	Input        string
	OutDir       string
	Variables    int
	Combinations int

	// Files maps platform to the relative paths written, in render order.
	Files map[string][]string

	// Platforms lists the built platforms in build order.
	Platforms []string

	// Removed lists stale files deleted from a previous build.
	Removed []string

	Diagnostics []combine.Diagnostic
}

func newReport(p *Prepared, outDir string, outputs []Output) *Report {
	r := &Report{
		Input:        p.Input,
		OutDir:       outDir,
		Variables:    p.Set.Len(),
		Combinations: p.Result.Axes.Count(),
		Files:        map[string][]string{},
		Diagnostics:  p.Result.Diagnostics,
	}
	for _, o := range outputs {
		if !slices.Contains(r.Platforms, o.Platform) {
			r.Platforms = append(r.Platforms, o.Platform)
		}
		r.Files[o.Platform] = append(r.Files[o.Platform], o.Path)
	}
	return r
}

// FileCount returns the number of files written.
func (r *Report) FileCount() int {
	n := 0
	for _, files := range r.Files {
		n += len(files)
	}
	return n
}

// Warnings counts diagnostics indicating bad source data.
func (r *Report) Warnings() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind.IsWarning() {
			n++
		}
	}
	return n
}

// Summary groups warning paths by kind.
func (r *Report) Summary() map[combine.Kind][]string {
	return combine.Summary(r.Diagnostics)
}

type diagnosticKey struct {
	path     string
	kind     combine.Kind
	sentinel string
}

// logDiagnostics logs one line per distinct problem, counting the
// combinations it affects. Fallbacks are logged at debug level.
func logDiagnostics(ds []combine.Diagnostic, axes *combine.AxisValues) {
	counts := map[diagnosticKey]int{}
	var order []diagnosticKey
	first := map[diagnosticKey]combine.Diagnostic{}
	for _, d := range ds {
		k := diagnosticKey{path: d.Path, kind: d.Kind, sentinel: d.Sentinel}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
			first[k] = d
		}
		counts[k]++
	}
	for _, k := range order {
		d := first[k]
		if !d.Kind.IsWarning() {
			logger.Debug("%s: %s (%s)", d.Path, d.Detail, axes.Label(d.Combination))
			continue
		}
		logger.WarnFields(d.Detail, map[string]any{
			"path":         d.Path,
			"kind":         string(d.Kind),
			"combination":  axes.Label(d.Combination),
			"combinations": counts[k],
			"sentinel":     d.Sentinel,
		})
	}
}
