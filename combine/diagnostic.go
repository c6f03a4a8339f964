/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package combine

import (
	"cmp"
	"slices"

	"bennypowers.dev/tokenpipe/resolver"
)

// Kind classifies a diagnostic.
type Kind string

const (
	KindUnresolved Kind = "unresolved"
	KindCircular   Kind = "circular"
	KindMaxDepth   Kind = "max-depth"
	KindFallback   Kind = "fallback"
)

// IsWarning reports whether the kind indicates a data-quality problem.
func (k Kind) IsWarning() bool {
	return k != KindFallback
}

func kindOf(v resolver.Value) Kind {
	switch v.State {
	case resolver.Circular:
		return KindCircular
	case resolver.MaxDepthExceeded:
		return KindMaxDepth
	}
	return KindUnresolved
}

// Diagnostic records a per-token problem under one projected combination.
// Diagnostics of one variable keep enumeration order.
type Diagnostic struct {
	VariableID  string
	Path        string
	Kind        Kind
	Combination Combination
	Detail      string

	// Sentinel is the placeholder emitted in place of the value, if any.
	Sentinel string
}

func sortDiagnostics(ds []Diagnostic) {
	slices.SortStableFunc(ds, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Path, b.Path); c != 0 {
			return c
		}
		return cmp.Compare(a.VariableID, b.VariableID)
	})
}

// Summary groups warning diagnostics by variable path, listing each path once.
func Summary(ds []Diagnostic) map[Kind][]string {
	out := map[Kind][]string{}
	for _, d := range ds {
		if !d.Kind.IsWarning() {
			continue
		}
		if !slices.Contains(out[d.Kind], d.Path) {
			out[d.Kind] = append(out[d.Kind], d.Path)
		}
	}
	return out
}
