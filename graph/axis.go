/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package graph

import "strings"

// Axis is an independent dimension of token variation.
type Axis int

const (
	// AxisNone marks collections that do not vary along any axis (primitives).
	AxisNone Axis = iota
	// AxisColorBrand varies color by brand (BRAND_COLOR_MAPPING modes).
	AxisColorBrand
	// AxisContentBrand varies typography, sizing and other content by brand (BRAND_TOKEN_MAPPING modes).
	AxisContentBrand
	// AxisTheme varies by color mode (light/dark).
	AxisTheme
	// AxisDensity varies by density (compact/default/spacious).
	AxisDensity
	// AxisBreakpoint varies by viewport breakpoint (xs/sm/md/lg).
	AxisBreakpoint
)

// Axes lists every real axis in declared enumeration order.
var Axes = []Axis{AxisColorBrand, AxisContentBrand, AxisTheme, AxisDensity, AxisBreakpoint}

var axisNames = map[Axis]string{
	AxisNone:         "none",
	AxisColorBrand:   "colorBrand",
	AxisContentBrand: "contentBrand",
	AxisTheme:        "theme",
	AxisDensity:      "density",
	AxisBreakpoint:   "breakpoint",
}

func (a Axis) String() string {
	if name, ok := axisNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAxis converts an axis name (case-insensitive) to an Axis.
func ParseAxis(s string) (Axis, bool) {
	for a, name := range axisNames {
		if strings.EqualFold(name, s) {
			return a, a != AxisNone
		}
	}
	return AxisNone, false
}

// AxisSet is a set of axes.
type AxisSet uint8

func bit(a Axis) AxisSet {
	if a == AxisNone {
		return 0
	}
	return 1 << (a - 1)
}

// SetOf builds a set from the given axes.
func SetOf(axes ...Axis) AxisSet {
	var s AxisSet
	for _, a := range axes {
		s |= bit(a)
	}
	return s
}

// Has reports whether a is in the set.
func (s AxisSet) Has(a Axis) bool {
	return a != AxisNone && s&bit(a) != 0
}

// With returns the set with a added.
func (s AxisSet) With(a Axis) AxisSet {
	return s | bit(a)
}

// Without returns the set with a removed.
func (s AxisSet) Without(a Axis) AxisSet {
	return s &^ bit(a)
}

// Union returns the union of both sets.
func (s AxisSet) Union(o AxisSet) AxisSet {
	return s | o
}

// IsEmpty reports whether the set contains no axes.
func (s AxisSet) IsEmpty() bool {
	return s == 0
}

// Axes returns the members in declared order.
func (s AxisSet) Axes() []Axis {
	var out []Axis
	for _, a := range Axes {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s AxisSet) String() string {
	if s.IsEmpty() {
		return "none"
	}
	names := make([]string, 0, len(Axes))
	for _, a := range s.Axes() {
		names = append(names, a.String())
	}
	return strings.Join(names, "+")
}

// MarshalText renders the set as its String form.
func (s AxisSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
