/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package emit

import (
	"math"
	"strconv"
	"strings"

	"bennypowers.dev/tokenpipe/graph"
)

// Kind is the presentation class of a token value.
type Kind int

const (
	KindString Kind = iota
	KindColor
	KindFontSize
	KindLineHeight
	KindUnitless
	KindDimension
	KindBoolean
)

func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindFontSize:
		return "fontSize"
	case KindLineHeight:
		return "lineHeight"
	case KindUnitless:
		return "unitless"
	case KindDimension:
		return "dimension"
	case KindBoolean:
		return "boolean"
	}
	return "string"
}

// UnitlessLineHeightMax is the largest line height treated as a ratio.
const UnitlessLineHeightMax = 4

var unitlessHints = []string{"fontweight", "opacity", "zindex", "ratio", "scale"}

// KindOf classifies a variable by type, Figma scopes, then path. A STRING
// literal that parses as a number is sized when its scope or path names a
// size or it carries an explicit px suffix.
func KindOf(v *graph.Variable, lit string) Kind {
	switch v.Type {
	case graph.TypeColor:
		return KindColor
	case graph.TypeBoolean:
		return KindBoolean
	case graph.TypeString:
		if _, ok := ParseNumber(lit); !ok {
			return KindString
		}
		kind, hinted := sizeKind(v)
		if hinted || strings.HasSuffix(strings.TrimSpace(lit), "px") {
			return kind
		}
		return KindString
	}
	kind, _ := sizeKind(v)
	return kind
}

// sizeKind classifies a numeric variable from its scopes and path. hinted
// is false when nothing matched and the kind fell back to KindDimension.
func sizeKind(v *graph.Variable) (kind Kind, hinted bool) {
	path := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(v.Path))
	switch {
	case v.HasScope("FONT_SIZE") || strings.Contains(path, "fontsize"):
		return KindFontSize, true
	case v.HasScope("LINE_HEIGHT") || strings.Contains(path, "lineheight"):
		return KindLineHeight, true
	case v.HasScope("FONT_WEIGHT") || v.HasScope("OPACITY"):
		return KindUnitless, true
	}
	for _, hint := range unitlessHints {
		if strings.Contains(path, hint) {
			return KindUnitless, true
		}
	}
	return KindDimension, false
}

// ParseNumber parses a numeric literal, tolerating a trailing "px".
func ParseNumber(lit string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(lit), "px"), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders f with at most four decimals and no trailing zeros.
func FormatNumber(f float64) string {
	r := math.Round(f*1e4) / 1e4
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// IsRatioLineHeight reports whether a line height is a unitless multiplier.
func IsRatioLineHeight(f float64) bool {
	return f <= UnitlessLineHeightMax
}

// Length renders a numeric literal with web units. fontSizeUnit is "px" or
// "rem"; remBase divides font sizes in rem mode. Non-numeric literals pass
// through unchanged.
func Length(kind Kind, lit, fontSizeUnit string, remBase float64) string {
	f, ok := ParseNumber(lit)
	if !ok {
		return lit
	}
	switch kind {
	case KindFontSize:
		if fontSizeUnit == "rem" && remBase > 0 {
			return FormatNumber(f/remBase) + "rem"
		}
		return FormatNumber(f) + "px"
	case KindLineHeight:
		if IsRatioLineHeight(f) {
			return FormatNumber(f)
		}
		return FormatNumber(f) + "px"
	case KindUnitless:
		return FormatNumber(f)
	case KindDimension:
		return FormatNumber(f) + "px"
	}
	return lit
}
