/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// AlphaThreshold is the alpha at or above which a color is treated as opaque.
const AlphaThreshold = 0.999

// rgba is Figma's float color representation, channels in [0,1].
type rgba struct {
	R *float64 `json:"r"`
	G *float64 `json:"g"`
	B *float64 `json:"b"`
	A *float64 `json:"a"`
}

func (c rgba) isColor() bool {
	return c.R != nil && c.G != nil && c.B != nil
}

// hex normalises the color to #RRGGBB, or #RRGGBBAA when translucent.
func (c rgba) hex() string {
	col := colorful.Color{R: *c.R, G: *c.G, B: *c.B}.Clamped()
	out := strings.ToUpper(col.Hex())
	if c.A == nil {
		return out
	}
	a := math.Max(0, math.Min(1, *c.A))
	if a >= AlphaThreshold {
		return out
	}
	return out + fmt.Sprintf("%02X", uint8(math.Round(a*255)))
}
