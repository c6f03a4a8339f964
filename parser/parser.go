/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package parser loads a Figma variables export into a variable graph.
//
// The loader is a structural parse only: aliases are recorded, not resolved.
// Unknown fields in the export are ignored.
package parser

import (
	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/graph"
)

// roleAxes maps collection roles to the axis their modes vary over.
var roleAxes = map[string]graph.Axis{
	config.RoleBrandColorMapping: graph.AxisColorBrand,
	config.RoleBrandTokenMapping: graph.AxisContentBrand,
	config.RoleColorMode:         graph.AxisTheme,
	config.RoleDensity:           graph.AxisDensity,
	config.RoleBreakpointMode:    graph.AxisBreakpoint,
}
