/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/parser"
	"bennypowers.dev/tokenpipe/testutil"
)

func TestParse_Fixture(t *testing.T) {
	_, g := testutil.BasicGraph(t)

	assert.Equal(t, 33, g.Len())

	red := testutil.MustFind(t, g, "Color/red500")
	assert.Equal(t, graph.Literal("#DD0000"), red.Values["m-color"])
	assert.Equal(t, "BILD red", red.Description)

	blue := testutil.MustFind(t, g, "Color/blue500")
	assert.Equal(t, "#0066CC", blue.Values["m-color"].Literal)

	overlay := testutil.MustFind(t, g, "Color/overlay")
	assert.Equal(t, "#00000080", overlay.Values["m-color"].Literal)

	lh := testutil.MustFind(t, g, "LineHeight/lineHeight120")
	assert.Equal(t, "1.2", lh.Values["m-font"].Literal)
	assert.True(t, lh.HasScope("LINE_HEIGHT"))

	flag := testutil.MustFind(t, g, "Semantic/Feature/showBadge")
	assert.Equal(t, "false", flag.Values["cm-dark"].Literal)

	primary := testutil.MustFind(t, g, "Brand/Color/primary")
	assert.Equal(t, graph.Alias("VariableID:red500", ""), primary.Values["cb-bild"])

	helper := testutil.MustFind(t, g, "Semantic/Internal/helper")
	assert.True(t, helper.Hidden)
}

func TestParse_CollectionsJoinConfig(t *testing.T) {
	_, g := testutil.BasicGraph(t)

	tests := []struct {
		role string
		axis graph.Axis
	}{
		{config.RoleBrandColorMapping, graph.AxisColorBrand},
		{config.RoleBrandTokenMapping, graph.AxisContentBrand},
		{config.RoleColorMode, graph.AxisTheme},
		{config.RoleDensity, graph.AxisDensity},
		{config.RoleBreakpointMode, graph.AxisBreakpoint},
		{config.RoleColorPrimitive, graph.AxisNone},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			c := g.CollectionForRole(tt.role)
			require.NotNil(t, c)
			assert.Equal(t, tt.axis, c.Axis)
		})
	}

	bp := g.CollectionForAxis(graph.AxisBreakpoint)
	require.Len(t, bp.Modes, 4)
	widths := []int{}
	for _, m := range bp.Modes {
		widths = append(widths, m.MinWidth)
	}
	assert.Equal(t, []int{320, 390, 600, 1024}, widths)
	assert.Equal(t, "Tablet", bp.Modes[2].DeviceName)

	density := g.CollectionForAxis(graph.AxisDensity)
	assert.Equal(t, "d-default", density.DefaultModeID)
}

func TestParse_VariableIDsSortedByPath(t *testing.T) {
	_, g := testutil.BasicGraph(t)
	c := g.CollectionForRole(config.RoleColorMode)
	var paths []string
	for _, id := range c.VariableIDs {
		paths = append(paths, g.Variable(id).Path)
	}
	assert.IsNonDecreasing(t, paths)
}

func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	_, cfg := testutil.BasicConfig(t)
	return cfg
}

func TestParse_BareArrayShape(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Collections = config.Collections{
		FontPrimitive: "f", ColorPrimitive: "c", SizePrimitive: "s", Density: "d",
		BrandTokenMapping: "bt", BrandColorMapping: "bc", BreakpointMode: "bp", ColorMode: "cm",
	}
	data := []byte(`{
  "variableCollections": [
    {"id": "f", "name": "F", "modes": [{"modeId": "1", "name": "Value"}]},
    {"id": "c", "name": "C", "modes": [{"modeId": "1", "name": "Value"}], "futureField": 42},
    {"id": "s", "name": "S", "modes": [{"modeId": "1", "name": "Value"}]},
    {"id": "d", "name": "D", "modes": [{"modeId": "1", "name": "default"}]},
    {"id": "bt", "name": "BT", "modes": [{"modeId": "1", "name": "BILD"}]},
    {"id": "bc", "name": "BC", "modes": [{"modeId": "1", "name": "BILD"}]},
    {"id": "bp", "name": "BP", "modes": [{"modeId": "2", "name": "lg"}, {"modeId": "1", "name": "xs"}]},
    {"id": "cm", "name": "CM", "modes": [{"modeId": "1", "name": "Light"}]}
  ],
  "variables": [
    {"id": "v1", "name": "Color/red", "variableCollectionId": "c", "resolvedType": "COLOR",
     "valuesByMode": {"1": {"r": 1, "g": 0, "b": 0, "a": 1}}},
    {"id": "v2", "name": "Size/half", "variableCollectionId": "s", "resolvedType": "FLOAT",
     "valuesByMode": {"1": 0.123456}},
    {"id": "v3", "name": "Semantic/gone", "variableCollectionId": "cm", "resolvedType": "COLOR",
     "valuesByMode": {"1": null}}
  ]
}`)

	g, err := parser.NewFigmaParser(cfg).Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", g.Variable("v1").Values["1"].Literal)
	assert.Equal(t, "0.1235", g.Variable("v2").Values["1"].Literal)
	assert.Empty(t, g.Variable("v3").Values)
	assert.Equal(t, "xs", g.Collection("bp").Modes[0].Name, "breakpoints sort by minWidth")
	assert.Equal(t, "1", g.Collection("cm").DefaultModeID, "missing default mode falls back to the first mode")
}

func TestParse_Errors(t *testing.T) {
	base := `{"meta": {"variableCollections": {
    "VariableCollectionId:1:1": {"name": "F", "modes": [{"modeId": "1", "name": "Value"}]},
    "VariableCollectionId:1:2": {"name": "C", "modes": [{"modeId": "1", "name": "Value"}]},
    "VariableCollectionId:1:3": {"name": "S", "modes": [{"modeId": "1", "name": "Value"}]},
    "VariableCollectionId:1:4": {"name": "D", "modes": [{"modeId": "1", "name": "default"}]},
    "VariableCollectionId:1:5": {"name": "BT", "modes": [{"modeId": "1", "name": "BILD"}]},
    "VariableCollectionId:1:6": {"name": "BC", "modes": [{"modeId": "1", "name": "BILD"}]},
    "VariableCollectionId:1:7": {"name": "BP", "modes": [{"modeId": "1", "name": "%s"}]}%s
  }, "variables": {%s}}}`
	colorMode := `,
    "VariableCollectionId:1:8": {"name": "CM", "modes": [{"modeId": "1", "name": "Light"}]}`

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"missing configured collection", fmt.Sprintf(base, "xs", "", ""), graph.ErrConfigMismatch},
		{"unknown breakpoint mode", fmt.Sprintf(base, "xxl", colorMode, ""), graph.ErrConfigMismatch},
		{"duplicate path", fmt.Sprintf(base, "xs", colorMode, `
      "a": {"name": "Color/red", "variableCollectionId": "VariableCollectionId:1:2", "valuesByMode": {"1": "#f00"}},
      "b": {"name": "Color/red", "variableCollectionId": "VariableCollectionId:1:2", "valuesByMode": {"1": "#e00"}}`),
			graph.ErrDuplicatePath},
		{"unknown collection", fmt.Sprintf(base, "xs", colorMode, `
      "a": {"name": "Color/red", "variableCollectionId": "VariableCollectionId:9:9", "valuesByMode": {}}`),
			graph.ErrInvalidExport},
		{"alias without id", fmt.Sprintf(base, "xs", colorMode, `
      "a": {"name": "Color/red", "variableCollectionId": "VariableCollectionId:1:2", "valuesByMode": {"1": {"type": "VARIABLE_ALIAS"}}}`),
			graph.ErrInvalidExport},
		{"not json", "{", graph.ErrInvalidExport},
	}

	cfg := fixtureConfig(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.NewFigmaParser(cfg).Parse([]byte(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParse_SamePathInDifferentCollections(t *testing.T) {
	_, g := testutil.BasicGraph(t)
	// Brand and Semantic both define a headlineSize under Typography; distinct paths
	// in distinct collections must both load.
	assert.Len(t, g.FindByPath("Brand/Typography/headlineSize"), 1)
	assert.Len(t, g.FindByPath("Semantic/Typography/headlineSize"), 1)
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		16:        "16",
		1.2:       "1.2",
		0.123456:  "0.1235",
		-0.00001:  "0",
		1024.0001: "1024.0001",
	}
	for in, want := range tests {
		if got := parser.FormatFloat(in); got != want {
			t.Errorf("FormatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}
