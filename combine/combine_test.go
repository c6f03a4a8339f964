/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package combine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/testutil"
)

func fixtureResult(t *testing.T) (*graph.Graph, *combine.Result) {
	t.Helper()
	cfg, g := testutil.BasicGraph(t)
	set := classify.Classify(g, classify.RulesFromConfig(cfg))
	res, err := combine.Combine(context.Background(), set, combine.Discover(g), combine.Options{Workers: 4})
	require.NoError(t, err)
	return g, res
}

var (
	bildLight = combine.Combination{ColorBrand: "cb-bild", ContentBrand: "tb-bild", Theme: "cm-light", Density: "d-default", Breakpoint: "bp-xs"}
	sportDark = combine.Combination{ColorBrand: "cb-sport", ContentBrand: "tb-sport", Theme: "cm-dark", Density: "d-spacious", Breakpoint: "bp-lg"}
)

func TestEnumerate_AxisCoverage(t *testing.T) {
	_, g := testutil.BasicGraph(t)
	av := combine.Discover(g)

	all := av.All()
	require.Equal(t, 2*2*2*3*4, len(all))
	assert.Equal(t, av.Count(), len(all))

	seen := map[combine.Combination]bool{}
	for _, c := range all {
		require.False(t, seen[c], "duplicate combination %v", c)
		seen[c] = true
		for _, a := range graph.Axes {
			assert.NotEmpty(t, c.Get(a), "axis %v unset in %v", a, c)
		}
	}
	for _, cb := range av.Modes(graph.AxisColorBrand) {
		for _, tb := range av.Modes(graph.AxisContentBrand) {
			for _, th := range av.Modes(graph.AxisTheme) {
				for _, d := range av.Modes(graph.AxisDensity) {
					for _, bp := range av.Modes(graph.AxisBreakpoint) {
						c := combine.Combination{ColorBrand: cb.ID, ContentBrand: tb.ID, Theme: th.ID, Density: d.ID, Breakpoint: bp.ID}
						assert.True(t, seen[c], "missing combination %v", c)
					}
				}
			}
		}
	}
}

func TestEnumerate_Order(t *testing.T) {
	_, g := testutil.BasicGraph(t)
	all := combine.Discover(g).All()

	assert.Equal(t, combine.Combination{ColorBrand: "cb-bild", ContentBrand: "tb-bild", Theme: "cm-light", Density: "d-compact", Breakpoint: "bp-xs"}, all[0])
	assert.Equal(t, "bp-sm", all[1].Breakpoint, "breakpoint varies fastest")
	assert.Equal(t, "cb-sport", all[len(all)-1].ColorBrand, "color brand varies slowest")
}

func TestEnumerate_Projection(t *testing.T) {
	_, g := testutil.BasicGraph(t)
	av := combine.Discover(g)

	got := av.Enumerate(graph.SetOf(graph.AxisTheme, graph.AxisColorBrand))
	want := []combine.Combination{
		{ColorBrand: "cb-bild", Theme: "cm-light"},
		{ColorBrand: "cb-bild", Theme: "cm-dark"},
		{ColorBrand: "cb-sport", Theme: "cm-light"},
		{ColorBrand: "cb-sport", Theme: "cm-dark"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []combine.Combination{{}}, av.Enumerate(graph.SetOf()), "static tokens have one base combination")
	assert.Equal(t, "colorBrand=SportBILD theme=Dark", av.Label(got[3]))
}

func text(t *testing.T, g *graph.Graph, res *combine.Result, path string, c combine.Combination) combine.Token {
	t.Helper()
	tok, ok := res.Token(testutil.MustFind(t, g, path).ID, c)
	require.True(t, ok, "no token for %s", path)
	return tok
}

func TestCombine_Values(t *testing.T) {
	g, res := fixtureResult(t)

	tests := []struct {
		path  string
		combo combine.Combination
		want  string
	}{
		{"Component/Button/labelColor", bildLight, "#000000"},
		{"Component/Button/labelColor", sportDark, "#FFFFFF"},
		{"Semantic/Text/textAccent", sportDark, "#0066CC"},
		{"Semantic/Space/sectionSpace", bildLight, "16"},
		{"Semantic/Space/sectionSpace", sportDark, "32"},
		{"Semantic/Typography/headlineSize", bildLight, "21"},
		{"Semantic/Typography/headlineSize", bildLight.With(graph.AxisContentBrand, "tb-sport"), "28"},
		{"Component/Button/inlineSpace", bildLight, "20"},
		{"Component/Button/inlineSpace", bildLight.With(graph.AxisDensity, "d-compact"), "16"},
		{"Component/Button/inlineSpace", sportDark, "32"},
		{"Component/Badge/radius", sportDark, "4"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			tok := text(t, g, res, tt.path, tt.combo)
			assert.True(t, tok.OK())
			assert.Equal(t, tt.want, tok.Text)
		})
	}
}

func TestCombine_FallbackMonotonicity(t *testing.T) {
	g, res := fixtureResult(t)

	for _, c := range res.Combinations() {
		if c.Theme != "cm-light" {
			continue
		}
		// A component with no light value takes exactly what the semantic
		// variable it aliases elsewhere resolves to.
		bg := text(t, g, res, "Component/Card/background", c)
		primary := text(t, g, res, "Semantic/Text/textPrimary", c)
		require.True(t, bg.Fallback())
		assert.Equal(t, primary.Text, bg.Text)

		// Two levels down: component -> semantic (also missing) -> mapping.
		border := text(t, g, res, "Component/Card/borderColor", c)
		brand := text(t, g, res, "Brand/Color/primary", c)
		require.True(t, border.Fallback())
		assert.Equal(t, brand.Text, border.Text)
		assert.Equal(t, testutil.MustFind(t, g, "Brand/Color/primary").ID, border.FallbackFrom)
	}

	dark := text(t, g, res, "Component/Card/borderColor", sportDark)
	assert.False(t, dark.Fallback(), "a defined value is never replaced")
	assert.Equal(t, "#0066CC", dark.Text)
}

func TestCombine_Sentinels(t *testing.T) {
	g, res := fixtureResult(t)

	loop := text(t, g, res, "Semantic/Debug/loopA", bildLight)
	assert.False(t, loop.OK())
	assert.Equal(t, "UNRESOLVED_CIRCULAR_REF__Semantic_Debug_loopA__Semantic_Debug_loopB__Semantic_Debug_loopA", loop.Text)

	dangling := text(t, g, res, "Semantic/Debug/dangling", bildLight)
	assert.Equal(t, "UNRESOLVED_VariableID_doesNotExist", dangling.Text)

	assert.Equal(t, "#000000", text(t, g, res, "Semantic/Debug/loopA", sportDark.With(graph.AxisColorBrand, "cb-bild")).Text)
}

func TestCombine_Diagnostics(t *testing.T) {
	_, res := fixtureResult(t)

	assert.Equal(t, 3, res.Warnings())
	summary := combine.Summary(res.Diagnostics)
	assert.Equal(t, []string{"Semantic/Debug/loopA", "Semantic/Debug/loopB"}, summary[combine.KindCircular])
	assert.Equal(t, []string{"Semantic/Debug/dangling"}, summary[combine.KindUnresolved])

	var fallbacks int
	for _, d := range res.Diagnostics {
		if d.Kind == combine.KindFallback {
			fallbacks++
			assert.Equal(t, "cm-light", d.Combination.Theme)
		}
	}
	// background: 1 light projection; borderColor and textAccent: 2 brands each.
	assert.Equal(t, 5, fallbacks)
}

func TestCombine_Cancelled(t *testing.T) {
	cfg, g := testutil.BasicGraph(t)
	set := classify.Classify(g, classify.RulesFromConfig(cfg))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := combine.Combine(ctx, set, combine.Discover(g), combine.Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLookup(t *testing.T) {
	cfg, g := testutil.BasicGraph(t)
	set := classify.Classify(g, classify.RulesFromConfig(cfg))
	id := testutil.MustFind(t, g, "Component/Card/borderColor").ID

	tok, ok := combine.Lookup(set, combine.Discover(g), id, sportDark.With(graph.AxisTheme, "cm-light"), 0)
	require.True(t, ok)
	assert.Equal(t, "#0066CC", tok.Text)
}
