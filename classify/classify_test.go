/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/testutil"
)

func TestLayerOf(t *testing.T) {
	rules := classify.Rules{
		ComponentPrefix: "Component/",
		Semantic:        map[string]bool{"sem": true},
		Mapping:         map[string]bool{"map": true},
	}

	tests := []struct {
		name       string
		path       string
		collection string
		want       classify.Layer
	}{
		{"component prefix wins over semantic collection", "Component/Button/label", "sem", classify.Component},
		{"component prefix in a primitive collection", "Component/Badge/radius", "prim", classify.Component},
		{"semantic collection", "Semantic/Text/primary", "sem", classify.Semantic},
		{"mapping collection", "Brand/Color/primary", "map", classify.Mapping},
		{"anything else", "Color/red500", "prim", classify.Primitive},
		{"prefix is case-sensitive", "component/Button", "prim", classify.Primitive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.LayerOf(tt.path, tt.collection); got != tt.want {
				t.Errorf("LayerOf(%q, %q) = %v, want %v", tt.path, tt.collection, got, tt.want)
			}
		})
	}
}

func TestClassify_Fixture(t *testing.T) {
	cfg, g := testutil.BasicGraph(t)
	set := classify.Classify(g, classify.RulesFromConfig(cfg))

	tests := []struct {
		path     string
		layer    classify.Layer
		affinity graph.AxisSet
	}{
		{"Color/red500", classify.Primitive, graph.SetOf()},
		{"Brand/Color/primary", classify.Mapping, graph.SetOf(graph.AxisColorBrand)},
		{"Brand/Typography/headlineSize", classify.Mapping, graph.SetOf(graph.AxisContentBrand)},
		{"Density/buttonInlineSpace", classify.Primitive, graph.SetOf(graph.AxisDensity)},
		{"Semantic/Text/textPrimary", classify.Semantic, graph.SetOf(graph.AxisTheme)},
		{"Semantic/Text/textAccent", classify.Semantic, graph.SetOf(graph.AxisColorBrand, graph.AxisTheme)},
		{"Semantic/Space/sectionSpace", classify.Semantic, graph.SetOf(graph.AxisBreakpoint)},
		{"Semantic/Typography/headlineSize", classify.Semantic, graph.SetOf(graph.AxisContentBrand, graph.AxisBreakpoint)},
		{"Component/Button/labelColor", classify.Component, graph.SetOf(graph.AxisTheme)},
		{"Component/Button/inlineSpace", classify.Component, graph.SetOf(graph.AxisDensity, graph.AxisBreakpoint)},
		{"Component/Badge/radius", classify.Component, graph.SetOf()},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			lv := set.Get(testutil.MustFind(t, g, tt.path).ID)
			require.NotNil(t, lv)
			assert.Equal(t, tt.layer, lv.Layer)
			assert.Equal(t, tt.affinity, lv.Affinity, "got %v", lv.Affinity)
		})
	}
}

func TestClassify_StaticComponentIsValid(t *testing.T) {
	cfg, g := testutil.BasicGraph(t)
	set := classify.Classify(g, classify.RulesFromConfig(cfg))

	radius := set.Get(testutil.MustFind(t, g, "Component/Badge/radius").ID)
	assert.Equal(t, classify.Component, radius.Layer)
	assert.True(t, radius.Affinity.IsEmpty())
}

func TestClassify_Order(t *testing.T) {
	cfg, g := testutil.BasicGraph(t)
	all := classify.Classify(g, classify.RulesFromConfig(cfg)).All()
	require.Len(t, all, g.Len())
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if prev.Layer > cur.Layer || (prev.Layer == cur.Layer && prev.Path > cur.Path) {
			t.Errorf("out of order: %s (%v) before %s (%v)", prev.Path, prev.Layer, cur.Path, cur.Layer)
		}
	}
}

func TestClassify_PinnedAliasAffinity(t *testing.T) {
	g := graph.New()
	g.AddCollection(&graph.Collection{
		ID: "prim", Name: "Primitives", Axis: graph.AxisNone,
		Modes: []graph.Mode{{ID: "p", Name: "Value"}}, DefaultModeID: "p",
	})
	g.AddCollection(&graph.Collection{
		ID: "theme", Name: "ColorMode", Role: "colorMode", Axis: graph.AxisTheme,
		Modes:         []graph.Mode{{ID: "light", Name: "Light"}, {ID: "dark", Name: "Dark"}},
		DefaultModeID: "light",
	})
	g.AddCollection(&graph.Collection{
		ID: "density", Name: "Density", Role: "density", Axis: graph.AxisDensity,
		Modes:         []graph.Mode{{ID: "compact", Name: "Compact"}, {ID: "default", Name: "Default"}},
		DefaultModeID: "default",
	})

	g.AddVariable(&graph.Variable{ID: "white", Path: "Color/white", CollectionID: "prim", Type: graph.TypeColor,
		Values: map[string]graph.Value{"p": graph.Literal("#ffffff")}})
	g.AddVariable(&graph.Variable{ID: "shade", Path: "Density/shade", CollectionID: "density", Type: graph.TypeColor,
		Values: map[string]graph.Value{"compact": graph.Literal("#111111"), "default": graph.Literal("#222222")}})
	// Light surface is fixed, dark surface depends on density.
	g.AddVariable(&graph.Variable{ID: "surface", Path: "Semantic/surface", CollectionID: "theme", Type: graph.TypeColor,
		Values: map[string]graph.Value{"light": graph.Alias("white", ""), "dark": graph.Alias("shade", "")}})
	g.AddVariable(&graph.Variable{ID: "onLight", Path: "Component/Card/onLight", CollectionID: "prim", Type: graph.TypeColor,
		Values: map[string]graph.Value{"p": graph.Alias("surface", "light")}})
	g.AddVariable(&graph.Variable{ID: "onDark", Path: "Component/Card/onDark", CollectionID: "prim", Type: graph.TypeColor,
		Values: map[string]graph.Value{"p": graph.Alias("surface", "dark")}})
	g.AddVariable(&graph.Variable{ID: "themed", Path: "Component/Card/themed", CollectionID: "prim", Type: graph.TypeColor,
		Values: map[string]graph.Value{"p": graph.Alias("surface", "")}})

	set := classify.Classify(g, classify.Rules{ComponentPrefix: "Component/"})

	tests := []struct {
		id   string
		want graph.AxisSet
	}{
		{"onLight", graph.SetOf()},
		{"onDark", graph.SetOf(graph.AxisDensity)},
		{"themed", graph.SetOf(graph.AxisTheme, graph.AxisDensity)},
		{"surface", graph.SetOf(graph.AxisTheme, graph.AxisDensity)},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			lv := set.Get(tt.id)
			require.NotNil(t, lv)
			assert.Equal(t, tt.want, lv.Affinity, "got %v", lv.Affinity)
		})
	}
}
