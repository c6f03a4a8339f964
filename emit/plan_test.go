/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package emit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/emit"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/testutil"
)

func fixtureContext(t *testing.T) *emit.Context {
	t.Helper()
	cfg, res := testutil.BasicResult(t)
	return &emit.Context{Config: cfg, Result: res}
}

func findFile(t *testing.T, files []*emit.File, layer classify.Layer, name string) *emit.File {
	t.Helper()
	for _, f := range files {
		if f.Layer == layer && f.Name() == name {
			return f
		}
	}
	t.Fatalf("no %s file named %q", layer, name)
	return nil
}

func findEntry(t *testing.T, f *emit.File, path string) emit.Entry {
	t.Helper()
	for _, e := range f.Entries {
		if e.Var.Path == path {
			return e
		}
	}
	t.Fatalf("no entry %q in %s/%s", path, f.Layer, f.Name())
	return emit.Entry{}
}

func TestPlan_FileLayout(t *testing.T) {
	ctx := fixtureContext(t)
	files := ctx.Plan()
	require.Len(t, files, 27)

	var semantic []string
	for _, f := range files {
		if f.Layer == classify.Semantic {
			semantic = append(semantic, f.Name())
		}
	}
	assert.Equal(t, []string{
		"base",
		"contentbrand-bild",
		"contentbrand-sport-bild",
		"theme-light",
		"theme-dark",
		"colorbrand-bild_theme-light",
		"colorbrand-bild_theme-dark",
		"colorbrand-sport-bild_theme-light",
		"colorbrand-sport-bild_theme-dark",
	}, semantic)

	for i := 1; i < len(files); i++ {
		assert.LessOrEqual(t, files[i-1].Layer, files[i].Layer, "files out of layer order")
	}
}

func TestPlan_TypeNames(t *testing.T) {
	ctx := fixtureContext(t)
	files := ctx.Plan()

	assert.Equal(t, "PrimitiveTokens", findFile(t, files, classify.Primitive, "base").TypeName())
	assert.Equal(t, "SemanticThemeLight", findFile(t, files, classify.Semantic, "theme-light").TypeName())
	assert.Equal(t, "SemanticColorBrandSportBildThemeDark",
		findFile(t, files, classify.Semantic, "colorbrand-sport-bild_theme-dark").TypeName())
	assert.Equal(t, "ComponentDensityCompact", findFile(t, files, classify.Component, "density-compact").TypeName())
}

func TestPlan_ExcludesHiddenAndBooleans(t *testing.T) {
	ctx := fixtureContext(t)
	for _, f := range ctx.Plan() {
		for _, e := range f.Entries {
			assert.False(t, e.Var.Hidden, "hidden variable %s planned", e.Var.Path)
			assert.NotEqual(t, graph.TypeBoolean, e.Var.Type, "boolean variable %s planned", e.Var.Path)
		}
	}

	ctx.Config.Output.BooleanTokens = true
	f := findFile(t, ctx.Plan(), classify.Semantic, "theme-light")
	e := findEntry(t, f, "Semantic/Feature/showBadge")
	assert.Equal(t, "true", e.Base.Text)
}

func TestPlan_BreakpointEntries(t *testing.T) {
	ctx := fixtureContext(t)
	f := findFile(t, ctx.Plan(), classify.Semantic, "base")
	e := findEntry(t, f, "Semantic/Space/sectionSpace")
	require.True(t, e.Responsive())

	var widths []int
	var values []string
	for _, bp := range e.Breakpoints {
		widths = append(widths, bp.Mode.MinWidth)
		values = append(values, bp.Token.Text)
	}
	assert.Equal(t, []int{320, 390, 600, 1024}, widths)
	assert.Equal(t, []string{"16", "16", "24", "32"}, values)
	assert.Equal(t, "16", e.Base.Text)
}

func TestPlan_ScopedValues(t *testing.T) {
	ctx := fixtureContext(t)
	files := ctx.Plan()

	light := findEntry(t, findFile(t, files, classify.Semantic, "theme-light"), "Semantic/Text/textPrimary")
	dark := findEntry(t, findFile(t, files, classify.Semantic, "theme-dark"), "Semantic/Text/textPrimary")
	assert.False(t, light.Responsive())
	assert.Equal(t, "#000000", light.Base.Text)
	assert.Equal(t, "#FFFFFF", dark.Base.Text)

	spacious := findEntry(t, findFile(t, files, classify.Component, "density-spacious"), "Component/Button/inlineSpace")
	bps := make([]string, 0, len(spacious.Breakpoints))
	for _, bp := range spacious.Breakpoints {
		bps = append(bps, bp.Token.Text)
	}
	assert.Equal(t, []string{"24", "24", "32", "32"}, bps)
}

type recordingEmitter struct{}

func (recordingEmitter) Platform() string { return "js" }

func (recordingEmitter) Identifier(lv *classify.LayeredVariable) string {
	return emit.ToCamelCase(lv.Path)
}

func (recordingEmitter) FormatValue(_ *classify.LayeredVariable, tok combine.Token) string {
	return tok.Text
}

func (recordingEmitter) FilePath(f *emit.File) string { return f.Name() }

func (recordingEmitter) Render(*emit.File) ([]byte, error) { return nil, nil }

func findRecord(t *testing.T, records []emit.Record, identifier string) emit.Record {
	t.Helper()
	for _, r := range records {
		if r.Identifier == identifier {
			return r
		}
	}
	t.Fatalf("no record %q", identifier)
	return emit.Record{}
}

func TestRecords(t *testing.T) {
	ctx := fixtureContext(t)
	files := ctx.Plan()

	component := findFile(t, files, classify.Component, "theme-light")
	records := emit.Records(recordingEmitter{}, ctx, component)
	require.Len(t, records, len(component.Entries))
	for i, r := range records {
		assert.Same(t, component.Entries[i].Var, r.Var, "records follow file order")
	}
	label := findRecord(t, records, "componentButtonLabelColor")
	assert.Equal(t, "#000000", label.Value)
	assert.Equal(t, "Button label", label.Comment)
	assert.False(t, label.Responsive())

	section := findRecord(t, emit.Records(recordingEmitter{}, ctx, findFile(t, files, classify.Semantic, "base")), "semanticSpaceSectionSpace")
	require.True(t, section.Responsive())
	assert.Equal(t, "16", section.Value)
	md, ok := section.At("MD")
	require.True(t, ok)
	assert.Equal(t, "24", md)
	_, ok = section.At("xxl")
	assert.False(t, ok)

	ctx.Config.Output.ShowDescriptions.JS = false
	for _, r := range emit.Records(recordingEmitter{}, ctx, component) {
		assert.Empty(t, r.Comment)
	}
}

func TestFormatHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		style    emit.CommentStyle
		expected string
	}{
		{"empty", "", emit.CStyleComments, ""},
		{"single line comment", "Copyright 2026", emit.SCSSComments, "// Copyright 2026\n\n"},
		{"trailing newlines trimmed", "Copyright 2026\n\n\n", emit.SCSSComments, "// Copyright 2026\n\n"},
		{"single line block", "Copyright 2026", emit.CStyleComments, "/* Copyright 2026 */\n\n"},
		{"multi line block", "Copyright 2026\nMIT License", emit.CStyleComments, "/*\n * Copyright 2026\n * MIT License\n */\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, emit.FormatHeader(tt.header, tt.style))
		})
	}
}
