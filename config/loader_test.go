/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/internal/mapfs"
	"bennypowers.dev/tokenpipe/testutil"
)

const minimalYAML = `
source:
  inputFile: export.json
  collections:
    fontPrimitive: c1
    colorPrimitive: c2
    sizePrimitive: c3
    density: c4
    brandTokenMapping: c5
    brandColorMapping: c6
    breakpointMode: c7
    colorMode: c8
`

func TestLoad_FixtureYAML(t *testing.T) {
	_, cfg := testutil.BasicConfig(t)

	assert.Equal(t, "BILD Design System", cfg.Identity.Name)
	assert.Equal(t, "VariableCollectionId:1:4", cfg.Source.Collections.Density)
	assert.Equal(t, "Component/", cfg.Source.PathConventions.ComponentPrefix, "default component prefix")
	assert.Equal(t, 50, cfg.Source.MaxDepth, "default max depth")
	assert.False(t, cfg.Platforms.CSS.FallbackStrategy.ComponentRefs)
	assert.True(t, cfg.Platforms.CSS.FallbackStrategy.PrimitiveRefs)
	assert.Equal(t, "BildDesignTokens", cfg.Platforms.IOS.ModuleName)
	assert.Equal(t, []string{"css", "scss", "js", "ios", "android"}, cfg.EnabledPlatforms())
}

func TestLoad_NotFound(t *testing.T) {
	cfg, err := config.Load(mapfs.New(), "/project")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PriorityOrder(t *testing.T) {
	mfs := mapfs.New()
	mfs.AddFile("/project/pipeline.config.json", `{"identity": {"name": "from json"}}`, 0o644)
	mfs.AddFile("/project/pipeline.config.yaml", minimalYAML+"identity:\n  name: from yaml\n", 0o644)

	assert.Equal(t, "/project/pipeline.config.yaml", config.Find(mfs, "/project"))
	cfg, err := config.Load(mfs, "/project")
	require.NoError(t, err)
	assert.Equal(t, "from yaml", cfg.Identity.Name)
}

func TestParse_JSONWithComments(t *testing.T) {
	data := []byte(`{
  // exported from the design file
  "source": {
    "inputFile": "export.json",
    "collections": {
      "fontPrimitive": "c1", "colorPrimitive": "c2", "sizePrimitive": "c3", "density": "c4",
      "brandTokenMapping": "c5", "brandColorMapping": "c6", "breakpointMode": "c7", "colorMode": "c8",
    },
  },
  "platforms": {"css": {"fontSizeUnit": "px"}},
}`)
	cfg, err := config.Parse(data, ".json")
	require.NoError(t, err)
	assert.Equal(t, "px", cfg.Platforms.CSS.FontSizeUnit)
	assert.Equal(t, 16.0, cfg.Platforms.CSS.RemBase, "default rem base survives partial override")
}

func TestParse_BreakpointsReplaceDefaults(t *testing.T) {
	data := []byte(minimalYAML + `
modes:
  breakpoints:
    mobile: { minWidth: 0 }
    desktop: { minWidth: 1200 }
platforms:
  ios: { enabled: false }
  android: { enabled: false }
`)
	cfg, err := config.Parse(data, ".yaml")
	require.NoError(t, err)
	assert.Len(t, cfg.Modes.Breakpoints, 2)
	_, ok := cfg.Breakpoint("xs")
	assert.False(t, ok, "default breakpoints must not leak into a configured set")
	bp, ok := cfg.Breakpoint("Desktop")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Equal(t, 1200, bp.MinWidth)
}

func TestResolveInput(t *testing.T) {
	mfs, cfg := testutil.BasicConfig(t)

	input, err := cfg.ResolveInput(mfs, testutil.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, "/project/tokens/export-2026-01-15.json", input, "lexically last match wins")

	cfg.Source.InputFile = "missing-*.json"
	_, err = cfg.ResolveInput(mfs, testutil.ProjectRoot)
	assert.True(t, errors.Is(err, config.ErrNoInput))

	cfg.Source.InputFile = "export-2025-12-01.json"
	input, err = cfg.ResolveInput(mfs, testutil.ProjectRoot)
	require.NoError(t, err)
	assert.Equal(t, "/project/tokens/export-2025-12-01.json", input)
}

func TestOutputRoot(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "/project/dist", cfg.OutputRoot("/project"))

	cfg.Source.OutputDir = "build"
	cfg.Output.DistDir = "tokens"
	assert.Equal(t, "/project/build/tokens", cfg.OutputRoot("/project"))

	cfg.Output.DistDir = "/abs/out"
	assert.Equal(t, "/abs/out", cfg.OutputRoot("/project"))

	cfg.Source.OutputDir = "/srv/site"
	cfg.Output.DistDir = "tokens"
	assert.Equal(t, "/srv/site/tokens", cfg.OutputRoot("/project"))
}

func TestInputPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Source.InputDir = "tokens"
	cfg.Source.InputFile = "export-*.json"
	assert.Equal(t, "/project/tokens/export-*.json", cfg.InputPattern("/project"))

	cfg.Source.InputFile = "/exports/latest.json"
	assert.Equal(t, "/exports/latest.json", cfg.InputPattern("/project"))
}
