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
)

func validConfig() *config.Config {
	cfg := config.Default()
	cfg.Source.InputFile = "export.json"
	cfg.Source.Collections = config.Collections{
		FontPrimitive:     "c1",
		ColorPrimitive:    "c2",
		SizePrimitive:     "c3",
		Density:           "c4",
		BrandTokenMapping: "c5",
		BrandColorMapping: "c6",
		BreakpointMode:    "c7",
		ColorMode:         "c8",
	}
	return cfg
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *config.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	out := map[string]string{}
	for _, f := range verr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestValidate_Valid(t *testing.T) {
	require.NoError(t, config.Validate(validConfig()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{"missing collection", func(c *config.Config) { c.Source.Collections.Density = "" }, "source.collections.density"},
		{"missing input", func(c *config.Config) { c.Source.InputFile = "" }, "source.inputFile"},
		{"bad font size unit", func(c *config.Config) { c.Platforms.CSS.FontSizeUnit = "em" }, "platforms.css.fontSizeUnit"},
		{"zero rem base", func(c *config.Config) { c.Platforms.CSS.RemBase = 0 }, "platforms.css.remBase"},
		{"zero max depth", func(c *config.Config) { c.Source.MaxDepth = 0 }, "source.maxDepth"},
		{"unknown semantic role", func(c *config.Config) {
			c.Source.PathConventions.SemanticCollections = []string{"colorMode", "typography"}
		}, "source.pathConventions.semanticCollections[1]"},
		{"shared collection id", func(c *config.Config) { c.Source.Collections.ColorMode = "c7" }, "source.collections.colorMode"},
		{"duplicate breakpoint width", func(c *config.Config) {
			c.Modes.Breakpoints["xl"] = config.Breakpoint{MinWidth: 1024}
		}, "modes.breakpoints.xl"},
		{"unknown size class breakpoint", func(c *config.Config) {
			c.Platforms.IOS.SizeClasses = map[string]string{"compact": "xxs"}
		}, "platforms.ios.sizeClasses.compact"},
		{"ios module required", func(c *config.Config) { c.Platforms.IOS.ModuleName = "" }, "platforms.ios.moduleName"},
		{"no platform", func(c *config.Config) {
			c.Platforms.CSS.Enabled = false
			c.Platforms.JS.Enabled = false
			c.Platforms.IOS.Enabled = false
			c.Platforms.Android.Enabled = false
		}, "platforms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			fields := fieldsOf(t, config.Validate(cfg))
			assert.Contains(t, fields, tt.field, "got %v", fields)
		})
	}
}

func TestValidate_DisabledPlatformSkipsRequirements(t *testing.T) {
	cfg := validConfig()
	cfg.Platforms.Android.Enabled = false
	cfg.Platforms.Android.PackageName = ""
	cfg.Platforms.Android.SizeClasses = map[string]string{"compact": "nope"}
	assert.NoError(t, config.Validate(cfg))
}
