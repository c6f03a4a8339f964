/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package config provides the pipeline configuration model.
//
// A Config is loaded once at process start and passed by pointer into every
// pipeline stage. Stages treat it as read-only.
package config

import (
	"path/filepath"
	"strings"
)

// Collection role keys, as used in source.collections and pathConventions.semanticCollections.
const (
	RoleFontPrimitive     = "fontPrimitive"
	RoleColorPrimitive    = "colorPrimitive"
	RoleSizePrimitive     = "sizePrimitive"
	RoleDensity           = "density"
	RoleBrandTokenMapping = "brandTokenMapping"
	RoleBrandColorMapping = "brandColorMapping"
	RoleBreakpointMode    = "breakpointMode"
	RoleColorMode         = "colorMode"
)

// Roles lists every collection role in declaration order.
var Roles = []string{
	RoleFontPrimitive,
	RoleColorPrimitive,
	RoleSizePrimitive,
	RoleDensity,
	RoleBrandTokenMapping,
	RoleBrandColorMapping,
	RoleBreakpointMode,
	RoleColorMode,
}

// Config is the pipeline configuration.
type Config struct {
	Identity  Identity  `yaml:"identity" json:"identity"`
	Source    Source    `yaml:"source" json:"source"`
	Modes     Modes     `yaml:"modes" json:"modes"`
	Platforms Platforms `yaml:"platforms" json:"platforms"`
	Output    Output    `yaml:"output" json:"output"`
}

// Identity names the design system in generated headers.
type Identity struct {
	Name          string `yaml:"name" json:"name" validate:"required"`
	ShortName     string `yaml:"shortName" json:"shortName"`
	Copyright     string `yaml:"copyright" json:"copyright"`
	RepositoryURL string `yaml:"repositoryUrl" json:"repositoryUrl" validate:"omitempty,url"`
}

// Source locates the export document and declares its collections.
type Source struct {
	// InputFile is the export file name. It may be a doublestar glob, in which
	// case the lexically last match is used.
	InputFile string `yaml:"inputFile" json:"inputFile" validate:"required"`

	// InputDir is the directory holding InputFile, relative to the project root.
	InputDir string `yaml:"inputDir" json:"inputDir"`

	// FileKey is the Figma file whose variables `tokenpipe fetch` downloads.
	FileKey string `yaml:"fileKey" json:"fileKey"`

	// OutputDir is the base directory for generated artifacts.
	OutputDir string `yaml:"outputDir" json:"outputDir"`

	Collections     Collections     `yaml:"collections" json:"collections"`
	PathConventions PathConventions `yaml:"pathConventions" json:"pathConventions"`

	// MaxDepth bounds alias chains as a backstop against runaway resolution.
	MaxDepth int `yaml:"maxDepth" json:"maxDepth" validate:"min=1,max=10000"`
}

// Collections holds the export's collection IDs by role.
type Collections struct {
	FontPrimitive     string `yaml:"fontPrimitive" json:"fontPrimitive" validate:"required"`
	ColorPrimitive    string `yaml:"colorPrimitive" json:"colorPrimitive" validate:"required"`
	SizePrimitive     string `yaml:"sizePrimitive" json:"sizePrimitive" validate:"required"`
	Density           string `yaml:"density" json:"density" validate:"required"`
	BrandTokenMapping string `yaml:"brandTokenMapping" json:"brandTokenMapping" validate:"required"`
	BrandColorMapping string `yaml:"brandColorMapping" json:"brandColorMapping" validate:"required"`
	BreakpointMode    string `yaml:"breakpointMode" json:"breakpointMode" validate:"required"`
	ColorMode         string `yaml:"colorMode" json:"colorMode" validate:"required"`
}

// ByRole returns the collection ID for each role.
func (c Collections) ByRole() map[string]string {
	return map[string]string{
		RoleFontPrimitive:     c.FontPrimitive,
		RoleColorPrimitive:    c.ColorPrimitive,
		RoleSizePrimitive:     c.SizePrimitive,
		RoleDensity:           c.Density,
		RoleBrandTokenMapping: c.BrandTokenMapping,
		RoleBrandColorMapping: c.BrandColorMapping,
		RoleBreakpointMode:    c.BreakpointMode,
		RoleColorMode:         c.ColorMode,
	}
}

// PathConventions declares the naming conventions used by the layer classifier.
type PathConventions struct {
	ComponentPrefix string `yaml:"componentPrefix" json:"componentPrefix" validate:"required"`

	// SemanticCollections lists the roles whose non-component variables are Semantic.
	SemanticCollections []string `yaml:"semanticCollections" json:"semanticCollections" validate:"dive,collection_role"`
}

// Modes holds externally configured mode metadata.
type Modes struct {
	// Breakpoints is keyed by breakpoint mode display name (lower case).
	Breakpoints map[string]Breakpoint `yaml:"breakpoints" json:"breakpoints" validate:"required,min=1,dive"`
}

// Breakpoint describes one breakpoint mode.
type Breakpoint struct {
	MinWidth   int    `yaml:"minWidth" json:"minWidth" validate:"min=0"`
	DeviceName string `yaml:"deviceName" json:"deviceName"`
}

// Platforms holds per-platform output settings.
type Platforms struct {
	CSS     CSSPlatform     `yaml:"css" json:"css"`
	SCSS    SCSSPlatform    `yaml:"scss" json:"scss"`
	JS      JSPlatform      `yaml:"js" json:"js"`
	IOS     IOSPlatform     `yaml:"ios" json:"ios"`
	Android AndroidPlatform `yaml:"android" json:"android"`
}

// CSSPlatform configures CSS custom property output.
type CSSPlatform struct {
	Enabled          bool             `yaml:"enabled" json:"enabled"`
	FontSizeUnit     string           `yaml:"fontSizeUnit" json:"fontSizeUnit" validate:"oneof=px rem"`
	RemBase          float64          `yaml:"remBase" json:"remBase" validate:"gt=0"`
	Prefix           string           `yaml:"prefix" json:"prefix"`
	DataAttributes   DataAttributes   `yaml:"dataAttributes" json:"dataAttributes"`
	FallbackStrategy FallbackStrategy `yaml:"fallbackStrategy" json:"fallbackStrategy"`
}

// DataAttributes names the HTML attributes that select each axis.
type DataAttributes struct {
	ColorBrand   string `yaml:"colorBrand" json:"colorBrand" validate:"required"`
	ContentBrand string `yaml:"contentBrand" json:"contentBrand" validate:"required"`
	Theme        string `yaml:"theme" json:"theme" validate:"required"`
	Density      string `yaml:"density" json:"density" validate:"required"`
}

// FallbackStrategy controls whether var() references carry a literal fallback,
// per layer of the referenced token. It affects emission only.
type FallbackStrategy struct {
	PrimitiveRefs bool `yaml:"primitiveRefs" json:"primitiveRefs"`
	SemanticRefs  bool `yaml:"semanticRefs" json:"semanticRefs"`
	ComponentRefs bool `yaml:"componentRefs" json:"componentRefs"`
}

// SCSSPlatform configures SCSS variable output.
type SCSSPlatform struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Prefix  string `yaml:"prefix" json:"prefix"`
}

// JSPlatform configures ES module output.
type JSPlatform struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	ModuleName string `yaml:"moduleName" json:"moduleName"`

	// TypeScript switches output to .ts files with const assertions.
	TypeScript bool `yaml:"typescript" json:"typescript"`
}

// IOSPlatform configures Swift output.
type IOSPlatform struct {
	Enabled     bool              `yaml:"enabled" json:"enabled"`
	ModuleName  string            `yaml:"moduleName" json:"moduleName" validate:"required_if=Enabled true"`
	SizeClasses map[string]string `yaml:"sizeClasses" json:"sizeClasses"`
}

// AndroidPlatform configures Kotlin/Compose output.
type AndroidPlatform struct {
	Enabled     bool              `yaml:"enabled" json:"enabled"`
	PackageName string            `yaml:"packageName" json:"packageName" validate:"required_if=Enabled true"`
	SizeClasses map[string]string `yaml:"sizeClasses" json:"sizeClasses"`
}

// Output holds cross-platform output settings.
type Output struct {
	DistDir          string           `yaml:"distDir" json:"distDir" validate:"required"`
	ShowDescriptions ShowDescriptions `yaml:"showDescriptions" json:"showDescriptions"`

	// BooleanTokens includes BOOLEAN variables in generated output.
	BooleanTokens bool `yaml:"booleanTokens" json:"booleanTokens"`
}

// ShowDescriptions toggles description comments per platform.
type ShowDescriptions struct {
	CSS     bool `yaml:"css" json:"css"`
	SCSS    bool `yaml:"scss" json:"scss"`
	JS      bool `yaml:"js" json:"js"`
	IOS     bool `yaml:"ios" json:"ios"`
	Android bool `yaml:"android" json:"android"`
}

// Default returns a config with default values. Loaded files are decoded on top of it.
func Default() *Config {
	return &Config{
		Identity: Identity{
			Name: "Design System",
		},
		Source: Source{
			InputDir: ".",
			PathConventions: PathConventions{
				ComponentPrefix:     "Component/",
				SemanticCollections: []string{RoleColorMode, RoleBreakpointMode},
			},
			MaxDepth: 50,
		},
		Modes: Modes{
			Breakpoints: map[string]Breakpoint{
				"xs": {MinWidth: 320, DeviceName: "Mobile"},
				"sm": {MinWidth: 390, DeviceName: "Large Mobile"},
				"md": {MinWidth: 600, DeviceName: "Tablet"},
				"lg": {MinWidth: 1024, DeviceName: "Desktop"},
			},
		},
		Platforms: Platforms{
			CSS: CSSPlatform{
				Enabled:      true,
				FontSizeUnit: "rem",
				RemBase:      16,
				DataAttributes: DataAttributes{
					ColorBrand:   "data-color-brand",
					ContentBrand: "data-content-brand",
					Theme:        "data-theme",
					Density:      "data-density",
				},
				FallbackStrategy: FallbackStrategy{
					PrimitiveRefs: true,
					SemanticRefs:  true,
					ComponentRefs: true,
				},
			},
			JS: JSPlatform{
				Enabled:    true,
				ModuleName: "tokens",
			},
			IOS: IOSPlatform{
				Enabled:     true,
				ModuleName:  "DesignTokens",
				SizeClasses: map[string]string{"compact": "sm", "regular": "lg"},
			},
			Android: AndroidPlatform{
				Enabled:     true,
				PackageName: "com.example.designtokens",
				SizeClasses: map[string]string{"compact": "sm", "medium": "md", "expanded": "lg"},
			},
		},
		Output: Output{
			DistDir: "dist",
		},
	}
}

// InputPattern returns the input file pattern joined with InputDir.
func (c *Config) InputPattern(rootDir string) string {
	return under(rootDir, c.Source.InputDir, c.Source.InputFile)
}

// OutputRoot returns the directory generated artifacts are written under.
func (c *Config) OutputRoot(rootDir string) string {
	return under(rootDir, c.Source.OutputDir, c.Output.DistDir)
}

// under joins rel below base below rootDir. An absolute rel or base
// discards everything before it.
func under(rootDir, base, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	p := filepath.Join(base, rel)
	if !filepath.IsAbs(p) {
		p = filepath.Join(rootDir, p)
	}
	return p
}

// SemanticCollectionIDs returns the collection IDs designated Semantic.
func (c *Config) SemanticCollectionIDs() []string {
	byRole := c.Source.Collections.ByRole()
	ids := make([]string, 0, len(c.Source.PathConventions.SemanticCollections))
	for _, role := range c.Source.PathConventions.SemanticCollections {
		if id := byRole[role]; id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// MappingCollectionIDs returns the brand-mapping collection IDs.
func (c *Config) MappingCollectionIDs() []string {
	return []string{c.Source.Collections.BrandTokenMapping, c.Source.Collections.BrandColorMapping}
}

// Breakpoint looks up the configured breakpoint for a mode display name.
func (c *Config) Breakpoint(modeName string) (Breakpoint, bool) {
	if bp, ok := c.Modes.Breakpoints[modeName]; ok {
		return bp, true
	}
	for key, bp := range c.Modes.Breakpoints {
		if strings.EqualFold(key, modeName) {
			return bp, true
		}
	}
	return Breakpoint{}, false
}

// ShowDescription reports whether descriptions are emitted for a platform key.
func (c *Config) ShowDescription(platform string) bool {
	switch platform {
	case "css":
		return c.Output.ShowDescriptions.CSS
	case "scss":
		return c.Output.ShowDescriptions.SCSS
	case "js":
		return c.Output.ShowDescriptions.JS
	case "ios":
		return c.Output.ShowDescriptions.IOS
	case "android":
		return c.Output.ShowDescriptions.Android
	}
	return false
}

// EnabledPlatforms returns the enabled platform keys in a fixed order.
func (c *Config) EnabledPlatforms() []string {
	var out []string
	if c.Platforms.CSS.Enabled {
		out = append(out, "css")
	}
	if c.Platforms.SCSS.Enabled {
		out = append(out, "scss")
	}
	if c.Platforms.JS.Enabled {
		out = append(out, "js")
	}
	if c.Platforms.IOS.Enabled {
		out = append(out, "ios")
	}
	if c.Platforms.Android.Enabled {
		out = append(out, "android")
	}
	return out
}
