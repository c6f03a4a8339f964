/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	pipefs "bennypowers.dev/tokenpipe/fs"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "pipeline.config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json"}

// ErrNoInput is returned when the input pattern matches no file.
var ErrNoInput = errors.New("no input file matched")

// Find returns the path of the config file under rootDir, or "" if none exists.
func Find(filesystem pipefs.FileSystem, rootDir string) string {
	for _, ext := range configExtensions {
		p := filepath.Join(rootDir, ConfigFileName+ext)
		if filesystem.Exists(p) {
			return p
		}
	}
	return ""
}

// Load searches for pipeline.config.{yaml,yml,json} in rootDir.
// Returns nil if no config found (not an error).
func Load(filesystem pipefs.FileSystem, rootDir string) (*Config, error) {
	p := Find(filesystem, rootDir)
	if p == "" {
		return nil, nil
	}
	return LoadFile(filesystem, p)
}

// LoadFile reads and validates the config at path. The format is chosen by extension.
func LoadFile(filesystem pipefs.FileSystem, path string) (*Config, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes config data over the defaults and validates the result.
// ext selects the decoder: ".json" (comments allowed), otherwise YAML.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	defaults := cfg.detachMaps()

	switch ext {
	case ".json":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.restoreMaps(defaults)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mapDefaults holds default map values. Decoders merge into existing maps,
// so maps are detached before decoding and restored only when left unset.
type mapDefaults struct {
	breakpoints    map[string]Breakpoint
	iosClasses     map[string]string
	androidClasses map[string]string
}

func (c *Config) detachMaps() mapDefaults {
	d := mapDefaults{
		breakpoints:    c.Modes.Breakpoints,
		iosClasses:     c.Platforms.IOS.SizeClasses,
		androidClasses: c.Platforms.Android.SizeClasses,
	}
	c.Modes.Breakpoints = nil
	c.Platforms.IOS.SizeClasses = nil
	c.Platforms.Android.SizeClasses = nil
	return d
}

func (c *Config) restoreMaps(d mapDefaults) {
	if c.Modes.Breakpoints == nil {
		c.Modes.Breakpoints = d.breakpoints
	}
	if c.Platforms.IOS.SizeClasses == nil {
		c.Platforms.IOS.SizeClasses = d.iosClasses
	}
	if c.Platforms.Android.SizeClasses == nil {
		c.Platforms.Android.SizeClasses = d.androidClasses
	}
}

// ResolveInput returns the export file to read. When the input pattern
// contains glob characters, the lexically last match wins, so dated exports
// like figma-export-2026-03-01.json select the newest.
func (c *Config) ResolveInput(filesystem pipefs.FileSystem, rootDir string) (string, error) {
	pattern := c.InputPattern(rootDir)
	if !containsGlob(pattern) {
		if !filesystem.Exists(pattern) {
			return "", fmt.Errorf("%w: %s", ErrNoInput, pattern)
		}
		return pattern, nil
	}

	matches, err := expandGlob(filesystem, pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoInput, pattern)
	}
	slices.Sort(matches)
	return matches[len(matches)-1], nil
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expandGlob expands a glob pattern against the filesystem.
func expandGlob(filesystem pipefs.FileSystem, pattern string) ([]string, error) {
	baseDir := pattern
	for containsGlob(baseDir) {
		baseDir = filepath.Dir(baseDir)
	}

	relPattern := strings.TrimPrefix(pattern, baseDir)
	relPattern = strings.TrimPrefix(relPattern, string(filepath.Separator))

	var matches []string
	err := fs.WalkDir(filesystem, baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		relPath := strings.TrimPrefix(path, baseDir)
		relPath = strings.TrimPrefix(relPath, string(filepath.Separator))

		if ok, _ := doublestar.Match(relPattern, relPath); ok {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}
