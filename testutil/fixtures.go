/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package testutil provides fixture helpers shared by package tests.
package testutil

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/internal/mapfs"
	"bennypowers.dev/tokenpipe/parser"
)

// ProjectRoot is the virtual directory fixtures are mounted under.
const ProjectRoot = "/project"

// fixturePath locates a path under testdata from any package directory.
func fixturePath(t *testing.T, rel string) string {
	t.Helper()
	for _, p := range []string{
		filepath.Join("testdata", rel),
		filepath.Join("..", "testdata", rel),
		filepath.Join("..", "..", "testdata", rel),
		filepath.Join("..", "..", "..", "testdata", rel),
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	t.Fatalf("could not find fixture %s (tried all paths)", rel)
	return ""
}

// NewFixtureFS loads a fixture directory from testdata into a MapFileSystem
// mounted at rootPath.
func NewFixtureFS(t *testing.T, fixtureDir string, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	mfs := mapfs.New()
	base := fixturePath(t, fixtureDir)

	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		mfs.AddFile(filepath.ToSlash(filepath.Join(rootPath, rel)), string(content), 0o644)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to load fixtures from %s: %v", fixtureDir, err)
	}
	return mfs
}

// LoadFixtureFile reads a single fixture file.
func LoadFixtureFile(t *testing.T, rel string) []byte {
	t.Helper()
	content, err := os.ReadFile(fixturePath(t, rel))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", rel, err)
	}
	return content
}

// BasicExport mounts the basic export fixture at ProjectRoot.
func BasicExport(t *testing.T) *mapfs.MapFileSystem {
	t.Helper()
	return NewFixtureFS(t, "fixtures/export/basic", ProjectRoot)
}

// BasicConfig mounts the basic export fixture and loads its configuration.
func BasicConfig(t *testing.T) (*mapfs.MapFileSystem, *config.Config) {
	t.Helper()
	mfs := BasicExport(t)
	cfg, err := config.Load(mfs, ProjectRoot)
	if err != nil {
		t.Fatalf("failed to load fixture config: %v", err)
	}
	if cfg == nil {
		t.Fatal("fixture config not found")
	}
	return mfs, cfg
}

// BasicGraph parses the basic export fixture.
func BasicGraph(t *testing.T) (*config.Config, *graph.Graph) {
	t.Helper()
	mfs, cfg := BasicConfig(t)
	input, err := cfg.ResolveInput(mfs, ProjectRoot)
	if err != nil {
		t.Fatalf("failed to resolve fixture input: %v", err)
	}
	g, err := parser.NewFigmaParser(cfg).ParseFile(mfs, input)
	if err != nil {
		t.Fatalf("failed to parse fixture export: %v", err)
	}
	return cfg, g
}

// MustFind returns the single variable at path or fails the test.
func MustFind(t *testing.T, g *graph.Graph, path string) *graph.Variable {
	t.Helper()
	found := g.FindByPath(path)
	if len(found) != 1 {
		t.Fatalf("expected one variable at %q, found %d", path, len(found))
	}
	return found[0]
}

// BasicResult combines the basic export fixture across every combination.
func BasicResult(t *testing.T) (*config.Config, *combine.Result) {
	t.Helper()
	cfg, g := BasicGraph(t)
	set := classify.Classify(g, classify.RulesFromConfig(cfg))
	res, err := combine.Combine(context.Background(), set, combine.Discover(g), combine.Options{MaxDepth: cfg.Source.MaxDepth})
	if err != nil {
		t.Fatalf("failed to combine fixture: %v", err)
	}
	return cfg, res
}
