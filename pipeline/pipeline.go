/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package pipeline runs the token build: load the export, resolve every axis
// combination, render each enabled platform and write the results.
//
// Everything is rendered in memory before the first write, so a fatal error
// never leaves a partially updated output tree.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/emit"
	"bennypowers.dev/tokenpipe/emit/android"
	"bennypowers.dev/tokenpipe/emit/css"
	"bennypowers.dev/tokenpipe/emit/js"
	"bennypowers.dev/tokenpipe/emit/scss"
	"bennypowers.dev/tokenpipe/emit/swift"
	pipefs "bennypowers.dev/tokenpipe/fs"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/parser"
)

// ErrUnknownPlatform is returned when a requested platform has no emitter.
var ErrUnknownPlatform = errors.New("unknown platform")

// Factory creates a platform emitter.
type Factory func(ctx *emit.Context) emit.Emitter

var factories = map[string]Factory{
	css.Platform:     func(ctx *emit.Context) emit.Emitter { return css.New(ctx) },
	scss.Platform:    func(ctx *emit.Context) emit.Emitter { return scss.New(ctx) },
	js.Platform:      func(ctx *emit.Context) emit.Emitter { return js.New(ctx) },
	swift.Platform:   func(ctx *emit.Context) emit.Emitter { return swift.New(ctx) },
	android.Platform: func(ctx *emit.Context) emit.Emitter { return android.New(ctx) },
}

// Platforms lists every supported platform key.
func Platforms() []string {
	keys := make([]string, 0, len(factories))
	for k := range factories {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Options configures a run.
type Options struct {
	FS pipefs.FileSystem

	// Root is the directory relative paths in the configuration resolve against.
	Root string

	// OutDir overrides the configured output root.
	OutDir string

	// Workers bounds parallelism. Zero selects GOMAXPROCS.
	Workers int

	// Platforms restricts the build to a subset of the enabled platforms.
	Platforms []string
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Prepared holds the platform-independent stages of a build.
type Prepared struct {
	Config *config.Config
	Input  string
	Graph  *graph.Graph
	Set    *classify.Set
	Result *combine.Result
}

// Context returns the emitter input for the prepared build.
func (p *Prepared) Context() *emit.Context {
	return &emit.Context{Config: p.Config, Result: p.Result}
}

// Prepare loads the export and resolves every combination.
func Prepare(ctx context.Context, cfg *config.Config, opts Options) (*Prepared, error) {
	input, err := cfg.ResolveInput(opts.FS, opts.Root)
	if err != nil {
		return nil, err
	}
	g, err := parser.NewFigmaParser(cfg).ParseFile(opts.FS, input)
	if err != nil {
		return nil, err
	}
	set := classify.Classify(g, classify.RulesFromConfig(cfg))
	res, err := combine.Combine(ctx, set, combine.Discover(g), combine.Options{
		MaxDepth: cfg.Source.MaxDepth,
		Workers:  opts.workers(),
	})
	if err != nil {
		return nil, err
	}
	return &Prepared{Config: cfg, Input: input, Graph: g, Set: set, Result: res}, nil
}

// Output is one rendered file, its path relative to the output root.
type Output struct {
	Platform string
	Path     string
	Content  []byte
}

// selectPlatforms returns the platforms to build, in configuration order.
func selectPlatforms(cfg *config.Config, requested []string) ([]string, error) {
	for _, p := range requested {
		if _, ok := factories[p]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
		}
	}
	enabled := cfg.EnabledPlatforms()
	if len(requested) == 0 {
		return enabled, nil
	}
	var out []string
	for _, p := range enabled {
		if slices.Contains(requested, p) {
			out = append(out, p)
		}
	}
	for _, p := range requested {
		if !slices.Contains(enabled, p) {
			return nil, fmt.Errorf("platform %s is not enabled in the configuration", p)
		}
	}
	return out, nil
}

// Render produces every file of the given platforms. Files render in
// parallel; the result keeps platform then plan order.
func Render(ctx context.Context, p *Prepared, platforms []string, workers int) ([]Output, error) {
	ectx := p.Context()
	files := ectx.Plan()

	type job struct {
		emitter emit.Emitter
		file    *emit.File
	}
	var jobs []job
	var indexers []emit.Emitter
	for _, name := range platforms {
		factory, ok := factories[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, name)
		}
		e := factory(ectx)
		for _, f := range files {
			jobs = append(jobs, job{emitter: e, file: f})
		}
		if _, ok := e.(emit.Indexer); ok {
			indexers = append(indexers, e)
		}
	}

	outputs := make([]Output, len(jobs))
	eg, egCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, j := range jobs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			content, err := j.emitter.Render(j.file)
			if err != nil {
				return fmt.Errorf("rendering %s: %w", j.emitter.FilePath(j.file), err)
			}
			outputs[i] = Output{Platform: j.emitter.Platform(), Path: j.emitter.FilePath(j.file), Content: content}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, e := range indexers {
		rel, content, err := e.(emit.Indexer).Index(files)
		if err != nil {
			return nil, fmt.Errorf("rendering %s index: %w", e.Platform(), err)
		}
		outputs = append(outputs, Output{Platform: e.Platform(), Path: rel, Content: content})
	}
	slices.SortStableFunc(outputs, func(a, b Output) int {
		return slices.Index(platforms, a.Platform) - slices.Index(platforms, b.Platform)
	})
	return outputs, nil
}

// Run executes a full build and writes the output tree.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	platforms, err := selectPlatforms(cfg, opts.Platforms)
	if err != nil {
		return nil, err
	}
	p, err := Prepare(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	outputs, err := Render(ctx, p, platforms, opts.workers())
	if err != nil {
		return nil, err
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = cfg.OutputRoot(opts.Root)
	} else if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(opts.Root, outDir)
	}

	previous := readManifest(opts.FS, outDir)
	if err := write(ctx, opts.FS, outDir, outputs, opts.workers()); err != nil {
		return nil, err
	}

	report := newReport(p, outDir, outputs)
	manifest := newManifest(p, outputs, previous, platforms)
	if err := writeManifest(opts.FS, outDir, manifest); err != nil {
		return nil, err
	}
	report.Removed = removeStale(opts.FS, outDir, previous, manifest)
	logDiagnostics(p.Result.Diagnostics, p.Result.Axes)
	return report, nil
}

func write(ctx context.Context, filesystem pipefs.FileSystem, outDir string, outputs []Output, workers int) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, o := range outputs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			target := filepath.Join(outDir, filepath.FromSlash(o.Path))
			if err := filesystem.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("creating directory for %s: %w", o.Path, err)
			}
			if err := filesystem.WriteFile(target, o.Content, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", o.Path, err)
			}
			return nil
		})
	}
	return eg.Wait()
}
