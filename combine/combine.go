/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package combine computes the resolved token set of every axis combination.
//
// Each variable is resolved once per distinct projection of a combination
// onto its axis affinity; the full combination space is then a lookup.
package combine

import (
	"cmp"
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"bennypowers.dev/tokenpipe/classify"
	"bennypowers.dev/tokenpipe/resolver"
)

// Token is the value of one variable under one combination.
type Token struct {
	// Value is the resolution outcome. After a fallback it is the outcome of
	// the variable that supplied the value.
	Value resolver.Value

	// Text is the literal, or a sentinel when resolution failed.
	Text string

	// FallbackFrom names the variable that supplied the value when the
	// variable itself had no value for the combination.
	FallbackFrom string
}

// OK reports whether the token carries a real value.
func (t Token) OK() bool {
	return t.Value.OK()
}

// Fallback reports whether the value came from a less specific variable.
func (t Token) Fallback() bool {
	return t.FallbackFrom != ""
}

// Options configures Combine.
type Options struct {
	MaxDepth int

	// Workers bounds parallel resolution. Zero selects GOMAXPROCS.
	Workers int
}

// Variant is a variable's token under one projected combination.
type Variant struct {
	Combination Combination
	Token       Token
}

// Result holds every resolved token.
type Result struct {
	Axes        *AxisValues
	Set         *classify.Set
	Diagnostics []Diagnostic

	tokens map[string]map[Combination]Token
}

// Combinations enumerates the full combination space.
func (r *Result) Combinations() []Combination {
	return r.Axes.All()
}

// Token returns the token for variable id under c.
func (r *Result) Token(id string, c Combination) (Token, bool) {
	lv := r.Set.Get(id)
	if lv == nil {
		return Token{}, false
	}
	t, ok := r.tokens[id][c.Project(lv.Affinity)]
	return t, ok
}

// Variants returns a variable's tokens for every combination of its affinity axes.
func (r *Result) Variants(id string) []Variant {
	lv := r.Set.Get(id)
	if lv == nil {
		return nil
	}
	var out []Variant
	for _, c := range r.Axes.Enumerate(lv.Affinity) {
		out = append(out, Variant{Combination: c, Token: r.tokens[id][c]})
	}
	return out
}

// Warnings counts diagnostics that indicate bad source data.
func (r *Result) Warnings() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind.IsWarning() {
			n++
		}
	}
	return n
}

// Combine resolves every variable under every combination of its affinity axes.
// It returns an error only when ctx is cancelled.
func Combine(ctx context.Context, set *classify.Set, axes *AxisValues, opts Options) (*Result, error) {
	g := set.Graph()
	c := &combiner{
		set:      set,
		axes:     axes,
		resolver: resolver.New(g, resolver.WithMaxDepth(opts.MaxDepth)),
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	all := set.All()
	perVar := make([]map[Combination]Token, len(all))
	diags := make([][]Diagnostic, len(all))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, lv := range all {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			perVar[i], diags[i] = c.variable(lv)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Axes:   axes,
		Set:    set,
		tokens: make(map[string]map[Combination]Token, len(all)),
	}
	for i, lv := range all {
		res.tokens[lv.ID] = perVar[i]
		res.Diagnostics = append(res.Diagnostics, diags[i]...)
	}
	sortDiagnostics(res.Diagnostics)
	return res, nil
}

type combiner struct {
	set      *classify.Set
	axes     *AxisValues
	resolver *resolver.Resolver
}

func (c *combiner) variable(lv *classify.LayeredVariable) (map[Combination]Token, []Diagnostic) {
	g := c.set.Graph()
	out := map[Combination]Token{}
	var diags []Diagnostic

	for _, combo := range c.axes.Enumerate(lv.Affinity) {
		tok := c.resolve(lv.ID, c.axes.Context(combo))
		out[combo] = tok

		switch {
		case !tok.OK():
			diags = append(diags, Diagnostic{
				VariableID:  lv.ID,
				Path:        lv.Path,
				Kind:        kindOf(tok.Value),
				Combination: combo,
				Detail:      tok.Value.Describe(g),
				Sentinel:    tok.Text,
			})
		case tok.Fallback():
			from := tok.FallbackFrom
			if v := g.Variable(from); v != nil {
				from = v.Path
			}
			diags = append(diags, Diagnostic{
				VariableID:  lv.ID,
				Path:        lv.Path,
				Kind:        KindFallback,
				Combination: combo,
				Detail:      "no value for this combination; using " + from,
			})
		}
	}
	return out, diags
}

// resolve applies the fallback policy on top of plain resolution.
func (c *combiner) resolve(id string, ctx resolver.ModeContext) Token {
	val := c.resolver.Resolve(id, ctx)
	if val.OK() {
		return Token{Value: val, Text: val.Literal}
	}
	if val.State == resolver.Unresolved && val.Reason == resolver.ReasonMissingMode {
		if tok, ok := c.fallback(val.Last().VariableID, ctx, map[string]bool{}); ok {
			return tok
		}
	}
	return Token{Value: val, Text: val.Sentinel(c.set.Graph())}
}

// fallback finds a value for a variable that lacks one for the current mode.
// Candidates are the variable's alias targets in its other modes at or below
// its own layer, most specific layer first, ties in mode order. A candidate
// that itself lacks a value falls back recursively.
func (c *combiner) fallback(id string, ctx resolver.ModeContext, seen map[string]bool) (Token, bool) {
	if seen[id] {
		return Token{}, false
	}
	seen[id] = true

	lv := c.set.Get(id)
	if lv == nil {
		return Token{}, false
	}

	type candidate struct {
		id    string
		layer classify.Layer
		order int
	}
	var cands []candidate
	for i, target := range resolver.AliasTargets(c.set.Graph(), lv.Variable) {
		t := c.set.Get(target)
		if t == nil || target == id || t.Layer > lv.Layer {
			continue
		}
		cands = append(cands, candidate{id: target, layer: t.Layer, order: i})
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		if a.layer != b.layer {
			return cmp.Compare(b.layer, a.layer)
		}
		return cmp.Compare(a.order, b.order)
	})

	for _, cand := range cands {
		val := c.resolver.Resolve(cand.id, ctx)
		if val.OK() {
			return Token{Value: val, Text: val.Literal, FallbackFrom: cand.id}, true
		}
		if val.State == resolver.Unresolved && val.Reason == resolver.ReasonMissingMode {
			if tok, ok := c.fallback(val.Last().VariableID, ctx, seen); ok {
				return tok, true
			}
		}
	}
	return Token{}, false
}

// Lookup resolves a single variable under an arbitrary combination, without
// running a full Combine. Results are not cached.
func Lookup(set *classify.Set, axes *AxisValues, id string, combo Combination, maxDepth int) (Token, bool) {
	lv := set.Get(id)
	if lv == nil {
		return Token{}, false
	}
	c := &combiner{set: set, axes: axes, resolver: resolver.New(set.Graph(), resolver.WithMaxDepth(maxDepth))}
	return c.resolve(id, axes.Context(combo.Project(lv.Affinity))), true
}
