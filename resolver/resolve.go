/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package resolver resolves variable aliases to literal values.
//
// Resolution is a pure function of an immutable graph: a Resolver holds no
// mutable state and may be shared across goroutines.
package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"bennypowers.dev/tokenpipe/graph"
)

// DefaultMaxDepth bounds alias chains when no limit is configured.
const DefaultMaxDepth = 50

// Sentinel prefixes emitted in place of values that failed to resolve.
const (
	SentinelUnresolved = "UNRESOLVED_"
	SentinelCircular   = "UNRESOLVED_CIRCULAR_REF"
)

// State classifies a resolution outcome.
type State int

const (
	Resolved State = iota
	Unresolved
	Circular
	MaxDepthExceeded
)

func (s State) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	case Circular:
		return "circular"
	case MaxDepthExceeded:
		return "max-depth"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Reason explains an Unresolved state.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonMissingMode means a variable in the chain has no value for the needed mode.
	ReasonMissingMode
	// ReasonDanglingAlias means an alias targets a variable absent from the export.
	ReasonDanglingAlias
	// ReasonUnknownVariable means the requested variable does not exist.
	ReasonUnknownVariable
)

func (r Reason) String() string {
	switch r {
	case ReasonMissingMode:
		return "missing mode"
	case ReasonDanglingAlias:
		return "dangling alias"
	case ReasonUnknownVariable:
		return "unknown variable"
	}
	return "none"
}

// Step is one (variable, mode) pair on an alias chain.
type Step struct {
	VariableID string
	ModeID     string

	// Pinned is set when the alias that led here named the mode explicitly.
	Pinned bool
}

// Value is the outcome of resolving one variable under one mode context.
type Value struct {
	State   State
	Literal string
	Reason  Reason

	// Chain lists the steps walked, starting at the requested variable.
	// For Circular it ends with the repeated step.
	Chain []Step
}

// OK reports whether the value resolved to a literal.
func (v Value) OK() bool {
	return v.State == Resolved
}

// Last returns the final step of the chain: the literal holder, the step
// missing a value, or the repeated step of a cycle.
func (v Value) Last() Step {
	if len(v.Chain) == 0 {
		return Step{}
	}
	return v.Chain[len(v.Chain)-1]
}

// Cycle returns the steps forming the cycle, first and last equal.
// It returns nil for values that are not Circular.
func (v Value) Cycle() []Step {
	if v.State != Circular || len(v.Chain) == 0 {
		return nil
	}
	last := v.Last()
	for i, s := range v.Chain[:len(v.Chain)-1] {
		if s.VariableID == last.VariableID && s.ModeID == last.ModeID {
			return v.Chain[i:]
		}
	}
	return nil
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Identifierize turns a path or ID into a sentinel-safe identifier.
func Identifierize(s string) string {
	return strings.Trim(nonIdent.ReplaceAllString(s, "_"), "_")
}

func stepName(g *graph.Graph, s Step) string {
	if v := g.Variable(s.VariableID); v != nil {
		return Identifierize(v.Path)
	}
	return Identifierize(s.VariableID)
}

// Sentinel returns the literal for resolved values and a diagnosable
// placeholder otherwise.
func (v Value) Sentinel(g *graph.Graph) string {
	switch v.State {
	case Resolved:
		return v.Literal
	case Circular:
		parts := []string{SentinelCircular}
		for _, s := range v.Cycle() {
			parts = append(parts, stepName(g, s))
		}
		return strings.Join(parts, "__")
	case MaxDepthExceeded:
		return strings.Join([]string{SentinelCircular, stepName(g, v.Chain[0]), stepName(g, v.Last())}, "__")
	}
	return SentinelUnresolved + stepName(g, v.Last())
}

// Describe renders a one-line explanation of a failed resolution.
func (v Value) Describe(g *graph.Graph) string {
	name := func(s Step) string {
		out := s.VariableID
		if vv := g.Variable(s.VariableID); vv != nil {
			out = vv.Path
			if c := g.CollectionOf(vv); c != nil {
				if m, ok := c.Mode(s.ModeID); ok {
					out += ":" + m.Name
				}
			}
		}
		return out
	}
	switch v.State {
	case Resolved:
		return "resolved to " + v.Literal
	case Circular:
		names := make([]string, 0, len(v.Cycle()))
		for _, s := range v.Cycle() {
			names = append(names, name(s))
		}
		return "circular reference: " + strings.Join(names, " -> ")
	case MaxDepthExceeded:
		return fmt.Sprintf("alias chain exceeded %d steps starting at %s", len(v.Chain), name(v.Chain[0]))
	}
	switch v.Reason {
	case ReasonDanglingAlias:
		return "alias to missing variable " + v.Last().VariableID
	case ReasonUnknownVariable:
		return "unknown variable " + v.Last().VariableID
	}
	return "no value for " + name(v.Last())
}

// ModeContext selects a mode per collection ID. Collections it omits
// resolve against their default mode.
type ModeContext map[string]string

// ModeFor returns the mode selected for c.
func (ctx ModeContext) ModeFor(c *graph.Collection) string {
	if id, ok := ctx[c.ID]; ok {
		if _, known := c.Mode(id); known {
			return id
		}
	}
	return c.DefaultModeID
}

// Resolver resolves alias chains over an immutable graph.
type Resolver struct {
	graph    *graph.Graph
	maxDepth int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth bounds alias chain length. Non-positive values select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxDepth = n
		}
	}
}

// New creates a resolver over g.
func New(g *graph.Graph, opts ...Option) *Resolver {
	r := &Resolver{graph: g, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Graph returns the graph being resolved.
func (r *Resolver) Graph() *graph.Graph {
	return r.graph
}

// Resolve walks the alias chain of variable id under ctx.
//
// An unpinned alias into the same collection keeps the current mode; an
// unpinned alias into another collection takes the mode ctx selects there.
func (r *Resolver) Resolve(id string, ctx ModeContext) Value {
	v := r.graph.Variable(id)
	if v == nil {
		return Value{State: Unresolved, Reason: ReasonUnknownVariable, Chain: []Step{{VariableID: id}}}
	}
	c := r.graph.CollectionOf(v)
	if c == nil {
		return Value{State: Unresolved, Reason: ReasonUnknownVariable, Chain: []Step{{VariableID: id}}}
	}
	return r.walk(Step{VariableID: id, ModeID: ctx.ModeFor(c)}, ctx)
}

// ResolveAt resolves variable id starting at an explicit mode of its own collection.
func (r *Resolver) ResolveAt(id, modeID string, ctx ModeContext) Value {
	if r.graph.Variable(id) == nil {
		return Value{State: Unresolved, Reason: ReasonUnknownVariable, Chain: []Step{{VariableID: id, ModeID: modeID}}}
	}
	return r.walk(Step{VariableID: id, ModeID: modeID, Pinned: true}, ctx)
}

func (r *Resolver) walk(step Step, ctx ModeContext) Value {
	type key struct{ v, m string }
	visited := make(map[key]bool)
	var chain []Step

	for {
		if visited[key{step.VariableID, step.ModeID}] {
			return Value{State: Circular, Chain: append(chain, step)}
		}
		if len(chain) >= r.maxDepth {
			return Value{State: MaxDepthExceeded, Chain: chain}
		}
		visited[key{step.VariableID, step.ModeID}] = true
		chain = append(chain, step)

		v := r.graph.Variable(step.VariableID)
		val, ok := v.Values[step.ModeID]
		if !ok {
			return Value{State: Unresolved, Reason: ReasonMissingMode, Chain: chain}
		}
		if !val.IsAlias() {
			return Value{State: Resolved, Literal: val.Literal, Chain: chain}
		}

		target := r.graph.Variable(val.AliasID)
		if target == nil {
			return Value{
				State:  Unresolved,
				Reason: ReasonDanglingAlias,
				Chain:  append(chain, Step{VariableID: val.AliasID, ModeID: val.AliasModeID}),
			}
		}

		next := Step{VariableID: target.ID}
		switch {
		case val.AliasModeID != "":
			next.ModeID = val.AliasModeID
			next.Pinned = true
		case target.CollectionID == v.CollectionID:
			next.ModeID = step.ModeID
		default:
			tc := r.graph.CollectionOf(target)
			if tc == nil {
				return Value{State: Unresolved, Reason: ReasonDanglingAlias, Chain: append(chain, next)}
			}
			next.ModeID = ctx.ModeFor(tc)
		}
		step = next
	}
}
