/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package classify assigns variables to architectural layers and infers
// the axes each variable is sensitive to.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/resolver"
)

// Layer is one tier of the token hierarchy. Lower layers are more primitive.
type Layer int

const (
	Primitive Layer = iota
	Mapping
	Semantic
	Component
)

// Layers lists every layer from most primitive to most specific.
var Layers = []Layer{Primitive, Mapping, Semantic, Component}

func (l Layer) String() string {
	switch l {
	case Primitive:
		return "primitive"
	case Mapping:
		return "mapping"
	case Semantic:
		return "semantic"
	case Component:
		return "component"
	}
	return fmt.Sprintf("Layer(%d)", int(l))
}

// MarshalText renders the layer name.
func (l Layer) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Rules holds the naming conventions the classifier applies.
type Rules struct {
	ComponentPrefix string

	// Semantic and Mapping hold collection IDs.
	Semantic map[string]bool
	Mapping  map[string]bool
}

// RulesFromConfig builds classification rules from the path conventions.
func RulesFromConfig(cfg *config.Config) Rules {
	r := Rules{
		ComponentPrefix: cfg.Source.PathConventions.ComponentPrefix,
		Semantic:        map[string]bool{},
		Mapping:         map[string]bool{},
	}
	for _, id := range cfg.SemanticCollectionIDs() {
		r.Semantic[id] = true
	}
	for _, id := range cfg.MappingCollectionIDs() {
		r.Mapping[id] = true
	}
	return r
}

type rule struct {
	layer Layer
	match func(r Rules, path, collectionID string) bool
}

// ruleTable is applied in order; the first match wins.
var ruleTable = []rule{
	{Component, func(r Rules, path, _ string) bool {
		return r.ComponentPrefix != "" && strings.HasPrefix(path, r.ComponentPrefix)
	}},
	{Semantic, func(r Rules, _, id string) bool { return r.Semantic[id] }},
	{Mapping, func(r Rules, _, id string) bool { return r.Mapping[id] }},
}

// LayerOf classifies a variable path in a collection.
func (r Rules) LayerOf(path, collectionID string) Layer {
	for _, rl := range ruleTable {
		if rl.match(r, path, collectionID) {
			return rl.layer
		}
	}
	return Primitive
}

// LayeredVariable is a variable annotated with its layer and axis affinity.
type LayeredVariable struct {
	*graph.Variable
	Collection *graph.Collection
	Layer      Layer

	// Affinity is the set of axes whose mode can change the variable's value.
	Affinity graph.AxisSet
}

// Set is the classified view of a graph.
type Set struct {
	graph *graph.Graph
	deps  *resolver.DependencyGraph
	vars  map[string]*LayeredVariable
	all   []*LayeredVariable
}

// Classify annotates every variable in g.
func Classify(g *graph.Graph, rules Rules) *Set {
	s := &Set{
		graph: g,
		deps:  resolver.BuildDependencyGraph(g),
		vars:  make(map[string]*LayeredVariable, g.Len()),
	}

	for _, v := range g.Variables() {
		lv := &LayeredVariable{
			Variable:   v,
			Collection: g.CollectionOf(v),
			Layer:      rules.LayerOf(v.Path, v.CollectionID),
			Affinity:   affinity(g, v.ID),
		}
		s.vars[v.ID] = lv
		s.all = append(s.all, lv)
	}

	sort.SliceStable(s.all, func(i, j int) bool {
		return s.all[i].Layer < s.all[j].Layer
	})
	return s
}

// affinity unions the axes of every collection whose mode can change the
// variable's value. An alias pinned to a mode fixes its target's mode, so
// the target's own axis is skipped and only that mode's value is followed.
func affinity(g *graph.Graph, id string) graph.AxisSet {
	// mode is empty when the variable is reached with its mode left to the context.
	type visit struct{ id, mode string }

	var set graph.AxisSet
	seen := map[visit]bool{}
	queue := []visit{{id: id}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true

		v := g.Variable(cur.id)
		if v == nil {
			continue
		}
		if c := g.CollectionOf(v); c != nil && cur.mode == "" {
			set = set.With(c.Axis)
		}
		for modeID, val := range v.Values {
			if !val.IsAlias() || (cur.mode != "" && modeID != cur.mode) {
				continue
			}
			next := visit{id: val.AliasID, mode: val.AliasModeID}
			if next.mode == "" && cur.mode != "" {
				if t := g.Variable(val.AliasID); t != nil && t.CollectionID == v.CollectionID {
					next.mode = cur.mode
				}
			}
			queue = append(queue, next)
		}
	}
	return set
}

// Graph returns the classified graph.
func (s *Set) Graph() *graph.Graph {
	return s.graph
}

// Dependencies returns the alias dependency graph.
func (s *Set) Dependencies() *resolver.DependencyGraph {
	return s.deps
}

// Get returns the layered variable for id, or nil.
func (s *Set) Get(id string) *LayeredVariable {
	return s.vars[id]
}

// All returns every variable sorted by layer, then path.
func (s *Set) All() []*LayeredVariable {
	return s.all
}

// Layer returns the variables in layer l, sorted by path.
func (s *Set) Layer(l Layer) []*LayeredVariable {
	var out []*LayeredVariable
	for _, lv := range s.all {
		if lv.Layer == l {
			out = append(out, lv)
		}
	}
	return out
}

// Len returns the number of classified variables.
func (s *Set) Len() int {
	return len(s.all)
}
