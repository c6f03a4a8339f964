/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"fmt"
	"slices"

	"bennypowers.dev/tokenpipe/graph"
)

// DependencyGraph is the alias graph over variable IDs, taken across all modes.
type DependencyGraph struct {
	dependencies map[string][]string
	dependents   map[string][]string
	nodes        []string
}

// BuildDependencyGraph builds the alias graph of g. Dangling targets are
// recorded as dependencies but are not nodes.
func BuildDependencyGraph(g *graph.Graph) *DependencyGraph {
	dg := &DependencyGraph{
		dependencies: make(map[string][]string),
		dependents:   make(map[string][]string),
	}

	for _, v := range g.Variables() {
		dg.nodes = append(dg.nodes, v.ID)
		deps := AliasTargets(g, v)
		if len(deps) == 0 {
			continue
		}
		dg.dependencies[v.ID] = deps
		for _, dep := range deps {
			dg.dependents[dep] = append(dg.dependents[dep], v.ID)
		}
	}
	for id := range dg.dependents {
		slices.Sort(dg.dependents[id])
	}
	return dg
}

// AliasTargets returns the distinct alias targets of v in its collection's mode order.
// Values keyed by modes outside the collection follow, in mode ID order.
func AliasTargets(g *graph.Graph, v *graph.Variable) []string {
	var out []string
	add := func(val graph.Value) {
		if val.IsAlias() && !slices.Contains(out, val.AliasID) {
			out = append(out, val.AliasID)
		}
	}

	known := map[string]bool{}
	if c := g.CollectionOf(v); c != nil {
		for _, m := range c.Modes {
			known[m.ID] = true
			if val, ok := v.Values[m.ID]; ok {
				add(val)
			}
		}
	}
	var extra []string
	for modeID := range v.Values {
		if !known[modeID] {
			extra = append(extra, modeID)
		}
	}
	slices.Sort(extra)
	for _, modeID := range extra {
		add(v.Values[modeID])
	}
	return out
}

// Dependencies returns the variables id aliases, in any mode.
func (g *DependencyGraph) Dependencies(id string) []string {
	if deps, ok := g.dependencies[id]; ok {
		return deps
	}
	return []string{}
}

// Dependents returns the variables that alias id, sorted.
func (g *DependencyGraph) Dependents(id string) []string {
	if deps, ok := g.dependents[id]; ok {
		return deps
	}
	return []string{}
}

// FindCycle returns a variable-level cycle path if one exists, or nil.
// Nodes are visited in path order, so the result is deterministic.
// A variable-level cycle need not be a cycle in any single mode.
func (g *DependencyGraph) FindCycle() []string {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for _, node := range g.nodes {
		if cycle := g.findCycleDFS(node, visited, recStack, nil); cycle != nil {
			return cycle
		}
	}
	return nil
}

func (g *DependencyGraph) findCycleDFS(node string, visited, recStack map[string]bool, path []string) []string {
	if recStack[node] {
		cycleStart := slices.Index(path, node)
		if cycleStart == -1 {
			panic(fmt.Sprintf("cycle detection invariant violated: node %q in recStack but not in path %v", node, path))
		}
		return append(slices.Clone(path[cycleStart:]), node)
	}
	if visited[node] {
		return nil
	}

	visited[node] = true
	recStack[node] = true
	path = append(path, node)

	for _, dep := range g.dependencies[node] {
		if cycle := g.findCycleDFS(dep, visited, recStack, path); cycle != nil {
			return cycle
		}
	}

	recStack[node] = false
	return nil
}
