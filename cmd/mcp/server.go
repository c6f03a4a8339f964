/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/internal/version"
	"bennypowers.dev/tokenpipe/pipeline"
	"bennypowers.dev/tokenpipe/render"
)

// ResolveInput selects a variable and optionally narrows the combinations.
type ResolveInput struct {
	Path        string            `json:"path" jsonschema:"variable path such as Semantic/Text/textPrimary, or a variable ID"`
	Combination map[string]string `json:"combination,omitempty" jsonschema:"axis name to mode name, e.g. theme: Dark; omitted axes match every mode"`
}

// ResolveOutput is a variable's resolved value per combination.
type ResolveOutput struct {
	ID       string       `json:"id"`
	Path     string       `json:"path"`
	Type     string       `json:"type"`
	Layer    string       `json:"layer"`
	Variants []render.Row `json:"variants"`

	// Uses and UsedBy list the paths of direct alias targets and sources.
	Uses   []string `json:"uses"`
	UsedBy []string `json:"usedBy"`
}

// CombinationsInput takes no arguments.
type CombinationsInput struct{}

// CombinationsOutput lists the axis modes and every combination label.
type CombinationsOutput struct {
	Axes         map[string][]string `json:"axes"`
	Count        int                 `json:"count"`
	Combinations []string            `json:"combinations"`
}

// DiagnosticsInput optionally filters by kind.
type DiagnosticsInput struct {
	Kind string `json:"kind,omitempty" jsonschema:"one of unresolved, circular, max-depth, fallback"`
}

// DiagnosticInfo is one resolution problem.
type DiagnosticInfo struct {
	Path        string `json:"path"`
	Kind        string `json:"kind"`
	Combination string `json:"combination"`
	Detail      string `json:"detail"`
	Sentinel    string `json:"sentinel,omitempty"`
}

// DiagnosticsOutput lists resolution problems.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticInfo `json:"diagnostics"`
}

// NewServer returns an MCP server answering questions about a prepared build.
func NewServer(p *pipeline.Prepared) *sdk.Server {
	s := sdk.NewServer(&sdk.Implementation{Name: "tokenpipe", Version: version.Get()}, nil)
	h := handlers{p: p}

	sdk.AddTool(s, &sdk.Tool{
		Name:        "resolve_token",
		Description: "Resolve a design token variable in every brand, theme, density and breakpoint combination it depends on",
	}, h.resolve)
	sdk.AddTool(s, &sdk.Tool{
		Name:        "list_combinations",
		Description: "List the modes of each axis and every axis combination",
	}, h.combinations)
	sdk.AddTool(s, &sdk.Tool{
		Name:        "list_diagnostics",
		Description: "List unresolved, circular and fallback resolutions",
	}, h.diagnostics)
	return s
}

type handlers struct {
	p *pipeline.Prepared
}

func (h handlers) resolve(ctx context.Context, req *sdk.CallToolRequest, in ResolveInput) (*sdk.CallToolResult, ResolveOutput, error) {
	g := h.p.Graph
	v := g.Variable(in.Path)
	if v == nil {
		if vs := g.FindByPath(in.Path); len(vs) > 0 {
			v = vs[0]
		}
	}
	if v == nil {
		return nil, ResolveOutput{}, fmt.Errorf("no variable with path or ID %q", in.Path)
	}

	want := map[graph.Axis]string{}
	for name, mode := range in.Combination {
		a, ok := graph.ParseAxis(name)
		if !ok {
			return nil, ResolveOutput{}, fmt.Errorf("unknown axis %q", name)
		}
		want[a] = mode
	}

	res := h.p.Result
	variants := res.Variants(v.ID)
	rows := render.ComputeRows(res, v.ID)
	out := ResolveOutput{
		ID:       v.ID,
		Path:     v.Path,
		Type:     string(v.Type),
		Variants: []render.Row{},
		Uses:     render.Uses(res, v.ID),
		UsedBy:   render.UsedBy(res, v.ID),
	}
	if lv := res.Set.Get(v.ID); lv != nil {
		out.Layer = lv.Layer.String()
	}
	for i, variant := range variants {
		if matches(res.Axes, variant.Combination, want) {
			out.Variants = append(out.Variants, rows[i])
		}
	}
	return nil, out, nil
}

// matches reports whether c agrees with every requested axis. Axes the
// variable does not depend on match any mode.
func matches(av *combine.AxisValues, c combine.Combination, want map[graph.Axis]string) bool {
	for a, name := range want {
		id := c.Get(a)
		if id == "" {
			continue
		}
		m, ok := av.Mode(a, id)
		if !ok || !strings.EqualFold(m.Name, name) {
			return false
		}
	}
	return true
}

func (h handlers) combinations(ctx context.Context, req *sdk.CallToolRequest, in CombinationsInput) (*sdk.CallToolResult, CombinationsOutput, error) {
	av := h.p.Result.Axes
	out := CombinationsOutput{Axes: map[string][]string{}, Count: av.Count(), Combinations: []string{}}
	for _, a := range graph.Axes {
		for _, m := range av.Modes(a) {
			out.Axes[a.String()] = append(out.Axes[a.String()], m.Name)
		}
	}
	for _, c := range av.All() {
		out.Combinations = append(out.Combinations, av.Label(c))
	}
	return nil, out, nil
}

func (h handlers) diagnostics(ctx context.Context, req *sdk.CallToolRequest, in DiagnosticsInput) (*sdk.CallToolResult, DiagnosticsOutput, error) {
	res := h.p.Result
	out := DiagnosticsOutput{Diagnostics: []DiagnosticInfo{}}
	for _, d := range res.Diagnostics {
		if in.Kind != "" && string(d.Kind) != in.Kind {
			continue
		}
		out.Diagnostics = append(out.Diagnostics, DiagnosticInfo{
			Path:        d.Path,
			Kind:        string(d.Kind),
			Combination: res.Axes.Label(d.Combination),
			Detail:      d.Detail,
			Sentinel:    d.Sentinel,
		})
	}
	return nil, out, nil
}
