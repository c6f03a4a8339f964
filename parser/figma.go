/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/tidwall/jsonc"

	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/fs"
	"bennypowers.dev/tokenpipe/graph"
)

// aliasType marks an alias value in valuesByMode.
const aliasType = "VARIABLE_ALIAS"

// FigmaParser parses Figma variable exports, either the REST API response
// (with a "meta" wrapper) or the bare plugin export.
type FigmaParser struct {
	cfg *config.Config
}

// NewFigmaParser creates a parser joining the export against cfg.
func NewFigmaParser(cfg *config.Config) *FigmaParser {
	return &FigmaParser{cfg: cfg}
}

type rawBody struct {
	VariableCollections json.RawMessage `json:"variableCollections"`
	Variables           json.RawMessage `json:"variables"`
}

type rawDocument struct {
	Meta *rawBody `json:"meta"`
	rawBody
}

type rawMode struct {
	ModeID string `json:"modeId"`
	Name   string `json:"name"`
}

type rawCollection struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Modes         []rawMode `json:"modes"`
	DefaultModeID string    `json:"defaultModeId"`
}

type rawVariable struct {
	ID                   string                     `json:"id"`
	Name                 string                     `json:"name"`
	VariableCollectionID string                     `json:"variableCollectionId"`
	ResolvedType         string                     `json:"resolvedType"`
	Description          string                     `json:"description"`
	HiddenFromPublishing bool                       `json:"hiddenFromPublishing"`
	Scopes               []string                   `json:"scopes"`
	ValuesByMode         map[string]json.RawMessage `json:"valuesByMode"`
}

// rawValue probes an object value: an alias or an rgba color.
type rawValue struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	ModeID string `json:"modeId"`
	rgba
}

// keyed pairs a decoded entry with the map key it was found under, if any.
type keyed[T any] struct {
	Key   string
	Value T
}

// decodeKeyed decodes either an ID-keyed object or an array.
// Object entries are returned in key order.
func decodeKeyed[T any](raw json.RawMessage) ([]keyed[T], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		out := make([]keyed[T], len(items))
		for i, item := range items {
			out[i] = keyed[T]{Value: item}
		}
		return out, nil
	case '{':
		var m map[string]T
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]keyed[T], len(keys))
		for i, k := range keys {
			out[i] = keyed[T]{Key: k, Value: m[k]}
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected object or array, got %q", raw[:1])
}

// ParseFile reads and parses an export file.
func (p *FigmaParser) ParseFile(filesystem fs.FileSystem, path string) (*graph.Graph, error) {
	data, err := filesystem.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	g, err := p.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse parses export data into a graph and joins it against the configuration.
func (p *FigmaParser) Parse(data []byte) (*graph.Graph, error) {
	var doc rawDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrInvalidExport, err)
	}
	body := doc.rawBody
	if doc.Meta != nil {
		body = *doc.Meta
	}

	collections, err := decodeKeyed[rawCollection](body.VariableCollections)
	if err != nil {
		return nil, fmt.Errorf("%w: variableCollections: %v", graph.ErrInvalidExport, err)
	}
	variables, err := decodeKeyed[rawVariable](body.Variables)
	if err != nil {
		return nil, fmt.Errorf("%w: variables: %v", graph.ErrInvalidExport, err)
	}

	roles := map[string]string{}
	for role, id := range p.cfg.Source.Collections.ByRole() {
		if id != "" {
			roles[id] = role
		}
	}

	g := graph.New()
	for _, kc := range collections {
		c, err := p.buildCollection(kc, roles)
		if err != nil {
			return nil, err
		}
		g.AddCollection(c)
	}

	for _, role := range config.Roles {
		id := p.cfg.Source.Collections.ByRole()[role]
		if id == "" {
			continue
		}
		if g.Collection(id) == nil {
			return nil, fmt.Errorf("%w: collection %q (source.collections.%s) not found in export", graph.ErrConfigMismatch, id, role)
		}
	}

	seen := map[string]map[string]string{}
	for _, kv := range variables {
		v, err := buildVariable(kv)
		if err != nil {
			return nil, err
		}
		if g.Collection(v.CollectionID) == nil {
			return nil, fmt.Errorf("%w: variable %q references unknown collection %q", graph.ErrInvalidExport, v.ID, v.CollectionID)
		}
		if g.Variable(v.ID) != nil {
			return nil, fmt.Errorf("%w: variable ID %q appears twice", graph.ErrInvalidExport, v.ID)
		}
		paths := seen[v.CollectionID]
		if paths == nil {
			paths = map[string]string{}
			seen[v.CollectionID] = paths
		}
		if other, dup := paths[v.Path]; dup {
			return nil, fmt.Errorf("%w: %q in collection %q (%s and %s)", graph.ErrDuplicatePath, v.Path, g.Collection(v.CollectionID).Name, other, v.ID)
		}
		paths[v.Path] = v.ID
		g.AddVariable(v)
	}

	for _, c := range g.Collections() {
		slices.SortFunc(c.VariableIDs, func(a, b string) int {
			pa, pb := g.Variable(a).Path, g.Variable(b).Path
			if pa != pb {
				if pa < pb {
					return -1
				}
				return 1
			}
			if a < b {
				return -1
			}
			if a > b {
				return 1
			}
			return 0
		})
	}

	return g, nil
}

func (p *FigmaParser) buildCollection(kc keyed[rawCollection], roles map[string]string) (*graph.Collection, error) {
	rc := kc.Value
	id := rc.ID
	if id == "" {
		id = kc.Key
	}
	if id == "" {
		return nil, fmt.Errorf("%w: collection %q has no id", graph.ErrInvalidExport, rc.Name)
	}
	if len(rc.Modes) == 0 {
		return nil, fmt.Errorf("%w: collection %q has no modes", graph.ErrInvalidExport, rc.Name)
	}

	role := roles[id]
	c := &graph.Collection{
		ID:            id,
		Name:          rc.Name,
		Role:          role,
		Axis:          roleAxes[role],
		DefaultModeID: rc.DefaultModeID,
	}
	for _, m := range rc.Modes {
		c.Modes = append(c.Modes, graph.Mode{ID: m.ModeID, Name: m.Name})
	}
	if _, ok := c.Mode(c.DefaultModeID); !ok {
		c.DefaultModeID = c.Modes[0].ID
	}

	if c.Axis == graph.AxisBreakpoint {
		for i, m := range c.Modes {
			bp, ok := p.cfg.Breakpoint(m.Name)
			if !ok {
				return nil, fmt.Errorf("%w: breakpoint mode %q has no entry in modes.breakpoints", graph.ErrConfigMismatch, m.Name)
			}
			c.Modes[i].MinWidth = bp.MinWidth
			c.Modes[i].DeviceName = bp.DeviceName
		}
		slices.SortStableFunc(c.Modes, func(a, b graph.Mode) int {
			return a.MinWidth - b.MinWidth
		})
	}
	return c, nil
}

func buildVariable(kv keyed[rawVariable]) (*graph.Variable, error) {
	rv := kv.Value
	id := rv.ID
	if id == "" {
		id = kv.Key
	}
	if id == "" || rv.Name == "" {
		return nil, fmt.Errorf("%w: variable without id or name (%q, %q)", graph.ErrInvalidExport, id, rv.Name)
	}

	v := &graph.Variable{
		ID:           id,
		Path:         rv.Name,
		CollectionID: rv.VariableCollectionID,
		Type:         graph.Type(rv.ResolvedType),
		Description:  rv.Description,
		Scopes:       rv.Scopes,
		Hidden:       rv.HiddenFromPublishing,
		Values:       make(map[string]graph.Value, len(rv.ValuesByMode)),
	}
	for modeID, raw := range rv.ValuesByMode {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		val, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: variable %q mode %q: %v", graph.ErrInvalidExport, rv.Name, modeID, err)
		}
		v.Values[modeID] = val
	}
	return v, nil
}

// decodeValue normalises one valuesByMode entry.
func decodeValue(raw json.RawMessage) (graph.Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return graph.Value{}, fmt.Errorf("empty value")
	}
	switch raw[0] {
	case '{':
		var rv rawValue
		if err := json.Unmarshal(raw, &rv); err != nil {
			return graph.Value{}, err
		}
		if rv.Type == aliasType {
			if rv.ID == "" {
				return graph.Value{}, fmt.Errorf("alias without target id")
			}
			return graph.Alias(rv.ID, rv.ModeID), nil
		}
		if rv.isColor() {
			return graph.Literal(rv.hex()), nil
		}
		return graph.Value{}, fmt.Errorf("unrecognised object value %s", raw)
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return graph.Value{}, err
		}
		return graph.Literal(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return graph.Value{}, err
		}
		return graph.Literal(strconv.FormatBool(b)), nil
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			return graph.Value{}, err
		}
		return graph.Literal(FormatFloat(f)), nil
	}
}

// FormatFloat renders f rounded to four decimals with no trailing zeros.
func FormatFloat(f float64) string {
	r := math.Round(f*1e4) / 1e4
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
