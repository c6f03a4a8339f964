/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/tokenpipe/cmd/mcp"
	"bennypowers.dev/tokenpipe/pipeline"
	"bennypowers.dev/tokenpipe/testutil"
)

func connect(t *testing.T) *sdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	mfs, cfg := testutil.BasicConfig(t)
	p, err := pipeline.Prepare(ctx, cfg, pipeline.Options{FS: mfs, Root: testutil.ProjectRoot})
	require.NoError(t, err)

	serverTransport, clientTransport := sdk.NewInMemoryTransports()
	ss, err := mcp.NewServer(p).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "test", Version: "v0.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func call[T any](t *testing.T, cs *sdk.ClientSession, name string, args map[string]any) (T, *sdk.CallToolResult) {
	t.Helper()
	var out T
	if args == nil {
		args = map[string]any{}
	}
	res, err := cs.CallTool(context.Background(), &sdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if res.IsError {
		return out, res
	}
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &out))
	return out, res
}

func TestServer_ListTools(t *testing.T) {
	cs := connect(t)
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"resolve_token", "list_combinations", "list_diagnostics"}, names)
}

func TestServer_ResolveToken(t *testing.T) {
	cs := connect(t)

	out, res := call[mcp.ResolveOutput](t, cs, "resolve_token", map[string]any{"path": "Component/Badge/radius"})
	require.False(t, res.IsError)
	assert.Equal(t, "Component/Badge/radius", out.Path)
	assert.Equal(t, "FLOAT", out.Type)
	assert.Equal(t, "component", out.Layer)
	require.Len(t, out.Variants, 1)
	assert.Equal(t, "4", out.Variants[0].Value)
	assert.Empty(t, out.Uses)
	assert.Empty(t, out.UsedBy)

	dark, _ := call[mcp.ResolveOutput](t, cs, "resolve_token", map[string]any{
		"path":        "Component/Button/labelColor",
		"combination": map[string]any{"theme": "dark"},
	})
	require.NotEmpty(t, dark.Variants)
	for _, v := range dark.Variants {
		assert.Contains(t, v.Combination, "theme=Dark")
	}
	assert.Equal(t, []string{"Semantic/Text/textPrimary"}, dark.Uses)

	primary, _ := call[mcp.ResolveOutput](t, cs, "resolve_token", map[string]any{"path": "Semantic/Text/textPrimary"})
	assert.Equal(t, []string{"Component/Button/labelColor", "Component/Card/background"}, primary.UsedBy)

	_, res = call[mcp.ResolveOutput](t, cs, "resolve_token", map[string]any{"path": "No/Such/token"})
	assert.True(t, res.IsError)

	_, res = call[mcp.ResolveOutput](t, cs, "resolve_token", map[string]any{
		"path":        "Component/Badge/radius",
		"combination": map[string]any{"season": "winter"},
	})
	assert.True(t, res.IsError)
}

func TestServer_ListCombinations(t *testing.T) {
	cs := connect(t)
	out, _ := call[mcp.CombinationsOutput](t, cs, "list_combinations", nil)
	assert.Equal(t, []string{"Light", "Dark"}, out.Axes["theme"])
	assert.Equal(t, []string{"compact", "default", "spacious"}, out.Axes["density"])
	assert.Equal(t, 2*2*2*3*4, out.Count)
	assert.Len(t, out.Combinations, out.Count)
}

func TestServer_ListDiagnostics(t *testing.T) {
	cs := connect(t)

	all, _ := call[mcp.DiagnosticsOutput](t, cs, "list_diagnostics", nil)
	assert.Len(t, all.Diagnostics, 8)

	circular, _ := call[mcp.DiagnosticsOutput](t, cs, "list_diagnostics", map[string]any{"kind": "circular"})
	var paths []string
	for _, d := range circular.Diagnostics {
		assert.Equal(t, "circular", d.Kind)
		paths = append(paths, d.Path)
	}
	assert.ElementsMatch(t, []string{"Semantic/Debug/loopA", "Semantic/Debug/loopB"}, paths)
}
