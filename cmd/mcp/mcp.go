/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcp provides the mcp command, a Model Context Protocol server
// over stdio for editor and agent integrations.
package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"bennypowers.dev/tokenpipe/cmd/cmdutil"
	"bennypowers.dev/tokenpipe/internal/logger"
)

// Cmd is the mcp cobra command.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve resolved tokens over the Model Context Protocol (stdio)",
	Long: `Load and resolve the configured Figma export once, then answer MCP tool
calls on stdin/stdout: resolve_token, list_combinations and list_diagnostics.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, p, err := cmdutil.Prepare(ctx)
	if err != nil {
		return err
	}
	logger.Info("serving %d variables over stdio", p.Graph.Len())
	return NewServer(p).Run(ctx, &sdk.StdioTransport{})
}
