/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package fetch provides the fetch command for tokenpipe.
package fetch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenpipe/cmd/cmdutil"
	"bennypowers.dev/tokenpipe/figma"
	"bennypowers.dev/tokenpipe/parser"
)

// Cmd is the fetch cobra command.
var Cmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the latest variable export from Figma",
	Long: `Download the local variables of the configured Figma file through the REST API
and save them as export-YYYY-MM-DD.json in source.inputDir.

The download is checked against the configured collections before it is
saved. The access token is read from --figma-token or TOKENPIPE_FIGMA_TOKEN.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().String("file-key", "", "Figma file key (overrides source.fileKey)")
	Cmd.Flags().String("figma-token", "", "Figma personal access token")
	Cmd.Flags().String("api-url", figma.DefaultBaseURL, "Figma API origin")
	_ = Cmd.Flags().MarkHidden("api-url")

	_ = viper.BindPFlag("figma-token", Cmd.Flags().Lookup("figma-token"))
}

func run(cmd *cobra.Command, args []string) error {
	fileKey, _ := cmd.Flags().GetString("file-key")
	apiURL, _ := cmd.Flags().GetString("api-url")

	l, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}
	if fileKey == "" {
		fileKey = l.Config.Source.FileKey
	}

	client := figma.NewClient(viper.GetString("figma-token"), figma.WithBaseURL(apiURL))
	data, err := client.LocalVariables(cmd.Context(), fileKey)
	if err != nil {
		return err
	}

	g, err := parser.NewFigmaParser(l.Config).Parse(data)
	if err != nil {
		return fmt.Errorf("downloaded export does not match configuration: %w", err)
	}

	dir := filepath.Join(l.Root, l.Config.Source.InputDir)
	path, err := figma.Save(l.FS, dir, data, time.Now())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "saved %d variables to %s\n", g.Len(), path)
	return err
}
