/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for tokenpipe.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenpipe/cmd/build"
	"bennypowers.dev/tokenpipe/cmd/fetch"
	"bennypowers.dev/tokenpipe/cmd/inspect"
	"bennypowers.dev/tokenpipe/cmd/mcp"
	"bennypowers.dev/tokenpipe/cmd/validate"
	"bennypowers.dev/tokenpipe/cmd/version"
	"bennypowers.dev/tokenpipe/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tokenpipe",
	Short: "Transform Figma variable exports into platform design tokens",
	Long: `tokenpipe reads a Figma variable export, resolves aliases across brands, themes,
densities and breakpoints, and writes CSS, SCSS, JS, Swift and Kotlin token files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Configure(logger.Options{
			Level:  viper.GetString("log-level"),
			Format: viper.GetString("log-format"),
		})
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to pipeline.config.{yaml,yml,json}")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", logger.FormatConsole, "Log format (console, json)")

	viper.SetEnvPrefix("TOKENPIPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(build.Cmd)
	rootCmd.AddCommand(fetch.Cmd)
	rootCmd.AddCommand(inspect.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(mcp.Cmd)
	rootCmd.AddCommand(version.Cmd)
}
