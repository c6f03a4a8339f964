/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package build provides the build command for tokenpipe.
package build

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/tokenpipe/cmd/cmdutil"
	"bennypowers.dev/tokenpipe/internal/logger"
	"bennypowers.dev/tokenpipe/pipeline"
	"bennypowers.dev/tokenpipe/render"
)

// Cmd is the build cobra command.
var Cmd = &cobra.Command{
	Use:   "build",
	Short: "Generate platform token files from the Figma export",
	Long: `Resolve every brand, theme, density and breakpoint combination of the
configured Figma export and write token files for each enabled platform.

Unresolved and circular references are reported as warnings and emitted as
UNRESOLVED_* sentinels; they do not fail the build.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("out", "o", "", "Output directory (overrides output.distDir)")
	Cmd.Flags().IntP("jobs", "j", 0, "Parallel workers (default: number of CPUs)")
	Cmd.Flags().StringSlice("platform", nil, "Build only these platforms ("+fmt.Sprint(pipeline.Platforms())+")")
	Cmd.Flags().BoolP("watch", "w", false, "Rebuild when the export or config changes")

	_ = viper.BindPFlag("out", Cmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("jobs", Cmd.Flags().Lookup("jobs"))
}

func run(cmd *cobra.Command, args []string) error {
	platforms, _ := cmd.Flags().GetStringSlice("platform")
	watch, _ := cmd.Flags().GetBool("watch")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l, err := once(ctx, cmd, platforms)
	if err != nil {
		return err
	}
	if !watch {
		return nil
	}

	input := l.Config.InputPattern(l.Root)
	configPath, _ := filepath.Abs(l.Path)
	dirs := []string{filepath.Dir(input)}
	if d := filepath.Dir(l.Path); d != dirs[0] {
		dirs = append(dirs, d)
	}
	logger.Info("watching %s for changes", input)
	return pipeline.Watch(ctx, pipeline.WatchConfig{
		Dirs: dirs,
		Match: func(path string) bool {
			if abs, err := filepath.Abs(path); err == nil && abs == configPath {
				return true
			}
			ok, _ := doublestar.PathMatch(input, path)
			return ok
		},
	}, func() {
		if _, err := once(ctx, cmd, platforms); err != nil {
			logger.Error(err, "rebuild failed")
		}
	})
}

// once loads the configuration and runs a single build. The config is
// re-read every time so watch mode picks up edits to it.
func once(ctx context.Context, cmd *cobra.Command, platforms []string) (*cmdutil.Loaded, error) {
	l, err := cmdutil.LoadConfig()
	if err != nil {
		return nil, err
	}
	opts := l.Options()
	opts.OutDir = viper.GetString("out")
	opts.Platforms = platforms

	report, err := pipeline.Run(ctx, l.Config, opts)
	if err != nil {
		return l, err
	}
	return l, render.Summary(cmd.OutOrStdout(), report)
}
