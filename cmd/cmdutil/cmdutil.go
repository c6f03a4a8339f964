/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmdutil holds helpers shared by tokenpipe commands.
package cmdutil

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"bennypowers.dev/tokenpipe/config"
	"bennypowers.dev/tokenpipe/fs"
	"bennypowers.dev/tokenpipe/pipeline"
)

// Loaded is a configuration together with where it came from.
type Loaded struct {
	Config *config.Config

	// Path is the config file that was read.
	Path string

	// Root is the directory relative paths in the config resolve against.
	Root string

	FS fs.FileSystem
}

// LoadConfig reads the file named by --config, or discovers
// pipeline.config.{yaml,yml,json} in the working directory.
func LoadConfig() (*Loaded, error) {
	filesystem := fs.NewOSFileSystem()
	path := viper.GetString("config")
	if path == "" {
		path = config.Find(filesystem, ".")
		if path == "" {
			return nil, fmt.Errorf("no %s.{yaml,yml,json} found in the working directory; pass --config", config.ConfigFileName)
		}
	}
	cfg, err := config.LoadFile(filesystem, path)
	if err != nil {
		return nil, err
	}
	return &Loaded{Config: cfg, Path: path, Root: filepath.Dir(path), FS: filesystem}, nil
}

// Options returns pipeline options for the loaded config, with the
// worker count taken from --jobs when bound.
func (l *Loaded) Options() pipeline.Options {
	return pipeline.Options{
		FS:      l.FS,
		Root:    l.Root,
		Workers: viper.GetInt("jobs"),
	}
}

// Prepare loads the configuration and resolves every combination.
func Prepare(ctx context.Context) (*Loaded, *pipeline.Prepared, error) {
	l, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := pipeline.Prepare(ctx, l.Config, l.Options())
	if err != nil {
		return nil, nil, err
	}
	return l, p, nil
}
