/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package pipeline

import (
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"

	"bennypowers.dev/tokenpipe/combine"
	pipefs "bennypowers.dev/tokenpipe/fs"
	"bennypowers.dev/tokenpipe/internal/logger"
)

// ManifestFileName is written at the output root after every build.
const ManifestFileName = "manifest.json"

// Manifest lists the files of a build. It carries no timestamps so that
// identical inputs produce an identical manifest.
type Manifest struct {
	Name         string               `json:"name"`
	Source       string               `json:"source"`
	Variables    int                  `json:"variables"`
	Combinations int                  `json:"combinations"`
	Diagnostics  map[combine.Kind]int `json:"diagnostics"`
	Files        map[string][]string  `json:"files"`
}

func newManifest(p *Prepared, outputs []Output, previous *Manifest, built []string) *Manifest {
	m := &Manifest{
		Name:         p.Config.Identity.Name,
		Source:       filepath.Base(p.Input),
		Variables:    p.Set.Len(),
		Combinations: p.Result.Axes.Count(),
		Diagnostics:  map[combine.Kind]int{},
		Files:        map[string][]string{},
	}
	for _, d := range p.Result.Diagnostics {
		m.Diagnostics[d.Kind]++
	}
	for _, o := range outputs {
		m.Files[o.Platform] = append(m.Files[o.Platform], o.Path)
	}
	for platform := range m.Files {
		slices.Sort(m.Files[platform])
	}
	if previous != nil {
		for platform, files := range previous.Files {
			if !slices.Contains(built, platform) {
				m.Files[platform] = files
			}
		}
	}
	return m
}

// ReadManifest loads the manifest of a previous build.
func ReadManifest(filesystem pipefs.FileSystem, outDir string) (*Manifest, error) {
	data, err := filesystem.ReadFile(filepath.Join(outDir, ManifestFileName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// readManifest returns the previous manifest, or nil when there is none or it
// cannot be read.
func readManifest(filesystem pipefs.FileSystem, outDir string) *Manifest {
	m, err := ReadManifest(filesystem, outDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("ignoring unreadable %s: %v", ManifestFileName, err)
		}
		return nil
	}
	return m
}

func writeManifest(filesystem pipefs.FileSystem, outDir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := filesystem.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	return filesystem.WriteFile(filepath.Join(outDir, ManifestFileName), append(data, '\n'), 0o644)
}

// removeStale deletes files listed by the previous manifest that the current
// build no longer produces, returning their relative paths.
func removeStale(filesystem pipefs.FileSystem, outDir string, previous, current *Manifest) []string {
	if previous == nil {
		return nil
	}
	var removed []string
	for platform, files := range previous.Files {
		for _, rel := range files {
			if slices.Contains(current.Files[platform], rel) {
				continue
			}
			err := filesystem.Remove(filepath.Join(outDir, filepath.FromSlash(rel)))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("could not remove stale file %s: %v", rel, err)
				continue
			}
			removed = append(removed, rel)
		}
	}
	slices.Sort(removed)
	return removed
}
