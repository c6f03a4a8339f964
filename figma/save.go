/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package figma

import (
	"fmt"
	"path/filepath"
	"time"

	pipefs "bennypowers.dev/tokenpipe/fs"
)

// ExportFileName names a download by date so that a glob such as
// export-*.json picks the latest one lexically.
func ExportFileName(t time.Time) string {
	return "export-" + t.UTC().Format(time.DateOnly) + ".json"
}

// Save writes an export under dir and returns its path.
func Save(filesystem pipefs.FileSystem, dir string, data []byte, now time.Time) (string, error) {
	if err := filesystem.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, ExportFileName(now))
	if err := filesystem.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
