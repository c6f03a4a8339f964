/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package graph

import "errors"

// Sentinel errors for loading a variable graph. All of them are fatal to a pipeline run.
var (
	// ErrConfigMismatch indicates the configuration names a collection or mode the export lacks.
	ErrConfigMismatch = errors.New("configuration does not match source export")

	// ErrDuplicatePath indicates two variables in one collection share a path.
	ErrDuplicatePath = errors.New("duplicate variable path")

	// ErrInvalidExport indicates the export document is structurally malformed.
	ErrInvalidExport = errors.New("invalid variable export")
)
