// Copyright 2025 Pulse ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package runlog persists training runs and their per-epoch metrics to a
// SQLite database.
package runlog

import "github.com/pulse-ml/pulse/internal/runlog"

// Store is a SQLite-backed run log. Safe for concurrent use.
type Store = runlog.Store

// Run is one training invocation.
type Run = runlog.Run

// Epoch is one recorded epoch of a run.
type Epoch = runlog.Epoch

// Open opens or creates the run log at path. Use ":memory:" for an ephemeral
// store.
func Open(path string) (*Store, error) {
	return runlog.Open(path)
}
