// Copyright 2025 Pulse ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides batch iteration over training datasets.
package data

import (
	"github.com/pulse-ml/pulse/internal/data"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// Batch is one unit of training work: input data and its targets.
type Batch = data.Batch

// Loader yields batches for one pass over a dataset.
type Loader = data.Loader

// SliceLoader serves fixed-size batches from tensors held in memory.
type SliceLoader = data.SliceLoader

// NewSliceLoader creates a loader over data and targets whose leading
// dimensions agree. A trailing partial batch is dropped.
func NewSliceLoader(dataset, targets *tensor.RawTensor, batchSize int) (*SliceLoader, error) {
	return data.NewSliceLoader(dataset, targets, batchSize)
}
