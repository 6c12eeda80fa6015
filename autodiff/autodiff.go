// Copyright 2025 Pulse ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation as a
// backend decorator.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	loss := forward(backend)
//	grads := autodiff.Backward(loss, backend)
//	backend.Tape().Clear()
package autodiff

import (
	"github.com/pulse-ml/pulse/internal/autodiff"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// AutodiffBackend wraps a Backend and records operations for backpropagation.
type AutodiffBackend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// GradientTape records operations during the forward pass and replays them in
// reverse to compute gradients.
type GradientTape = autodiff.GradientTape

// BackwardCapable is the constraint for backends that can run a backward
// pass.
type BackwardCapable = autodiff.BackwardCapable

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return autodiff.New(backend)
}

// Backward computes gradients of a scalar-valued tensor with respect to every
// tensor on the tape.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	return autodiff.Backward(t, backend)
}
