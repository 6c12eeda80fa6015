// Package optim implements gradient-descent optimizers over tape-produced
// gradient maps.
//
// A backward pass yields gradients keyed by *tensor.RawTensor identity. The
// optimizer looks up each of its parameters in that map and updates the
// parameter data in place. Updates are plain float32 loops: they must not be
// recorded on the gradient tape, so they bypass the backend.
package optim

import "github.com/pulse-ml/pulse/internal/tensor"

// Optimizer updates parameters from a gradient map.
type Optimizer interface {
	// Step applies one update. Parameters absent from the map are skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// ZeroGrad clears transient per-step gradient state. Parameter updates
	// accumulate nothing between steps, so for the built-in optimizers this
	// only exists to mirror the conventional training-loop shape.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float32
}
