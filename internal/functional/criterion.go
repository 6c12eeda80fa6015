// Package functional provides loss functions, regularizers and metrics for
// spike trains and membrane traces.
//
// All losses consume a signal recorded over a training window, shaped
// [window, batch, features] with time on the leading axis, and reduce it to a
// single-element tensor. Every computation routes through the backend so an
// autodiff decorator can record it.
package functional

import "github.com/pulse-ml/pulse/internal/tensor"

// Criterion computes a scalar loss from a windowed signal and targets.
//
// The signal is either the spike record or the membrane record of the output
// layer, depending on the criterion. Targets are raw tensors because their
// dtype varies: class indices are int64, regression targets are float32.
type Criterion[B tensor.Backend] interface {
	// Name returns the registered criterion name.
	Name() string

	// Forward computes the loss for a [window, batch, features] signal.
	Forward(signal *tensor.Tensor[float32, B], targets *tensor.RawTensor) *tensor.Tensor[float32, B]
}

// TimeVarying is the capability a criterion exposes when its targets may carry
// a per-step leading time axis.
type TimeVarying interface {
	// TimeVaryingTargets reports whether targets are indexed by time.
	TimeVaryingTargets() bool
}

// Regularizer computes a scalar penalty from a windowed signal.
type Regularizer[B tensor.Backend] interface {
	// Name returns the registered regularizer name.
	Name() string

	// Forward computes the penalty for a [window, batch, features] signal.
	Forward(signal *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]
}
