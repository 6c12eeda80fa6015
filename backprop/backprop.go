// Copyright 2025 Pulse ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package backprop provides windowed temporal credit assignment for spiking
// networks: TBPTT, BPTT and RTRL as one scheduler parameterized by the window
// length K.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	loss, err := backprop.TBPTT(backend, net, loader, optimizer,
//		functional.NewCECountLoss[B](),
//		backprop.Config[B]{NumSteps: 25, K: 5})
package backprop

import (
	"github.com/pulse-ml/pulse/internal/autodiff"
	"github.com/pulse-ml/pulse/internal/backprop"
	"github.com/pulse-ml/pulse/internal/data"
	"github.com/pulse-ml/pulse/internal/functional"
	"github.com/pulse-ml/pulse/internal/optim"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// Network is the model contract the scheduler drives.
type Network[B tensor.Backend] = backprop.Network[B]

// Config parameterizes a training pass.
type Config[B tensor.Backend] = backprop.Config[B]

// Error types raised by the scheduler.
type (
	// InvalidArgumentError reports a caller-supplied value that violates a
	// precondition of the training schedule.
	InvalidArgumentError = backprop.InvalidArgumentError

	// ConfigurationError reports an unusable training configuration.
	ConfigurationError = backprop.ConfigurationError

	// UnsupportedOutputArityError reports a network whose forward pass
	// produced a number of outputs the scheduler cannot interpret.
	UnsupportedOutputArityError = backprop.UnsupportedOutputArityError
)

// ErrNotImplemented marks training algorithms that are named but not built.
var ErrNotImplemented = backprop.ErrNotImplemented

// TBPTT trains the network for one pass over the loader using truncated
// backpropagation through time: an optimizer update every K steps, hidden
// state detached at each window boundary.
func TBPTT[B autodiff.BackwardCapable](
	backend B,
	net Network[B],
	loader data.Loader,
	optimizer optim.Optimizer,
	criterion functional.Criterion[B],
	cfg Config[B],
) (float32, error) {
	return backprop.TBPTT(backend, net, loader, optimizer, criterion, cfg)
}

// BPTT trains with full backpropagation through time: one update per batch.
func BPTT[B autodiff.BackwardCapable](
	backend B,
	net Network[B],
	loader data.Loader,
	optimizer optim.Optimizer,
	criterion functional.Criterion[B],
	cfg Config[B],
) (float32, error) {
	return backprop.BPTT(backend, net, loader, optimizer, criterion, cfg)
}

// RTRL trains with an update at every time step.
func RTRL[B autodiff.BackwardCapable](
	backend B,
	net Network[B],
	loader data.Loader,
	optimizer optim.Optimizer,
	criterion functional.Criterion[B],
	cfg Config[B],
) (float32, error) {
	return backprop.RTRL(backend, net, loader, optimizer, criterion, cfg)
}

// BPTF is backpropagation to the future. Always returns ErrNotImplemented.
func BPTF[B autodiff.BackwardCapable](
	backend B,
	net Network[B],
	loader data.Loader,
	optimizer optim.Optimizer,
	criterion functional.Criterion[B],
	cfg Config[B],
) (float32, error) {
	return backprop.BPTF(backend, net, loader, optimizer, criterion, cfg)
}
