// Copyright 2025 Pulse ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the feedforward building blocks spiking networks are
// assembled from.
package nn

import (
	"github.com/pulse-ml/pulse/internal/nn"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// Module is the base interface for feedforward network components.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a trainable parameter.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// Linear applies an affine transformation: output = input @ weight + bias.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// NewLinear creates a linear layer with Xavier-initialized weights.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(784, 10, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}
