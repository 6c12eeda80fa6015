// Copyright 2025 Pulse ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides gradient-descent optimizers.
package optim

import (
	"github.com/pulse-ml/pulse/internal/nn"
	"github.com/pulse-ml/pulse/internal/optim"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// Optimizer updates parameters from a gradient map.
type Optimizer = optim.Optimizer

// SGD implements stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig configures SGD.
type SGDConfig = optim.SGDConfig

// Adam implements the Adam optimizer with bias-corrected moment estimates.
type Adam = optim.Adam

// AdamConfig configures Adam.
type AdamConfig = optim.AdamConfig

// NewSGD creates an SGD optimizer over the given parameter tensors.
//
// Example:
//
//	optimizer := optim.NewSGD(optim.RawParameters(net.Parameters()), optim.SGDConfig{
//		LR:       0.01,
//		Momentum: 0.9,
//	})
func NewSGD(params []*tensor.RawTensor, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// NewAdam creates an Adam optimizer over the given parameter tensors.
func NewAdam(params []*tensor.RawTensor, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}

// RawParameters extracts the raw tensors optimizers operate on from a
// parameter list.
func RawParameters[B tensor.Backend](params []*nn.Parameter[B]) []*tensor.RawTensor {
	raws := make([]*tensor.RawTensor, len(params))
	for i, p := range params {
		raws[i] = p.Tensor().Raw()
	}
	return raws
}
