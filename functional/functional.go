// Copyright 2025 Pulse ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package functional provides loss functions, regularizers and metrics for
// spike trains and membrane traces.
package functional

import (
	"github.com/pulse-ml/pulse/internal/functional"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// Criterion computes a scalar loss from a windowed signal and targets.
type Criterion[B tensor.Backend] = functional.Criterion[B]

// TimeVarying is the capability a criterion exposes when its targets may
// carry a per-step leading time axis.
type TimeVarying = functional.TimeVarying

// Regularizer computes a scalar penalty from a windowed signal.
type Regularizer[B tensor.Backend] = functional.Regularizer[B]

// MSEMembraneLoss is the mean squared error between the membrane record and
// float32 targets.
type MSEMembraneLoss[B tensor.Backend] = functional.MSEMembraneLoss[B]

// CEMaxMembraneLoss is cross-entropy on the per-neuron maximum membrane
// potential over the window.
type CEMaxMembraneLoss[B tensor.Backend] = functional.CEMaxMembraneLoss[B]

// CERateLoss applies cross-entropy to the spike record at every time step and
// averages over the window.
type CERateLoss[B tensor.Backend] = functional.CERateLoss[B]

// CECountLoss applies cross-entropy to the total spike count per neuron.
type CECountLoss[B tensor.Backend] = functional.CECountLoss[B]

// MSECountLoss is mean squared error between spike counts and target counts
// derived from firing rates.
type MSECountLoss[B tensor.Backend] = functional.MSECountLoss[B]

// L1RateSparsity penalizes the total spike count of the window.
type L1RateSparsity[B tensor.Backend] = functional.L1RateSparsity[B]

// NewMSEMembraneLoss creates a membrane MSE loss. timeVarying declares
// whether targets carry a leading time axis.
func NewMSEMembraneLoss[B tensor.Backend](timeVarying bool) *MSEMembraneLoss[B] {
	return functional.NewMSEMembraneLoss[B](timeVarying)
}

// NewCEMaxMembraneLoss creates a max-membrane cross-entropy loss.
func NewCEMaxMembraneLoss[B tensor.Backend]() *CEMaxMembraneLoss[B] {
	return functional.NewCEMaxMembraneLoss[B]()
}

// NewCERateLoss creates a per-step spike cross-entropy loss.
func NewCERateLoss[B tensor.Backend]() *CERateLoss[B] {
	return functional.NewCERateLoss[B]()
}

// NewCECountLoss creates a spike-count cross-entropy loss.
func NewCECountLoss[B tensor.Backend]() *CECountLoss[B] {
	return functional.NewCECountLoss[B]()
}

// NewMSECountLoss creates a spike-count MSE loss with target firing rates in
// [0, 1].
func NewMSECountLoss[B tensor.Backend](correctRate, incorrectRate float32) *MSECountLoss[B] {
	return functional.NewMSECountLoss[B](correctRate, incorrectRate)
}

// NewL1RateSparsity creates the L1 spike-sparsity regularizer.
func NewL1RateSparsity[B tensor.Backend](lambda float32) *L1RateSparsity[B] {
	return functional.NewL1RateSparsity[B](lambda)
}

// Accuracy is the fraction of rate-coded predictions matching the labels.
func Accuracy[B tensor.Backend](spikes *tensor.Tensor[float32, B], targets *tensor.RawTensor) float32 {
	return functional.Accuracy(spikes, targets)
}
