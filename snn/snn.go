// Copyright 2025 Pulse ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package snn provides stateful spiking neuron layers and the Network
// container that chains them with feedforward layers.
//
// Example:
//
//	backend := autodiff.New(cpu.New())
//	net := snn.NewNetwork[*autodiff.AutodiffBackend[*cpu.Backend]]().
//		Add(nn.NewLinear(784, 128, backend)).
//		AddUnit(snn.NewLeaky[*autodiff.AutodiffBackend[*cpu.Backend]](0.9)).
//		Add(nn.NewLinear(128, 10, backend)).
//		AddUnit(snn.NewLeaky[*autodiff.AutodiffBackend[*cpu.Backend]](0.9))
package snn

import (
	"github.com/pulse-ml/pulse/internal/snn"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// StatefulUnit is the hidden-state contract every spiking unit implements.
type StatefulUnit = snn.StatefulUnit

// Unit is a spiking neuron layer.
type Unit[B tensor.Backend] = snn.Unit[B]

// Leaky is a first-order leaky integrate-and-fire neuron layer.
// Forward produces (spikes, membrane).
type Leaky[B tensor.Backend] = snn.Leaky[B]

// Lapicque is an RC-circuit neuron layer.
// Forward produces (spikes, membrane).
type Lapicque[B tensor.Backend] = snn.Lapicque[B]

// Synaptic is a second-order neuron layer with an explicit synaptic current.
// Forward produces (spikes, synaptic current, membrane).
type Synaptic[B tensor.Backend] = snn.Synaptic[B]

// Alpha is a neuron layer whose post-synaptic potential follows an alpha
// kernel. Forward produces (spikes, excitatory current, inhibitory current,
// membrane).
type Alpha[B tensor.Backend] = snn.Alpha[B]

// Network chains feedforward modules and spiking units into a single model.
type Network[B tensor.Backend] = snn.Network[B]

// DefaultThreshold is the firing threshold units use unless configured.
const DefaultThreshold = snn.DefaultThreshold

// NewLeaky creates a Leaky layer with decay rate beta in (0, 1].
func NewLeaky[B tensor.Backend](beta float32) *Leaky[B] {
	return snn.NewLeaky[B](beta)
}

// NewLapicque creates a Lapicque layer from resistance, capacitance and the
// integration time step.
func NewLapicque[B tensor.Backend](resistance, capacitance, timeStep float32) *Lapicque[B] {
	return snn.NewLapicque[B](resistance, capacitance, timeStep)
}

// NewSynaptic creates a Synaptic layer with synaptic decay alpha and membrane
// decay beta.
func NewSynaptic[B tensor.Backend](alpha, beta float32) *Synaptic[B] {
	return snn.NewSynaptic[B](alpha, beta)
}

// NewAlpha creates an Alpha layer with excitatory decay alpha and inhibitory
// decay beta, alpha > beta.
func NewAlpha[B tensor.Backend](alpha, beta float32) *Alpha[B] {
	return snn.NewAlpha[B](alpha, beta)
}

// NewNetwork creates an empty network.
func NewNetwork[B tensor.Backend]() *Network[B] {
	return snn.NewNetwork[B]()
}
