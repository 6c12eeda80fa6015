package snn

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// Leaky is a first-order leaky integrate-and-fire neuron layer.
//
// Each step decays the membrane potential by beta, integrates the input
// current, fires where the potential exceeds the threshold and soft-resets
// the fired neurons by subtracting the threshold:
//
//	mem[t] = beta * mem[t-1] + input[t] - spk[t] * threshold
//
// Forward produces (spikes, membrane).
type Leaky[B tensor.Backend] struct {
	beta      float32
	threshold float32
	mem       *tensor.Tensor[float32, B]
}

// NewLeaky creates a Leaky layer with decay rate beta in (0, 1].
func NewLeaky[B tensor.Backend](beta float32) *Leaky[B] {
	if beta <= 0 || beta > 1 {
		panic(fmt.Sprintf("Leaky: beta must be in (0, 1], got %v", beta))
	}
	return &Leaky[B]{beta: beta, threshold: DefaultThreshold}
}

// WithThreshold overrides the firing threshold.
func (l *Leaky[B]) WithThreshold(threshold float32) *Leaky[B] {
	l.threshold = threshold
	return l
}

// Forward advances the neuron one time step and returns (spikes, membrane).
func (l *Leaky[B]) Forward(input *tensor.Tensor[float32, B]) []*tensor.Tensor[float32, B] {
	mem := stateFor(l.mem, input).MulScalar(l.beta).Add(input)
	spk := fire(mem, l.threshold)
	l.mem = softReset(mem, spk, l.threshold)
	return []*tensor.Tensor[float32, B]{spk, l.mem}
}

// ResetHidden clears the membrane potential.
func (l *Leaky[B]) ResetHidden() { l.mem = nil }

// DetachHidden severs the membrane's gradient history, keeping its value.
func (l *Leaky[B]) DetachHidden() {
	if l.mem != nil {
		l.mem = l.mem.Detach()
	}
}

// Arity returns 2: spikes and membrane.
func (l *Leaky[B]) Arity() int { return 2 }
