package snn

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// Synaptic is a second-order neuron layer with an explicit synaptic current:
//
//	syn[t] = alpha * syn[t-1] + input[t]
//	mem[t] = beta * mem[t-1] + syn[t] - spk[t] * threshold
//
// Forward produces (spikes, synaptic current, membrane).
type Synaptic[B tensor.Backend] struct {
	alpha     float32
	beta      float32
	threshold float32
	syn       *tensor.Tensor[float32, B]
	mem       *tensor.Tensor[float32, B]
}

// NewSynaptic creates a Synaptic layer with synaptic decay alpha and membrane
// decay beta, both in (0, 1].
func NewSynaptic[B tensor.Backend](alpha, beta float32) *Synaptic[B] {
	if alpha <= 0 || alpha > 1 || beta <= 0 || beta > 1 {
		panic(fmt.Sprintf("Synaptic: alpha and beta must be in (0, 1], got alpha=%v beta=%v", alpha, beta))
	}
	return &Synaptic[B]{alpha: alpha, beta: beta, threshold: DefaultThreshold}
}

// WithThreshold overrides the firing threshold.
func (s *Synaptic[B]) WithThreshold(threshold float32) *Synaptic[B] {
	s.threshold = threshold
	return s
}

// Forward advances the neuron one time step and returns
// (spikes, synaptic current, membrane).
func (s *Synaptic[B]) Forward(input *tensor.Tensor[float32, B]) []*tensor.Tensor[float32, B] {
	syn := stateFor(s.syn, input).MulScalar(s.alpha).Add(input)
	mem := stateFor(s.mem, input).MulScalar(s.beta).Add(syn)
	spk := fire(mem, s.threshold)
	s.syn = syn
	s.mem = softReset(mem, spk, s.threshold)
	return []*tensor.Tensor[float32, B]{spk, s.syn, s.mem}
}

// ResetHidden clears the synaptic current and membrane potential.
func (s *Synaptic[B]) ResetHidden() {
	s.syn = nil
	s.mem = nil
}

// DetachHidden severs both states' gradient history, keeping their values.
func (s *Synaptic[B]) DetachHidden() {
	if s.syn != nil {
		s.syn = s.syn.Detach()
	}
	if s.mem != nil {
		s.mem = s.mem.Detach()
	}
}

// Arity returns 3: spikes, synaptic current and membrane.
func (s *Synaptic[B]) Arity() int { return 3 }
