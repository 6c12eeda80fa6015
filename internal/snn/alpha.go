package snn

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// Alpha is a neuron layer whose post-synaptic potential follows an alpha
// kernel, modeled as the difference of an excitatory and an inhibitory
// exponential trace:
//
//	exc[t] = alpha * exc[t-1] + input[t]
//	inh[t] = beta  * inh[t-1] - input[t]
//	mem[t] = exc[t] + inh[t]
//
// Firing soft-resets the excitatory trace. Requires alpha > beta so the
// kernel rises before it decays. Forward produces
// (spikes, excitatory current, inhibitory current, membrane).
type Alpha[B tensor.Backend] struct {
	alpha     float32
	beta      float32
	threshold float32
	exc       *tensor.Tensor[float32, B]
	inh       *tensor.Tensor[float32, B]
	mem       *tensor.Tensor[float32, B]
}

// NewAlpha creates an Alpha layer with excitatory decay alpha and inhibitory
// decay beta, both in (0, 1) with alpha > beta.
func NewAlpha[B tensor.Backend](alpha, beta float32) *Alpha[B] {
	if alpha <= 0 || alpha >= 1 || beta <= 0 || beta >= 1 {
		panic(fmt.Sprintf("Alpha: decays must be in (0, 1), got alpha=%v beta=%v", alpha, beta))
	}
	if alpha <= beta {
		panic(fmt.Sprintf("Alpha: alpha must exceed beta for a rising kernel, got alpha=%v beta=%v", alpha, beta))
	}
	return &Alpha[B]{alpha: alpha, beta: beta, threshold: DefaultThreshold}
}

// WithThreshold overrides the firing threshold.
func (a *Alpha[B]) WithThreshold(threshold float32) *Alpha[B] {
	a.threshold = threshold
	return a
}

// Forward advances the neuron one time step and returns
// (spikes, excitatory current, inhibitory current, membrane).
func (a *Alpha[B]) Forward(input *tensor.Tensor[float32, B]) []*tensor.Tensor[float32, B] {
	exc := stateFor(a.exc, input).MulScalar(a.alpha).Add(input)
	inh := stateFor(a.inh, input).MulScalar(a.beta).Sub(input)
	mem := exc.Add(inh)
	spk := fire(mem, a.threshold)
	a.exc = softReset(exc, spk, a.threshold)
	a.inh = inh
	a.mem = mem
	return []*tensor.Tensor[float32, B]{spk, a.exc, a.inh, a.mem}
}

// ResetHidden clears both synaptic traces and the membrane potential.
func (a *Alpha[B]) ResetHidden() {
	a.exc = nil
	a.inh = nil
	a.mem = nil
}

// DetachHidden severs every state's gradient history, keeping the values.
func (a *Alpha[B]) DetachHidden() {
	if a.exc != nil {
		a.exc = a.exc.Detach()
	}
	if a.inh != nil {
		a.inh = a.inh.Detach()
	}
	if a.mem != nil {
		a.mem = a.mem.Detach()
	}
}

// Arity returns 4: spikes, excitatory and inhibitory currents, membrane.
func (a *Alpha[B]) Arity() int { return 4 }
