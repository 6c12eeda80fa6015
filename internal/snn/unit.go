// Package snn implements stateful leaky-integrate-and-fire neuron layers and
// the Network container that chains them with feedforward layers.
//
// Units carry hidden state (membrane potential, synaptic currents) across
// forward calls. The state is lazily initialized to zeros on the first call
// after a reset, sized to the incoming batch.
package snn

import "github.com/pulse-ml/pulse/internal/tensor"

// StatefulUnit is the hidden-state contract every spiking unit implements.
// The training scheduler collects these once per run and drives state
// transitions through them: ResetHidden at batch boundaries, DetachHidden at
// window boundaries.
type StatefulUnit interface {
	// ResetHidden clears all hidden state. The next forward call starts from
	// zeros sized to its input.
	ResetHidden()

	// DetachHidden severs the hidden state's gradient history while keeping
	// its value. Gradients no longer flow past this point in time.
	DetachHidden()

	// Arity returns the number of tensors a forward call produces
	// (spikes first, membrane potential last).
	Arity() int
}

// Unit is a spiking neuron layer: a StatefulUnit whose forward pass consumes
// one input tensor and produces its full output tuple.
type Unit[B tensor.Backend] interface {
	StatefulUnit
	Forward(input *tensor.Tensor[float32, B]) []*tensor.Tensor[float32, B]
}

// DefaultThreshold is the firing threshold units use unless configured.
const DefaultThreshold float32 = 1.0

// fire computes the output spikes for a membrane potential: 1 where
// mem > threshold, else 0. Routed through the backend so the tape records a
// surrogate-gradient op.
func fire[B tensor.Backend](mem *tensor.Tensor[float32, B], threshold float32) *tensor.Tensor[float32, B] {
	return mem.SubScalar(threshold).Heaviside()
}

// softReset subtracts threshold from the membrane wherever a spike fired.
func softReset[B tensor.Backend](mem, spk *tensor.Tensor[float32, B], threshold float32) *tensor.Tensor[float32, B] {
	return mem.Sub(spk.MulScalar(threshold))
}

// stateFor returns the existing state if it matches the input's shape,
// otherwise a fresh zero tensor. Shape changes (a new batch size) reinitialize.
func stateFor[B tensor.Backend](state *tensor.Tensor[float32, B], input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if state != nil && state.Shape().Equal(input.Shape()) {
		return state
	}
	return tensor.Zeros[float32](input.Shape(), input.Backend())
}
