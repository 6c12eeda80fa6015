package snn

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// Lapicque is an RC-circuit neuron layer. The membrane follows the discretized
// resistor-capacitor dynamics
//
//	mem[t] = (1 - dt/RC) * mem[t-1] + (dt/C) * input[t]
//
// with the same fire/soft-reset rule as Leaky. Forward produces
// (spikes, membrane).
type Lapicque[B tensor.Backend] struct {
	decay     float32 // 1 - dt/(R*C)
	inputGain float32 // dt/C
	threshold float32
	mem       *tensor.Tensor[float32, B]
}

// NewLapicque creates a Lapicque layer from resistance, capacitance and the
// integration time step. Requires dt < R*C so the decay stays positive.
func NewLapicque[B tensor.Backend](resistance, capacitance, timeStep float32) *Lapicque[B] {
	if resistance <= 0 || capacitance <= 0 || timeStep <= 0 {
		panic("Lapicque: resistance, capacitance and time step must be positive")
	}
	tau := resistance * capacitance
	if timeStep >= tau {
		panic(fmt.Sprintf("Lapicque: time step %v must be smaller than RC constant %v", timeStep, tau))
	}
	return &Lapicque[B]{
		decay:     1 - timeStep/tau,
		inputGain: timeStep / capacitance,
		threshold: DefaultThreshold,
	}
}

// WithThreshold overrides the firing threshold.
func (l *Lapicque[B]) WithThreshold(threshold float32) *Lapicque[B] {
	l.threshold = threshold
	return l
}

// Forward advances the neuron one time step and returns (spikes, membrane).
func (l *Lapicque[B]) Forward(input *tensor.Tensor[float32, B]) []*tensor.Tensor[float32, B] {
	mem := stateFor(l.mem, input).MulScalar(l.decay).Add(input.MulScalar(l.inputGain))
	spk := fire(mem, l.threshold)
	l.mem = softReset(mem, spk, l.threshold)
	return []*tensor.Tensor[float32, B]{spk, l.mem}
}

// ResetHidden clears the membrane potential.
func (l *Lapicque[B]) ResetHidden() { l.mem = nil }

// DetachHidden severs the membrane's gradient history, keeping its value.
func (l *Lapicque[B]) DetachHidden() {
	if l.mem != nil {
		l.mem = l.mem.Detach()
	}
}

// Arity returns 2: spikes and membrane.
func (l *Lapicque[B]) Arity() int { return 2 }
