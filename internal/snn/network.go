package snn

import (
	"github.com/pulse-ml/pulse/internal/nn"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// Network chains feedforward modules and spiking units into a single model.
// Spikes from each unit feed the next layer; the final layer must be a unit,
// so a forward call yields that unit's full output tuple (spikes first,
// membrane last).
//
// Example:
//
//	net := snn.NewNetwork[B]().
//		Add(nn.NewLinear(784, 128, backend)).
//		AddUnit(snn.NewLeaky[B](0.9)).
//		Add(nn.NewLinear(128, 10, backend)).
//		AddUnit(snn.NewLeaky[B](0.9))
type Network[B tensor.Backend] struct {
	steps []networkStep[B]
	units []StatefulUnit
}

type networkStep[B tensor.Backend] struct {
	module nn.Module[B]
	unit   Unit[B]
}

// NewNetwork creates an empty network.
func NewNetwork[B tensor.Backend]() *Network[B] {
	return &Network[B]{}
}

// Add appends a feedforward module.
func (n *Network[B]) Add(m nn.Module[B]) *Network[B] {
	n.steps = append(n.steps, networkStep[B]{module: m})
	return n
}

// AddUnit appends a spiking unit and registers its hidden state.
func (n *Network[B]) AddUnit(u Unit[B]) *Network[B] {
	n.steps = append(n.steps, networkStep[B]{unit: u})
	n.units = append(n.units, u)
	return n
}

// Forward runs one time step through the network and returns the final unit's
// output tuple. Panics if the network is empty or does not end with a unit.
func (n *Network[B]) Forward(input *tensor.Tensor[float32, B]) []*tensor.Tensor[float32, B] {
	if len(n.steps) == 0 {
		panic("Network: forward on empty network")
	}
	x := input
	var outputs []*tensor.Tensor[float32, B]
	for _, s := range n.steps {
		if s.module != nil {
			x = s.module.Forward(x)
			outputs = nil
			continue
		}
		outputs = s.unit.Forward(x)
		x = outputs[0]
	}
	if outputs == nil {
		panic("Network: final layer must be a spiking unit")
	}
	return outputs
}

// ResetState clears the hidden state of every spiking unit.
func (n *Network[B]) ResetState() {
	for _, u := range n.units {
		u.ResetHidden()
	}
}

// StatefulUnits returns the network's spiking units in layer order.
func (n *Network[B]) StatefulUnits() []StatefulUnit {
	return n.units
}

// Parameters returns the trainable parameters of every feedforward module.
func (n *Network[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, s := range n.steps {
		if s.module != nil {
			params = append(params, s.module.Parameters()...)
		}
	}
	return params
}

// OutputArity returns the number of tensors a forward call produces.
// Zero for a network that does not end with a unit.
func (n *Network[B]) OutputArity() int {
	if len(n.steps) == 0 {
		return 0
	}
	last := n.steps[len(n.steps)-1]
	if last.unit == nil {
		return 0
	}
	return last.unit.Arity()
}

// ToDevice moves every parameter to the given device and clears hidden state.
// State tensors are recreated on the new device by the next forward call.
func (n *Network[B]) ToDevice(device tensor.Device) {
	for _, p := range n.Parameters() {
		p.ToDevice(device)
	}
	n.ResetState()
}
