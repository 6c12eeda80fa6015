package nn

import "github.com/pulse-ml/pulse/internal/tensor"

// Parameter represents a trainable parameter (a weight or bias tensor).
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter creates a new trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter name.
func (p *Parameter[B]) Name() string { return p.name }

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] { return p.tensor }

// ToDevice moves the parameter's data to the given device in place.
func (p *Parameter[B]) ToDevice(device tensor.Device) {
	p.tensor = tensor.New[float32](p.tensor.Raw().ToDevice(device), p.tensor.Backend())
}
