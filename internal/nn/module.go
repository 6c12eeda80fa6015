// Package nn provides the feedforward building blocks spiking networks are
// assembled from.
package nn

import "github.com/pulse-ml/pulse/internal/tensor"

// Module is the base interface for feedforward network components: one input
// tensor in, one output tensor out. Spiking units are not Modules — they
// carry hidden state and produce multiple outputs, see the snn package.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module. Modules
	// without trainable parameters return an empty slice.
	Parameters() []*Parameter[B]
}
