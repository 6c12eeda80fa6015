// Package ops defines the differentiable operations recorded on the gradient
// tape during the forward pass.
//
// Each operation keeps references to its input and output raw tensors and
// knows how to turn the output gradient into input gradients. Backward math
// runs on plain float32 slices: the tape has already stopped recording by the
// time Backward is called, and none of these computations need a backend
// dispatch.
package ops

import "github.com/pulse-ml/pulse/internal/tensor"

// Operation represents a differentiable operation in the computation graph.
type Operation interface {
	// Backward computes gradients for the inputs given the output gradient.
	// The returned slice corresponds position-wise to Inputs(); a nil entry
	// means no gradient flows to that input.
	Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
