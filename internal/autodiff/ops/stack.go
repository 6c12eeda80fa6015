package ops

import "github.com/pulse-ml/pulse/internal/tensor"

// StackOp records joining tensors along a new leading time axis. This is the
// operation that closes a truncation window: the per-step recordings become
// one [window_length, ...] tensor, and the backward pass splits the window
// gradient back into per-step slices.
type StackOp struct {
	inputs []*tensor.RawTensor
	output *tensor.RawTensor
}

// NewStackOp creates a new stack operation.
func NewStackOp(inputs []*tensor.RawTensor, output *tensor.RawTensor) *StackOp {
	return &StackOp{inputs: inputs, output: output}
}

// Inputs returns the input tensors.
func (op *StackOp) Inputs() []*tensor.RawTensor { return op.inputs }

// Output returns the output tensor.
func (op *StackOp) Output() *tensor.RawTensor { return op.output }

// Backward slices the output gradient along the leading axis, one slice per
// stacked step.
func (op *StackOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	grads := make([]*tensor.RawTensor, len(op.inputs))
	gradData := outputGrad.AsFloat32()
	chunk := op.inputs[0].NumElements()

	for i, in := range op.inputs {
		g := zerosLike(in.Shape(), outputGrad.Device())
		copy(g.AsFloat32(), gradData[i*chunk:(i+1)*chunk])
		grads[i] = g
	}
	return grads
}
