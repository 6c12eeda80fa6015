package ops

import "github.com/pulse-ml/pulse/internal/tensor"

// ScalarOp records an element-wise operation against a constant. One type
// covers add/sub/mul/div: the gradient of each is the output gradient times a
// constant factor (1, 1, scalar, 1/scalar respectively).
type ScalarOp struct {
	input      *tensor.RawTensor
	output     *tensor.RawTensor
	gradFactor float32
}

// NewAddScalarOp records x + s.
func NewAddScalarOp(input, output *tensor.RawTensor) *ScalarOp {
	return &ScalarOp{input: input, output: output, gradFactor: 1}
}

// NewSubScalarOp records x - s.
func NewSubScalarOp(input, output *tensor.RawTensor) *ScalarOp {
	return &ScalarOp{input: input, output: output, gradFactor: 1}
}

// NewMulScalarOp records x * s.
func NewMulScalarOp(input, output *tensor.RawTensor, scalar float32) *ScalarOp {
	return &ScalarOp{input: input, output: output, gradFactor: scalar}
}

// NewDivScalarOp records x / s.
func NewDivScalarOp(input, output *tensor.RawTensor, scalar float32) *ScalarOp {
	return &ScalarOp{input: input, output: output, gradFactor: 1 / scalar}
}

// Inputs returns the input tensors.
func (op *ScalarOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ScalarOp) Output() *tensor.RawTensor { return op.output }

// Backward scales the output gradient by the constant factor.
func (op *ScalarOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	if op.gradFactor == 1 {
		return []*tensor.RawTensor{outputGrad}
	}
	out := zerosLike(outputGrad.Shape(), outputGrad.Device())
	outData, gradData := out.AsFloat32(), outputGrad.AsFloat32()
	for i, g := range gradData {
		outData[i] = g * op.gradFactor
	}
	return []*tensor.RawTensor{out}
}
