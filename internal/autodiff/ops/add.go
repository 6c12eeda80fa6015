package ops

import "github.com/pulse-ml/pulse/internal/tensor"

// AddOp records element-wise addition.
//
// Backward: the gradient flows unchanged to both inputs, reduced over any
// broadcast dimensions.
type AddOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewAddOp creates a new add operation.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{a: a, b: b, output: output}
}

// Inputs returns the input tensors.
func (op *AddOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns the output tensor.
func (op *AddOp) Output() *tensor.RawTensor { return op.output }

// Backward computes d(a+b)/da = 1, d(a+b)/db = 1.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceGradToShape(outputGrad, op.a.Shape()),
		reduceGradToShape(outputGrad, op.b.Shape()),
	}
}

// SubOp records element-wise subtraction.
type SubOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSubOp creates a new sub operation.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{a: a, b: b, output: output}
}

// Inputs returns the input tensors.
func (op *SubOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns the output tensor.
func (op *SubOp) Output() *tensor.RawTensor { return op.output }

// Backward computes d(a-b)/da = 1, d(a-b)/db = -1.
func (op *SubOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	neg := zerosLike(outputGrad.Shape(), outputGrad.Device())
	negData, gradData := neg.AsFloat32(), outputGrad.AsFloat32()
	for i, v := range gradData {
		negData[i] = -v
	}
	return []*tensor.RawTensor{
		reduceGradToShape(outputGrad, op.a.Shape()),
		reduceGradToShape(neg, op.b.Shape()),
	}
}
