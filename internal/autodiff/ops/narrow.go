package ops

import "github.com/pulse-ml/pulse/internal/tensor"

// NarrowOp records slicing [start, start+length) along a dimension.
//
// Backward: the slice gradient scatters back into a zero tensor of the input
// shape at the original offset.
type NarrowOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	dim    int
	start  int
	length int
}

// NewNarrowOp creates a new narrow operation. dim must be normalized.
func NewNarrowOp(input, output *tensor.RawTensor, dim, start, length int) *NarrowOp {
	return &NarrowOp{input: input, output: output, dim: dim, start: start, length: length}
}

// Inputs returns the input tensors.
func (op *NarrowOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *NarrowOp) Output() *tensor.RawTensor { return op.output }

// Backward zero-pads the slice gradient back to the input shape.
func (op *NarrowOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	inShape := op.input.Shape()
	out := zerosLike(inShape, outputGrad.Device())
	outData := out.AsFloat32()
	gradData := outputGrad.AsFloat32()

	outer, size, inner := 1, inShape[op.dim], 1
	for d := 0; d < op.dim; d++ {
		outer *= inShape[d]
	}
	for d := op.dim + 1; d < len(inShape); d++ {
		inner *= inShape[d]
	}

	for o := 0; o < outer; o++ {
		for s := 0; s < op.length; s++ {
			srcOff := (o*op.length + s) * inner
			dstOff := (o*size + op.start + s) * inner
			copy(outData[dstOff:dstOff+inner], gradData[srcOff:srcOff+inner])
		}
	}
	return []*tensor.RawTensor{out}
}

// ReshapeOp records a shape change.
type ReshapeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReshapeOp creates a new reshape operation.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{input: input, output: output}
}

// Inputs returns the input tensors.
func (op *ReshapeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ReshapeOp) Output() *tensor.RawTensor { return op.output }

// Backward reshapes the gradient back to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	out := zerosLike(op.input.Shape(), outputGrad.Device())
	copy(out.AsFloat32(), outputGrad.AsFloat32())
	return []*tensor.RawTensor{out}
}
