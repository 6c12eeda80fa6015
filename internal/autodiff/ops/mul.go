package ops

import "github.com/pulse-ml/pulse/internal/tensor"

// MulOp records element-wise multiplication.
type MulOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMulOp creates a new mul operation.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{a: a, b: b, output: output}
}

// Inputs returns the input tensors.
func (op *MulOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns the output tensor.
func (op *MulOp) Output() *tensor.RawTensor { return op.output }

// Backward computes d(a*b)/da = b, d(a*b)/db = a.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	gradA := broadcastApply(outputGrad, op.b, func(g, v float32) float32 { return g * v })
	gradB := broadcastApply(outputGrad, op.a, func(g, v float32) float32 { return g * v })
	return []*tensor.RawTensor{
		reduceGradToShape(gradA, op.a.Shape()),
		reduceGradToShape(gradB, op.b.Shape()),
	}
}

// DivOp records element-wise division.
type DivOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewDivOp creates a new div operation.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{a: a, b: b, output: output}
}

// Inputs returns the input tensors.
func (op *DivOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns the output tensor.
func (op *DivOp) Output() *tensor.RawTensor { return op.output }

// Backward computes d(a/b)/da = 1/b, d(a/b)/db = -a/b².
func (op *DivOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	gradA := broadcastApply(outputGrad, op.b, func(g, v float32) float32 { return g / v })

	// -a/b² needs both operands; compute -out/b since out = a/b.
	quotient := broadcastApply(outputGrad, op.output, func(g, v float32) float32 { return g * v })
	gradB := broadcastApply(quotient, op.b, func(g, v float32) float32 { return -g / v })

	return []*tensor.RawTensor{
		reduceGradToShape(gradA, op.a.Shape()),
		reduceGradToShape(gradB, op.b.Shape()),
	}
}
