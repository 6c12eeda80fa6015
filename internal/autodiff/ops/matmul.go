package ops

import "github.com/pulse-ml/pulse/internal/tensor"

// MatMulOp records 2D matrix multiplication.
//
// Backward:
//
//	d(A@B)/dA = grad @ Bᵀ
//	d(A@B)/dB = Aᵀ @ grad
type MatMulOp struct {
	a, b   *tensor.RawTensor
	output *tensor.RawTensor
}

// NewMatMulOp creates a new matmul operation.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{a: a, b: b, output: output}
}

// Inputs returns the input tensors.
func (op *MatMulOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns the output tensor.
func (op *MatMulOp) Output() *tensor.RawTensor { return op.output }

// Backward computes the matmul input gradients.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	m, k := op.a.Shape()[0], op.a.Shape()[1]
	n := op.b.Shape()[1]

	gradData := outputGrad.AsFloat32()
	bT := transpose2D(op.b.AsFloat32(), k, n) // [n, k]
	aT := transpose2D(op.a.AsFloat32(), m, k) // [k, m]

	gradA := matmul2D(gradData, m, n, bT, k, outputGrad.Device()) // [m,n] @ [n,k]
	gradB := matmul2D(aT, k, m, gradData, n, outputGrad.Device()) // [k,m] @ [m,n]

	return []*tensor.RawTensor{gradA, gradB}
}
