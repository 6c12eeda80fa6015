// Package autodiff implements reverse-mode automatic differentiation as a
// backend decorator.
//
// AutodiffBackend wraps any tensor.Backend and records every operation on a
// GradientTape during the forward pass. The tape replays the operations in
// reverse to compute gradients.
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	// ... forward pass ...
//	grads := backend.Tape().Backward(outputGrad, backend)
//	backend.Tape().Clear()
package autodiff

import (
	"github.com/pulse-ml/pulse/internal/autodiff/ops"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// AutodiffBackend wraps a Backend and records operations for backpropagation.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for recording control and backward passes.
func (b *AutodiffBackend[B]) Tape() *GradientTape { return b.tape }

// Inner returns the wrapped backend.
func (b *AutodiffBackend[B]) Inner() B { return b.inner }

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string { return "Autodiff(" + b.inner.Name() + ")" }

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device { return b.inner.Device() }

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(x, y)
	b.tape.Record(ops.NewAddOp(x, y, result))
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(x, y)
	b.tape.Record(ops.NewSubOp(x, y, result))
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(x, y)
	b.tape.Record(ops.NewMulOp(x, y, result))
	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Div(x, y)
	b.tape.Record(ops.NewDivOp(x, y, result))
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(x, y)
	b.tape.Record(ops.NewMatMulOp(x, y, result))
	return result
}

// AddScalar adds a constant and records the operation.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	result := b.inner.AddScalar(x, scalar)
	b.tape.Record(ops.NewAddScalarOp(x, result))
	return result
}

// SubScalar subtracts a constant and records the operation.
func (b *AutodiffBackend[B]) SubScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	result := b.inner.SubScalar(x, scalar)
	b.tape.Record(ops.NewSubScalarOp(x, result))
	return result
}

// MulScalar multiplies by a constant and records the operation. Membrane
// decay (beta * mem) routes through here every time step.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	result := b.inner.MulScalar(x, scalar)
	b.tape.Record(ops.NewMulScalarOp(x, result, scalar))
	return result
}

// DivScalar divides by a constant and records the operation.
func (b *AutodiffBackend[B]) DivScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	result := b.inner.DivScalar(x, scalar)
	b.tape.Record(ops.NewDivScalarOp(x, result, scalar))
	return result
}

// Exp computes the exponential and records the operation.
func (b *AutodiffBackend[B]) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Exp(x)
	b.tape.Record(ops.NewExpOp(x, result))
	return result
}

// Log computes the logarithm and records the operation.
func (b *AutodiffBackend[B]) Log(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Log(x)
	b.tape.Record(ops.NewLogOp(x, result))
	return result
}

// Abs computes the absolute value and records the operation.
func (b *AutodiffBackend[B]) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Abs(x)
	b.tape.Record(ops.NewAbsOp(x, result))
	return result
}

// Heaviside computes the spike function and records the operation. The
// recorded op substitutes the arctangent surrogate in the backward pass.
func (b *AutodiffBackend[B]) Heaviside(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Heaviside(x)
	b.tape.Record(ops.NewHeavisideOp(x, result))
	return result
}

// Sum reduces to a single element and records the operation.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sum(x)
	b.tape.Record(ops.NewSumOp(x, result))
	return result
}

// SumDim sums along a dimension and records the operation.
func (b *AutodiffBackend[B]) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := b.inner.SumDim(x, dim, keepDim)
	b.tape.Record(ops.NewDimReduceOp(x, result, ops.ReduceSum, normalizeDim(dim, len(x.Shape()))))
	return result
}

// MeanDim averages along a dimension and records the operation.
func (b *AutodiffBackend[B]) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := b.inner.MeanDim(x, dim, keepDim)
	b.tape.Record(ops.NewDimReduceOp(x, result, ops.ReduceMean, normalizeDim(dim, len(x.Shape()))))
	return result
}

// MaxDim takes the maximum along a dimension and records the operation.
func (b *AutodiffBackend[B]) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := b.inner.MaxDim(x, dim, keepDim)
	b.tape.Record(ops.NewDimReduceOp(x, result, ops.ReduceMax, normalizeDim(dim, len(x.Shape()))))
	return result
}

// Argmax returns indices of the maximum. Not differentiable, not recorded.
func (b *AutodiffBackend[B]) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.inner.Argmax(x, dim)
}

// Stack joins tensors along a new leading axis and records the operation.
func (b *AutodiffBackend[B]) Stack(tensors []*tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Stack(tensors)
	if len(tensors) > 0 && tensors[0].DType() == tensor.Float32 {
		b.tape.Record(ops.NewStackOp(append([]*tensor.RawTensor(nil), tensors...), result))
	}
	return result
}

// Narrow slices along a dimension and records the operation for float32
// operands. Narrowing int64 targets carries no gradient.
func (b *AutodiffBackend[B]) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	result := b.inner.Narrow(x, dim, start, length)
	if x.DType() == tensor.Float32 {
		b.tape.Record(ops.NewNarrowOp(x, result, normalizeDim(dim, len(x.Shape())), start, length))
	}
	return result
}

// Reshape changes the shape and records the operation.
func (b *AutodiffBackend[B]) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(x, newShape)
	if x.DType() == tensor.Float32 {
		b.tape.Record(ops.NewReshapeOp(x, result))
	}
	return result
}

// CrossEntropy computes the fused classification loss and records the operation.
func (b *AutodiffBackend[B]) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.CrossEntropy(logits, targets)
	b.tape.Record(ops.NewCrossEntropyOp(logits, targets, result))
	return result
}

func normalizeDim(dim, ndim int) int {
	if dim < 0 {
		dim += ndim
	}
	return dim
}
