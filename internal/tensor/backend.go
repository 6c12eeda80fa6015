package tensor

// Backend defines the compute operations the training pipeline exercises.
// Backends carry out the math; shape and dtype validation happens here or in
// the backend, and failures are programmer errors (panics), not conditions a
// training loop recovers from.
//
// Implementations:
//   - CPU: pure Go reference implementation
//   - WebGPU: WGSL compute kernels for the hot paths, CPU for the long tail
//   - Autodiff: decorator that records every operation on a gradient tape
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul performs 2D matrix multiplication [M,K] @ [K,N] -> [M,N].
	MatMul(a, b *RawTensor) *RawTensor

	// Scalar operations (element-wise against a constant). Membrane decay is
	// MulScalar by the unit's beta, so these sit on the hottest path.
	AddScalar(x *RawTensor, scalar float32) *RawTensor
	SubScalar(x *RawTensor, scalar float32) *RawTensor
	MulScalar(x *RawTensor, scalar float32) *RawTensor
	DivScalar(x *RawTensor, scalar float32) *RawTensor

	// Math operations (element-wise).
	Exp(x *RawTensor) *RawTensor
	Log(x *RawTensor) *RawTensor
	Abs(x *RawTensor) *RawTensor

	// Heaviside is the spike function: 1 where x > 0, else 0. Its true
	// derivative is zero almost everywhere; the autodiff decorator substitutes
	// an arctangent surrogate in the backward pass.
	Heaviside(x *RawTensor) *RawTensor

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor                            // total sum, scalar result [1]
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // sum along dimension
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor // mean along dimension
	MaxDim(x *RawTensor, dim int, keepDim bool) *RawTensor  // max along dimension
	Argmax(x *RawTensor, dim int) *RawTensor                // index of max along dimension

	// Stack joins tensors of identical shape along a new leading axis,
	// producing [len(tensors), ...]. Truncation buffers close with this.
	Stack(tensors []*RawTensor) *RawTensor

	// Narrow returns a copy of the slice [start, start+length) along dim.
	Narrow(x *RawTensor, dim, start, length int) *RawTensor

	// Reshape returns a tensor with the same data and a new shape.
	Reshape(x *RawTensor, newShape Shape) *RawTensor

	// CrossEntropy computes mean negative log-likelihood of int64 class
	// targets [batch] under logits [batch, classes], as a fused op for
	// numerical stability.
	CrossEntropy(logits, targets *RawTensor) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
