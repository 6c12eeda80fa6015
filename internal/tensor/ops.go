package tensor

// Method wrappers delegating to the backend. Every call routes through the
// Backend interface so the autodiff decorator sees it.

// Add performs element-wise addition with broadcasting.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub performs element-wise subtraction with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul performs element-wise multiplication with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div performs element-wise division with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Div(t.raw, other.raw), t.backend)
}

// MatMul performs 2D matrix multiplication.
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.MatMul(t.raw, other.raw), t.backend)
}

// AddScalar adds a constant to every element.
func (t *Tensor[T, B]) AddScalar(s float32) *Tensor[T, B] {
	return New[T, B](t.backend.AddScalar(t.raw, s), t.backend)
}

// SubScalar subtracts a constant from every element.
func (t *Tensor[T, B]) SubScalar(s float32) *Tensor[T, B] {
	return New[T, B](t.backend.SubScalar(t.raw, s), t.backend)
}

// MulScalar multiplies every element by a constant.
func (t *Tensor[T, B]) MulScalar(s float32) *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, s), t.backend)
}

// DivScalar divides every element by a constant.
func (t *Tensor[T, B]) DivScalar(s float32) *Tensor[T, B] {
	return New[T, B](t.backend.DivScalar(t.raw, s), t.backend)
}

// Exp computes the element-wise exponential.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	return New[T, B](t.backend.Exp(t.raw), t.backend)
}

// Log computes the element-wise natural logarithm.
func (t *Tensor[T, B]) Log() *Tensor[T, B] {
	return New[T, B](t.backend.Log(t.raw), t.backend)
}

// Abs computes the element-wise absolute value.
func (t *Tensor[T, B]) Abs() *Tensor[T, B] {
	return New[T, B](t.backend.Abs(t.raw), t.backend)
}

// Heaviside applies the spike function: 1 where x > 0, else 0.
func (t *Tensor[T, B]) Heaviside() *Tensor[T, B] {
	return New[T, B](t.backend.Heaviside(t.raw), t.backend)
}

// Sum reduces the tensor to a single-element [1] tensor.
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	return New[T, B](t.backend.Sum(t.raw), t.backend)
}

// SumDim sums along a dimension.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T, B](t.backend.SumDim(t.raw, dim, keepDim), t.backend)
}

// MeanDim averages along a dimension.
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T, B](t.backend.MeanDim(t.raw, dim, keepDim), t.backend)
}

// MaxDim takes the maximum along a dimension.
func (t *Tensor[T, B]) MaxDim(dim int, keepDim bool) *Tensor[T, B] {
	return New[T, B](t.backend.MaxDim(t.raw, dim, keepDim), t.backend)
}

// Argmax returns the int64 indices of the maximum along a dimension.
func (t *Tensor[T, B]) Argmax(dim int) *Tensor[int64, B] {
	return New[int64, B](t.backend.Argmax(t.raw, dim), t.backend)
}

// Narrow returns the slice [start, start+length) along dim.
func (t *Tensor[T, B]) Narrow(dim, start, length int) *Tensor[T, B] {
	return New[T, B](t.backend.Narrow(t.raw, dim, start, length), t.backend)
}

// Reshape returns a tensor with the same data and a new shape.
func (t *Tensor[T, B]) Reshape(dims ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Reshape(t.raw, Shape(dims)), t.backend)
}

// Stack joins tensors of identical shape along a new leading axis.
func Stack[T DType, B Backend](tensors []*Tensor[T, B]) *Tensor[T, B] {
	if len(tensors) == 0 {
		panic("Stack: empty tensor list")
	}
	raws := make([]*RawTensor, len(tensors))
	for i, t := range tensors {
		raws[i] = t.Raw()
	}
	b := tensors[0].Backend()
	return New[T, B](b.Stack(raws), b)
}
