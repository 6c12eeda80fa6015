package webgpu

import "github.com/pulse-ml/pulse/internal/tensor"

// The tensor.Backend implementation. Same-shape float32 arithmetic, the unary
// math ops and matmul run as WGSL kernels; broadcast arithmetic and the long
// tail run on the host implementation and are retagged to this device.

// Add performs element-wise addition with broadcasting.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "add", addShader, b.host.Add)
}

// Sub performs element-wise subtraction with broadcasting.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "sub", subShader, b.host.Sub)
}

// Mul performs element-wise multiplication with broadcasting.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "mul", mulShader, b.host.Mul)
}

// Div performs element-wise division with broadcasting.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, "div", divShader, b.host.Div)
}

func (b *Backend) binaryOp(x, y *tensor.RawTensor, name, shader string, fallback func(x, y *tensor.RawTensor) *tensor.RawTensor) *tensor.RawTensor {
	// Broadcasting stays on the host; the kernel handles the same-shape case.
	if !x.Shape().Equal(y.Shape()) {
		return fallback(x, y).ToDevice(tensor.WebGPU)
	}
	result, err := b.runBinaryOp(x, y, name, shader)
	if err != nil {
		panic("webgpu: " + name + ": " + err.Error())
	}
	return result
}

// MatMul performs 2D matrix multiplication on the GPU.
func (b *Backend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result, err := b.runMatMul(x, y)
	if err != nil {
		panic("webgpu: matmul: " + err.Error())
	}
	return result
}

// Exp computes the element-wise exponential on the GPU.
func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "exp", expShader)
}

// Log computes the element-wise natural logarithm on the GPU.
func (b *Backend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "log", logShader)
}

// Abs computes the element-wise absolute value on the GPU.
func (b *Backend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "abs", absShader)
}

// Heaviside computes the spike function on the GPU: 1 where x > 0, else 0.
func (b *Backend) Heaviside(x *tensor.RawTensor) *tensor.RawTensor {
	return b.unaryOp(x, "heaviside", heavisideShader)
}

func (b *Backend) unaryOp(x *tensor.RawTensor, name, shader string) *tensor.RawTensor {
	result, err := b.runUnaryOp(x, name, shader)
	if err != nil {
		panic("webgpu: " + name + ": " + err.Error())
	}
	return result
}

// AddScalar adds a constant to every element.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return b.host.AddScalar(x, scalar).ToDevice(tensor.WebGPU)
}

// SubScalar subtracts a constant from every element.
func (b *Backend) SubScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return b.host.SubScalar(x, scalar).ToDevice(tensor.WebGPU)
}

// MulScalar multiplies every element by a constant.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return b.host.MulScalar(x, scalar).ToDevice(tensor.WebGPU)
}

// DivScalar divides every element by a constant.
func (b *Backend) DivScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return b.host.DivScalar(x, scalar).ToDevice(tensor.WebGPU)
}

// Sum reduces the tensor to a single element.
func (b *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Sum(x).ToDevice(tensor.WebGPU)
}

// SumDim sums along a dimension.
func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.host.SumDim(x, dim, keepDim).ToDevice(tensor.WebGPU)
}

// MeanDim averages along a dimension.
func (b *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.host.MeanDim(x, dim, keepDim).ToDevice(tensor.WebGPU)
}

// MaxDim takes the maximum along a dimension.
func (b *Backend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.host.MaxDim(x, dim, keepDim).ToDevice(tensor.WebGPU)
}

// Argmax returns the int64 indices of the maximum along a dimension.
func (b *Backend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.host.Argmax(x, dim).ToDevice(tensor.WebGPU)
}

// Stack joins tensors along a new leading axis.
func (b *Backend) Stack(tensors []*tensor.RawTensor) *tensor.RawTensor {
	return b.host.Stack(tensors).ToDevice(tensor.WebGPU)
}

// Narrow returns the slice [start, start+length) along dim.
func (b *Backend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	return b.host.Narrow(x, dim, start, length).ToDevice(tensor.WebGPU)
}

// Reshape changes the shape, keeping the data.
func (b *Backend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return b.host.Reshape(x, newShape).ToDevice(tensor.WebGPU)
}

// CrossEntropy computes the fused classification loss.
func (b *Backend) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	return b.host.CrossEntropy(logits, targets).ToDevice(tensor.WebGPU)
}
