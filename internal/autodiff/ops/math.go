package ops

import "github.com/pulse-ml/pulse/internal/tensor"

// ExpOp records the element-wise exponential.
type ExpOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewExpOp creates a new exp operation.
func NewExpOp(input, output *tensor.RawTensor) *ExpOp {
	return &ExpOp{input: input, output: output}
}

// Inputs returns the input tensors.
func (op *ExpOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *ExpOp) Output() *tensor.RawTensor { return op.output }

// Backward computes d(exp(x))/dx = exp(x) = output.
func (op *ExpOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	out := zerosLike(outputGrad.Shape(), outputGrad.Device())
	outData := out.AsFloat32()
	gradData, expData := outputGrad.AsFloat32(), op.output.AsFloat32()
	for i, g := range gradData {
		outData[i] = g * expData[i]
	}
	return []*tensor.RawTensor{out}
}

// LogOp records the element-wise natural logarithm.
type LogOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewLogOp creates a new log operation.
func NewLogOp(input, output *tensor.RawTensor) *LogOp {
	return &LogOp{input: input, output: output}
}

// Inputs returns the input tensors.
func (op *LogOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *LogOp) Output() *tensor.RawTensor { return op.output }

// Backward computes d(log(x))/dx = 1/x.
func (op *LogOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	out := zerosLike(outputGrad.Shape(), outputGrad.Device())
	outData := out.AsFloat32()
	gradData, inData := outputGrad.AsFloat32(), op.input.AsFloat32()
	for i, g := range gradData {
		outData[i] = g / inData[i]
	}
	return []*tensor.RawTensor{out}
}

// AbsOp records the element-wise absolute value.
type AbsOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewAbsOp creates a new abs operation.
func NewAbsOp(input, output *tensor.RawTensor) *AbsOp {
	return &AbsOp{input: input, output: output}
}

// Inputs returns the input tensors.
func (op *AbsOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *AbsOp) Output() *tensor.RawTensor { return op.output }

// Backward computes d|x|/dx = sign(x), with zero gradient at x = 0.
func (op *AbsOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	out := zerosLike(outputGrad.Shape(), outputGrad.Device())
	outData := out.AsFloat32()
	gradData, inData := outputGrad.AsFloat32(), op.input.AsFloat32()
	for i, g := range gradData {
		switch {
		case inData[i] > 0:
			outData[i] = g
		case inData[i] < 0:
			outData[i] = -g
		}
	}
	return []*tensor.RawTensor{out}
}
