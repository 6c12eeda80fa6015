// Package cpu implements the pure-Go reference backend.
//
// Correctness over speed: every operation allocates its result, nothing is
// updated in place, so the autodiff decorator can safely hold references to
// inputs and outputs.
package cpu

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// CPUBackend computes tensor operations in pure Go on the host.
type CPUBackend struct{}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{}
}

// Name returns the backend name.
func (b *CPUBackend) Name() string { return "CPU" }

// Device returns the compute device.
func (b *CPUBackend) Device() tensor.Device { return tensor.CPU }

// Add performs element-wise addition with broadcasting.
func (b *CPUBackend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a + c })
}

// Sub performs element-wise subtraction with broadcasting.
func (b *CPUBackend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a - c })
}

// Mul performs element-wise multiplication with broadcasting.
func (b *CPUBackend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a * c })
}

// Div performs element-wise division with broadcasting.
func (b *CPUBackend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return binaryOp(x, y, func(a, c float32) float32 { return a / c })
}

// binaryOp applies fn element-wise over broadcast inputs.
func binaryOp(x, y *tensor.RawTensor, fn func(a, c float32) float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 || y.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: binary op requires float32 operands, got %s and %s", x.DType(), y.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(err)
	}

	out, err := tensor.NewRaw(outShape, tensor.Float32, x.Device())
	if err != nil {
		panic(err)
	}

	xData, yData, outData := x.AsFloat32(), y.AsFloat32(), out.AsFloat32()

	if !needsBroadcast {
		for i := range outData {
			outData[i] = fn(xData[i], yData[i])
		}
		return out
	}

	xIdx := newBroadcastIndexer(x.Shape(), outShape)
	yIdx := newBroadcastIndexer(y.Shape(), outShape)
	for i := range outData {
		outData[i] = fn(xData[xIdx.at(i)], yData[yIdx.at(i)])
	}
	return out
}

// broadcastIndexer maps flat output indices back to flat input indices for an
// input shape right-aligned against the broadcast output shape.
type broadcastIndexer struct {
	outStrides []int // strides of the output shape
	inStrides  []int // per output dim: input stride, 0 where the input broadcasts
	outShape   tensor.Shape
}

func newBroadcastIndexer(inShape, outShape tensor.Shape) *broadcastIndexer {
	inStrides := inShape.ComputeStrides()
	mapped := make([]int, len(outShape))
	offset := len(outShape) - len(inShape)
	for d := range outShape {
		if d < offset {
			continue // missing input dim, broadcasts
		}
		if inShape[d-offset] == 1 && outShape[d] != 1 {
			continue // size-1 input dim, broadcasts
		}
		mapped[d] = inStrides[d-offset]
	}
	return &broadcastIndexer{
		outStrides: outShape.ComputeStrides(),
		inStrides:  mapped,
		outShape:   outShape,
	}
}

func (bi *broadcastIndexer) at(flat int) int {
	in := 0
	for d := range bi.outShape {
		coord := (flat / bi.outStrides[d]) % bi.outShape[d]
		in += coord * bi.inStrides[d]
	}
	return in
}
