package cpu

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// Stack joins tensors of identical shape along a new leading axis.
// Works byte-wise, so any dtype stacks.
func (b *CPUBackend) Stack(tensors []*tensor.RawTensor) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cpu: Stack of empty tensor list")
	}
	first := tensors[0]
	for i, t := range tensors[1:] {
		if !t.Shape().Equal(first.Shape()) || t.DType() != first.DType() {
			panic(fmt.Sprintf("cpu: Stack element %d has shape %v dtype %s, want %v %s",
				i+1, t.Shape(), t.DType(), first.Shape(), first.DType()))
		}
	}

	outShape := append(tensor.Shape{len(tensors)}, first.Shape()...)
	out, err := tensor.NewRaw(outShape, first.DType(), first.Device())
	if err != nil {
		panic(err)
	}

	chunk := first.ByteSize()
	for i, t := range tensors {
		copy(out.Data()[i*chunk:(i+1)*chunk], t.Data()[:chunk])
	}
	return out
}

// Narrow returns a copy of the slice [start, start+length) along dim.
// Works byte-wise, so any dtype narrows — int64 targets included.
func (b *CPUBackend) Narrow(x *tensor.RawTensor, dim, start, length int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape))
	if start < 0 || length <= 0 || start+length > shape[dim] {
		panic(fmt.Sprintf("cpu: Narrow [%d, %d) out of range for dimension %d of size %d",
			start, start+length, dim, shape[dim]))
	}

	outShape := shape.Clone()
	outShape[dim] = length
	out, err := tensor.NewRaw(outShape, x.DType(), x.Device())
	if err != nil {
		panic(err)
	}

	outer, size, inner := splitAround(shape, dim)
	elem := x.DType().Size()
	rowBytes := inner * elem
	src, dst := x.Data(), out.Data()
	for o := 0; o < outer; o++ {
		for s := 0; s < length; s++ {
			srcOff := ((o*size + start + s) * inner) * elem
			dstOff := ((o*length + s) * inner) * elem
			copy(dst[dstOff:dstOff+rowBytes], src[srcOff:srcOff+rowBytes])
		}
	}
	return out
}

// Reshape returns a tensor with the same data and a new shape.
func (b *CPUBackend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if newShape.NumElements() != x.NumElements() {
		panic(fmt.Sprintf("cpu: Reshape from %v to %v changes element count", x.Shape(), newShape))
	}
	out, err := tensor.NewRaw(newShape, x.DType(), x.Device())
	if err != nil {
		panic(err)
	}
	copy(out.Data(), x.Data())
	return out
}
