package cpu

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// Sum reduces the tensor to a single-element [1] tensor.
func (b *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, x.Device())
	if err != nil {
		panic(err)
	}
	var total float64
	for _, v := range x.AsFloat32() {
		total += float64(v)
	}
	out.AsFloat32()[0] = float32(total)
	return out
}

// SumDim sums along a dimension.
func (b *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return reduceDim(x, dim, keepDim, func(acc, v float32, first bool) float32 {
		if first {
			return v
		}
		return acc + v
	}, nil)
}

// MeanDim averages along a dimension.
func (b *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	n := x.Shape()[normalizeDim(dim, len(x.Shape()))]
	return reduceDim(x, dim, keepDim, func(acc, v float32, first bool) float32 {
		if first {
			return v
		}
		return acc + v
	}, func(acc float32) float32 { return acc / float32(n) })
}

// MaxDim takes the maximum along a dimension.
func (b *CPUBackend) MaxDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return reduceDim(x, dim, keepDim, func(acc, v float32, first bool) float32 {
		if first || v > acc {
			return v
		}
		return acc
	}, nil)
}

// Argmax returns the int64 indices of the maximum along a dimension.
// The reduced dimension is removed from the output shape.
func (b *CPUBackend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape))
	outShape := reducedShape(shape, dim, false)

	out, err := tensor.NewRaw(outShape, tensor.Int64, x.Device())
	if err != nil {
		panic(err)
	}

	outer, size, inner := splitAround(shape, dim)
	xData, outData := x.AsFloat32(), out.AsInt64()
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			best, bestIdx := xData[o*size*inner+in], 0
			for s := 1; s < size; s++ {
				if v := xData[(o*size+s)*inner+in]; v > best {
					best, bestIdx = v, s
				}
			}
			outData[o*inner+in] = int64(bestIdx)
		}
	}
	return out
}

// reduceDim folds fn along dim, optionally applying finish to each result.
func reduceDim(x *tensor.RawTensor, dim int, keepDim bool,
	fn func(acc, v float32, first bool) float32, finish func(acc float32) float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: reduction requires float32 operand, got %s", x.DType()))
	}
	shape := x.Shape()
	dim = normalizeDim(dim, len(shape))

	out, err := tensor.NewRaw(reducedShape(shape, dim, keepDim), tensor.Float32, x.Device())
	if err != nil {
		panic(err)
	}

	outer, size, inner := splitAround(shape, dim)
	xData, outData := x.AsFloat32(), out.AsFloat32()
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			acc := float32(0)
			for s := 0; s < size; s++ {
				acc = fn(acc, xData[(o*size+s)*inner+in], s == 0)
			}
			if finish != nil {
				acc = finish(acc)
			}
			outData[o*inner+in] = acc
		}
	}
	return out
}

func normalizeDim(dim, ndim int) int {
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cpu: dimension %d out of range for %d-d tensor", dim, ndim))
	}
	return dim
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	out := make(tensor.Shape, 0, len(shape))
	for d, size := range shape {
		if d == dim {
			if keepDim {
				out = append(out, 1)
			}
			continue
		}
		out = append(out, size)
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}

// splitAround decomposes a shape into (outer, size, inner) products around dim.
func splitAround(shape tensor.Shape, dim int) (outer, size, inner int) {
	outer, size, inner = 1, shape[dim], 1
	for d := 0; d < dim; d++ {
		outer *= shape[d]
	}
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	return outer, size, inner
}
