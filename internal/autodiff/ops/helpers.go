package ops

import "github.com/pulse-ml/pulse/internal/tensor"

// zerosLike allocates a zeroed float32 tensor with the given shape.
func zerosLike(shape tensor.Shape, device tensor.Device) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape, tensor.Float32, device)
	if err != nil {
		panic(err)
	}
	return out
}

// reduceGradToShape sums a gradient over broadcast dimensions so it matches
// the original input shape. Inverse of forward-pass broadcasting: dimensions
// the input contributed as size 1 (or not at all) collect the sum of the
// gradient across them.
func reduceGradToShape(grad *tensor.RawTensor, inShape tensor.Shape) *tensor.RawTensor {
	gradShape := grad.Shape()
	if gradShape.Equal(inShape) {
		return grad
	}

	out := zerosLike(inShape, grad.Device())
	gradData, outData := grad.AsFloat32(), out.AsFloat32()

	gradStrides := gradShape.ComputeStrides()
	inStrides := inShape.ComputeStrides()
	offset := len(gradShape) - len(inShape)

	for flat := range gradData {
		in := 0
		for d := range gradShape {
			coord := (flat / gradStrides[d]) % gradShape[d]
			if d < offset {
				continue
			}
			if inShape[d-offset] == 1 && gradShape[d] != 1 {
				continue
			}
			in += coord * inStrides[d-offset]
		}
		outData[in] += gradData[flat]
	}
	return out
}

// broadcastApply evaluates fn(grad[i], x[bcast(i)]) over the grad shape,
// broadcasting x right-aligned against it.
func broadcastApply(grad, x *tensor.RawTensor, fn func(g, v float32) float32) *tensor.RawTensor {
	gradShape, xShape := grad.Shape(), x.Shape()
	out := zerosLike(gradShape, grad.Device())
	gradData, xData, outData := grad.AsFloat32(), x.AsFloat32(), out.AsFloat32()

	if gradShape.Equal(xShape) {
		for i, g := range gradData {
			outData[i] = fn(g, xData[i])
		}
		return out
	}

	gradStrides := gradShape.ComputeStrides()
	xStrides := xShape.ComputeStrides()
	offset := len(gradShape) - len(xShape)
	for flat, g := range gradData {
		in := 0
		for d := range gradShape {
			if d < offset {
				continue
			}
			if xShape[d-offset] == 1 && gradShape[d] != 1 {
				continue
			}
			coord := (flat / gradStrides[d]) % gradShape[d]
			in += coord * xStrides[d-offset]
		}
		outData[flat] = fn(g, xData[in])
	}
	return out
}

// matmul2D computes a @ b for row-major float32 matrices.
func matmul2D(a []float32, m, k int, b []float32, n int, device tensor.Device) *tensor.RawTensor {
	out := zerosLike(tensor.Shape{m, n}, device)
	outData := out.AsFloat32()
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			v := a[i*k+l]
			if v == 0 {
				continue
			}
			row := b[l*n : (l+1)*n]
			outRow := outData[i*n : (i+1)*n]
			for j, w := range row {
				outRow[j] += v * w
			}
		}
	}
	return out
}

// transpose2D returns the transpose of a row-major [rows, cols] matrix.
func transpose2D(data []float32, rows, cols int) []float32 {
	out := make([]float32, len(data))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j*rows+i] = data[i*cols+j]
		}
	}
	return out
}
