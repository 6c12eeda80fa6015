package cpu

import (
	"fmt"
	"math"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// AddScalar adds a constant to every element.
func (b *CPUBackend) AddScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return v + scalar })
}

// SubScalar subtracts a constant from every element.
func (b *CPUBackend) SubScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return v - scalar })
}

// MulScalar multiplies every element by a constant.
func (b *CPUBackend) MulScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return v * scalar })
}

// DivScalar divides every element by a constant.
func (b *CPUBackend) DivScalar(x *tensor.RawTensor, scalar float32) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return v / scalar })
}

// Exp computes the element-wise exponential.
func (b *CPUBackend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Log computes the element-wise natural logarithm.
func (b *CPUBackend) Log(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 { return float32(math.Log(float64(v))) })
}

// Abs computes the element-wise absolute value.
func (b *CPUBackend) Abs(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 {
		if v < 0 {
			return -v
		}
		return v
	})
}

// Heaviside computes the spike function: 1 where x > 0, else 0.
func (b *CPUBackend) Heaviside(x *tensor.RawTensor) *tensor.RawTensor {
	return unaryOp(x, func(v float32) float32 {
		if v > 0 {
			return 1
		}
		return 0
	})
}

// unaryOp applies fn element-wise.
func unaryOp(x *tensor.RawTensor, fn func(v float32) float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("cpu: unary op requires float32 operand, got %s", x.DType()))
	}
	out, err := tensor.NewRaw(x.Shape(), tensor.Float32, x.Device())
	if err != nil {
		panic(err)
	}
	xData, outData := x.AsFloat32(), out.AsFloat32()
	for i, v := range xData {
		outData[i] = fn(v)
	}
	return out
}

// MatMul performs 2D matrix multiplication [M,K] @ [K,N] -> [M,N].
func (b *CPUBackend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	xs, ys := x.Shape(), y.Shape()
	if len(xs) != 2 || len(ys) != 2 || xs[1] != ys[0] {
		panic(fmt.Sprintf("cpu: MatMul shape mismatch: %v @ %v", xs, ys))
	}
	m, k, n := xs[0], xs[1], ys[1]

	out, err := tensor.NewRaw(tensor.Shape{m, n}, tensor.Float32, x.Device())
	if err != nil {
		panic(err)
	}

	xData, yData, outData := x.AsFloat32(), y.AsFloat32(), out.AsFloat32()
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			a := xData[i*k+l]
			if a == 0 {
				continue
			}
			row := yData[l*n : (l+1)*n]
			outRow := outData[i*n : (i+1)*n]
			for j, v := range row {
				outRow[j] += a * v
			}
		}
	}
	return out
}

// CrossEntropy computes mean negative log-likelihood of int64 targets [batch]
// under logits [batch, classes], using the log-sum-exp trick.
func (b *CPUBackend) CrossEntropy(logits, targets *tensor.RawTensor) *tensor.RawTensor {
	ls := logits.Shape()
	if len(ls) != 2 {
		panic(fmt.Sprintf("cpu: CrossEntropy expects 2D logits, got %v", ls))
	}
	if targets.DType() != tensor.Int64 {
		panic(fmt.Sprintf("cpu: CrossEntropy expects int64 targets, got %s", targets.DType()))
	}
	batch, classes := ls[0], ls[1]
	if targets.NumElements() != batch {
		panic(fmt.Sprintf("cpu: CrossEntropy batch mismatch: %d logits rows vs %d targets", batch, targets.NumElements()))
	}

	logitsData := logits.AsFloat32()
	targetData := targets.AsInt64()

	var total float64
	for i := 0; i < batch; i++ {
		row := logitsData[i*classes : (i+1)*classes]
		maxV := row[0]
		for _, v := range row[1:] {
			if v > maxV {
				maxV = v
			}
		}
		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxV))
		}
		tgt := targetData[i]
		if tgt < 0 || int(tgt) >= classes {
			panic(fmt.Sprintf("cpu: CrossEntropy target %d out of range [0, %d)", tgt, classes))
		}
		total += math.Log(sumExp) + float64(maxV) - float64(row[tgt])
	}

	out, err := tensor.NewRaw(tensor.Shape{1}, tensor.Float32, logits.Device())
	if err != nil {
		panic(err)
	}
	out.AsFloat32()[0] = float32(total / float64(batch))
	return out
}
