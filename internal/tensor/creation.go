package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err)
	}
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full[T, B](shape, oneValue[T](), b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a float tensor with values drawn from N(0, 1).
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	switch data := any(t.Data()).(type) {
	case []float32:
		for i := range data {
			data[i] = float32(rand.NormFloat64())
		}
	case []float64:
		for i := range data {
			data[i] = rand.NormFloat64()
		}
	default:
		panic("Randn: only float32 and float64 supported")
	}
	return t
}

// Rand creates a float tensor with values drawn from U(0, 1).
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	switch data := any(t.Data()).(type) {
	case []float32:
		for i := range data {
			data[i] = rand.Float32()
		}
	case []float64:
		for i := range data {
			data[i] = rand.Float64()
		}
	default:
		panic("Rand: only float32 and float64 supported")
	}
	return t
}

func oneValue[T DType]() T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(float32(1)).(T)
	case float64:
		return any(float64(1)).(T)
	case int64:
		return any(int64(1)).(T)
	case bool:
		return any(true).(T)
	default:
		panic("unsupported type")
	}
}
