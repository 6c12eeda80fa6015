package cpu_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-ml/pulse/internal/backend/cpu"
	"github.com/pulse-ml/pulse/internal/tensor"
)

func rawF32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func rawI64(t *testing.T, shape tensor.Shape, data []int64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsInt64(), data)
	return raw
}

func TestBinaryOps(t *testing.T) {
	b := cpu.New()
	x := rawF32(t, tensor.Shape{4}, []float32{1, 2, 3, 4})
	y := rawF32(t, tensor.Shape{4}, []float32{4, 3, 2, 1})

	assert.Equal(t, []float32{5, 5, 5, 5}, b.Add(x, y).AsFloat32())
	assert.Equal(t, []float32{-3, -1, 1, 3}, b.Sub(x, y).AsFloat32())
	assert.Equal(t, []float32{4, 6, 6, 4}, b.Mul(x, y).AsFloat32())
	assert.Equal(t, []float32{0.25, 2.0 / 3.0, 1.5, 4}, b.Div(x, y).AsFloat32())
}

func TestBinaryBroadcast(t *testing.T) {
	b := cpu.New()

	t.Run("row vector over matrix", func(t *testing.T) {
		x := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		y := rawF32(t, tensor.Shape{3}, []float32{10, 20, 30})
		got := b.Add(x, y)
		assert.Equal(t, tensor.Shape{2, 3}, got.Shape())
		assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, got.AsFloat32())
	})

	t.Run("column against row", func(t *testing.T) {
		x := rawF32(t, tensor.Shape{2, 1}, []float32{1, 2})
		y := rawF32(t, tensor.Shape{1, 3}, []float32{10, 20, 30})
		got := b.Mul(x, y)
		assert.Equal(t, tensor.Shape{2, 3}, got.Shape())
		assert.Equal(t, []float32{10, 20, 30, 20, 40, 60}, got.AsFloat32())
	})

	t.Run("incompatible shapes panic", func(t *testing.T) {
		x := rawF32(t, tensor.Shape{2}, []float32{1, 2})
		y := rawF32(t, tensor.Shape{3}, []float32{1, 2, 3})
		assert.Panics(t, func() { b.Add(x, y) })
	})
}

func TestScalarOps(t *testing.T) {
	b := cpu.New()
	x := rawF32(t, tensor.Shape{3}, []float32{1, -2, 3})

	assert.Equal(t, []float32{2, -1, 4}, b.AddScalar(x, 1).AsFloat32())
	assert.Equal(t, []float32{0, -3, 2}, b.SubScalar(x, 1).AsFloat32())
	assert.Equal(t, []float32{2, -4, 6}, b.MulScalar(x, 2).AsFloat32())
	assert.Equal(t, []float32{0.5, -1, 1.5}, b.DivScalar(x, 2).AsFloat32())
	assert.Equal(t, []float32{1, 2, 3}, b.Abs(x).AsFloat32())
}

func TestExpLog(t *testing.T) {
	b := cpu.New()
	x := rawF32(t, tensor.Shape{2}, []float32{0, 1})

	exp := b.Exp(x).AsFloat32()
	assert.InDelta(t, 1.0, exp[0], 1e-6)
	assert.InDelta(t, math.E, exp[1], 1e-5)

	y := rawF32(t, tensor.Shape{2}, []float32{1, float32(math.E)})
	lg := b.Log(y).AsFloat32()
	assert.InDelta(t, 0.0, lg[0], 1e-6)
	assert.InDelta(t, 1.0, lg[1], 1e-5)
}

func TestHeavisideIsStrict(t *testing.T) {
	b := cpu.New()
	x := rawF32(t, tensor.Shape{4}, []float32{-1, 0, 1e-6, 2})
	assert.Equal(t, []float32{0, 0, 1, 1}, b.Heaviside(x).AsFloat32())
}

func TestMatMul(t *testing.T) {
	b := cpu.New()
	x := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	y := rawF32(t, tensor.Shape{3, 2}, []float32{7, 8, 9, 10, 11, 12})

	got := b.MatMul(x, y)
	assert.Equal(t, tensor.Shape{2, 2}, got.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, got.AsFloat32())

	bad := rawF32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	assert.Panics(t, func() { b.MatMul(x, bad) })
}

func TestReductions(t *testing.T) {
	b := cpu.New()
	x := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	sum := b.Sum(x)
	assert.Equal(t, tensor.Shape{1}, sum.Shape())
	assert.Equal(t, float32(21), sum.AsFloat32()[0])

	rows := b.SumDim(x, 0, false)
	assert.Equal(t, tensor.Shape{3}, rows.Shape())
	assert.Equal(t, []float32{5, 7, 9}, rows.AsFloat32())

	kept := b.SumDim(x, 1, true)
	assert.Equal(t, tensor.Shape{2, 1}, kept.Shape())
	assert.Equal(t, []float32{6, 15}, kept.AsFloat32())

	mean := b.MeanDim(x, 1, false)
	assert.Equal(t, []float32{2, 5}, mean.AsFloat32())

	maxed := b.MaxDim(x, 0, false)
	assert.Equal(t, []float32{4, 5, 6}, maxed.AsFloat32())

	neg := b.SumDim(x, -1, false)
	assert.Equal(t, []float32{6, 15}, neg.AsFloat32(), "negative dims count from the end")
}

func TestArgmax(t *testing.T) {
	b := cpu.New()
	x := rawF32(t, tensor.Shape{2, 3}, []float32{0.1, 0.9, 0.3, 2, 1, 0})

	got := b.Argmax(x, 1)
	assert.Equal(t, tensor.Shape{2}, got.Shape())
	assert.Equal(t, tensor.Int64, got.DType())
	assert.Equal(t, []int64{1, 0}, got.AsInt64())
}

func TestStack(t *testing.T) {
	b := cpu.New()
	a := rawF32(t, tensor.Shape{2}, []float32{1, 2})
	c := rawF32(t, tensor.Shape{2}, []float32{3, 4})

	got := b.Stack([]*tensor.RawTensor{a, c})
	assert.Equal(t, tensor.Shape{2, 2}, got.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4}, got.AsFloat32())

	bad := rawF32(t, tensor.Shape{3}, []float32{1, 2, 3})
	assert.Panics(t, func() { b.Stack([]*tensor.RawTensor{a, bad}) })
	assert.Panics(t, func() { b.Stack(nil) })
}

func TestNarrow(t *testing.T) {
	b := cpu.New()

	t.Run("float32 time axis", func(t *testing.T) {
		x := rawF32(t, tensor.Shape{4, 2}, []float32{0, 1, 2, 3, 4, 5, 6, 7})
		got := b.Narrow(x, 0, 1, 2)
		assert.Equal(t, tensor.Shape{2, 2}, got.Shape())
		assert.Equal(t, []float32{2, 3, 4, 5}, got.AsFloat32())
	})

	t.Run("int64 targets", func(t *testing.T) {
		x := rawI64(t, tensor.Shape{5}, []int64{10, 11, 12, 13, 14})
		got := b.Narrow(x, 0, 2, 3)
		assert.Equal(t, []int64{12, 13, 14}, got.AsInt64())
	})

	t.Run("inner dim", func(t *testing.T) {
		x := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
		got := b.Narrow(x, 1, 0, 2)
		assert.Equal(t, []float32{1, 2, 4, 5}, got.AsFloat32())
	})

	t.Run("out of range panics", func(t *testing.T) {
		x := rawF32(t, tensor.Shape{3}, []float32{1, 2, 3})
		assert.Panics(t, func() { b.Narrow(x, 0, 2, 2) })
	})
}

func TestReshape(t *testing.T) {
	b := cpu.New()
	x := rawF32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	got := b.Reshape(x, tensor.Shape{3, 2})
	assert.Equal(t, tensor.Shape{3, 2}, got.Shape())
	assert.Equal(t, x.AsFloat32(), got.AsFloat32())

	assert.Panics(t, func() { b.Reshape(x, tensor.Shape{4}) })
}

func TestCrossEntropy(t *testing.T) {
	b := cpu.New()

	t.Run("uniform logits", func(t *testing.T) {
		logits := rawF32(t, tensor.Shape{2, 4}, []float32{0, 0, 0, 0, 0, 0, 0, 0})
		targets := rawI64(t, tensor.Shape{2}, []int64{0, 3})
		got := b.CrossEntropy(logits, targets)
		assert.InDelta(t, math.Log(4), float64(got.AsFloat32()[0]), 1e-6)
	})

	t.Run("known two-class value", func(t *testing.T) {
		logits := rawF32(t, tensor.Shape{1, 2}, []float32{1, 0})
		targets := rawI64(t, tensor.Shape{1}, []int64{0})
		got := b.CrossEntropy(logits, targets)
		want := -math.Log(1 / (1 + math.Exp(-1)))
		assert.InDelta(t, want, float64(got.AsFloat32()[0]), 1e-6)
	})

	t.Run("shifting logits changes nothing", func(t *testing.T) {
		base := rawF32(t, tensor.Shape{1, 3}, []float32{1, 2, 3})
		shifted := rawF32(t, tensor.Shape{1, 3}, []float32{101, 102, 103})
		targets := rawI64(t, tensor.Shape{1}, []int64{2})
		a := b.CrossEntropy(base, targets).AsFloat32()[0]
		c := b.CrossEntropy(shifted, targets).AsFloat32()[0]
		assert.InDelta(t, float64(a), float64(c), 1e-5)
	})

	t.Run("target out of range panics", func(t *testing.T) {
		logits := rawF32(t, tensor.Shape{1, 2}, []float32{0, 0})
		targets := rawI64(t, tensor.Shape{1}, []int64{5})
		assert.Panics(t, func() { b.CrossEntropy(logits, targets) })
	})
}
