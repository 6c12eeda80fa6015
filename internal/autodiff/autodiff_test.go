package autodiff_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-ml/pulse/internal/autodiff"
	"github.com/pulse-ml/pulse/internal/backend/cpu"
	"github.com/pulse-ml/pulse/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newBackend() testBackend {
	return autodiff.New(cpu.New())
}

func fromSlice(t *testing.T, backend testBackend, data []float32, shape tensor.Shape) *tensor.Tensor[float32, testBackend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	require.NoError(t, err)
	return x
}

func TestTapeRecording(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{1, 2}, tensor.Shape{2})

	x.AddScalar(1)
	assert.Equal(t, 0, backend.Tape().NumOps(), "nothing records before StartRecording")

	backend.Tape().StartRecording()
	x.AddScalar(1)
	x.MulScalar(2)
	assert.Equal(t, 2, backend.Tape().NumOps())

	backend.Tape().StopRecording()
	x.AddScalar(1)
	assert.Equal(t, 2, backend.Tape().NumOps())

	backend.Tape().Clear()
	assert.Equal(t, 0, backend.Tape().NumOps())
}

func TestBackwardAdd(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{1, 2}, tensor.Shape{2})
	y := fromSlice(t, backend, []float32{3, 4}, tensor.Shape{2})

	backend.Tape().StartRecording()
	z := x.Add(y).Sum()

	grads := autodiff.Backward(z, backend)
	require.Contains(t, grads, x.Raw())
	require.Contains(t, grads, y.Raw())
	assert.Equal(t, []float32{1, 1}, grads[x.Raw()].AsFloat32())
	assert.Equal(t, []float32{1, 1}, grads[y.Raw()].AsFloat32())
}

func TestBackwardMul(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{2, 3}, tensor.Shape{2})
	y := fromSlice(t, backend, []float32{5, 7}, tensor.Shape{2})

	backend.Tape().StartRecording()
	z := x.Mul(y).Sum()

	grads := autodiff.Backward(z, backend)
	assert.Equal(t, []float32{5, 7}, grads[x.Raw()].AsFloat32(), "d(xy)/dx = y")
	assert.Equal(t, []float32{2, 3}, grads[y.Raw()].AsFloat32(), "d(xy)/dy = x")
}

func TestBackwardChain(t *testing.T) {
	// z = sum((2x + 1)^2), dz/dx = 2 * (2x + 1) * 2 = 8x + 4.
	backend := newBackend()
	x := fromSlice(t, backend, []float32{1, -2}, tensor.Shape{2})

	backend.Tape().StartRecording()
	inner := x.MulScalar(2).AddScalar(1)
	z := inner.Mul(inner).Sum()

	grads := autodiff.Backward(z, backend)
	assert.Equal(t, []float32{12, -12}, grads[x.Raw()].AsFloat32())
}

func TestBackwardMatMul(t *testing.T) {
	backend := newBackend()
	a := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, backend, []float32{5, 6, 7, 8}, tensor.Shape{2, 2})

	backend.Tape().StartRecording()
	z := a.MatMul(b).Sum()

	grads := autodiff.Backward(z, backend)
	// dA = ones @ B^T: each row is the row sums of B.
	assert.Equal(t, []float32{11, 15, 11, 15}, grads[a.Raw()].AsFloat32())
	// dB = A^T @ ones: each row is the column sums of A, repeated.
	assert.Equal(t, []float32{4, 4, 6, 6}, grads[b.Raw()].AsFloat32())
}

func TestBackwardGradientAccumulation(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{3}, tensor.Shape{1})

	backend.Tape().StartRecording()
	z := x.Add(x).Sum() // z = 2x

	grads := autodiff.Backward(z, backend)
	assert.Equal(t, []float32{2}, grads[x.Raw()].AsFloat32(), "both addends route gradient to x")
}

func TestHeavisideSurrogate(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{0, 1, -1}, tensor.Shape{3})

	backend.Tape().StartRecording()
	z := x.Heaviside().Sum()

	grads := autodiff.Backward(z, backend)
	g := grads[x.Raw()].AsFloat32()

	// Arctangent surrogate (alpha/2) / (1 + (pi*x*alpha/2)^2) with alpha = 2.
	assert.InDelta(t, 1.0, float64(g[0]), 1e-6, "peak at the threshold")
	tail := 1.0 / (1.0 + math.Pi*math.Pi)
	assert.InDelta(t, tail, float64(g[1]), 1e-6)
	assert.InDelta(t, tail, float64(g[2]), 1e-6, "surrogate is symmetric")
}

func TestCrossEntropyGradient(t *testing.T) {
	backend := newBackend()
	logits := fromSlice(t, backend, []float32{0, 0}, tensor.Shape{1, 2})
	targets, err := tensor.NewRaw(tensor.Shape{1}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	targets.AsInt64()[0] = 0

	backend.Tape().StartRecording()
	loss := tensor.New[float32](backend.CrossEntropy(logits.Raw(), targets), backend)

	grads := autodiff.Backward(loss, backend)
	g := grads[logits.Raw()].AsFloat32()
	// d/dlogits of mean NLL is (softmax - onehot) / batch.
	assert.InDelta(t, -0.5, float64(g[0]), 1e-6)
	assert.InDelta(t, 0.5, float64(g[1]), 1e-6)
}

func TestDetachStopsGradient(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{2}, tensor.Shape{1})

	backend.Tape().StartRecording()
	hidden := x.MulScalar(3)
	detached := hidden.Detach()
	z := detached.MulScalar(2).Sum()

	grads := autodiff.Backward(z, backend)
	assert.NotContains(t, grads, x.Raw(), "gradient must not cross the detach point")
	assert.NotContains(t, grads, hidden.Raw())
	assert.Contains(t, grads, detached.Raw())
}

func TestClearDisconnectsWindows(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{1}, tensor.Shape{1})

	backend.Tape().StartRecording()
	x.MulScalar(2)
	backend.Tape().Clear()
	assert.True(t, backend.Tape().IsRecording(), "Clear keeps recording on")

	z := x.MulScalar(5).Sum()
	grads := autodiff.Backward(z, backend)
	assert.Equal(t, []float32{5}, grads[x.Raw()].AsFloat32(), "only the post-Clear graph contributes")
}

func TestSumDimAndMeanDimGradients(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	backend.Tape().StartRecording()
	z := x.SumDim(0, false).Sum()
	grads := autodiff.Backward(z, backend)
	assert.Equal(t, []float32{1, 1, 1, 1, 1, 1}, grads[x.Raw()].AsFloat32())

	backend.Tape().Clear()
	z = x.MeanDim(1, false).Sum()
	grads = autodiff.Backward(z, backend)
	third := float32(1) / 3
	assert.InDeltaSlice(t, []float32{third, third, third, third, third, third},
		grads[x.Raw()].AsFloat32(), 1e-6)
}

func TestStackAndNarrowGradients(t *testing.T) {
	backend := newBackend()
	a := fromSlice(t, backend, []float32{1, 2}, tensor.Shape{2})
	b := fromSlice(t, backend, []float32{3, 4}, tensor.Shape{2})

	backend.Tape().StartRecording()
	stacked := tensor.Stack([]*tensor.Tensor[float32, testBackend]{a, b})
	z := stacked.MulScalar(2).Sum()
	grads := autodiff.Backward(z, backend)
	assert.Equal(t, []float32{2, 2}, grads[a.Raw()].AsFloat32())
	assert.Equal(t, []float32{2, 2}, grads[b.Raw()].AsFloat32())

	backend.Tape().Clear()
	x := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{4})
	z = x.Narrow(0, 1, 2).Sum()
	grads = autodiff.Backward(z, backend)
	assert.Equal(t, []float32{0, 1, 1, 0}, grads[x.Raw()].AsFloat32(),
		"gradient scatters back into the narrowed span only")
}

func TestArgmaxNotRecorded(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

	backend.Tape().StartRecording()
	x.Argmax(1)
	assert.Equal(t, 0, backend.Tape().NumOps())
}

func TestBackwardPanicsOnEmptyTape(t *testing.T) {
	backend := newBackend()
	x := fromSlice(t, backend, []float32{1}, tensor.Shape{1})

	backend.Tape().StartRecording()
	assert.Panics(t, func() { autodiff.Backward(x, backend) })
}
