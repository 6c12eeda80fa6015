package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-ml/pulse/internal/backend/cpu"
	"github.com/pulse-ml/pulse/internal/tensor"
)

func TestLinearForward(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(2, 3, backend)

	// Overwrite the random init with known values.
	copy(layer.weight.Tensor().Data(), []float32{
		1, 2, 3,
		4, 5, 6,
	})
	copy(layer.bias.Tensor().Data(), []float32{0.5, 0.5, 0.5})

	input, err := tensor.FromSlice([]float32{1, 1}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	out := layer.Forward(input)
	assert.Equal(t, tensor.Shape{1, 3}, out.Shape())
	assert.InDelta(t, 5.5, out.At(0, 0), 1e-6)
	assert.InDelta(t, 7.5, out.At(0, 1), 1e-6)
	assert.InDelta(t, 9.5, out.At(0, 2), 1e-6)
}

func TestLinearInitBounds(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(100, 50, backend)

	// Xavier uniform: |w| <= sqrt(6/(in+out)).
	limit := float32(0.2) // sqrt(6/150) ≈ 0.2
	for _, w := range layer.weight.Tensor().Data() {
		assert.LessOrEqual(t, w, limit)
		assert.GreaterOrEqual(t, w, -limit)
	}
	for _, b := range layer.bias.Tensor().Data() {
		assert.Zero(t, b)
	}
}

func TestLinearRejectsWrongInputShape(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(4, 2, backend)

	input := tensor.Zeros[float32](tensor.Shape{1, 3}, backend)
	assert.Panics(t, func() { layer.Forward(input) })
}

func TestLinearParameters(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(4, 2, backend)

	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "weight", params[0].Name())
	assert.Equal(t, "bias", params[1].Name())
	assert.Equal(t, tensor.Shape{4, 2}, params[0].Tensor().Shape())
	assert.Equal(t, tensor.Shape{2}, params[1].Tensor().Shape())
}
