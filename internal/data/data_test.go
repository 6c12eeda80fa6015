package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-ml/pulse/internal/tensor"
)

func makeDataset(t *testing.T, samples, features int) (*tensor.RawTensor, *tensor.RawTensor) {
	t.Helper()
	data, err := tensor.NewRaw(tensor.Shape{samples, features}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	for i := range data.AsFloat32() {
		data.AsFloat32()[i] = float32(i)
	}
	targets, err := tensor.NewRaw(tensor.Shape{samples}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	for i := range targets.AsInt64() {
		targets.AsInt64()[i] = int64(i)
	}
	return data, targets
}

func TestSliceLoaderIteration(t *testing.T) {
	data, targets := makeDataset(t, 6, 2)
	loader, err := NewSliceLoader(data, targets, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, loader.NumBatches())

	seen := 0
	for {
		batch, ok := loader.Next()
		if !ok {
			break
		}
		assert.Equal(t, tensor.Shape{2, 2}, batch.Data.Shape())
		assert.Equal(t, tensor.Shape{2}, batch.Targets.Shape())
		assert.Equal(t, int64(seen*2), batch.Targets.AsInt64()[0])
		assert.Equal(t, float32(seen*4), batch.Data.AsFloat32()[0])
		seen++
	}
	assert.Equal(t, 3, seen)
}

func TestSliceLoaderDropsPartialBatch(t *testing.T) {
	data, targets := makeDataset(t, 7, 2)
	loader, err := NewSliceLoader(data, targets, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.NumBatches())

	seen := 0
	for {
		if _, ok := loader.Next(); !ok {
			break
		}
		seen++
	}
	assert.Equal(t, 2, seen)
}

func TestSliceLoaderReset(t *testing.T) {
	data, targets := makeDataset(t, 4, 1)
	loader, err := NewSliceLoader(data, targets, 2)
	require.NoError(t, err)

	first, ok := loader.Next()
	require.True(t, ok)

	loader.Next()
	_, ok = loader.Next()
	assert.False(t, ok)

	loader.Reset()
	again, ok := loader.Next()
	require.True(t, ok)
	assert.Equal(t, first.Targets.AsInt64(), again.Targets.AsInt64())
}

func TestSliceLoaderValidation(t *testing.T) {
	data, targets := makeDataset(t, 4, 1)

	_, err := NewSliceLoader(data, targets, 0)
	assert.Error(t, err)

	_, err = NewSliceLoader(data, targets, 5)
	assert.Error(t, err)

	short, err := tensor.NewRaw(tensor.Shape{3}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	_, err = NewSliceLoader(data, short, 2)
	assert.Error(t, err)
}
