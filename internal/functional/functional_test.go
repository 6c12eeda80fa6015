package functional

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-ml/pulse/internal/backend/cpu"
	"github.com/pulse-ml/pulse/internal/tensor"
)

type cpuTensor = tensor.Tensor[float32, *cpu.CPUBackend]

func signalFrom(t *testing.T, data []float32, shape tensor.Shape) *cpuTensor {
	t.Helper()
	sig, err := tensor.FromSlice(data, shape, cpu.New())
	require.NoError(t, err)
	return sig
}

func labelsFrom(t *testing.T, labels []int64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(tensor.Shape{len(labels)}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsInt64(), labels)
	return raw
}

func TestMSEMembraneLossStaticTargetsBroadcast(t *testing.T) {
	// Two steps, one sample, two neurons. Static targets repeat per step.
	signal := signalFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 1, 2})
	targets, err := tensor.NewRaw(tensor.Shape{1, 2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(targets.AsFloat32(), []float32{1, 2})

	loss := NewMSEMembraneLoss[*cpu.CPUBackend](false)
	assert.False(t, loss.TimeVaryingTargets())

	// Diffs: {0, 0, 2, 2} → mean of squares = 8/4.
	got := loss.Forward(signal, targets)
	assert.InDelta(t, 2.0, got.Item(), 1e-6)
}

func TestMSEMembraneLossTimeVaryingTargets(t *testing.T) {
	signal := signalFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 1, 2})
	targets, err := tensor.NewRaw(tensor.Shape{2, 1, 2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(targets.AsFloat32(), []float32{1, 2, 3, 4})

	loss := NewMSEMembraneLoss[*cpu.CPUBackend](true)
	assert.True(t, loss.TimeVaryingTargets())
	assert.InDelta(t, 0.0, loss.Forward(signal, targets).Item(), 1e-6)
}

func TestCEMaxMembraneLoss(t *testing.T) {
	// Max over time: sample 0 → [2, 1], sample 1 → [0, 3].
	signal := signalFrom(t, []float32{
		2, 0, 0, 1, // t=0
		1, 1, 0, 3, // t=1
	}, tensor.Shape{2, 2, 2})
	targets := labelsFrom(t, []int64{0, 1})

	loss := NewCEMaxMembraneLoss[*cpu.CPUBackend]()
	want := (-math.Log(1/(1+math.Exp(-1))) - math.Log(1/(1+math.Exp(-3)))) / 2
	assert.InDelta(t, want, loss.Forward(signal, targets).Item(), 1e-4)
}

func TestCERateLossAveragesSteps(t *testing.T) {
	// Identical logits at both steps: averaged per-step CE equals one-step CE.
	step := []float32{2, 0}
	signal := signalFrom(t, append(append([]float32{}, step...), step...), tensor.Shape{2, 1, 2})
	targets := labelsFrom(t, []int64{0})

	loss := NewCERateLoss[*cpu.CPUBackend]()
	want := -math.Log(1 / (1 + math.Exp(-2)))
	assert.InDelta(t, want, loss.Forward(signal, targets).Item(), 1e-4)
}

func TestCECountLoss(t *testing.T) {
	// Counts: [3, 1]. CE on the counts as logits.
	signal := signalFrom(t, []float32{
		1, 1,
		1, 0,
		1, 0,
		0, 0,
	}, tensor.Shape{4, 1, 2})
	targets := labelsFrom(t, []int64{0})

	loss := NewCECountLoss[*cpu.CPUBackend]()
	want := -math.Log(1 / (1 + math.Exp(-2)))
	assert.InDelta(t, want, loss.Forward(signal, targets).Item(), 1e-4)
}

func TestMSECountLoss(t *testing.T) {
	// Neuron 0 spikes 3/4 steps, neuron 1 once. Wanted counts: [4, 0].
	signal := signalFrom(t, []float32{
		1, 1,
		1, 0,
		1, 0,
		0, 0,
	}, tensor.Shape{4, 1, 2})
	targets := labelsFrom(t, []int64{0})

	loss := NewMSECountLoss[*cpu.CPUBackend](1.0, 0.0)
	// Diffs: {-1, 1} → mean of squares = 1.
	assert.InDelta(t, 1.0, loss.Forward(signal, targets).Item(), 1e-6)
}

func TestMSECountLossRejectsBadRates(t *testing.T) {
	assert.Panics(t, func() { NewMSECountLoss[*cpu.CPUBackend](1.5, 0) })
}

func TestCriterionNames(t *testing.T) {
	assert.Equal(t, "membrane-mse", NewMSEMembraneLoss[*cpu.CPUBackend](false).Name())
	assert.Equal(t, "class-max-membrane", NewCEMaxMembraneLoss[*cpu.CPUBackend]().Name())
	assert.Equal(t, "class-rate", NewCERateLoss[*cpu.CPUBackend]().Name())
	assert.Equal(t, "class-count", NewCECountLoss[*cpu.CPUBackend]().Name())
	assert.Equal(t, "spike-count-mse", NewMSECountLoss[*cpu.CPUBackend](1, 0).Name())
	assert.Equal(t, "l1-rate-sparsity", NewL1RateSparsity[*cpu.CPUBackend](0.1).Name())
}

func TestL1RateSparsity(t *testing.T) {
	signal := signalFrom(t, []float32{1, 0, 1, 1, 0, 1}, tensor.Shape{3, 1, 2})
	reg := NewL1RateSparsity[*cpu.CPUBackend](0.5)
	assert.InDelta(t, 2.0, reg.Forward(signal).Item(), 1e-6)
}

func TestAccuracy(t *testing.T) {
	// Sample 0 counts [2, 1] → predicts 0; sample 1 counts [0, 2] → predicts 1.
	signal := signalFrom(t, []float32{
		1, 1, 0, 1,
		1, 0, 0, 1,
	}, tensor.Shape{2, 2, 2})

	assert.InDelta(t, 1.0, Accuracy(signal, labelsFrom(t, []int64{0, 1})), 1e-6)
	assert.InDelta(t, 0.5, Accuracy(signal, labelsFrom(t, []int64{0, 0})), 1e-6)
}
