package backprop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulse-ml/pulse/internal/autodiff"
	"github.com/pulse-ml/pulse/internal/backend/cpu"
	"github.com/pulse-ml/pulse/internal/data"
	"github.com/pulse-ml/pulse/internal/functional"
	"github.com/pulse-ml/pulse/internal/nn"
	"github.com/pulse-ml/pulse/internal/optim"
	"github.com/pulse-ml/pulse/internal/snn"
	"github.com/pulse-ml/pulse/internal/tensor"
)

type testBackend = *autodiff.AutodiffBackend[*cpu.CPUBackend]

func newTestBackend() testBackend {
	return autodiff.New(cpu.New())
}

// fakeUnit records state transitions in a shared event log.
type fakeUnit struct {
	events *[]string
}

func (u *fakeUnit) ResetHidden()  { *u.events = append(*u.events, "reset") }
func (u *fakeUnit) DetachHidden() { *u.events = append(*u.events, "detach") }
func (u *fakeUnit) Arity() int    { return 2 }

// fakeNet produces backend-computed outputs of a configurable arity so the
// tape always has operations to walk.
type fakeNet struct {
	unit   *fakeUnit
	events *[]string
	arity  int
}

func newFakeNet(arity int) *fakeNet {
	events := []string{}
	return &fakeNet{
		unit:   &fakeUnit{events: &events},
		events: &events,
		arity:  arity,
	}
}

func (n *fakeNet) Forward(input *tensor.Tensor[float32, testBackend]) []*tensor.Tensor[float32, testBackend] {
	*n.events = append(*n.events, "forward")
	outputs := make([]*tensor.Tensor[float32, testBackend], n.arity)
	for i := range outputs {
		outputs[i] = input.MulScalar(float32(i) + 0.5)
	}
	return outputs
}

func (n *fakeNet) ResetState() { n.unit.ResetHidden() }

func (n *fakeNet) StatefulUnits() []snn.StatefulUnit {
	return []snn.StatefulUnit{n.unit}
}

func (n *fakeNet) forwardCount() int {
	count := 0
	for _, e := range *n.events {
		if e == "forward" {
			count++
		}
	}
	return count
}

// spyOptimizer counts calls without touching parameters.
type spyOptimizer struct {
	steps int
	zeros int
}

func (o *spyOptimizer) Step(map[*tensor.RawTensor]*tensor.RawTensor) { o.steps++ }
func (o *spyOptimizer) ZeroGrad()                                    { o.zeros++ }
func (o *spyOptimizer) GetLR() float32                               { return 0.1 }

// stubCriterion dispatches under an arbitrary name and returns a constant
// loss computed through the backend, recording what it was given.
type stubCriterion struct {
	name        string
	timeVarying bool
	lossValue   float32

	signalShapes []tensor.Shape
	targetsSeen  []*tensor.RawTensor
}

func (c *stubCriterion) Name() string             { return c.name }
func (c *stubCriterion) TimeVaryingTargets() bool { return c.timeVarying }

func (c *stubCriterion) Forward(signal *tensor.Tensor[float32, testBackend], targets *tensor.RawTensor) *tensor.Tensor[float32, testBackend] {
	c.signalShapes = append(c.signalShapes, signal.Shape())
	c.targetsSeen = append(c.targetsSeen, targets)
	return signal.Sum().MulScalar(0).AddScalar(c.lossValue)
}

// stubRegularizer dispatches under an arbitrary name and counts calls.
type stubRegularizer struct {
	name  string
	calls int
}

func (r *stubRegularizer) Name() string { return r.name }

func (r *stubRegularizer) Forward(signal *tensor.Tensor[float32, testBackend]) *tensor.Tensor[float32, testBackend] {
	r.calls++
	return signal.Sum().MulScalar(0)
}

func staticLoader(t *testing.T, samples, features int) *data.SliceLoader {
	t.Helper()
	inputs, err := tensor.NewRaw(tensor.Shape{samples, features}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	for i := range inputs.AsFloat32() {
		inputs.AsFloat32()[i] = 0.5
	}
	targets, err := tensor.NewRaw(tensor.Shape{samples}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	loader, err := data.NewSliceLoader(inputs, targets, samples)
	require.NoError(t, err)
	return loader
}

func TestUpdateCountPerWindowSize(t *testing.T) {
	tests := []struct {
		name        string
		numSteps    int
		k           int
		wantUpdates int
	}{
		{"full sequence is one update", 10, 10, 1},
		{"stepwise updates every step", 10, 1, 10},
		{"truncated rounds up", 10, 3, 4},
		{"truncated exact division", 10, 5, 2},
		{"truncated K=4", 10, 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := newFakeNet(2)
			opt := &spyOptimizer{}
			criterion := &stubCriterion{name: "class-count", lossValue: 1}

			_, err := TBPTT(newTestBackend(), net, staticLoader(t, 2, 3), opt, criterion,
				Config[testBackend]{NumSteps: tt.numSteps, K: tt.k})
			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdates, opt.steps)
			assert.Equal(t, tt.wantUpdates, opt.zeros)
			assert.Equal(t, tt.numSteps, net.forwardCount())
		})
	}
}

func TestWindowTooLargeFailsBeforeAnyForward(t *testing.T) {
	net := newFakeNet(2)
	criterion := &stubCriterion{name: "class-count", lossValue: 1}

	_, err := TBPTT(newTestBackend(), net, staticLoader(t, 2, 3), &spyOptimizer{}, criterion,
		Config[testBackend]{NumSteps: 5, K: 6})

	var invalid *InvalidArgumentError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Error(), "K must be less than or equal to num_steps")
	assert.Equal(t, 0, net.forwardCount())
}

func TestUnknownCriterionFailsBeforeAnyForward(t *testing.T) {
	net := newFakeNet(2)
	criterion := &stubCriterion{name: "unknown_loss", lossValue: 1}

	_, err := TBPTT(newTestBackend(), net, staticLoader(t, 2, 3), &spyOptimizer{}, criterion,
		Config[testBackend]{NumSteps: 4, K: 2})

	var confErr *ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, 0, net.forwardCount())
}

func TestUnknownRegularizerIsIgnored(t *testing.T) {
	net := newFakeNet(2)
	criterion := &stubCriterion{name: "class-count", lossValue: 1}
	reg := &stubRegularizer{name: "unknown_reg"}

	_, err := TBPTT(newTestBackend(), net, staticLoader(t, 2, 3), &spyOptimizer{}, criterion,
		Config[testBackend]{NumSteps: 4, K: 2, Regularizer: reg})

	require.NoError(t, err)
	assert.Equal(t, 0, reg.calls, "unrecognized regularizer must contribute nothing")
}

func TestRecognizedRegularizerRunsEveryWindow(t *testing.T) {
	net := newFakeNet(2)
	criterion := &stubCriterion{name: "class-count", lossValue: 1}
	reg := &stubRegularizer{name: "l1-rate-sparsity"}

	_, err := TBPTT(newTestBackend(), net, staticLoader(t, 2, 3), &spyOptimizer{}, criterion,
		Config[testBackend]{NumSteps: 4, K: 2, Regularizer: reg})

	require.NoError(t, err)
	assert.Equal(t, 2, reg.calls)
}

func TestLossWeightingExactSemantics(t *testing.T) {
	// numSteps=10, K=3: three full windows weighted 1/(10/3) plus one
	// single-step remainder weighted 1/(10 mod 3). With every window's loss
	// pinned at L the total is 0.9L + L = 1.9L.
	net := newFakeNet(2)
	criterion := &stubCriterion{name: "class-count", lossValue: 2}

	got, err := TBPTT(newTestBackend(), net, staticLoader(t, 2, 3), &spyOptimizer{}, criterion,
		Config[testBackend]{NumSteps: 10, K: 3})

	require.NoError(t, err)
	assert.InDelta(t, 1.9*2, got, 1e-5)
}

func TestWindowBuffersClearedBetweenWindows(t *testing.T) {
	net := newFakeNet(2)
	criterion := &stubCriterion{name: "class-count", lossValue: 1}

	_, err := TBPTT(newTestBackend(), net, staticLoader(t, 2, 3), &spyOptimizer{}, criterion,
		Config[testBackend]{NumSteps: 10, K: 3})
	require.NoError(t, err)

	// Window lengths 3, 3, 3, 1 on the leading time axis prove the buffers
	// restart at every close instead of accumulating.
	require.Len(t, criterion.signalShapes, 4)
	assert.Equal(t, tensor.Shape{3, 2, 3}, criterion.signalShapes[0])
	assert.Equal(t, tensor.Shape{3, 2, 3}, criterion.signalShapes[1])
	assert.Equal(t, tensor.Shape{3, 2, 3}, criterion.signalShapes[2])
	assert.Equal(t, tensor.Shape{1, 2, 3}, criterion.signalShapes[3])
}

func TestStateTransitionOrdering(t *testing.T) {
	net := newFakeNet(2)
	criterion := &stubCriterion{name: "class-count", lossValue: 1}

	_, err := TBPTT(newTestBackend(), net, staticLoader(t, 2, 3), &spyOptimizer{}, criterion,
		Config[testBackend]{NumSteps: 4, K: 2})
	require.NoError(t, err)

	// One batch: reset precedes every forward, one detach per window close.
	want := []string{
		"reset",
		"forward", "forward", "detach",
		"forward", "forward", "detach",
	}
	assert.Equal(t, want, *net.events)
}

func TestTimeVaryingTargetsSlicedPerWindow(t *testing.T) {
	const numSteps, batch, features = 10, 2, 3

	inputs, err := tensor.NewRaw(tensor.Shape{batch, features}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	targets, err := tensor.NewRaw(tensor.Shape{numSteps, batch, features}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	tgtData := targets.AsFloat32()
	for step := 0; step < numSteps; step++ {
		for i := 0; i < batch*features; i++ {
			tgtData[step*batch*features+i] = float32(step)
		}
	}
	loader := &singleBatchLoader{batch: data.Batch{Data: inputs, Targets: targets}}

	net := newFakeNet(2)
	criterion := &stubCriterion{name: "membrane-mse", timeVarying: true, lossValue: 1}

	_, err = TBPTT(newTestBackend(), net, loader, &spyOptimizer{}, criterion,
		Config[testBackend]{NumSteps: numSteps, K: 3})
	require.NoError(t, err)

	// Window 1 covers steps 3..5, so it must see targets[3:6].
	require.Len(t, criterion.targetsSeen, 4)
	window1 := criterion.targetsSeen[1]
	assert.Equal(t, tensor.Shape{3, batch, features}, window1.Shape())
	values := window1.AsFloat32()
	assert.Equal(t, float32(3), values[0])
	assert.Equal(t, float32(5), values[len(values)-1])
}

// singleBatchLoader serves one prepared batch per pass.
type singleBatchLoader struct {
	batch data.Batch
	done  bool
}

func (l *singleBatchLoader) Reset() { l.done = false }

func (l *singleBatchLoader) Next() (data.Batch, bool) {
	if l.done {
		return data.Batch{}, false
	}
	l.done = true
	return l.batch, true
}

func TestUnsupportedOutputArity(t *testing.T) {
	for _, arity := range []int{1, 5} {
		net := newFakeNet(arity)
		criterion := &stubCriterion{name: "class-count", lossValue: 1}

		_, err := TBPTT(newTestBackend(), net, staticLoader(t, 2, 3), &spyOptimizer{}, criterion,
			Config[testBackend]{NumSteps: 4, K: 2})

		var arityErr *UnsupportedOutputArityError
		require.ErrorAs(t, err, &arityErr)
		assert.Equal(t, arity, arityErr.Arity)
	}
}

func TestSupportedOutputArities(t *testing.T) {
	for _, arity := range []int{2, 3, 4} {
		net := newFakeNet(arity)
		criterion := &stubCriterion{name: "class-count", lossValue: 1}

		_, err := TBPTT(newTestBackend(), net, staticLoader(t, 2, 3), &spyOptimizer{}, criterion,
			Config[testBackend]{NumSteps: 4, K: 2})
		require.NoError(t, err)
	}
}

func TestBPTTIgnoresConfiguredK(t *testing.T) {
	net := newFakeNet(2)
	opt := &spyOptimizer{}
	criterion := &stubCriterion{name: "class-count", lossValue: 1}

	_, err := BPTT(newTestBackend(), net, staticLoader(t, 2, 3), opt, criterion,
		Config[testBackend]{NumSteps: 6, K: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, opt.steps)
}

func TestRTRLUpdatesEveryStep(t *testing.T) {
	net := newFakeNet(2)
	opt := &spyOptimizer{}
	criterion := &stubCriterion{name: "class-count", lossValue: 1}

	_, err := RTRL(newTestBackend(), net, staticLoader(t, 2, 3), opt, criterion,
		Config[testBackend]{NumSteps: 6, K: 99})
	require.NoError(t, err)
	assert.Equal(t, 6, opt.steps)
}

func TestBPTFNotImplemented(t *testing.T) {
	net := newFakeNet(2)
	criterion := &stubCriterion{name: "class-count", lossValue: 1}

	_, err := BPTF(newTestBackend(), net, staticLoader(t, 2, 3), &spyOptimizer{}, criterion,
		Config[testBackend]{NumSteps: 4, K: 2})
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestTrainingMovesParameters(t *testing.T) {
	backend := newTestBackend()
	net := snn.NewNetwork[testBackend]().
		Add(nn.NewLinear(3, 2, backend)).
		AddUnit(snn.NewLeaky[testBackend](0.9))

	params := net.Parameters()
	raws := make([]*tensor.RawTensor, len(params))
	for i, p := range params {
		raws[i] = p.Tensor().Raw()
	}
	before := append([]float32(nil), raws[0].AsFloat32()...)

	inputs, err := tensor.NewRaw(tensor.Shape{4, 3}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	for i := range inputs.AsFloat32() {
		inputs.AsFloat32()[i] = float32(i%3) + 0.5
	}
	targets, err := tensor.NewRaw(tensor.Shape{4}, tensor.Int64, tensor.CPU)
	require.NoError(t, err)
	targets.AsInt64()[1] = 1
	targets.AsInt64()[3] = 1

	loader, err := data.NewSliceLoader(inputs, targets, 4)
	require.NoError(t, err)

	loss, err := TBPTT(backend, net, loader, optim.NewSGD(raws, optim.SGDConfig{LR: 0.5}),
		functional.NewCECountLoss[testBackend](),
		Config[testBackend]{NumSteps: 6, K: 3})
	require.NoError(t, err)
	assert.False(t, loss != loss, "loss must not be NaN")

	assert.NotEqual(t, before, raws[0].AsFloat32(), "weights should move under a real gradient")
}
