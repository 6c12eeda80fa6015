// Package backprop implements windowed temporal credit assignment for spiking
// networks: the sequence is cut into windows of K steps, and each window gets
// its own backward pass and optimizer step before the hidden state's gradient
// history is severed.
//
// One scheduler covers the whole algorithm family. K = num steps is classic
// backpropagation through time with a single update per batch; K = 1 updates
// after every step; anything in between is truncated BPTT.
package backprop

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/autodiff"
	"github.com/pulse-ml/pulse/internal/data"
	"github.com/pulse-ml/pulse/internal/functional"
	"github.com/pulse-ml/pulse/internal/optim"
	"github.com/pulse-ml/pulse/internal/snn"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// Network is the model contract the scheduler drives. snn.Network satisfies
// it; any model with spiking semantics can stand in.
type Network[B tensor.Backend] interface {
	// Forward runs one time step and returns 2 to 4 outputs, spikes first
	// and membrane potential last.
	Forward(input *tensor.Tensor[float32, B]) []*tensor.Tensor[float32, B]

	// ResetState clears all hidden state.
	ResetState()

	// StatefulUnits returns every hidden-state carrier in the model.
	StatefulUnits() []snn.StatefulUnit
}

// Config parameterizes a training pass.
type Config[B tensor.Backend] struct {
	// NumSteps is the number of simulation time steps per batch.
	NumSteps int

	// K is the window length: steps between consecutive optimizer updates.
	// Must satisfy 1 <= K <= NumSteps.
	K int

	// TimeVarying declares that batch data carries a leading time axis of
	// length NumSteps. Static data is presented unchanged at every step.
	TimeVarying bool

	// Regularizer is an optional penalty added to every window's loss.
	// Unrecognized regularizers are ignored.
	Regularizer functional.Regularizer[B]

	// Device is where batch data is placed before the forward passes.
	Device tensor.Device
}

// TBPTT trains the network for one pass over the loader using truncated
// backpropagation through time and returns the accumulated weighted loss.
//
// Each window's loss is weighted by the window's share of the sequence:
// divided by NumSteps/K for full windows and by NumSteps mod K for the
// trailing partial window. The returned value accumulates across all batches
// of the pass.
func TBPTT[B autodiff.BackwardCapable](
	backend B,
	net Network[B],
	loader data.Loader,
	optimizer optim.Optimizer,
	criterion functional.Criterion[B],
	cfg Config[B],
) (float32, error) {
	return run(backend, net, loader, optimizer, criterion, cfg)
}

// BPTT trains with full backpropagation through time: one update per batch,
// gradients flowing through the entire sequence. Equivalent to TBPTT with
// K = NumSteps.
func BPTT[B autodiff.BackwardCapable](
	backend B,
	net Network[B],
	loader data.Loader,
	optimizer optim.Optimizer,
	criterion functional.Criterion[B],
	cfg Config[B],
) (float32, error) {
	cfg.K = cfg.NumSteps
	return run(backend, net, loader, optimizer, criterion, cfg)
}

// RTRL trains with an update at every time step, the windowed approximation
// of real-time recurrent learning. Equivalent to TBPTT with K = 1.
func RTRL[B autodiff.BackwardCapable](
	backend B,
	net Network[B],
	loader data.Loader,
	optimizer optim.Optimizer,
	criterion functional.Criterion[B],
	cfg Config[B],
) (float32, error) {
	cfg.K = 1
	return run(backend, net, loader, optimizer, criterion, cfg)
}

// BPTF is backpropagation to the future. Named for parity with the rest of
// the family; no implementation exists yet.
func BPTF[B autodiff.BackwardCapable](
	backend B,
	net Network[B],
	loader data.Loader,
	optimizer optim.Optimizer,
	criterion functional.Criterion[B],
	cfg Config[B],
) (float32, error) {
	return 0, fmt.Errorf("BPTF: %w", ErrNotImplemented)
}

func run[B autodiff.BackwardCapable](
	backend B,
	net Network[B],
	loader data.Loader,
	optimizer optim.Optimizer,
	criterion functional.Criterion[B],
	cfg Config[B],
) (float32, error) {
	spec, err := resolveLoss(criterion)
	if err != nil {
		return 0, err
	}
	reg, hasReg := resolveReg(cfg.Regularizer)

	if cfg.NumSteps < 1 {
		return 0, &InvalidArgumentError{Reason: "num_steps must be positive"}
	}
	if cfg.K < 1 || cfg.K > cfg.NumSteps {
		return 0, &InvalidArgumentError{Reason: "K must be less than or equal to num_steps"}
	}

	units := net.StatefulUnits()
	win := newWindowState[B](cfg.K)
	tape := backend.GetTape()

	// Accumulates across every batch of the pass, weighted per window.
	var avgLoss float32

	loader.Reset()
	for {
		batch, ok := loader.Next()
		if !ok {
			break
		}
		batchData := batch.Data.ToDevice(cfg.Device)
		targets := batch.Targets.ToDevice(cfg.Device)
		if cfg.TimeVarying && batchData.Shape()[0] != cfg.NumSteps {
			return 0, &InvalidArgumentError{
				Reason: fmt.Sprintf("time-varying data has %d steps, config expects %d", batchData.Shape()[0], cfg.NumSteps),
			}
		}

		net.ResetState()
		win.rewind()
		tape.Clear()
		tape.StartRecording()

		for step := 0; step < cfg.NumSteps; step++ {
			input := stepInput(backend, batchData, step, cfg.TimeVarying)
			outputs := net.Forward(input)
			if len(outputs) < 2 || len(outputs) > 4 {
				return 0, &UnsupportedOutputArityError{Arity: len(outputs)}
			}
			win.record(outputs[0], outputs[len(outputs)-1])

			if win.full() {
				avgLoss += closeWindow(backend, optimizer, criterion, spec, cfg.Regularizer, reg, hasReg, win, units, targets, windowWeightFull(cfg))
				win.advance()
			}
		}

		// Trailing partial window when K does not divide NumSteps.
		if win.open() {
			avgLoss += closeWindow(backend, optimizer, criterion, spec, cfg.Regularizer, reg, hasReg, win, units, targets, float32(cfg.NumSteps%cfg.K))
			win.rewind()
		}
		tape.StopRecording()
	}

	return avgLoss, nil
}

// windowWeightFull is the divisor for a full window's loss contribution: the
// (fractional) number of windows in the sequence.
func windowWeightFull[B tensor.Backend](cfg Config[B]) float32 {
	return float32(cfg.NumSteps) / float32(cfg.K)
}

// stepInput selects the input for one time step: a time slice for
// time-varying data, the batch itself otherwise.
func stepInput[B tensor.Backend](backend B, batchData *tensor.RawTensor, step int, timeVarying bool) *tensor.Tensor[float32, B] {
	if !timeVarying {
		return tensor.New[float32](batchData, backend)
	}
	slice := backend.Narrow(batchData, 0, step, 1)
	return tensor.New[float32](backend.Reshape(slice, slice.Shape()[1:]), backend)
}

// closeWindow runs the credit-assignment step shared by full and partial
// windows: stack the recorded signals, compute the loss on the signal the
// dispatch selected, add regularization, backward, optimizer step, then sever
// the hidden state's history so the next window starts a fresh graph.
// Returns the window's weighted loss contribution.
func closeWindow[B autodiff.BackwardCapable](
	backend B,
	optimizer optim.Optimizer,
	criterion functional.Criterion[B],
	spec lossSpec,
	regularizer functional.Regularizer[B],
	reg regSpec,
	hasReg bool,
	win *windowState[B],
	units []snn.StatefulUnit,
	targets *tensor.RawTensor,
	weight float32,
) float32 {
	spk := tensor.Stack(win.spkRec)
	mem := tensor.Stack(win.memRec)

	signal := spk
	if spec.signal == SignalMembrane {
		signal = mem
	}

	windowTargets := targets
	if spec.timeVaryingTargets {
		windowTargets = backend.Narrow(targets, 0, win.start(), win.length())
	}

	loss := criterion.Forward(signal, windowTargets)
	if hasReg {
		regSignal := spk
		if reg.signal == SignalMembrane {
			regSignal = mem
		}
		loss = loss.Add(regularizer.Forward(regSignal))
	}

	optimizer.ZeroGrad()
	grads := autodiff.Backward(loss, backend)
	optimizer.Step(grads)

	contribution := loss.Item() / weight

	// Hidden state keeps its value but forgets its history; the tape starts
	// over for the next window.
	for _, u := range units {
		u.DetachHidden()
	}
	backend.GetTape().Clear()
	backend.GetTape().StartRecording()

	return contribution
}
