package functional

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// MSEMembraneLoss is the mean squared error between the membrane record and
// float32 targets.
//
// With static targets [batch, features] the targets broadcast across the time
// axis: every step of the window is pulled toward the same value. With
// time-varying targets the caller passes the [window, batch, features] slice
// for the current window and each step gets its own target.
type MSEMembraneLoss[B tensor.Backend] struct {
	timeVarying bool
}

// NewMSEMembraneLoss creates the loss. timeVarying declares whether targets
// carry a leading time axis.
func NewMSEMembraneLoss[B tensor.Backend](timeVarying bool) *MSEMembraneLoss[B] {
	return &MSEMembraneLoss[B]{timeVarying: timeVarying}
}

// Name returns "membrane-mse".
func (l *MSEMembraneLoss[B]) Name() string { return "membrane-mse" }

// TimeVaryingTargets reports whether targets are indexed by time.
func (l *MSEMembraneLoss[B]) TimeVaryingTargets() bool { return l.timeVarying }

// Forward computes mean((signal - targets)^2).
func (l *MSEMembraneLoss[B]) Forward(signal *tensor.Tensor[float32, B], targets *tensor.RawTensor) *tensor.Tensor[float32, B] {
	if targets.DType() != tensor.Float32 {
		panic(fmt.Sprintf("membrane-mse: targets must be float32, got %s", targets.DType()))
	}
	target := tensor.New[float32](targets, signal.Backend())
	diff := signal.Sub(target)
	n := float32(signal.NumElements())
	return diff.Mul(diff).Sum().DivScalar(n)
}

// CEMaxMembraneLoss is cross-entropy on the per-neuron maximum membrane
// potential over the window. The neuron that peaked highest at any point in
// time is treated as the prediction.
type CEMaxMembraneLoss[B tensor.Backend] struct{}

// NewCEMaxMembraneLoss creates the loss.
func NewCEMaxMembraneLoss[B tensor.Backend]() *CEMaxMembraneLoss[B] {
	return &CEMaxMembraneLoss[B]{}
}

// Name returns "class-max-membrane".
func (l *CEMaxMembraneLoss[B]) Name() string { return "class-max-membrane" }

// Forward reduces the time axis with max and applies cross-entropy against
// int64 class indices.
func (l *CEMaxMembraneLoss[B]) Forward(signal *tensor.Tensor[float32, B], targets *tensor.RawTensor) *tensor.Tensor[float32, B] {
	logits := signal.MaxDim(0, false)
	backend := signal.Backend()
	return tensor.New[float32](backend.CrossEntropy(logits.Raw(), targets), backend)
}
