package autodiff

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// BackwardCapable is the constraint for backends that can run a backward
// pass. AutodiffBackend implements it; the training scheduler is generic over
// this interface rather than a concrete decorator.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable).
func (b *AutodiffBackend[B]) GetTape() *GradientTape { return b.tape }

// Backward computes gradients of a scalar-valued tensor with respect to every
// tensor on the tape, seeding the output gradient with ones.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	outputGrad, err := tensor.NewRaw(t.Shape(), tensor.Float32, backend.Device())
	if err != nil {
		panic(fmt.Sprintf("backward: failed to create output gradient: %v", err))
	}
	data := outputGrad.AsFloat32()
	for i := range data {
		data[i] = 1.0
	}

	return tape.Backward(outputGrad, backend)
}
