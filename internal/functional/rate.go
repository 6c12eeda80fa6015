package functional

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// CERateLoss applies cross-entropy to the spike record at every time step and
// averages over the window. Spiking the correct neuron is rewarded at each
// step independently, which drives high firing rates on the target class.
type CERateLoss[B tensor.Backend] struct{}

// NewCERateLoss creates the loss.
func NewCERateLoss[B tensor.Backend]() *CERateLoss[B] {
	return &CERateLoss[B]{}
}

// Name returns "class-rate".
func (l *CERateLoss[B]) Name() string { return "class-rate" }

// Forward averages per-step cross-entropy over the window.
func (l *CERateLoss[B]) Forward(signal *tensor.Tensor[float32, B], targets *tensor.RawTensor) *tensor.Tensor[float32, B] {
	shape := signal.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("class-rate: signal must be [window, batch, classes], got %v", shape))
	}
	window, batch, classes := shape[0], shape[1], shape[2]

	var total *tensor.Tensor[float32, B]
	backend := signal.Backend()
	for t := 0; t < window; t++ {
		logits := signal.Narrow(0, t, 1).Reshape(batch, classes)
		step := tensor.New[float32](backend.CrossEntropy(logits.Raw(), targets), backend)
		if total == nil {
			total = step
		} else {
			total = total.Add(step)
		}
	}
	return total.DivScalar(float32(window))
}

// CECountLoss applies cross-entropy to the total spike count per neuron over
// the window. The count tensor acts as the logits: the neuron that spiked the
// most is the prediction.
type CECountLoss[B tensor.Backend] struct{}

// NewCECountLoss creates the loss.
func NewCECountLoss[B tensor.Backend]() *CECountLoss[B] {
	return &CECountLoss[B]{}
}

// Name returns "class-count".
func (l *CECountLoss[B]) Name() string { return "class-count" }

// Forward sums spikes over time and applies cross-entropy.
func (l *CECountLoss[B]) Forward(signal *tensor.Tensor[float32, B], targets *tensor.RawTensor) *tensor.Tensor[float32, B] {
	counts := signal.SumDim(0, false)
	backend := signal.Backend()
	return tensor.New[float32](backend.CrossEntropy(counts.Raw(), targets), backend)
}

// MSECountLoss is mean squared error between per-neuron spike counts and
// target counts derived from firing rates: the labeled class should spike on
// a correctRate fraction of steps, every other class on incorrectRate.
type MSECountLoss[B tensor.Backend] struct {
	correctRate   float32
	incorrectRate float32
}

// NewMSECountLoss creates the loss with target firing rates in [0, 1].
func NewMSECountLoss[B tensor.Backend](correctRate, incorrectRate float32) *MSECountLoss[B] {
	if correctRate < 0 || correctRate > 1 || incorrectRate < 0 || incorrectRate > 1 {
		panic(fmt.Sprintf("spike-count-mse: rates must be in [0, 1], got %v and %v", correctRate, incorrectRate))
	}
	return &MSECountLoss[B]{correctRate: correctRate, incorrectRate: incorrectRate}
}

// Name returns "spike-count-mse".
func (l *MSECountLoss[B]) Name() string { return "spike-count-mse" }

// Forward builds the target count tensor from int64 labels and computes MSE
// against the actual counts.
func (l *MSECountLoss[B]) Forward(signal *tensor.Tensor[float32, B], targets *tensor.RawTensor) *tensor.Tensor[float32, B] {
	shape := signal.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("spike-count-mse: signal must be [window, batch, classes], got %v", shape))
	}
	if targets.DType() != tensor.Int64 {
		panic(fmt.Sprintf("spike-count-mse: targets must be int64 class indices, got %s", targets.DType()))
	}
	window, batch, classes := shape[0], shape[1], shape[2]

	backend := signal.Backend()
	wanted := tensor.Full[float32](tensor.Shape{batch, classes}, l.incorrectRate*float32(window), backend)
	wantedData := wanted.Data()
	onCount := l.correctRate * float32(window)
	for i, label := range targets.AsInt64() {
		if label < 0 || int(label) >= classes {
			panic(fmt.Sprintf("spike-count-mse: label %d out of range for %d classes", label, classes))
		}
		wantedData[i*classes+int(label)] = onCount
	}

	counts := signal.SumDim(0, false)
	diff := counts.Sub(wanted)
	n := float32(batch * classes)
	return diff.Mul(diff).Sum().DivScalar(n)
}
