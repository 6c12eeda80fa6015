package functional

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// Accuracy is the fraction of rate-coded predictions matching the int64
// labels: the predicted class is the neuron with the highest spike count over
// the window.
func Accuracy[B tensor.Backend](spikes *tensor.Tensor[float32, B], targets *tensor.RawTensor) float32 {
	shape := spikes.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("accuracy: spikes must be [window, batch, classes], got %v", shape))
	}
	if targets.DType() != tensor.Int64 {
		panic(fmt.Sprintf("accuracy: targets must be int64 class indices, got %s", targets.DType()))
	}

	predicted := spikes.SumDim(0, false).Argmax(1)
	labels := targets.AsInt64()
	correct := 0
	for i, p := range predicted.Data() {
		if p == labels[i] {
			correct++
		}
	}
	return float32(correct) / float32(len(labels))
}
