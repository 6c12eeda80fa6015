package functional

import "github.com/pulse-ml/pulse/internal/tensor"

// L1RateSparsity penalizes the total spike count of the window, scaled by
// lambda. Adding it to a loss pushes the network toward sparse firing.
type L1RateSparsity[B tensor.Backend] struct {
	lambda float32
}

// NewL1RateSparsity creates the regularizer with strength lambda.
func NewL1RateSparsity[B tensor.Backend](lambda float32) *L1RateSparsity[B] {
	return &L1RateSparsity[B]{lambda: lambda}
}

// Name returns "l1-rate-sparsity".
func (r *L1RateSparsity[B]) Name() string { return "l1-rate-sparsity" }

// Forward computes lambda * sum(|signal|).
func (r *L1RateSparsity[B]) Forward(signal *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return signal.Abs().Sum().MulScalar(r.lambda)
}
