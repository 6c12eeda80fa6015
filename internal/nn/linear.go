package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// Linear applies an affine transformation: output = input @ weight + bias.
//
// The weight is stored [in_features, out_features] so the forward pass needs
// no transpose. Weights use Xavier/Glorot uniform initialization; biases
// start at zero.
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B]
	bias        *Parameter[B]
}

// NewLinear creates a new linear layer with Xavier-initialized weights.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	weight := tensor.Zeros[float32](tensor.Shape{inFeatures, outFeatures}, backend)
	limit := float32(math.Sqrt(6.0 / float64(inFeatures+outFeatures)))
	data := weight.Data()
	for i := range data {
		data[i] = (rand.Float32()*2 - 1) * limit
	}

	bias := tensor.Zeros[float32](tensor.Shape{outFeatures}, backend)

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
	}
}

// Forward computes input @ weight + bias for input [batch, in_features].
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 || shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear: input must have shape [batch, %d], got %v", l.inFeatures, shape))
	}
	return input.MatMul(l.weight.Tensor()).Add(l.bias.Tensor())
}

// Parameters returns the weight and bias.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// InFeatures returns the input width.
func (l *Linear[B]) InFeatures() int { return l.inFeatures }

// OutFeatures returns the output width.
func (l *Linear[B]) OutFeatures() int { return l.outFeatures }
