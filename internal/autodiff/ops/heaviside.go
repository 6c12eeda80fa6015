package ops

import (
	"math"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// SurrogateAlpha controls the width of the arctangent surrogate gradient used
// for the spike function. Matches the usual default of 2.0: narrower values
// spread the gradient over a wider band of membrane potentials.
const SurrogateAlpha = 2.0

// HeavisideOp records the spike function S = Θ(x).
//
// The true derivative of the Heaviside step is zero almost everywhere and
// undefined at the threshold, which would kill all gradient flow through
// spikes. The backward pass therefore substitutes the derivative of a scaled
// arctangent:
//
//	dS/dx ≈ (α/2) / (1 + (π·x·α/2)²)
//
// This is the standard surrogate-gradient trick that makes spiking networks
// trainable with backpropagation at all.
type HeavisideOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewHeavisideOp creates a new spike operation.
func NewHeavisideOp(input, output *tensor.RawTensor) *HeavisideOp {
	return &HeavisideOp{input: input, output: output}
}

// Inputs returns the input tensors.
func (op *HeavisideOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *HeavisideOp) Output() *tensor.RawTensor { return op.output }

// Backward applies the arctangent surrogate derivative.
func (op *HeavisideOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	out := zerosLike(outputGrad.Shape(), outputGrad.Device())
	outData := out.AsFloat32()
	gradData, inData := outputGrad.AsFloat32(), op.input.AsFloat32()

	halfAlpha := SurrogateAlpha / 2.0
	for i, g := range gradData {
		u := math.Pi * float64(inData[i]) * halfAlpha
		outData[i] = g * float32(halfAlpha/(1.0+u*u))
	}
	return []*tensor.RawTensor{out}
}
