package ops

import (
	"math"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// CrossEntropyOp records the fused mean negative log-likelihood of int64
// class targets under 2D logits.
//
// Backward:
//
//	∂L/∂logits = (softmax(logits) - onehot(targets)) / batch
//
// scaled by the (scalar) output gradient. Targets receive no gradient.
type CrossEntropyOp struct {
	logits  *tensor.RawTensor
	targets *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewCrossEntropyOp creates a new cross-entropy operation.
func NewCrossEntropyOp(logits, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{logits: logits, targets: targets, output: output}
}

// Inputs returns the input tensors. Targets are listed for graph completeness
// even though no gradient flows to them.
func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.logits, op.targets}
}

// Output returns the output tensor.
func (op *CrossEntropyOp) Output() *tensor.RawTensor { return op.output }

// Backward computes the softmax-minus-onehot gradient for the logits.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	shape := op.logits.Shape()
	batch, classes := shape[0], shape[1]

	out := zerosLike(shape, outputGrad.Device())
	outData := out.AsFloat32()
	logitsData := op.logits.AsFloat32()
	targetData := op.targets.AsInt64()
	g := outputGrad.AsFloat32()[0] / float32(batch)

	for i := 0; i < batch; i++ {
		row := logitsData[i*classes : (i+1)*classes]
		maxV := row[0]
		for _, v := range row[1:] {
			if v > maxV {
				maxV = v
			}
		}
		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(float64(v - maxV))
		}
		outRow := outData[i*classes : (i+1)*classes]
		for j, v := range row {
			softmax := float32(math.Exp(float64(v-maxV)) / sumExp)
			outRow[j] = softmax * g
		}
		outRow[targetData[i]] -= g
	}

	return []*tensor.RawTensor{out, nil}
}
