package ops

import "github.com/pulse-ml/pulse/internal/tensor"

// SumOp records a full reduction to a [1] tensor.
type SumOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSumOp creates a new sum operation.
func NewSumOp(input, output *tensor.RawTensor) *SumOp {
	return &SumOp{input: input, output: output}
}

// Inputs returns the input tensors.
func (op *SumOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *SumOp) Output() *tensor.RawTensor { return op.output }

// Backward broadcasts the scalar gradient to every input element.
func (op *SumOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	out := zerosLike(op.input.Shape(), outputGrad.Device())
	outData := out.AsFloat32()
	g := outputGrad.AsFloat32()[0]
	for i := range outData {
		outData[i] = g
	}
	return []*tensor.RawTensor{out}
}

// DimReduceKind distinguishes the per-dimension reductions sharing DimReduceOp.
type DimReduceKind int

// Reductions along a dimension.
const (
	ReduceSum DimReduceKind = iota
	ReduceMean
	ReduceMax
)

// DimReduceOp records a reduction along one dimension.
//
// Backward:
//   - sum: the gradient replicates across the reduced dimension
//   - mean: as sum, divided by the dimension size
//   - max: the gradient routes only to the position that held the maximum
type DimReduceOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	kind   DimReduceKind
	dim    int
}

// NewDimReduceOp creates a new per-dimension reduction operation.
// dim must already be normalized to [0, ndim).
func NewDimReduceOp(input, output *tensor.RawTensor, kind DimReduceKind, dim int) *DimReduceOp {
	return &DimReduceOp{input: input, output: output, kind: kind, dim: dim}
}

// Inputs returns the input tensors.
func (op *DimReduceOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the output tensor.
func (op *DimReduceOp) Output() *tensor.RawTensor { return op.output }

// Backward distributes the gradient back across the reduced dimension.
func (op *DimReduceOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	inShape := op.input.Shape()
	out := zerosLike(inShape, outputGrad.Device())
	outData := out.AsFloat32()
	gradData := outputGrad.AsFloat32()
	inData := op.input.AsFloat32()

	outer, size, inner := 1, inShape[op.dim], 1
	for d := 0; d < op.dim; d++ {
		outer *= inShape[d]
	}
	for d := op.dim + 1; d < len(inShape); d++ {
		inner *= inShape[d]
	}

	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			g := gradData[o*inner+in]
			switch op.kind {
			case ReduceSum:
				for s := 0; s < size; s++ {
					outData[(o*size+s)*inner+in] = g
				}
			case ReduceMean:
				share := g / float32(size)
				for s := 0; s < size; s++ {
					outData[(o*size+s)*inner+in] = share
				}
			case ReduceMax:
				best, bestIdx := inData[o*size*inner+in], 0
				for s := 1; s < size; s++ {
					if v := inData[(o*size+s)*inner+in]; v > best {
						best, bestIdx = v, s
					}
				}
				outData[(o*size+bestIdx)*inner+in] = g
			}
		}
	}
	return []*tensor.RawTensor{out}
}
