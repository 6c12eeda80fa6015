// Package data defines the batch iteration contract the training scheduler
// consumes and an in-memory loader for datasets that fit in RAM.
package data

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// Batch is one unit of training work: input data and its targets.
// Targets stay raw because their dtype depends on the loss (int64 class
// indices or float32 regression values).
type Batch struct {
	Data    *tensor.RawTensor
	Targets *tensor.RawTensor
}

// Loader yields batches for one pass over a dataset.
type Loader interface {
	// Reset rewinds the loader to the first batch.
	Reset()

	// Next returns the next batch, or ok=false when the pass is complete.
	Next() (batch Batch, ok bool)
}

// SliceLoader serves fixed-size batches from tensors held in memory. Data is
// sliced along the leading (sample) axis; a trailing partial batch is dropped
// so every batch has the same size.
type SliceLoader struct {
	data      *tensor.RawTensor
	targets   *tensor.RawTensor
	batchSize int
	cursor    int
}

// NewSliceLoader creates a loader over data and targets whose leading
// dimensions agree.
func NewSliceLoader(data, targets *tensor.RawTensor, batchSize int) (*SliceLoader, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if len(data.Shape()) == 0 || len(targets.Shape()) == 0 {
		return nil, fmt.Errorf("data and targets must have a sample axis")
	}
	if data.Shape()[0] != targets.Shape()[0] {
		return nil, fmt.Errorf("data has %d samples but targets has %d", data.Shape()[0], targets.Shape()[0])
	}
	if data.Shape()[0] < batchSize {
		return nil, fmt.Errorf("dataset of %d samples is smaller than batch size %d", data.Shape()[0], batchSize)
	}
	return &SliceLoader{data: data, targets: targets, batchSize: batchSize}, nil
}

// NumBatches returns the number of full batches per pass.
func (l *SliceLoader) NumBatches() int {
	return l.data.Shape()[0] / l.batchSize
}

// Reset rewinds to the first batch.
func (l *SliceLoader) Reset() { l.cursor = 0 }

// Next returns the next full batch, or ok=false at the end of the pass.
func (l *SliceLoader) Next() (Batch, bool) {
	if l.cursor+l.batchSize > l.data.Shape()[0] {
		return Batch{}, false
	}
	batch := Batch{
		Data:    narrowSamples(l.data, l.cursor, l.batchSize),
		Targets: narrowSamples(l.targets, l.cursor, l.batchSize),
	}
	l.cursor += l.batchSize
	return batch, true
}

// narrowSamples copies rows [start, start+length) of the leading axis.
func narrowSamples(src *tensor.RawTensor, start, length int) *tensor.RawTensor {
	outShape := src.Shape().Clone()
	outShape[0] = length
	out, err := tensor.NewRaw(outShape, src.DType(), src.Device())
	if err != nil {
		panic(err)
	}
	rowBytes := src.ByteSize() / src.Shape()[0]
	copy(out.Data(), src.Data()[start*rowBytes:(start+length)*rowBytes])
	return out
}
