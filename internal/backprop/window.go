package backprop

import "github.com/pulse-ml/pulse/internal/tensor"

// windowState holds the bookkeeping of the current training window: how far
// into the window the sequence is, which window of the batch this is, and the
// signals recorded since the window opened.
type windowState[B tensor.Backend] struct {
	k            int
	stepInWindow int
	windowIndex  int
	spkRec       []*tensor.Tensor[float32, B]
	memRec       []*tensor.Tensor[float32, B]
}

func newWindowState[B tensor.Backend](k int) *windowState[B] {
	return &windowState[B]{
		k:      k,
		spkRec: make([]*tensor.Tensor[float32, B], 0, k),
		memRec: make([]*tensor.Tensor[float32, B], 0, k),
	}
}

// record buffers both signals for one time step. Both are always kept,
// whichever one the loss ends up consuming.
func (w *windowState[B]) record(spk, mem *tensor.Tensor[float32, B]) {
	w.spkRec = append(w.spkRec, spk)
	w.memRec = append(w.memRec, mem)
	w.stepInWindow++
}

// full reports whether the window has accumulated k steps.
func (w *windowState[B]) full() bool { return w.stepInWindow == w.k }

// open reports whether a partially filled window remains.
func (w *windowState[B]) open() bool { return w.stepInWindow > 0 }

// length returns the number of recorded steps.
func (w *windowState[B]) length() int { return w.stepInWindow }

// start returns the absolute time step the window opened at.
func (w *windowState[B]) start() int { return w.windowIndex * w.k }

// advance clears the buffers and moves on to the next window of the sequence.
func (w *windowState[B]) advance() {
	w.reset()
	w.windowIndex++
}

// rewind clears the buffers and returns to the first window, ready for the
// next batch.
func (w *windowState[B]) rewind() {
	w.reset()
	w.windowIndex = 0
}

func (w *windowState[B]) reset() {
	w.spkRec = w.spkRec[:0]
	w.memRec = w.memRec[:0]
	w.stepInWindow = 0
}
