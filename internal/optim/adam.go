package optim

import (
	"math"

	"github.com/pulse-ml/pulse/internal/tensor"
)

// AdamConfig configures the Adam optimizer.
type AdamConfig struct {
	LR    float32 // learning rate, default 0.001
	Beta1 float32 // first-moment decay, default 0.9
	Beta2 float32 // second-moment decay, default 0.999
	Eps   float32 // numerical stability term, default 1e-8
}

// Adam implements the Adam optimizer with bias-corrected moment estimates.
type Adam struct {
	params []*tensor.RawTensor
	config AdamConfig
	step   int
	m      map[*tensor.RawTensor][]float32 // first moment
	v      map[*tensor.RawTensor][]float32 // second moment
}

// NewAdam creates an Adam optimizer over the given parameter tensors.
func NewAdam(params []*tensor.RawTensor, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Beta1 == 0 {
		config.Beta1 = 0.9
	}
	if config.Beta2 == 0 {
		config.Beta2 = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		params: params,
		config: config,
		m:      make(map[*tensor.RawTensor][]float32),
		v:      make(map[*tensor.RawTensor][]float32),
	}
}

// Step applies one Adam update to every parameter present in the gradient map.
func (a *Adam) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	a.step++
	correction1 := 1 - float32(math.Pow(float64(a.config.Beta1), float64(a.step)))
	correction2 := 1 - float32(math.Pow(float64(a.config.Beta2), float64(a.step)))

	for _, p := range a.params {
		grad, ok := grads[p]
		if !ok {
			continue
		}
		data := p.AsFloat32()
		gradData := grad.AsFloat32()

		m := a.m[p]
		v := a.v[p]
		if m == nil {
			m = make([]float32, len(data))
			v = make([]float32, len(data))
			a.m[p] = m
			a.v[p] = v
		}

		for i := range data {
			g := gradData[i]
			m[i] = a.config.Beta1*m[i] + (1-a.config.Beta1)*g
			v[i] = a.config.Beta2*v[i] + (1-a.config.Beta2)*g*g
			mHat := m[i] / correction1
			vHat := v[i] / correction2
			data[i] -= a.config.LR * mHat / (float32(math.Sqrt(float64(vHat))) + a.config.Eps)
		}
	}
}

// ZeroGrad is a no-op: gradients are transient per backward pass.
func (a *Adam) ZeroGrad() {}

// GetLR returns the learning rate.
func (a *Adam) GetLR() float32 { return a.config.LR }
