package optim

import "github.com/pulse-ml/pulse/internal/tensor"

// SGDConfig configures stochastic gradient descent.
type SGDConfig struct {
	LR       float32 // learning rate, default 0.01
	Momentum float32 // momentum coefficient, 0 disables
}

// SGD implements stochastic gradient descent with optional momentum:
//
//	v = momentum*v + grad
//	p = p - lr*v
type SGD struct {
	params   []*tensor.RawTensor
	config   SGDConfig
	velocity map[*tensor.RawTensor][]float32
}

// NewSGD creates an SGD optimizer over the given parameter tensors.
func NewSGD(params []*tensor.RawTensor, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:   params,
		config:   config,
		velocity: make(map[*tensor.RawTensor][]float32),
	}
}

// Step applies one SGD update to every parameter present in the gradient map.
func (s *SGD) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	for _, p := range s.params {
		grad, ok := grads[p]
		if !ok {
			continue
		}
		data := p.AsFloat32()
		gradData := grad.AsFloat32()

		if s.config.Momentum == 0 {
			for i := range data {
				data[i] -= s.config.LR * gradData[i]
			}
			continue
		}

		v := s.velocity[p]
		if v == nil {
			v = make([]float32, len(data))
			s.velocity[p] = v
		}
		for i := range data {
			v[i] = s.config.Momentum*v[i] + gradData[i]
			data[i] -= s.config.LR * v[i]
		}
	}
}

// ZeroGrad is a no-op: gradients are transient per backward pass.
func (s *SGD) ZeroGrad() {}

// GetLR returns the learning rate.
func (s *SGD) GetLR() float32 { return s.config.LR }
