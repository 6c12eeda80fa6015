// Copyright 2025 Pulse ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the GPU backend for tensor operations, built on
// go-webgpu's cross-platform WebGPU bindings.
//
// Example:
//
//	if webgpu.IsAvailable() {
//		gpu, err := webgpu.New()
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer gpu.Release()
//		backend := autodiff.New(gpu)
//	}
package webgpu

import (
	internalwebgpu "github.com/pulse-ml/pulse/internal/backend/webgpu"
	"github.com/pulse-ml/pulse/tensor"
)

// Backend computes tensor operations on the GPU via WebGPU.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend. Call Release when done to free GPU
// resources. Returns an error if no compatible GPU is available.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system. Useful for
// graceful fallback to the CPU backend.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
