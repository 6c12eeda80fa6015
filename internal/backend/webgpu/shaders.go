package webgpu

// WGSL compute shaders for the GPU-accelerated operations. String constants
// keep the shaders next to the dispatch code.

// workgroupSize is the number of threads per workgroup for 1D dispatches.
const workgroupSize = 256

// binaryShader generates an element-wise binary shader: result = a <op> b.
func binaryShader(expr string) string {
	return `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = ` + expr + `;
    }
}
`
}

// unaryShader generates an element-wise unary shader: result = f(a).
func unaryShader(expr string) string {
	return `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = ` + expr + `;
    }
}
`
}

var (
	addShader = binaryShader(`a[idx] + b[idx]`)
	subShader = binaryShader(`a[idx] - b[idx]`)
	mulShader = binaryShader(`a[idx] * b[idx]`)
	divShader = binaryShader(`a[idx] / b[idx]`)

	expShader = unaryShader(`exp(a[idx])`)
	logShader = unaryShader(`log(a[idx])`)
	absShader = unaryShader(`abs(a[idx])`)

	// The spike function: 1 where the input is positive, else 0.
	heavisideShader = unaryShader(`select(0.0, 1.0, a[idx] > 0.0)`)
)

// matmulShader performs matrix multiplication C = A @ B.
// A is [M, K], B is [K, N], C is [M, N].
const matmulShader = `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    M: u32,  // rows of A and C
    K: u32,  // cols of A, rows of B
    N: u32,  // cols of B and C
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let row = global_id.y;
    let col = global_id.x;

    if (row >= params.M || col >= params.N) {
        return;
    }

    var sum: f32 = 0.0;
    for (var k: u32 = 0u; k < params.K; k = k + 1u) {
        sum = sum + a[row * params.K + k] * b[k * params.N + col];
    }
    result[row * params.N + col] = sum;
}
`
