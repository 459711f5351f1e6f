package webgpu

// WGSL compute shaders, one per device-backed operation. String constants
// keep them next to the dispatch code that binds them.

// workgroupSize is the number of threads per 1D workgroup; tileSize is the
// edge of the 2D workgroups used by the matrix kernels. reduceWidth mirrors
// workgroupSize inside the reduction shaders.
const (
	workgroupSize = 256
	tileSize      = 16
)

// binaryShaders map element-wise kernel names to their WGSL source.
var binaryShaders = map[string]string{
	"add": binaryShader("+"),
	"sub": binaryShader("-"),
	"mul": binaryShader("*"),
	"div": binaryShader("/"),
}

// binaryShader instantiates the shared element-wise binary template: one
// thread per output element on a 1D grid.
func binaryShader(op string) string {
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
        result[idx] = a[idx] ` + op + ` b[idx];
    }
}
`
}

// unaryShaders map unary kernel names to their WGSL source.
var unaryShaders = map[string]string{
	"neg":  unaryShader("-input[idx]"),
	"abs":  unaryShader("abs(input[idx])"),
	"sqrt": unaryShader("sqrt(input[idx])"),
	"exp":  unaryShader("exp(input[idx])"),
}

// unaryShader instantiates the shared element-wise unary template.
func unaryShader(expr string) string {
	return `
@group(0) @binding(0) var<storage, read> input: array<f32>;
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

// scaleShader multiplies every element by a uniform scalar.
const scaleShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    size: u32,
    value: f32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx < params.size) {
        result[idx] = input[idx] * params.value;
    }
}
`

// dotShader reduces element-wise products cooperatively: each workgroup
// tree-reduces its 256 products in shared memory and writes one partial sum;
// the host folds the partials.
const dotShader = `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> partials: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

var<workgroup> scratch: array<f32, 256>;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>,
        @builtin(local_invocation_id) local_id: vec3<u32>,
        @builtin(workgroup_id) group_id: vec3<u32>) {
    var value: f32 = 0.0;
    if (global_id.x < params.size) {
        value = a[global_id.x] * b[global_id.x];
    }
    scratch[local_id.x] = value;
    workgroupBarrier();

    var stride: u32 = 128u;
    while (stride > 0u) {
        if (local_id.x < stride) {
            scratch[local_id.x] = scratch[local_id.x] + scratch[local_id.x + stride];
        }
        workgroupBarrier();
        stride = stride / 2u;
    }

    if (local_id.x == 0u) {
        partials[group_id.x] = scratch[0];
    }
}
`

// normShader is the squared-sum sibling of dotShader; the host folds the
// partials and takes the square root.
const normShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> partials: array<f32>;

struct Params {
    size: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

var<workgroup> scratch: array<f32, 256>;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>,
        @builtin(local_invocation_id) local_id: vec3<u32>,
        @builtin(workgroup_id) group_id: vec3<u32>) {
    var value: f32 = 0.0;
    if (global_id.x < params.size) {
        let x = input[global_id.x];
        value = x * x;
    }
    scratch[local_id.x] = value;
    workgroupBarrier();

    var stride: u32 = 128u;
    while (stride > 0u) {
        if (local_id.x < stride) {
            scratch[local_id.x] = scratch[local_id.x] + scratch[local_id.x + stride];
        }
        workgroupBarrier();
        stride = stride / 2u;
    }

    if (local_id.x == 0u) {
        partials[group_id.x] = scratch[0];
    }
}
`

// matVecShader computes one output row per thread: out[row] = m[row,:]·v.
const matVecShader = `
@group(0) @binding(0) var<storage, read> m: array<f32>;
@group(0) @binding(1) var<storage, read> v: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    rows: u32,
    cols: u32,
}
@group(0) @binding(3) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let row = global_id.x;
    if (row >= params.rows) {
        return;
    }

    var sum: f32 = 0.0;
    for (var k: u32 = 0u; k < params.cols; k = k + 1u) {
        sum = sum + m[row * params.cols + k] * v[k];
    }
    result[row] = sum;
}
`

// matMulShader computes C = A·B with one thread per output element on a 2D
// grid. A is [M, K], B is [K, N], C is [M, N].
const matMulShader = `
@group(0) @binding(0) var<storage, read> a: array<f32>;
@group(0) @binding(1) var<storage, read> b: array<f32>;
@group(0) @binding(2) var<storage, read_write> result: array<f32>;

struct Params {
    M: u32,
    K: u32,
    N: u32,
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

// transposeShader writes one transposed element per thread on a 2D grid.
const transposeShader = `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> result: array<f32>;

struct Params {
    rows: u32,
    cols: u32,
}
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(16, 16)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let row = global_id.y;
    let col = global_id.x;

    if (row >= params.rows || col >= params.cols) {
        return;
    }

    result[col * params.rows + row] = input[row * params.cols + col];
}
`
