package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBuffer sets a buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithUploadedVersion marks a binding as already resident at the given version.
//
// Parameters:
//   - binding: the binding index
//   - version: the version considered uploaded
//
// Returns:
//   - BindGroupProviderOption: a function that records the version for the specified binding
func WithUploadedVersion(binding int, version uint64) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.versions[binding] = version
	}
}
