package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadedVersionTracking(t *testing.T) {
	p := NewBindGroupProvider("screen", WithUploadedVersion(2, 7))

	assert.Equal(t, "screen", p.Label())
	assert.Equal(t, uint64(7), p.UploadedVersion(2))
	assert.Zero(t, p.UploadedVersion(0), "never uploaded")

	p.SetUploadedVersion(0, 3)
	assert.Equal(t, uint64(3), p.UploadedVersion(0))
}

func TestReleaseForgetsResidency(t *testing.T) {
	p := NewBindGroupProvider("mesh")
	p.SetUploadedVersion(1, 4)
	p.SetIndexCount(36)

	p.Release()

	assert.Zero(t, p.UploadedVersion(1))
	assert.Zero(t, p.IndexCount())
	assert.Nil(t, p.VertexBuffer())
	assert.Nil(t, p.TextureView(1))
	assert.Nil(t, p.Buffer(0))
}

func TestBindGroupKeyTracksResources(t *testing.T) {
	p := NewBindGroupProvider("material")
	layout, view := new(int), new(int)

	assert.False(t, p.BindGroupCurrent([]any{layout, view}), "nothing built yet")

	p.SetBindGroup(nil, []any{layout, view})
	assert.True(t, p.BindGroupCurrent([]any{layout, view}))
	assert.False(t, p.BindGroupCurrent([]any{layout, new(int)}), "a replaced view needs a new bind group")

	p.Release()
	assert.False(t, p.BindGroupCurrent([]any{layout, view}))
	assert.Nil(t, p.BindGroup())
}
