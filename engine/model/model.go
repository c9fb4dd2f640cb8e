package model

import (
	"math"

	"github.com/google/uuid"
)

// model is the implementation of the Model interface.
type model struct {
	id       string
	name     string
	vertices []GPUVertex
	indices  []uint32
	groups   []Group
	bounds   Bounds

	vertexData, indexData []byte
}

// Model defines the interface for the triangle geometry of one scene object.
// A Model holds indexed vertices and the material groups that partition its indices.
// It is produced by the loader and is immutable once built.
type Model interface {
	// ID retrieves the unique identifier used by the renderer to track GPU buffers.
	//
	// Returns:
	//   - string: the model ID
	ID() string

	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Vertices retrieves the vertex list.
	//
	// Returns:
	//   - []GPUVertex: the vertices
	Vertices() []GPUVertex

	// Indices retrieves the triangle index list.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// Groups retrieves the material groups. A model without explicit groups has one group
	// spanning all indices with material index 0.
	//
	// Returns:
	//   - []Group: the groups
	Groups() []Group

	// Bounds retrieves the axis-aligned bounds of the vertices.
	//
	// Returns:
	//   - Bounds: the bounding box
	Bounds() Bounds

	// BoundingRadius returns the maximum vertex distance from the origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// VertexData returns the vertices serialized for GPU upload.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the indices serialized for GPU upload.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// IndexCount returns the number of indices in the model's mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied. Bounds and the
// serialized buffers are derived from the final vertex and index lists.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{id: uuid.NewString()}
	for _, opt := range options {
		opt(m)
	}
	if len(m.groups) == 0 && len(m.indices) > 0 {
		m.groups = []Group{{Start: 0, Count: len(m.indices), MaterialIndex: 0}}
	}
	m.bounds = computeBounds(m.vertices)
	m.vertexData = MarshalVertices(m.vertices)
	m.indexData = MarshalIndices(m.indices)
	return m
}

func (m *model) ID() string {
	return m.id
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) Groups() []Group {
	return m.groups
}

func (m *model) Bounds() Bounds {
	return m.bounds
}

func (m *model) BoundingRadius() float32 {
	var r float32
	for _, v := range m.vertices {
		p := v.Position
		r = max(r, float32(math.Sqrt(float64(p[0]*p[0]+p[1]*p[1]+p[2]*p[2]))))
	}
	return r
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func computeBounds(vertices []GPUVertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = min(b.Min[i], v.Position[i])
			b.Max[i] = max(b.Max[i], v.Position[i])
		}
	}
	return b
}
