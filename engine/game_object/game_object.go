package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-beeb/engine/model"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

var nextID atomic.Uint64

type gameObject struct {
	mu sync.RWMutex

	id        uint64
	name      string
	enabled   atomic.Bool
	position  mgl32.Vec3
	scale     mgl32.Vec3
	mdl       model.Model
	materials []material.Material

	parent   *gameObject
	children []*gameObject
}

// GameObject defines the interface for a node of the scene graph. A GameObject has a name,
// a local transform, optional geometry with one material per slot, and any number of
// children. Position and scale are local to the parent.
type GameObject interface {
	// ID returns the object's unique identifier, assigned at construction.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name as authored in the source asset.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Enabled returns whether this object and its subtree are rendered.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Position returns the local position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Scale returns the local scale.
	//
	// Returns:
	//   - mgl32.Vec3: the scale factors
	Scale() mgl32.Vec3

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - s: the new scale factors
	SetScale(s mgl32.Vec3)

	// LocalMatrix returns the transform from this object's space to its parent's.
	//
	// Returns:
	//   - mgl32.Mat4: the local matrix
	LocalMatrix() mgl32.Mat4

	// WorldMatrix returns the transform from this object's space to world space.
	//
	// Returns:
	//   - mgl32.Mat4: the world matrix
	WorldMatrix() mgl32.Mat4

	// Model returns the geometry of this object, or nil for pure group nodes.
	//
	// Returns:
	//   - model.Model: the geometry or nil
	Model() model.Model

	// SetModel assigns geometry to this object.
	//
	// Parameters:
	//   - m: the geometry
	SetModel(m model.Model)

	// Materials returns a copy of the material slots.
	//
	// Returns:
	//   - []material.Material: the slots, indexed by model.Group.MaterialIndex
	Materials() []material.Material

	// Material returns the material in slot i, or nil when the slot does not exist.
	//
	// Parameters:
	//   - i: the slot index
	//
	// Returns:
	//   - material.Material: the material or nil
	Material(i int) material.Material

	// SetMaterial installs m in slot i, growing the slot list if needed.
	//
	// Parameters:
	//   - i: the slot index
	//   - m: the material
	SetMaterial(i int, m material.Material)

	// SetMaterials replaces every slot. A single-element list makes the object draw every
	// group with that material.
	//
	// Parameters:
	//   - mats: the new slots
	SetMaterials(mats ...material.Material)

	// MaterialCount returns the number of material slots.
	//
	// Returns:
	//   - int: the slot count
	MaterialCount() int

	// Parent returns the parent object, or nil for a root.
	//
	// Returns:
	//   - GameObject: the parent or nil
	Parent() GameObject

	// Children returns a copy of the child list.
	//
	// Returns:
	//   - []GameObject: the children
	Children() []GameObject

	// Add appends children, detaching each from its previous parent.
	//
	// Parameters:
	//   - children: the objects to attach
	Add(children ...GameObject)

	// Traverse calls fn for this object and every descendant in pre-order. Each object
	// is visited exactly once.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(GameObject))

	// ObjectByName returns the first object in pre-order whose name equals name.
	//
	// Parameters:
	//   - name: the exact name to look for
	//
	// Returns:
	//   - GameObject: the object
	//   - bool: true if found
	ObjectByName(name string) (GameObject, bool)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options. Objects start
// enabled, at the origin, with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		id:    nextID.Add(1),
		scale: mgl32.Vec3{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Position() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

func (g *gameObject) SetPosition(p mgl32.Vec3) {
	g.mu.Lock()
	g.position = p
	g.mu.Unlock()
}

func (g *gameObject) Scale() mgl32.Vec3 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.scale
}

func (g *gameObject) SetScale(s mgl32.Vec3) {
	g.mu.Lock()
	g.scale = s
	g.mu.Unlock()
}

func (g *gameObject) LocalMatrix() mgl32.Mat4 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return mgl32.Translate3D(g.position[0], g.position[1], g.position[2]).
		Mul4(mgl32.Scale3D(g.scale[0], g.scale[1], g.scale[2]))
}

func (g *gameObject) WorldMatrix() mgl32.Mat4 {
	m := g.LocalMatrix()
	for p := g.parentImpl(); p != nil; p = p.parentImpl() {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

func (g *gameObject) Model() model.Model {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.mdl
}

func (g *gameObject) SetModel(m model.Model) {
	g.mu.Lock()
	g.mdl = m
	g.mu.Unlock()
}

func (g *gameObject) Materials() []material.Material {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]material.Material, len(g.materials))
	copy(out, g.materials)
	return out
}

func (g *gameObject) Material(i int) material.Material {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i < 0 || i >= len(g.materials) {
		return nil
	}
	return g.materials[i]
}

func (g *gameObject) SetMaterial(i int, m material.Material) {
	if i < 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for len(g.materials) <= i {
		g.materials = append(g.materials, nil)
	}
	g.materials[i] = m
}

func (g *gameObject) SetMaterials(mats ...material.Material) {
	g.mu.Lock()
	g.materials = append([]material.Material(nil), mats...)
	g.mu.Unlock()
}

func (g *gameObject) MaterialCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.materials)
}

func (g *gameObject) Parent() GameObject {
	if p := g.parentImpl(); p != nil {
		return p
	}
	return nil
}

func (g *gameObject) parentImpl() *gameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.parent
}

func (g *gameObject) Children() []GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]GameObject, len(g.children))
	for i, c := range g.children {
		out[i] = c
	}
	return out
}

func (g *gameObject) Add(children ...GameObject) {
	for _, child := range children {
		c, ok := child.(*gameObject)
		if !ok || c == g {
			continue
		}
		if old := c.parentImpl(); old != nil {
			old.remove(c)
		}
		c.mu.Lock()
		c.parent = g
		c.mu.Unlock()

		g.mu.Lock()
		g.children = append(g.children, c)
		g.mu.Unlock()
	}
}

func (g *gameObject) remove(c *gameObject) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, x := range g.children {
		if x == c {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return
		}
	}
}

func (g *gameObject) Traverse(fn func(GameObject)) {
	fn(g)
	for _, c := range g.Children() {
		c.Traverse(fn)
	}
}

func (g *gameObject) ObjectByName(name string) (GameObject, bool) {
	if g.name == name {
		return g, true
	}
	for _, c := range g.Children() {
		if found, ok := c.ObjectByName(name); ok {
			return found, true
		}
	}
	return nil, false
}
