package scene

import (
	"image/color"
	"sync"

	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/light"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
)

// Background is what the renderer draws behind the scene: a solid color until an
// environment cube is assigned.
type Background struct {
	Color color.RGBA
	Cube  *texture.CubeTexture
}

// ClearColor returns the color used to clear the frame. For a cube background this is
// the cube's average color.
func (b Background) ClearColor() color.RGBA {
	if b.Cube != nil {
		return b.Cube.Average()
	}
	return b.Color
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu         sync.RWMutex
	name       string
	root       game_object.GameObject
	background Background
	lights     []light.Light
}

// Scene is the root of everything rendered in a frame: a graph of GameObjects, the lights
// illuminating them and a background. Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Root returns the root object. Objects added to the scene become its children.
	//
	// Returns:
	//   - game_object.GameObject: the root
	Root() game_object.GameObject

	// Add attaches objects to the root.
	//
	// Parameters:
	//   - objs: the objects to add
	Add(objs ...game_object.GameObject)

	// AddLight registers lights with the scene.
	//
	// Parameters:
	//   - lights: the lights to add
	AddLight(lights ...light.Light)

	// Lights returns a copy of the registered lights.
	//
	// Returns:
	//   - []light.Light: the lights
	Lights() []light.Light

	// Background returns the current background.
	//
	// Returns:
	//   - Background: the background
	Background() Background

	// SetBackgroundColor replaces the background with a solid color.
	//
	// Parameters:
	//   - c: the color
	SetBackgroundColor(c color.RGBA)

	// SetBackgroundCube replaces the background with an environment cube. This also
	// satisfies the loader's backdrop target so the environment can be shown as soon as
	// it is decoded.
	//
	// Parameters:
	//   - cube: the environment
	SetBackgroundCube(cube *texture.CubeTexture)

	// Traverse visits every object of the graph in pre-order, starting at the root.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(game_object.GameObject))

	// ObjectByName finds the first object with the given name.
	//
	// Parameters:
	//   - name: the exact name
	//
	// Returns:
	//   - game_object.GameObject: the object
	//   - bool: true if found
	ObjectByName(name string) (game_object.GameObject, bool)
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the given options applied. The default background is
// black and the scene has no lights.
//
// Parameters:
//   - options: variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the new scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		root:       game_object.NewGameObject(game_object.WithName("scene")),
		background: Background{Color: color.RGBA{A: 0xff}},
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Root() game_object.GameObject {
	return s.root
}

func (s *scene) Add(objs ...game_object.GameObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root.Add(objs...)
}

func (s *scene) AddLight(lights ...light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, lights...)
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) Background() Background {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *scene) SetBackgroundColor(c color.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = Background{Color: c}
}

func (s *scene) SetBackgroundCube(cube *texture.CubeTexture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background.Cube = cube
}

func (s *scene) Traverse(fn func(game_object.GameObject)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.root.Traverse(fn)
}

func (s *scene) ObjectByName(name string) (game_object.GameObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.ObjectByName(name)
}
