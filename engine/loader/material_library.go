package loader

import (
	"context"
	"fmt"
	"math"
	"path"
	"sync"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
)

// textureResolver loads a texture by its path within the asset root.
type textureResolver func(ctx context.Context, p string) (*texture.Texture, error)

// MaterialLibrary holds the parsed materials of one .mtl file and creates render materials
// from them on demand. Texture maps are resolved relative to the library's directory.
type MaterialLibrary struct {
	mu sync.Mutex

	name    string
	dir     string
	infos   map[string]MaterialInfo
	order   []string
	created map[string]material.PhysicalMaterial
	resolve textureResolver
}

func newMaterialLibrary(name string, infos []MaterialInfo, resolve textureResolver) *MaterialLibrary {
	lib := &MaterialLibrary{
		name:    name,
		dir:     path.Dir(name),
		infos:   make(map[string]MaterialInfo, len(infos)),
		created: make(map[string]material.PhysicalMaterial, len(infos)),
		resolve: resolve,
	}
	for _, info := range infos {
		if _, dup := lib.infos[info.Name]; !dup {
			lib.order = append(lib.order, info.Name)
		}
		lib.infos[info.Name] = info
	}
	return lib
}

// Name returns the path the library was loaded from.
func (l *MaterialLibrary) Name() string {
	return l.name
}

// Names returns the material names in file order.
func (l *MaterialLibrary) Names() []string {
	return append([]string(nil), l.order...)
}

// Info returns the parsed statements of a material.
func (l *MaterialLibrary) Info(name string) (MaterialInfo, bool) {
	info, ok := l.infos[name]
	return info, ok
}

// Preload creates every material of the library, loading their texture maps.
//
// Parameters:
//   - ctx: cancels texture loading between materials
//
// Returns:
//   - error: the first texture or cancellation error
func (l *MaterialLibrary) Preload(ctx context.Context) error {
	for _, name := range l.order {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := l.create(ctx, name); err != nil {
			return err
		}
	}
	log.Debugf("[Loader] preloaded %d materials from %s", len(l.order), l.name)
	return nil
}

// Create returns the render material for name, building it on first use. Every call for
// the same name returns the same material.
//
// Parameters:
//   - ctx: cancels texture loading
//   - name: the material name
//
// Returns:
//   - material.PhysicalMaterial: the material
//   - bool: false if the library has no material with that name
//   - error: texture loading error
func (l *MaterialLibrary) Create(ctx context.Context, name string) (material.PhysicalMaterial, bool, error) {
	if _, ok := l.infos[name]; !ok {
		return nil, false, nil
	}
	m, err := l.create(ctx, name)
	return m, err == nil, err
}

func (l *MaterialLibrary) create(ctx context.Context, name string) (material.PhysicalMaterial, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := l.created[name]; ok {
		return m, nil
	}

	info := l.infos[name]
	opts := []material.PhysicalMaterialBuilderOption{
		material.WithName(info.Name),
		material.WithColor(info.Diffuse),
		material.WithEmissive(info.Emissive),
		material.WithRoughness(shininessToRoughness(info.Shininess)),
		material.WithMetallic(0),
	}
	if info.Opacity < 1 {
		opts = append(opts, material.WithOpacity(info.Opacity))
	}
	if info.DiffuseMap != "" {
		tex, err := l.loadMap(ctx, info.DiffuseMap, texture.ColorSpaceSRGB)
		if err != nil {
			return nil, fmt.Errorf("material %q: map_Kd: %w", name, err)
		}
		opts = append(opts, material.WithMap(tex))
	}
	if info.EmissiveMap != "" {
		tex, err := l.loadMap(ctx, info.EmissiveMap, texture.ColorSpaceSRGB)
		if err != nil {
			return nil, fmt.Errorf("material %q: map_Ke: %w", name, err)
		}
		opts = append(opts, material.WithEmissiveMap(tex))
	}

	m := material.NewPhysicalMaterial(opts...)
	l.created[name] = m
	return m, nil
}

func (l *MaterialLibrary) loadMap(ctx context.Context, p string, cs texture.ColorSpace) (*texture.Texture, error) {
	if l.resolve == nil {
		return nil, fmt.Errorf("no texture loader for %s", p)
	}
	tex, err := l.resolve(ctx, path.Join(l.dir, p))
	if err != nil {
		return nil, err
	}
	tex.SetColorSpace(cs)
	return tex, nil
}

// shininessToRoughness maps a Phong specular exponent onto a physical roughness in [0, 1].
func shininessToRoughness(ns float32) float32 {
	if ns <= 0 {
		return 1
	}
	r := float32(math.Sqrt(2 / (float64(ns) + 2)))
	return min(max(r, 0), 1)
}
