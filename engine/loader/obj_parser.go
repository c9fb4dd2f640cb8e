package loader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/model"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/udhos/gwob"
)

// DefaultMaterialName names the material given to faces whose usemtl is missing or unknown.
const DefaultMaterialName = "default"

// gwobOptions routes gwob's diagnostics for one asset to the debug log.
func gwobOptions(name string) *gwob.ObjParserOptions {
	return &gwob.ObjParserOptions{
		Logger: func(msg string) { log.Debugf("[Loader] %s: %s", name, msg) },
	}
}

// parseOBJ reads a Wavefront .obj stream into a node tree: a root named after the file with
// one child per object. gwob splits the faces into groups at every object and usemtl; the
// groups of one object become that child's material groups and slots, in order. mtllib is
// ignored; materials come from lib, and names lib does not know fall back to a default
// physical material.
func parseOBJ(ctx context.Context, r io.Reader, name string, lib *MaterialLibrary) (game_object.GameObject, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obj, err := gwob.NewObjFromBuf(name, objectsAsGroups(buf), gwobOptions(name))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buildOBJ(ctx, obj, name, lib)
}

// objectsAsGroups rewrites `o` statements as `g` so that gwob names its groups after objects.
func objectsAsGroups(buf []byte) []byte {
	lines := bytes.Split(buf, []byte("\n"))
	for i, line := range lines {
		t := bytes.TrimLeft(line, " \t")
		if len(t) > 1 && t[0] == 'o' && (t[1] == ' ' || t[1] == '\t') {
			lines[i] = append([]byte("g "), bytes.TrimSpace(t[1:])...)
		}
	}
	return bytes.Join(lines, []byte("\n"))
}

// objObject gathers the consecutive gwob groups that share a name.
type objObject struct {
	name   string
	groups []*gwob.Group
}

func splitObjects(groups []*gwob.Group) []*objObject {
	var out []*objObject
	for _, g := range groups {
		if g.IndexCount == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].name == g.Name {
			out[n-1].groups = append(out[n-1].groups, g)
			continue
		}
		out = append(out, &objObject{name: g.Name, groups: []*gwob.Group{g}})
	}
	return out
}

func buildOBJ(ctx context.Context, o *gwob.Obj, name string, lib *MaterialLibrary) (game_object.GameObject, error) {
	root := game_object.NewGameObject(game_object.WithName(path.Base(name)))
	fallback := material.NewPhysicalMaterial(material.WithName(DefaultMaterialName))
	missing := make(map[string]bool)

	resolve := func(usemtl string) (material.Material, error) {
		if usemtl != "" && lib != nil {
			m, ok, err := lib.Create(ctx, usemtl)
			if err != nil {
				return nil, err
			}
			if ok {
				return m, nil
			}
		}
		if usemtl != "" && !missing[usemtl] {
			missing[usemtl] = true
			log.Warnf("[Loader] %s: unknown material %q, using default", name, usemtl)
		}
		return fallback, nil
	}

	coords := objCoords{o: o}
	if err := coords.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	for _, obj := range splitObjects(o.Groups) {
		var (
			vertices []model.GPUVertex
			indices  []uint32
			groups   []model.Group
			mats     []material.Material
		)
		local := make(map[int]uint32)
		for _, g := range obj.groups {
			if g.IndexBegin < 0 || g.IndexBegin+g.IndexCount > len(o.Indices) {
				return nil, fmt.Errorf("%s: group %q: indices [%d,%d) out of range", name, g.Name, g.IndexBegin, g.IndexBegin+g.IndexCount)
			}
			m, err := resolve(g.Usemtl)
			if err != nil {
				return nil, err
			}
			start := len(indices)
			for _, gi := range o.Indices[g.IndexBegin : g.IndexBegin+g.IndexCount] {
				if gi < 0 || gi >= coords.count() {
					return nil, fmt.Errorf("%s: group %q: vertex %d out of range", name, g.Name, gi)
				}
				li, ok := local[gi]
				if !ok {
					li = uint32(len(vertices))
					vertices = append(vertices, coords.vertex(gi))
					local[gi] = li
				}
				indices = append(indices, li)
			}
			groups = append(groups, model.Group{Start: start, Count: len(indices) - start, MaterialIndex: len(mats)})
			mats = append(mats, m)
		}
		if !o.NormCoordFound {
			smoothNormals(vertices, indices)
		}

		mdl := model.NewModel(
			model.WithName(obj.name),
			model.WithVertices(vertices),
			model.WithIndices(indices),
			model.WithGroups(groups),
		)
		root.Add(game_object.NewGameObject(
			game_object.WithName(obj.name),
			game_object.WithModel(mdl),
			game_object.WithMaterials(mats...),
		))
	}
	return root, nil
}

// objCoords reads vertices out of gwob's interleaved coordinate array. Stride and offsets
// are in bytes of float32 data.
type objCoords struct {
	o *gwob.Obj
}

func (c objCoords) validate() error {
	if len(c.o.Indices) == 0 {
		return nil
	}
	if c.o.StrideSize < 12 || c.o.StrideSize%4 != 0 {
		return fmt.Errorf("unexpected vertex stride %d", c.o.StrideSize)
	}
	return nil
}

func (c objCoords) count() int {
	if c.o.StrideSize == 0 {
		return 0
	}
	return len(c.o.Coord) / (c.o.StrideSize / 4)
}

func (c objCoords) vertex(i int) model.GPUVertex {
	base := i * c.o.StrideSize / 4
	at := func(off, n int) []float32 {
		s := base + off/4
		return c.o.Coord[s : s+n]
	}
	var v model.GPUVertex
	copy(v.Position[:], at(c.o.StrideOffsetPosition, 3))
	if c.o.TextCoordFound {
		copy(v.TexCoord[:], at(c.o.StrideOffsetTexture, 2))
	}
	if c.o.NormCoordFound {
		copy(v.Normal[:], at(c.o.StrideOffsetNormal, 3))
	}
	return v
}

// smoothNormals gives every vertex the area-weighted average of its triangles' normals.
func smoothNormals(vertices []model.GPUVertex, indices []uint32) {
	acc := make([]mgl32.Vec3, len(vertices))
	for t := 0; t+2 < len(indices); t += 3 {
		ia, ib, ic := indices[t], indices[t+1], indices[t+2]
		a := mgl32.Vec3(vertices[ia].Position)
		b := mgl32.Vec3(vertices[ib].Position)
		c := mgl32.Vec3(vertices[ic].Position)
		n := b.Sub(a).Cross(c.Sub(a))
		acc[ia] = acc[ia].Add(n)
		acc[ib] = acc[ib].Add(n)
		acc[ic] = acc[ic].Add(n)
	}
	for i, n := range acc {
		if n.Len() > 0 {
			vertices[i].Normal = n.Normalize()
		}
	}
}
