// Package bindertest builds a minimal chassis model that satisfies binder.Bind, for tests of
// the binder and of the packages driven by its bindings.
package bindertest

import (
	"fmt"
	"image"

	"github.com/Carmen-Shannon/oxy-beeb/engine/compositor"
	"github.com/Carmen-Shannon/oxy-beeb/engine/game_object"
	"github.com/Carmen-Shannon/oxy-beeb/engine/model"
	"github.com/Carmen-Shannon/oxy-beeb/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-beeb/engine/texture"
)

// Snippets are shader fragments that splice cleanly into the physical template.
var Snippets = compositor.Snippets{
	Prolog:   "uniform sampler2D maskTexture;",
	Emissive: "totalEmissiveRadiance = emissive * texture2D(emissiveMap, vEmissiveMapUv).rgb;",
	Epilog:   "totalEmissiveRadiance *= texture2D(maskTexture, vUv).a;",
}

// Led is the shared library material the LED nodes carry in slot 1.
var Led = material.NewPhysicalMaterial(material.WithName("led"), material.WithColor(material.Hex(0x330000)))

func quad(name string) model.Model {
	return model.NewModel(
		model.WithName(name),
		model.WithVertices([]model.GPUVertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{1, 1, 0}},
		}),
		model.WithIndices([]uint32{0, 1, 2}),
	)
}

// Node creates a mesh node with the given materials.
func Node(name string, mats ...material.Material) game_object.GameObject {
	if len(mats) == 0 {
		mats = []material.Material{material.NewPhysicalMaterial(material.WithName("body"))}
	}
	return game_object.NewGameObject(
		game_object.WithName(name),
		game_object.WithModel(quad(name)),
		game_object.WithMaterials(mats...),
	)
}

// KeyName returns the node name of the key cap with the given mesh index. Index 0 has no
// numeric suffix, as in the exported model.
func KeyName(meshIndex int) string {
	if meshIndex == 0 {
		return "JOINED_KEYBOARD_Cube.001"
	}
	return fmt.Sprintf("JOINED_KEYBOARD.%03d_Cube.%03d", meshIndex, meshIndex+100)
}

// Chassis builds a model root holding the required fixed nodes, the three special keys and
// key caps for the given mesh indices.
func Chassis(meshIndices ...int) game_object.GameObject {
	body := material.NewPhysicalMaterial(material.WithName("body"))
	keys := game_object.NewGameObject(game_object.WithName("KEYS"))
	for _, idx := range append([]int{27, 60, 71}, meshIndices...) {
		keys.Add(Node(KeyName(idx)))
	}
	return game_object.NewGameObject(
		game_object.WithName("beeb.obj"),
		game_object.WithChildren(
			keys,
			Node("SCREEN_SurfPatch.002"),
			Node("JOINED_KEYBOARD.026_Cube.039"),
			Node("SCREEN_PLANE_Plane.003"),
			Node("LED_INLAY.001_Cube.085", body, Led),
			Node("LED_INLAY.002_Cube.086", body, Led),
			Node("LED_INLAY_Cube.019", body, Led),
		),
	)
}

// Textures returns an environment cube, a framebuffer texture and a mask texture.
func Textures() (*texture.CubeTexture, *texture.Texture, *texture.Texture) {
	var faces [6]*image.RGBA
	for i := range faces {
		faces[i] = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	env, err := texture.NewCubeTexture(faces)
	if err != nil {
		panic(err)
	}
	fb := texture.New("framebuffer", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	mask := texture.New("mask", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	return env, fb, mask
}
