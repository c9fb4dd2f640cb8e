package texture

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// CubeFace indexes the six faces of a cube texture in the conventional +X, -X, +Y, -Y, +Z, -Z order.
type CubeFace int

const (
	CubeFacePosX CubeFace = iota
	CubeFaceNegX
	CubeFacePosY
	CubeFaceNegY
	CubeFacePosZ
	CubeFaceNegZ
)

// CubeTexture is a six-faced environment texture.
type CubeTexture struct {
	id      string
	size    int
	faces   [6]*image.RGBA
	version atomic.Uint64
}

// NewCubeTexture wraps six square faces of equal size.
//
// Parameters:
//   - faces: the face images in CubeFace order
//
// Returns:
//   - *CubeTexture: the cube texture
//   - error: error if a face is missing or the faces differ in size
func NewCubeTexture(faces [6]*image.RGBA) (*CubeTexture, error) {
	if faces[0] == nil {
		return nil, fmt.Errorf("cube texture: face 0 is nil")
	}
	size := faces[0].Rect.Dx()
	for i, f := range faces {
		if f == nil {
			return nil, fmt.Errorf("cube texture: face %d is nil", i)
		}
		if f.Rect.Dx() != size || f.Rect.Dy() != size {
			return nil, fmt.Errorf("cube texture: face %d is %dx%d, want %dx%d", i, f.Rect.Dx(), f.Rect.Dy(), size, size)
		}
	}
	c := &CubeTexture{
		id:    uuid.NewString(),
		size:  size,
		faces: faces,
	}
	c.version.Store(1)
	return c, nil
}

func (c *CubeTexture) ID() string {
	return c.id
}

// Size returns the edge length of each face in pixels.
func (c *CubeTexture) Size() int {
	return c.size
}

// Face returns the pixels of one face.
func (c *CubeTexture) Face(f CubeFace) *image.RGBA {
	return c.faces[f]
}

func (c *CubeTexture) Version() uint64 {
	return c.version.Load()
}

// Average returns the mean color over all faces, sampling every step-th texel.
func (c *CubeTexture) Average() color.RGBA {
	step := max(c.size/64, 1)
	var r, g, b, n uint64
	for _, f := range c.faces {
		for y := 0; y < c.size; y += step {
			for x := 0; x < c.size; x += step {
				i := f.PixOffset(x, y)
				r += uint64(f.Pix[i])
				g += uint64(f.Pix[i+1])
				b += uint64(f.Pix[i+2])
				n++
			}
		}
	}
	if n == 0 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 0xff}
}

// faceDirection returns the world direction through the face texel at normalized
// coordinates (u, v) in [-1, 1], with v increasing downwards.
func faceDirection(face CubeFace, u, v float32) mgl32.Vec3 {
	var d mgl32.Vec3
	switch face {
	case CubeFacePosX:
		d = mgl32.Vec3{1, -v, -u}
	case CubeFaceNegX:
		d = mgl32.Vec3{-1, -v, u}
	case CubeFacePosY:
		d = mgl32.Vec3{u, 1, v}
	case CubeFaceNegY:
		d = mgl32.Vec3{u, -1, -v}
	case CubeFacePosZ:
		d = mgl32.Vec3{u, -v, 1}
	default:
		d = mgl32.Vec3{-u, -v, -1}
	}
	return d.Normalize()
}

// EquirectToCube projects an equirectangular panorama onto the six faces of a cube map.
// Faces are rendered concurrently on a worker pool shared by every call. A size <= 0 uses the panorama's
// height, which keeps roughly one texel per source texel at the horizon.
//
// Parameters:
//   - src: the equirectangular panorama (2:1 longitude/latitude layout)
//   - size: edge length of each face in pixels, or <= 0 for the source height
//
// Returns:
//   - *CubeTexture: the projected environment
//   - error: error if the source has no pixels
func EquirectToCube(src *Texture, size int) (*CubeTexture, error) {
	if src == nil || src.Image() == nil || src.Image().Rect.Empty() {
		return nil, fmt.Errorf("equirect to cube: source texture has no pixels")
	}
	img := src.Image()
	if size <= 0 {
		size = img.Rect.Dy()
	}

	var faces [6]*image.RGBA
	pool := facePool()

	// The pool's Wait returns once the queue drains, before the last faces finish.
	var wg sync.WaitGroup
	for f := range faces {
		faces[f] = image.NewRGBA(image.Rect(0, 0, size, size))
		wg.Add(1)
		face := CubeFace(f)
		dst := faces[f]
		pool.SubmitTask(worker.Task{
			ID: f,
			Do: func() (any, error) {
				defer wg.Done()
				projectFace(dst, img, face)
				return nil, nil
			},
		})
	}
	wg.Wait()

	return NewCubeTexture(faces)
}

// facePool is shared by every projection so repeated loads reuse the same workers.
var facePool = sync.OnceValue(func() worker.DynamicWorkerPool {
	return worker.NewDynamicWorkerPool(6, 6, 1*time.Second)
})

// projectFace fills one cube face by nearest sampling of the panorama.
func projectFace(dst, src *image.RGBA, face CubeFace) {
	size := dst.Rect.Dx()
	sw, sh := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < size; y++ {
		v := 2*(float32(y)+0.5)/float32(size) - 1
		for x := 0; x < size; x++ {
			u := 2*(float32(x)+0.5)/float32(size) - 1
			d := faceDirection(face, u, v)

			lon := math.Atan2(float64(d.Z()), float64(d.X()))
			lat := math.Asin(math.Max(-1, math.Min(1, float64(d.Y()))))
			s := 0.5 + lon/(2*math.Pi)
			t := 0.5 - lat/math.Pi

			sx := min(int(s*float64(sw)), sw-1)
			sy := min(int(t*float64(sh)), sh-1)
			sx = max(sx, 0)
			sy = max(sy, 0)

			si := src.PixOffset(src.Rect.Min.X+sx, src.Rect.Min.Y+sy)
			di := dst.PixOffset(x, y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
}
