package camera

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// settleEpsilon is the queued motion below which the controller stops moving.
const settleEpsilon = 1e-6

// cameraControllerImpl is the single implementation of CameraController.
// The camera sits on a sphere around the target described by radius, azimuth and elevation.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position mgl32.Vec3
	target   mgl32.Vec3

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	// Input scaling
	rotateSpeed float32
	zoomSpeed   float32
	panSpeed    float32

	enableDamping bool
	dampingFactor float32

	// Pending motion
	deltaAzimuth   float32
	deltaElevation float32
	scale          float32
	panOffset      mgl32.Vec3
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewOrbitController creates an orbit controller with damping enabled, orbiting the origin
// at a radius of 10.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		radius:    10.0,
		elevation: float32(math.Pi / 6),

		minRadius:    0.0,
		maxRadius:    float32(math.Inf(1)),
		minElevation: -float32(math.Pi/2 - 0.01),
		maxElevation: float32(math.Pi/2 - 0.01),

		rotateSpeed: 1.0,
		zoomSpeed:   1.0,
		panSpeed:    1.0,

		enableDamping: true,
		dampingFactor: 0.05,

		scale: 1,
	}

	for _, option := range options {
		option(cc)
	}

	cc.clamp()
	cc.updatePosition()
	return cc
}

// NewOrbitControllerAt creates an orbit controller whose sphere passes through position.
//
// Parameters:
//   - position: the initial camera position
//   - target: the orbit pivot
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitControllerAt(position, target mgl32.Vec3, options ...CameraControllerOption) CameraController {
	offset := position.Sub(target)
	radius := offset.Len()
	var azimuth, elevation float32
	if radius > 0 {
		azimuth = float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
		elevation = float32(math.Asin(float64(mgl32.Clamp(offset.Y()/radius, -1, 1))))
	}
	opts := append([]CameraControllerOption{
		WithTarget(target),
		WithRadius(radius),
		WithAzimuth(azimuth),
		WithElevation(elevation),
	}, options...)
	return NewOrbitController(opts...)
}

// --- internal helpers ---

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// clamp keeps radius and elevation within bounds.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) clamp() {
	cc.radius = mgl32.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = mgl32.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
}

// localAxes returns the camera's right and up vectors consistent with the LookAt matrix.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up mgl32.Vec3) {
	back := cc.position.Sub(cc.target)
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()
	right = mgl32.Vec3{0, 1, 0}.Cross(back)
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	up = back.Cross(right)
	return
}

// --- CameraController methods ---

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	// 1000 pixels of drag is one full turn.
	const radiansPerPixel = 2 * math.Pi / 1000
	cc.deltaAzimuth -= dx * radiansPerPixel * cc.rotateSpeed
	cc.deltaElevation += dy * radiansPerPixel * cc.rotateSpeed
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	step := float32(math.Pow(0.95, float64(cc.zoomSpeed)))
	if delta > 0 {
		cc.scale *= float32(math.Pow(float64(step), float64(delta)))
	} else if delta < 0 {
		cc.scale /= float32(math.Pow(float64(step), float64(-delta)))
	}
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, up := cc.localAxes()
	// Pixels map to world units at the target distance for a ~45 degree field of view.
	perPixel := cc.radius / 1000 * cc.panSpeed
	cc.panOffset = cc.panOffset.Add(right.Mul(-dx * perPixel)).Add(up.Mul(dy * perPixel))
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	before, beforeTarget := cc.position, cc.target

	f := float32(1)
	if cc.enableDamping {
		f = cc.dampingFactor
	}

	cc.azimuth += cc.deltaAzimuth * f
	cc.elevation += cc.deltaElevation * f
	cc.radius *= cc.scale
	cc.target = cc.target.Add(cc.panOffset.Mul(f))
	cc.clamp()
	cc.updatePosition()

	if cc.enableDamping {
		cc.deltaAzimuth *= 1 - f
		cc.deltaElevation *= 1 - f
		cc.panOffset = cc.panOffset.Mul(1 - f)
	} else {
		cc.deltaAzimuth, cc.deltaElevation = 0, 0
		cc.panOffset = mgl32.Vec3{}
	}
	if abs32(cc.deltaAzimuth) < settleEpsilon && abs32(cc.deltaElevation) < settleEpsilon {
		cc.deltaAzimuth, cc.deltaElevation = 0, 0
	}
	if cc.panOffset.Len() < settleEpsilon {
		cc.panOffset = mgl32.Vec3{}
	}
	cc.scale = 1

	return !before.ApproxEqual(cc.position) || !beforeTarget.ApproxEqual(cc.target)
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enableDamping {
		return 1
	}
	return cc.dampingFactor
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
