package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines orbit controls around a target point. Input methods queue
// motion; Update applies it, easing rotation and panning out over the following frames
// when damping is enabled.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at/pivot point, keeping the current orbit angles and radius.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// Rotate queues an orbit by a pointer drag.
	//
	// Parameters:
	//   - dx, dy: pointer movement in pixels; positive dx orbits left, positive dy orbits up
	Rotate(dx, dy float32)

	// Zoom queues a change of orbit radius.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: wheel steps
	Zoom(delta float32)

	// Pan queues a translation of both position and target in the view plane.
	//
	// Parameters:
	//   - dx, dy: pointer movement in pixels
	Pan(dx, dy float32)

	// Update applies queued motion. Call once per frame.
	//
	// Returns:
	//   - bool: true if the position or target moved
	Update() bool

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// DampingFactor returns the fraction of queued rotation and panning applied per Update,
	// or 1 when damping is disabled.
	//
	// Returns:
	//   - float32: the damping factor
	DampingFactor() float32
}
