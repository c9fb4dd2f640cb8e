package model

// Group is a contiguous run of indices drawn with one material slot of the owning object.
type Group struct {
	// Start is the offset of the first index of the group.
	Start int

	// Count is the number of indices in the group, always a multiple of three.
	Count int

	// MaterialIndex selects the material slot used to draw the group.
	MaterialIndex int
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}
