package geometry

import "math"

// BoundingBox represents an axis-aligned bounding box.
// It is the accumulator used while reading mesh vertices; the culling
// volumes are built from its Min and Max once the mesh is loaded.
type BoundingBox struct {
	Min Vector3
	Max Vector3
}

// NewBoundingBox creates a new, empty bounding box
func NewBoundingBox() BoundingBox {
	return BoundingBox{
		Min: Vector3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64},
		Max: Vector3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64},
	}
}

// NewBoundingBoxFromPoints creates the smallest box containing all points
func NewBoundingBoxFromPoints(points ...Vector3) BoundingBox {
	bbox := NewBoundingBox()
	for _, p := range points {
		bbox.Extend(p)
	}
	return bbox
}

// Extend expands the bounding box to include a point
func (b *BoundingBox) Extend(point Vector3) {
	b.Min = b.Min.Min(point)
	b.Max = b.Max.Max(point)
}

// IsEmpty reports whether no point has been added yet
func (b BoundingBox) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// Size returns the dimensions of the bounding box
func (b BoundingBox) Size() Vector3 {
	return b.Max.Sub(b.Min)
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() Vector3 {
	return b.Min.Lerp(b.Max, 0.5)
}

// Diagonal returns the length of the bounding box diagonal
func (b BoundingBox) Diagonal() float64 {
	size := b.Size()
	return size.Length()
}

// Volume returns the volume of the bounding box
func (b BoundingBox) Volume() float64 {
	size := b.Size()
	return size.X * size.Y * size.Z
}

// Intersects reports whether two boxes overlap; touching faces count as overlap
func (b BoundingBox) Intersects(other BoundingBox) bool {
	if b.Max.X < other.Min.X || b.Min.X > other.Max.X {
		return false
	}
	if b.Max.Y < other.Min.Y || b.Min.Y > other.Max.Y {
		return false
	}
	if b.Max.Z < other.Min.Z || b.Min.Z > other.Max.Z {
		return false
	}
	return true
}

// Corners returns the eight corners with Min at index 0 and Max at index 1
func (b BoundingBox) Corners() [8]Vector3 {
	lo, hi := b.Min, b.Max
	return [8]Vector3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
	}
}
