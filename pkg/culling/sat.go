package culling

import (
	"math"

	"github.com/philipparndt/gocull/pkg/geometry"
)

// projectBox returns the interval the box covers on axis
func projectBox(axis geometry.Vector3, box *OrientedBox) (lo, hi float64) {
	p := box.CenterWorld.Dot(axis)
	r := math.Abs(box.Directions[0].Dot(axis))*box.ExtendsWorld.X +
		math.Abs(box.Directions[1].Dot(axis))*box.ExtendsWorld.Y +
		math.Abs(box.Directions[2].Dot(axis))*box.ExtendsWorld.Z
	return p - r, p + r
}

func extentsOverlap(min0, max0, min1, max1 float64) bool {
	return !(min0 > max1 || min1 > max0)
}

func axisOverlap(axis geometry.Vector3, box0, box1 *OrientedBox) bool {
	min0, max0 := projectBox(axis, box0)
	min1, max1 := projectBox(axis, box1)
	return extentsOverlap(min0, max0, min1, max1)
}

// SeparatingAxisTest reports whether two oriented boxes overlap. It tries
// the 15 candidate axes (three face normals of each box and the nine edge
// cross products) and stops at the first one that separates them. Edge
// axes from nearly parallel edges are skipped: they carry no information
// and their rounding noise could otherwise report a false separation.
func SeparatingAxisTest(box0, box1 *OrientedBox) bool {
	for i := 0; i < 3; i++ {
		if !axisOverlap(box0.Directions[i], box0, box1) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !axisOverlap(box1.Directions[i], box0, box1) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := box0.Directions[i].Cross(box1.Directions[j])
			if axis.LengthSquared() < geometry.Epsilon {
				continue
			}
			if !axisOverlap(axis, box0, box1) {
				return false
			}
		}
	}
	return true
}
