package viewer

import (
	"image"
	"image/color"
	"math"
)

// screenVertex is a projected vertex: pixel position and view depth
type screenVertex struct {
	X, Y, Z float64
}

// fillTriangleWithDepth scan-converts a triangle, writing only pixels
// closer than the depth buffer
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, tri [3]screenVertex, col color.RGBA) {
	// sort by Y, top to bottom
	if tri[0].Y > tri[1].Y {
		tri[0], tri[1] = tri[1], tri[0]
	}
	if tri[1].Y > tri[2].Y {
		tri[1], tri[2] = tri[2], tri[1]
	}
	if tri[0].Y > tri[1].Y {
		tri[0], tri[1] = tri[1], tri[0]
	}
	top, mid, bottom := tri[0], tri[1], tri[2]

	bounds := img.Bounds()
	width := bounds.Dx()

	edges := [3][2]screenVertex{{top, mid}, {mid, bottom}, {top, bottom}}

	yStart := int(math.Ceil(math.Max(0, top.Y)))
	yEnd := int(math.Min(float64(bounds.Dy()-1), bottom.Y))
	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		var span [2]screenVertex
		found := 0
		for _, e := range edges {
			a, b := e[0], e[1]
			if a.Y == b.Y || fy < a.Y || fy > b.Y || found == 2 {
				continue
			}
			t := (fy - a.Y) / (b.Y - a.Y)
			span[found] = screenVertex{X: a.X + t*(b.X-a.X), Z: a.Z + t*(b.Z-a.Z)}
			found++
		}
		if found < 2 {
			continue
		}

		left, right := span[0], span[1]
		if left.X > right.X {
			left, right = right, left
		}

		xStart := int(math.Ceil(math.Max(0, left.X)))
		xEnd := int(math.Min(float64(width-1), right.X))
		for x := xStart; x <= xEnd; x++ {
			t := 0.0
			if right.X != left.X {
				t = (float64(x) - left.X) / (right.X - left.X)
			}
			z := left.Z + t*(right.Z-left.Z)

			idx := y*width + x
			if z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(bounds.Min.X+x, bounds.Min.Y+y, col)
			}
		}
	}
}

// drawLine draws a line with Bresenham's algorithm, clipped to the image
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}

	err := dx - dy
	for {
		if (image.Point{X: x1, Y: y1}).In(bounds) {
			img.SetRGBA(x1, y1, col)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
