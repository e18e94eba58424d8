package viewer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/philipparndt/gocull/pkg/scene"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	background = color.RGBA{R: 24, G: 26, B: 32, A: 255}
	labelColor = color.RGBA{R: 240, G: 240, B: 240, A: 255}
	boxColor   = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	palette    = []color.RGBA{
		{R: 86, G: 156, B: 214, A: 255},
		{R: 206, G: 145, B: 120, A: 255},
		{R: 78, G: 201, B: 176, A: 255},
		{R: 197, G: 134, B: 192, A: 255},
		{R: 220, G: 220, B: 170, A: 255},
	}
)

// boxEdges joins the corners of an oriented box, in the order of
// geometry.BoundingBox.Corners
var boxEdges = [12][2]int{
	{0, 2}, {0, 3}, {0, 4},
	{1, 5}, {1, 6}, {1, 7},
	{2, 5}, {2, 7},
	{3, 5}, {3, 6},
	{4, 6}, {4, 7},
}

// RenderOptions controls Render
type RenderOptions struct {
	Width  int
	Height int
	// Labels draws object names at their centers
	Labels bool
	// Boxes outlines the oriented bounding box of every drawn object
	Boxes bool
}

// Frame is a rendered image and the culling verdicts behind it
type Frame struct {
	Image  *image.RGBA
	Drawn  []string
	Culled []string
}

// Render draws the objects of an updated scene that pass the frustum test
func Render(s *scene.Scene, cam *Camera, opts RenderOptions) *Frame {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	zbuffer := make([]float64, opts.Width*opts.Height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	frame := &Frame{Image: img}
	frustum := cam.Frustum()
	w, h := float64(opts.Width), float64(opts.Height)
	eye := cam.Position()

	visible := s.Cull(frustum.Planes())
	for i, v := range visible {
		if !v.Visible {
			frame.Culled = append(frame.Culled, v.Object.Name)
			continue
		}
		frame.Drawn = append(frame.Drawn, v.Object.Name)

		base := palette[i%len(palette)]
		for _, tri := range v.Object.WorldModel().Triangles {
			var projected [3]screenVertex
			inFront := true
			for j, p := range tri.Vertices() {
				x, y, z, ok := cam.Project(p, w, h)
				if !ok {
					inFront = false
					break
				}
				projected[j] = screenVertex{X: x, Y: y, Z: z}
			}
			if !inFront {
				continue
			}

			toEye := eye.Sub(tri.Center()).Normalize()
			fillTriangleWithDepth(img, zbuffer, projected, shade(base, tri.Normal.Dot(toEye)))
		}

		if opts.Boxes {
			drawBox(img, cam, v.Object, w, h)
		}
	}

	if opts.Labels {
		for _, v := range visible {
			if v.Visible {
				drawLabel(img, cam, v.Object, w, h)
			}
		}
	}

	return frame
}

// shade applies a headlight: faces toward the eye are brightest
func shade(c color.RGBA, facing float64) color.RGBA {
	k := 0.3 + 0.7*math.Abs(facing)
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: 255,
	}
}

func drawBox(img *image.RGBA, cam *Camera, obj *scene.Object, w, h float64) {
	var pts [8]image.Point
	for i, corner := range obj.Info.Box.VectorsWorld {
		x, y, _, ok := cam.Project(corner, w, h)
		if !ok {
			return
		}
		pts[i] = image.Pt(int(x), int(y))
	}
	for _, e := range boxEdges {
		a, b := pts[e[0]], pts[e[1]]
		drawLine(img, a.X, a.Y, b.X, b.Y, boxColor)
	}
}

func drawLabel(img *image.RGBA, cam *Camera, obj *scene.Object, w, h float64) {
	x, y, _, ok := cam.Project(obj.Position(), w, h)
	if !ok {
		return
	}

	face := basicfont.Face7x13
	width := font.MeasureString(face, obj.Name)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot:  fixed.P(int(x), int(y)).Sub(fixed.Point26_6{X: width / 2}),
	}
	d.DrawString(obj.Name)
}

// WritePNG encodes the frame
func (f *Frame) WritePNG(w io.Writer) error {
	if err := png.Encode(w, f.Image); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
