package viewer

import (
	"math"

	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/philipparndt/gocull/pkg/scene"
)

// InertiaEpsilon is the offset below which inertia stops
const InertiaEpsilon = 1e-3

// keyStep is the offset one held key adds per tick
const keyStep = 0.01

// PositionProvider is anything the camera can orbit
type PositionProvider interface {
	Position() geometry.Vector3
}

// StaticPosition is a fixed orbit target
type StaticPosition geometry.Vector3

// Position implements PositionProvider
func (p StaticPosition) Position() geometry.Vector3 {
	return geometry.Vector3(p)
}

var _ PositionProvider = (*scene.Object)(nil)

// Limits bound the orbit parameters. A zero value leaves that side open,
// so a limit of exactly zero cannot be expressed.
type Limits struct {
	LowerAlpha, UpperAlpha   float64
	LowerBeta, UpperBeta     float64
	LowerRadius, UpperRadius float64
}

// Camera orbits a target. Alpha is the longitude and Beta the colatitude
// in radians, Radius the distance to the target. The camera is not safe
// for concurrent use; publish input on the goroutine that calls Tick.
type Camera struct {
	Alpha  float64
	Beta   float64
	Radius float64
	Target PositionProvider
	Up     geometry.Vector3

	FOV    float64
	Near   float64
	Far    float64
	Aspect float64

	Inertia              float64
	InertialAlphaOffset  float64
	InertialBetaOffset   float64
	InertialRadiusOffset float64

	Limits             Limits
	AngularSensibility float64
	WheelPrecision     float64
	ZoomOnFactor       float64

	Keys KeySet
	sub  Subscription
}

// NewCamera creates an orbit camera with the usual defaults
func NewCamera(alpha, beta, radius float64, target PositionProvider) *Camera {
	return &Camera{
		Alpha:              alpha,
		Beta:               beta,
		Radius:             radius,
		Target:             target,
		Up:                 geometry.NewVector3(0, 1, 0),
		FOV:                0.8,
		Near:               0.1,
		Far:                1000,
		Aspect:             1,
		Inertia:            0.9,
		Limits:             Limits{LowerBeta: 0.01, UpperBeta: math.Pi},
		AngularSensibility: 1000,
		WheelPrecision:     3,
		ZoomOnFactor:       1,
	}
}

// NewCameraFromScene places a camera as the scene file describes. A
// followed object becomes the orbit target.
func NewCameraFromScene(s *scene.Scene) *Camera {
	spec := s.Camera

	var target PositionProvider = StaticPosition(geometry.NewVector3(spec.Target[0], spec.Target[1], spec.Target[2]))
	if obj := s.Object(spec.Follow); obj != nil {
		target = obj
	}

	c := NewCamera(spec.Alpha, spec.Beta, spec.Radius, target)
	c.FOV = spec.Fov
	c.Near = spec.Near
	c.Far = spec.Far
	c.Aspect = spec.Aspect
	return c
}

// TargetPosition returns where the camera looks
func (c *Camera) TargetPosition() geometry.Vector3 {
	if c.Target == nil {
		return geometry.Zero()
	}
	return c.Target.Position()
}

// Position returns the eye position
func (c *Camera) Position() geometry.Vector3 {
	sinb := math.Sin(c.Beta)
	offset := geometry.NewVector3(
		c.Radius*math.Cos(c.Alpha)*sinb,
		c.Radius*math.Cos(c.Beta),
		c.Radius*math.Sin(c.Alpha)*sinb,
	)
	return c.TargetPosition().Add(offset)
}

// SetPosition moves the eye to position, keeping the target
func (c *Camera) SetPosition(position geometry.Vector3) {
	r := position.Sub(c.TargetPosition())
	c.Radius = r.Length()
	if c.Radius == 0 {
		return
	}
	c.Alpha = math.Atan2(r.Z, r.X)
	c.Beta = math.Acos(r.Y / c.Radius)
}

// Attach subscribes the camera to src, replacing any earlier source
func (c *Camera) Attach(src InputSource) {
	c.Detach()
	c.sub = src.Subscribe(c.handle)
}

// Detach unsubscribes from the input source and drops held keys and
// pending inertia
func (c *Camera) Detach() {
	if c.sub == nil {
		return
	}
	c.sub.Unsubscribe()
	c.sub = nil
	c.Keys.Clear()
	c.InertialAlphaOffset = 0
	c.InertialBetaOffset = 0
}

func (c *Camera) handle(e Event) {
	switch e.Kind {
	case EventKeyDown:
		c.Keys.Press(e.Key)
	case EventKeyUp:
		c.Keys.Release(e.Key)
	case EventPointerMove:
		c.InertialAlphaOffset -= e.DX / c.AngularSensibility
		c.InertialBetaOffset -= e.DY / c.AngularSensibility
	case EventWheel:
		c.InertialRadiusOffset += e.Delta / c.WheelPrecision
	case EventBlur:
		c.Keys.Clear()
	}
}

// Tick advances the camera by one frame: held keys feed the inertial
// offsets, the offsets move the camera and decay, then limits apply
func (c *Camera) Tick() {
	if c.Keys.Pressed(KeyLeft) {
		c.InertialAlphaOffset -= keyStep
	}
	if c.Keys.Pressed(KeyRight) {
		c.InertialAlphaOffset += keyStep
	}
	if c.Keys.Pressed(KeyUp) {
		c.InertialBetaOffset -= keyStep
	}
	if c.Keys.Pressed(KeyDown) {
		c.InertialBetaOffset += keyStep
	}

	if c.InertialAlphaOffset != 0 || c.InertialBetaOffset != 0 || c.InertialRadiusOffset != 0 {
		c.Alpha += c.InertialAlphaOffset
		c.Beta += c.InertialBetaOffset
		c.Radius -= c.InertialRadiusOffset

		c.InertialAlphaOffset = decay(c.InertialAlphaOffset, c.Inertia)
		c.InertialBetaOffset = decay(c.InertialBetaOffset, c.Inertia)
		c.InertialRadiusOffset = decay(c.InertialRadiusOffset, c.Inertia)
	}

	c.Alpha = limit(c.Alpha, c.Limits.LowerAlpha, c.Limits.UpperAlpha)
	c.Beta = limit(c.Beta, c.Limits.LowerBeta, c.Limits.UpperBeta)
	c.Radius = limit(c.Radius, c.Limits.LowerRadius, c.Limits.UpperRadius)
}

func decay(offset, inertia float64) float64 {
	offset *= inertia
	if math.Abs(offset) < InertiaEpsilon {
		return 0
	}
	return offset
}

func limit(v, lower, upper float64) float64 {
	if lower != 0 && v < lower {
		v = lower
	}
	if upper != 0 && v > upper {
		v = upper
	}
	return v
}

// ViewMatrix looks from the eye at the target
func (c *Camera) ViewMatrix() geometry.Matrix {
	return geometry.LookAtLH(c.Position(), c.TargetPosition(), c.Up)
}

// ProjectionMatrix is the perspective projection for the current lens
func (c *Camera) ProjectionMatrix() geometry.Matrix {
	return geometry.PerspectiveFovLH(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewProjection applies the view, then the projection
func (c *Camera) ViewProjection() geometry.Matrix {
	return c.ViewMatrix().Multiply(c.ProjectionMatrix())
}

// Frustum returns the six culling planes of the current view
func (c *Camera) Frustum() geometry.Frustum {
	return geometry.NewFrustum(c.ViewProjection())
}

// Project maps a world point to pixel coordinates and view depth. ok is
// false for points at or behind the eye.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (x, y, depth float64, ok bool) {
	view := c.ViewMatrix().TransformCoordinates(point)
	if view.Z <= 0 {
		return 0, 0, view.Z, false
	}
	ndc := c.ProjectionMatrix().TransformCoordinates(view)
	x = (ndc.X + 1) / 2 * width
	y = (1 - ndc.Y) / 2 * height
	return x, y, view.Z, true
}

// FocusOn targets the center of bounds and pushes the far plane out to
// keep it in view
func (c *Camera) FocusOn(bounds geometry.BoundingBox) {
	c.Target = StaticPosition(bounds.Center())
	if far := bounds.Diagonal() * 2; far > c.Near {
		c.Far = far
	}
}

// ZoomOn frames bounds: the radius becomes the diagonal times ZoomOnFactor
func (c *Camera) ZoomOn(bounds geometry.BoundingBox) {
	c.Radius = bounds.Diagonal() * c.ZoomOnFactor
	c.FocusOn(bounds)
}
