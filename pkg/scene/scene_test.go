package scene

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipparndt/gocull/pkg/culling"
	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/philipparndt/gocull/pkg/primitive"
	"github.com/philipparndt/gocull/pkg/stl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeCubes = `
camera:
  radius: 30
  fov: 1.2
objects:
  - name: origin
    primitive: {kind: box, size: [1, 1, 1]}
  - name: neighbour
    primitive: {kind: box, size: [1, 1, 1]}
    position: [0.9, 0, 0]
  - name: far
    primitive: {kind: box, size: [1, 1, 1]}
    position: [10, 0, 0]
    scale: 2
`

func parse(t *testing.T, doc string, opts Options) *Scene {
	t.Helper()
	opts.MeshCells = 8
	s, err := Parse(context.Background(), []byte(doc), t.TempDir(), opts)
	require.NoError(t, err)
	return s
}

func updated(t *testing.T, doc string, opts Options) *Scene {
	t.Helper()
	s := parse(t, doc, opts)
	require.NoError(t, s.Update(context.Background()))
	return s
}

func TestParse(t *testing.T) {
	s := parse(t, threeCubes, Options{})

	require.Len(t, s.Objects, 3)
	assert.Equal(t, 30.0, s.Camera.Radius)
	assert.Equal(t, 1.2, s.Camera.Fov)
	assert.Equal(t, defaultCamera().Near, s.Camera.Near, "unset fields keep defaults")

	origin := s.Object("origin")
	require.NotNil(t, origin)
	assert.Equal(t, 1.0, origin.Transform.Scale)
	assert.Equal(t, geometry.NewVector3(-0.5, -0.5, -0.5), origin.Bounds.Min)
	assert.NotZero(t, origin.Model.TriangleCount())
	assert.False(t, origin.Info.IsPositioned())

	assert.Equal(t, 2.0, s.Object("far").Transform.Scale)
	assert.Nil(t, s.Object("missing"))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		err  error
	}{
		{"no source", "objects: [{name: a}]", ErrNoSource},
		{"unknown primitive", "objects: [{name: a, primitive: {kind: torus}}]", ErrUnknownPrimitive},
		{"two sources", "objects: [{name: a, stl: a.stl, primitive: {kind: sphere, radius: 1}}]", ErrInvalidObject},
		{"zero scale", "objects: [{name: a, scale: 0, primitive: {kind: sphere, radius: 1}}]", ErrInvalidObject},
		{"duplicate name", "objects: [{name: a, primitive: {kind: sphere, radius: 1}}, {name: a, primitive: {kind: sphere, radius: 1}}]", ErrInvalidObject},
		{"unknown follow", "camera: {follow: b}\nobjects: [{name: a, primitive: {kind: sphere, radius: 1}}]", ErrInvalidObject},
		{"scad without renderer", "objects: [{name: a, scad: a.scad}]", ErrInvalidObject},
		{"missing stl", "objects: [{name: a, stl: missing.stl}]", os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), []byte(tt.doc), t.TempDir(), Options{MeshCells: 8})
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseUnknownPrimitiveKeepsCause(t *testing.T) {
	_, err := Parse(context.Background(), []byte("objects: [{primitive: {kind: cone}}]"), t.TempDir(), Options{})
	assert.ErrorIs(t, err, primitive.ErrUnknownKind)
	assert.Contains(t, err.Error(), "object-0")
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse(context.Background(), []byte("objects: ["), t.TempDir(), Options{})
	assert.Error(t, err)
}

func writeTetrahedron(t *testing.T, path string) {
	t.Helper()
	a := geometry.NewVector3(0, 0, 0)
	b := geometry.NewVector3(2, 0, 0)
	c := geometry.NewVector3(0, 2, 0)
	d := geometry.NewVector3(0, 0, 2)

	model := stl.NewModel("tetra")
	for _, tri := range [][3]geometry.Vector3{{a, c, b}, {a, b, d}, {a, d, c}, {b, c, d}} {
		model.AddTriangle(geometry.NewTriangle(geometry.Zero(), tri[0], tri[1], tri[2]))
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, stl.WriteBinary(f, model))
}

func TestLoadSTL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "models"), 0o755))
	writeTetrahedron(t, filepath.Join(dir, "models", "tetra.stl"))

	scenePath := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(scenePath, []byte(`
objects:
  - name: one
    stl: models/tetra.stl
  - name: two
    stl: models/tetra.stl
    position: [5, 0, 0]
`), 0o644))

	s, err := Load(context.Background(), scenePath, Options{})
	require.NoError(t, err)

	one := s.Object("one")
	assert.Equal(t, filepath.Join(dir, "models", "tetra.stl"), one.Source)
	assert.Equal(t, geometry.NewVector3(2, 2, 2), one.Bounds.Max)

	files, err := s.Files()
	require.NoError(t, err)
	assert.Equal(t, []string{scenePath, one.Source}, files)
}

func TestLoadMissingScene(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "none.yaml"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTransformWorld(t *testing.T) {
	tr := Transform{
		Position: geometry.NewVector3(1, 2, 3),
		Rotation: geometry.NewVector3(0, 0, 90),
		Scale:    2,
	}

	got := tr.World().TransformCoordinates(geometry.NewVector3(1, 0, 0))
	assert.True(t, got.Equals(geometry.NewVector3(1, 4, 3), 1e-9), "got %v", got)

	ident := Transform{Scale: 1}.World()
	assert.True(t, ident.Equals(geometry.Identity(), 1e-12))
}

func TestUpdatePositionsObjects(t *testing.T) {
	s := updated(t, threeCubes, Options{})

	far := s.Object("far")
	assert.True(t, far.Info.IsPositioned())
	assert.Equal(t, geometry.NewVector3(10, 0, 0), far.Position())
	assert.InDelta(t, math.Sqrt(3), far.Info.Sphere.RadiusWorld, 1e-12)
	assert.Equal(t, geometry.NewVector3(9, -1, -1), far.Info.Box.MinimumWorld)
}

func TestParallelUpdateMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var doc strings.Builder
	doc.WriteString("objects:\n")
	for i := 0; i < 64; i++ {
		fmt.Fprintf(&doc, "  - name: o%d\n    primitive: {kind: box, size: [1, 2, 3]}\n", i)
		fmt.Fprintf(&doc, "    position: [%.3f, %.3f, %.3f]\n", rng.Float64()*20, rng.Float64()*20, rng.Float64()*20)
		fmt.Fprintf(&doc, "    rotation: [%.1f, %.1f, %.1f]\n", rng.Float64()*360, rng.Float64()*360, rng.Float64()*360)
		fmt.Fprintf(&doc, "    scale: %.2f\n", 0.5+rng.Float64())
	}

	s := updated(t, doc.String(), Options{Workers: 8})

	for _, o := range s.Objects {
		want := culling.NewBoundingInfoFromBox(o.Bounds)
		want.Update(o.Transform.World(), o.Transform.Scale)
		require.Equal(t, *want.Sphere, *o.Info.Sphere, o.Name)
		require.Equal(t, *want.Box, *o.Info.Box, o.Name)
	}
}

func TestUpdateCanceled(t *testing.T) {
	s := parse(t, threeCubes, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Update(ctx), context.Canceled)
}

func testFrustum() []geometry.Plane {
	view := geometry.LookAtLH(geometry.NewVector3(0, 0, -10), geometry.Zero(), geometry.NewVector3(0, 1, 0))
	proj := geometry.PerspectiveFovLH(math.Pi/2, 1, 0.1, 100)
	f := geometry.NewFrustum(view.Multiply(proj))
	return f.Planes()
}

func TestCull(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	s := updated(t, `
objects:
  - name: front
    primitive: {kind: sphere, radius: 1}
  - name: behind
    primitive: {kind: sphere, radius: 1}
    position: [0, 0, -30]
  - name: edge
    primitive: {kind: box, size: [4, 4, 4]}
    position: [10, 0, 0]
`, Options{Metrics: metrics})

	result := s.Cull(testFrustum())
	require.Len(t, result, 3)

	assert.True(t, result[0].Visible)
	assert.True(t, result[0].Complete)
	assert.False(t, result[1].Visible)
	assert.True(t, result[2].Visible, "straddles the right plane")
	assert.False(t, result[2].Complete)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.FrustumTests.WithLabelValues("visible")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FrustumTests.WithLabelValues("culled")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var samples uint64
	for _, mf := range families {
		if mf.GetName() == "gocull_update_duration_seconds" {
			samples = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(1), samples)
}

func TestPairs(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	s := updated(t, threeCubes, Options{Metrics: metrics})

	pairs := s.Pairs(true)
	require.Len(t, pairs, 3)

	tiers := map[string]culling.Tier{}
	for _, p := range pairs {
		tiers[p.A.Name+"/"+p.B.Name] = p.Tier
	}
	assert.Equal(t, culling.TierOverlap, tiers["origin/neighbour"])
	assert.Equal(t, culling.TierSphere, tiers["origin/far"])
	assert.Equal(t, culling.TierSphere, tiers["neighbour/far"])
	assert.True(t, pairs[0].Overlaps())

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.IntersectionTests.WithLabelValues("sphere")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.IntersectionTests.WithLabelValues("overlap")))
}

func TestPairsBeforeUpdate(t *testing.T) {
	s := parse(t, threeCubes, Options{})

	for _, p := range s.Pairs(true) {
		assert.Equal(t, culling.TierUnpositioned, p.Tier)
	}
}

func TestObjectsContaining(t *testing.T) {
	s := updated(t, threeCubes, Options{})

	names := func(objs []*Object) []string {
		var out []string
		for _, o := range objs {
			out = append(out, o.Name)
		}
		return out
	}

	assert.Equal(t, []string{"origin", "neighbour"}, names(s.ObjectsContaining(geometry.NewVector3(0.45, 0, 0))))
	assert.Equal(t, []string{"far"}, names(s.ObjectsContaining(geometry.NewVector3(10.9, 0.9, 0))))
	assert.Empty(t, s.ObjectsContaining(geometry.NewVector3(5, 0, 0)))
}

func TestCollisions(t *testing.T) {
	s := updated(t, threeCubes, Options{})

	probe := culling.SweptSphere{
		Position: geometry.NewVector3(7, 0, 0),
		Velocity: geometry.NewVector3(2, 0, 0),
		Radius:   0.5,
	}
	hits := s.Collisions(probe)
	require.Len(t, hits, 1)
	assert.Equal(t, "far", hits[0].Name)
}
