// Package scene loads placed models from a YAML file and runs the culling
// queries over them
package scene

import (
	"context"
	"fmt"
	"time"

	"github.com/philipparndt/gocull/pkg/culling"
	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Scene is a set of objects and the camera looking at them
type Scene struct {
	Camera  CameraSpec
	Objects []*Object

	path string
	dir  string
	opts Options
}

// Object returns the object with the given name, or nil
func (s *Scene) Object(name string) *Object {
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Update recomputes every object's volumes in parallel. Queries must not
// run until it returns.
func (s *Scene) Update(ctx context.Context) error {
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for _, o := range s.Objects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o.Update()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("update aborted: %w", err)
	}

	elapsed := time.Since(start)
	s.opts.Metrics.observeUpdate(elapsed.Seconds())
	s.opts.Log.Debug("scene updated", "objects", len(s.Objects), "elapsed", elapsed)
	return nil
}

// Visibility is the frustum verdict for one object
type Visibility struct {
	Object *Object
	// Visible is the conservative answer a renderer acts on
	Visible bool
	// Complete is set when the whole box is inside
	Complete bool
}

// Cull tests every object against the frustum planes
func (s *Scene) Cull(planes []geometry.Plane) []Visibility {
	out := make([]Visibility, len(s.Objects))
	for i, o := range s.Objects {
		v := Visibility{Object: o, Visible: o.Info.IsInFrustum(planes)}
		if v.Visible {
			v.Complete = o.Info.IsCompletelyInFrustum(planes)
		}
		s.opts.Metrics.frustum(v.Visible)
		out[i] = v
	}
	return out
}

// Pair is the intersection verdict for two objects
type Pair struct {
	A, B *Object
	Tier culling.Tier
}

// Overlaps reports whether the pair intersects
func (p Pair) Overlaps() bool {
	return p.Tier.Overlaps()
}

// Pairs classifies every unordered pair of objects
func (s *Scene) Pairs(precise bool) []Pair {
	n := len(s.Objects)
	out := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := s.Objects[i], s.Objects[j]
			tier := a.Info.Classify(b.Info, precise)
			s.opts.Metrics.intersection(tier.String())
			out = append(out, Pair{A: a, B: b, Tier: tier})
		}
	}
	return out
}

// ObjectsContaining returns the objects whose volumes contain point
func (s *Scene) ObjectsContaining(point geometry.Vector3) []*Object {
	var out []*Object
	for _, o := range s.Objects {
		if o.Info.IntersectsPoint(point) {
			out = append(out, o)
		}
	}
	return out
}

// Collisions returns the objects the collider may reach
func (s *Scene) Collisions(c culling.Collider) []*Object {
	var out []*Object
	for _, o := range s.Objects {
		if o.Info.CheckCollision(c) {
			out = append(out, o)
		}
	}
	return out
}

// Files lists the scene file and every model file it depends on, once each
func (s *Scene) Files() ([]string, error) {
	var files []string
	if s.path != "" {
		files = append(files, s.path)
	}
	for _, o := range s.Objects {
		switch {
		case o.Source == "":
		case s.opts.SCAD != nil && isSCAD(o.Source):
			deps, err := s.opts.SCAD.ResolveDependencies(o.Source)
			if err != nil {
				return nil, err
			}
			files = append(files, deps...)
		default:
			files = append(files, o.Source)
		}
	}
	return lo.Uniq(files), nil
}
