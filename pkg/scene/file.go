package scene

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/philipparndt/gocull/pkg/culling"
	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/philipparndt/gocull/pkg/openscad"
	"github.com/philipparndt/gocull/pkg/primitive"
	"github.com/philipparndt/gocull/pkg/stl"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNoSource is returned for an object without stl, scad or primitive
	ErrNoSource = errors.New("object has no geometry source")
	// ErrUnknownPrimitive is returned for a primitive kind that cannot be built
	ErrUnknownPrimitive = errors.New("unknown primitive")
	// ErrInvalidObject is returned for conflicting sources or a bad transform
	ErrInvalidObject = errors.New("invalid object")
)

// File is the YAML layout of a scene
type File struct {
	Camera  CameraSpec   `yaml:"camera"`
	Objects []ObjectSpec `yaml:"objects"`
}

// CameraSpec places the orbit camera. Follow names an object whose center
// replaces Target.
type CameraSpec struct {
	Alpha  float64    `yaml:"alpha"`
	Beta   float64    `yaml:"beta"`
	Radius float64    `yaml:"radius"`
	Target [3]float64 `yaml:"target"`
	Follow string     `yaml:"follow"`
	Fov    float64    `yaml:"fov"`
	Near   float64    `yaml:"near"`
	Far    float64    `yaml:"far"`
	Aspect float64    `yaml:"aspect"`
}

// ObjectSpec describes one object. Exactly one of STL, SCAD and Primitive
// must be set.
type ObjectSpec struct {
	Name      string          `yaml:"name"`
	STL       string          `yaml:"stl"`
	SCAD      string          `yaml:"scad"`
	Primitive *primitive.Spec `yaml:"primitive"`
	Position  [3]float64      `yaml:"position"`
	Rotation  [3]float64      `yaml:"rotation"`
	Scale     *float64        `yaml:"scale"`
}

func defaultCamera() CameraSpec {
	return CameraSpec{
		Alpha:  -1.57,
		Beta:   1.2,
		Radius: 20,
		Fov:    0.8,
		Near:   0.1,
		Far:    1000,
		Aspect: 4.0 / 3.0,
	}
}

// Options controls how a scene is loaded and updated
type Options struct {
	Log *slog.Logger
	// SCAD renders scad sources. Without it scad objects fail to load.
	SCAD *openscad.Renderer
	// Metrics may be nil
	Metrics *Metrics
	// Workers bounds the parallel update pass, default NumCPU
	Workers int
	// MeshCells is the marching cubes resolution for primitives
	MeshCells int
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = slog.New(slog.DiscardHandler)
	}
	if o.Workers < 1 {
		o.Workers = runtime.NumCPU()
	}
	if o.MeshCells < 1 {
		o.MeshCells = primitive.DefaultMeshCells
	}
	return o
}

// Load reads a scene file. Relative model paths are resolved against the
// directory of path.
func Load(ctx context.Context, path string, opts Options) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}

	s, err := Parse(ctx, data, filepath.Dir(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

// Parse decodes a scene document
func Parse(ctx context.Context, data []byte, dir string, opts Options) (*Scene, error) {
	opts = opts.withDefaults()

	file := File{Camera: defaultCamera()}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	s := &Scene{
		Camera: file.Camera,
		dir:    dir,
		opts:   opts,
	}

	seen := make(map[string]bool, len(file.Objects))
	for i, spec := range file.Objects {
		if spec.Name == "" {
			spec.Name = fmt.Sprintf("object-%d", i)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidObject, spec.Name)
		}
		seen[spec.Name] = true

		obj, err := s.build(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", spec.Name, err)
		}
		s.Objects = append(s.Objects, obj)
	}

	if f := file.Camera.Follow; f != "" && s.Object(f) == nil {
		return nil, fmt.Errorf("%w: camera follows unknown object %q", ErrInvalidObject, f)
	}

	opts.Log.Debug("scene loaded", "objects", len(s.Objects))
	return s, nil
}

func (s *Scene) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.dir, path)
}

func (s *Scene) build(ctx context.Context, spec ObjectSpec) (*Object, error) {
	sources := 0
	for _, set := range []bool{spec.STL != "", spec.SCAD != "", spec.Primitive != nil} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		return nil, ErrNoSource
	case sources > 1:
		return nil, fmt.Errorf("%w: stl, scad and primitive are exclusive", ErrInvalidObject)
	}

	scale := 1.0
	if spec.Scale != nil {
		scale = *spec.Scale
	}
	if scale <= 0 {
		return nil, fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidObject, scale)
	}

	obj := &Object{
		Name: spec.Name,
		Transform: Transform{
			Position: geometry.NewVector3(spec.Position[0], spec.Position[1], spec.Position[2]),
			Rotation: geometry.NewVector3(spec.Rotation[0], spec.Rotation[1], spec.Rotation[2]),
			Scale:    scale,
		},
	}

	var err error
	switch {
	case spec.STL != "":
		obj.Source = s.resolve(spec.STL)
		obj.Model, err = stl.Parse(obj.Source)
	case spec.SCAD != "":
		obj.Source = s.resolve(spec.SCAD)
		if s.opts.SCAD == nil {
			return nil, fmt.Errorf("%w: no openscad renderer for %s", ErrInvalidObject, spec.SCAD)
		}
		obj.Model, err = s.opts.SCAD.Render(ctx, obj.Source)
	default:
		obj.Model, err = spec.Primitive.Mesh(s.opts.MeshCells)
		if errors.Is(err, primitive.ErrUnknownKind) {
			return nil, fmt.Errorf("%w: %w", ErrUnknownPrimitive, err)
		}
		if err == nil {
			// the analytic extent is tighter than the tessellated one
			obj.Bounds, err = spec.Primitive.Bounds()
		}
	}
	if err != nil {
		return nil, err
	}

	if spec.Primitive == nil {
		if obj.Model.TriangleCount() == 0 {
			return nil, fmt.Errorf("%w: %s has no triangles", ErrInvalidObject, obj.Source)
		}
		obj.Bounds = obj.Model.BoundingBox()
	}
	obj.Info = culling.NewBoundingInfoFromBox(obj.Bounds)

	return obj, nil
}

func isSCAD(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".scad")
}
