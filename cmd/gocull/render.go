package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/philipparndt/gocull/pkg/scene"
	"github.com/philipparndt/gocull/pkg/viewer"
	"github.com/spf13/cobra"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		output string
		spin   int
		zoom   bool
		ropts  = viewer.RenderOptions{Width: 800, Height: 600}
	)

	cmd := &cobra.Command{
		Use:   "render <scene.yaml>",
		Short: "Rasterize the visible objects of a scene to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ropts.Width < 1 || ropts.Height < 1 {
				return fmt.Errorf("image size must be positive, got %dx%d", ropts.Width, ropts.Height)
			}

			s, err := opts.loadScene(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}

			cam := viewer.NewCameraFromScene(s)
			cam.Aspect = float64(ropts.Width) / float64(ropts.Height)
			if zoom && len(s.Objects) > 0 {
				cam.ZoomOn(worldBounds(s))
			}
			orbit(cam, spin)

			frame := viewer.Render(s, cam, ropts)

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			if err := frame.WritePNG(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}

			opts.log.Info("rendered", "output", output, "drawn", len(frame.Drawn), "culled", len(frame.Culled))
			printf(cmd, "Wrote %s: %d drawn, %d culled\n", output, len(frame.Drawn), len(frame.Culled))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "scene.png", "output PNG file")
	cmd.Flags().IntVar(&ropts.Width, "width", ropts.Width, "image width in pixels")
	cmd.Flags().IntVar(&ropts.Height, "height", ropts.Height, "image height in pixels")
	cmd.Flags().BoolVar(&ropts.Labels, "labels", false, "draw object names")
	cmd.Flags().BoolVar(&ropts.Boxes, "boxes", false, "outline oriented bounding boxes")
	cmd.Flags().IntVar(&spin, "spin", 0, "orbit right for this many frames before capturing")
	cmd.Flags().BoolVar(&zoom, "zoom", false, "frame all objects instead of using the scene camera")
	return cmd
}

// orbit holds the right arrow for frames ticks, then lets inertia settle
func orbit(cam *viewer.Camera, frames int) {
	if frames <= 0 {
		return
	}

	bus := viewer.NewEventBus()
	cam.Attach(bus)
	defer cam.Detach()

	bus.Publish(viewer.Event{Kind: viewer.EventKeyDown, Key: viewer.KeyRight})
	for i := 0; i < frames; i++ {
		cam.Tick()
	}
	bus.Publish(viewer.Event{Kind: viewer.EventKeyUp, Key: viewer.KeyRight})
	for cam.InertialAlphaOffset != 0 {
		cam.Tick()
	}
}

func worldBounds(s *scene.Scene) geometry.BoundingBox {
	bounds := geometry.NewBoundingBox()
	for _, o := range s.Objects {
		bounds.Extend(o.Info.Box.MinimumWorld)
		bounds.Extend(o.Info.Box.MaximumWorld)
	}
	return bounds
}
