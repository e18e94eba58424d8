package main

import (
	"context"
	"sync"

	"github.com/philipparndt/gocull/pkg/scene"
	"github.com/philipparndt/gocull/pkg/viewer"
	"github.com/philipparndt/gocull/pkg/watcher"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newCullCmd(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "cull <scene.yaml>",
		Short: "Report which objects the scene camera can see",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg := prometheus.NewRegistry()
			metrics := scene.NewMetrics(reg)
			stop := opts.serveMetrics(ctx, reg)
			defer stop()

			s, err := opts.cull(cmd, args[0], metrics)
			if err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return opts.watchScene(ctx, cmd, args[0], s, metrics)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-run when the scene or a model changes")
	return cmd
}

func (o *rootOptions) cull(cmd *cobra.Command, path string, metrics *scene.Metrics) (*scene.Scene, error) {
	s, err := o.loadScene(cmd.Context(), path, metrics)
	if err != nil {
		return nil, err
	}

	cam := viewer.NewCameraFromScene(s)
	frustum := cam.Frustum()
	result := s.Cull(frustum.Planes())

	visible := lo.Filter(result, func(v scene.Visibility, _ int) bool { return v.Visible })
	printf(cmd, "Camera: %s looking at %s\n", formatVector(cam.Position()), formatVector(cam.TargetPosition()))
	printf(cmd, "Visible: %d of %d\n\n", len(visible), len(result))

	for _, v := range result {
		state := "culled"
		switch {
		case v.Complete:
			state = "inside"
		case v.Visible:
			state = "partial"
		}
		printf(cmd, "  %-8s %-20s center %s radius %s\n",
			state, v.Object.Name, formatVector(v.Object.Position()), formatFloat(v.Object.Info.Sphere.RadiusWorld))
	}
	return s, nil
}

func (o *rootOptions) watchScene(ctx context.Context, cmd *cobra.Command, path string, s *scene.Scene, metrics *scene.Metrics) error {
	fw, err := watcher.NewFileWatcher(o.cfg.WatchDebounce.Duration, o.log)
	if err != nil {
		return err
	}
	defer fw.Close()

	var mu sync.Mutex
	var watchFiles func(*scene.Scene) error
	rerun := func(string) {
		mu.Lock()
		defer mu.Unlock()

		printf(cmd, "\n")
		next, err := o.cull(cmd, path, metrics)
		if err != nil {
			o.log.Error("reload failed", "scene", path, "error", err)
			return
		}
		if err := watchFiles(next); err != nil {
			o.log.Error("watch failed", "error", err)
		}
	}
	watchFiles = func(s *scene.Scene) error {
		files, err := s.Files()
		if err != nil {
			return err
		}
		if err := fw.RemoveAll(); err != nil {
			return err
		}
		o.log.Debug("watching", "files", len(files))
		return fw.Watch(files, rerun)
	}

	if err := watchFiles(s); err != nil {
		return err
	}
	fw.Start(ctx)
	o.log.Info("watching for changes", "scene", path)

	<-ctx.Done()
	return nil
}
