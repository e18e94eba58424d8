package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/philipparndt/gocull/pkg/analysis"
	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/philipparndt/gocull/pkg/openscad"
	"github.com/philipparndt/gocull/pkg/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// loadScene reads and updates a scene with the configured workers
func (o *rootOptions) loadScene(ctx context.Context, path string, metrics *scene.Metrics) (*scene.Scene, error) {
	s, err := scene.Load(ctx, path, scene.Options{
		Log:     o.log,
		SCAD:    openscad.NewRenderer(filepath.Dir(path), o.log),
		Metrics: metrics,
		Workers: o.cfg.Workers,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Update(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// serveMetrics exposes reg on the configured address until ctx is done.
// It returns a no-op when no address is configured.
func (o *rootOptions) serveMetrics(ctx context.Context, reg *prometheus.Registry) (stop func()) {
	if o.cfg.MetricsAddr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: o.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		o.log.Info("serving metrics", "addr", o.cfg.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			o.log.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// vectorFlags registers -x/-y/-z style flags with a common prefix
func vectorFlags(cmd *cobra.Command, v *geometry.Vector3, prefix, what string) {
	cmd.Flags().Float64Var(&v.X, prefix+"x", 0, "X of "+what)
	cmd.Flags().Float64Var(&v.Y, prefix+"y", 0, "Y of "+what)
	cmd.Flags().Float64Var(&v.Z, prefix+"z", 0, "Z of "+what)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

var formatVector = analysis.FormatVector

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
