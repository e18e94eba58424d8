package main

import (
	"path/filepath"
	"strings"

	"github.com/philipparndt/gocull/pkg/analysis"
	"github.com/philipparndt/gocull/pkg/openscad"
	"github.com/philipparndt/gocull/pkg/stl"
	"github.com/spf13/cobra"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show the local extent and culling volumes of an STL or SCAD model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			var model *stl.Model
			var err error
			if strings.EqualFold(filepath.Ext(filename), ".scad") {
				model, err = openscad.NewRenderer(filepath.Dir(filename), opts.log).Render(cmd.Context(), filename)
			} else {
				model, err = stl.Parse(filename)
			}
			if err != nil {
				return err
			}

			r := analysis.AnalyzeModel(model)

			printf(cmd, "Model Information\n")
			printf(cmd, "=================\n")
			if r.Name != "" {
				printf(cmd, "Name: %s\n", r.Name)
			}
			printf(cmd, "File: %s\n\n", filename)

			printf(cmd, "Mesh:\n")
			printf(cmd, "  Triangles: %d\n", r.TriangleCount)
			printf(cmd, "  Surface Area: %.6f square units\n", r.SurfaceArea)
			printf(cmd, "  Edge Lengths: min %.6f, max %.6f, avg %.6f\n\n", r.MinEdgeLength, r.MaxEdgeLength, r.AvgEdgeLength)

			printf(cmd, "Local Extent:\n")
			printf(cmd, "  Min: %s\n", formatVector(r.Bounds.Min))
			printf(cmd, "  Max: %s\n", formatVector(r.Bounds.Max))
			printf(cmd, "  Volume: %.6f cubic units\n\n", r.BoxVolume)

			printf(cmd, "Bounding Sphere:\n")
			printf(cmd, "  Center: %s\n", formatVector(r.SphereCenter))
			printf(cmd, "  Radius: %.6f\n", r.SphereRadius)
			printf(cmd, "  Overhead: %.2fx the box volume\n\n", r.SphereOverhead())

			printf(cmd, "Oriented Box:\n")
			printf(cmd, "  Center: %s\n", formatVector(r.BoxCenter))
			printf(cmd, "  Half Size: %s\n", formatVector(r.BoxExtends))
			return nil
		},
	}
}
