package main

import (
	"fmt"

	"github.com/philipparndt/gocull/pkg/culling"
	"github.com/spf13/cobra"
)

func newSweepCmd(opts *rootOptions) *cobra.Command {
	var probe culling.SweptSphere

	cmd := &cobra.Command{
		Use:   "sweep <scene.yaml>",
		Short: "List the objects a moving sphere may hit during one step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if probe.Radius < 0 {
				return fmt.Errorf("radius must not be negative, got %v", probe.Radius)
			}

			s, err := opts.loadScene(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}

			hits := s.Collisions(probe)
			printf(cmd, "Sphere at %s moving %s may reach %d object(s)\n",
				formatVector(probe.Position), formatVector(probe.Velocity), len(hits))
			for _, o := range hits {
				printf(cmd, "  %-20s distance %s\n", o.Name, formatFloat(o.Position().Distance(probe.Position)))
			}
			return nil
		},
	}

	vectorFlags(cmd, &probe.Position, "", "the sphere center")
	vectorFlags(cmd, &probe.Velocity, "v", "the velocity")
	cmd.Flags().Float64VarP(&probe.Radius, "radius", "r", 0.5, "sphere radius")
	return cmd
}
