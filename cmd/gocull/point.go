package main

import (
	"github.com/philipparndt/gocull/pkg/geometry"
	"github.com/philipparndt/gocull/pkg/scene"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newPointCmd(opts *rootOptions) *cobra.Command {
	var point geometry.Vector3

	cmd := &cobra.Command{
		Use:   "point <scene.yaml>",
		Short: "List the objects whose volumes contain a point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadScene(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}

			hits := s.ObjectsContaining(point)
			printf(cmd, "Point %s is inside %d object(s)\n", formatVector(point), len(hits))
			for _, name := range lo.Map(hits, func(o *scene.Object, _ int) string { return o.Name }) {
				printf(cmd, "  %s\n", name)
			}
			return nil
		},
	}

	vectorFlags(cmd, &point, "", "the point")
	return cmd
}
