package main

import (
	"sort"

	"github.com/philipparndt/gocull/pkg/scene"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newIntersectCmd(opts *rootOptions) *cobra.Command {
	var precise, broad, all bool

	cmd := &cobra.Command{
		Use:   "intersect <scene.yaml>",
		Short: "List overlapping object pairs and the test that decided each",
		Long: `intersect tests every pair of objects. Spheres reject first, then the
axis-aligned world boxes; precise mode runs the separating axis test on
the oriented boxes to remove the false positives of rotated objects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadScene(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}

			usePrecise := opts.cfg.Precise
			switch {
			case cmd.Flags().Changed("precise"):
				usePrecise = precise
			case broad:
				usePrecise = false
			}

			pairs := s.Pairs(usePrecise)
			shown := pairs
			if !all {
				shown = lo.Filter(pairs, func(p scene.Pair, _ int) bool { return p.Overlaps() })
			}

			for _, p := range shown {
				verdict := "apart"
				if p.Overlaps() {
					verdict = "overlap"
				}
				printf(cmd, "%-20s %-20s %-8s decided by %s\n", p.A.Name, p.B.Name, verdict, p.Tier)
			}

			counts := lo.CountValuesBy(pairs, func(p scene.Pair) string { return p.Tier.String() })
			tiers := lo.Keys(counts)
			sort.Strings(tiers)

			overlapping := lo.CountBy(pairs, func(p scene.Pair) bool { return p.Overlaps() })
			printf(cmd, "\n%d of %d pairs overlap (precise=%t)\n", overlapping, len(pairs), usePrecise)
			for _, tier := range tiers {
				printf(cmd, "  %-14s %d\n", tier, counts[tier])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&precise, "precise", false, "run the separating axis test (default from config)")
	cmd.Flags().BoolVar(&broad, "broad", false, "stop after the sphere and box tests")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list pairs that do not overlap too")
	cmd.MarkFlagsMutuallyExclusive("precise", "broad")
	return cmd
}
