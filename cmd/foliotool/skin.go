package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Faultbox/folio/internal/engine/skeleton"
)

func newSkinCmd(t *tool) *cobra.Command {
	return &cobra.Command{
		Use:   "skin [x...]",
		Short: "Print bone weights for rest positions along the leaf",
		Long: `skin prints the two bones and weights a vertex gets at each rest x.
Without arguments it samples every bone joint.`,
		Example: `  foliotool skin 0 0.5 1.28`,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := t.cfg.BookSettings().Leaf
			geom, err := skeleton.BuildLeafGeometry(spec)
			if err != nil {
				return err
			}
			sk := skeleton.ComputeSkin(geom, spec.Segments)

			xs := make([]float64, 0, len(args))
			for _, a := range args {
				x, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("invalid x %q: %w", a, err)
				}
				xs = append(xs, x)
			}
			if len(xs) == 0 {
				for i := 0; i <= spec.Segments; i++ {
					xs = append(xs, float64(i)*sk.SegmentWidth)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d segments of %.4f\n", sk.Segments, sk.SegmentWidth)
			for _, x := range xs {
				inf := sk.At(x)
				fmt.Fprintf(out, "x=%.4f  bone %d w=%.3f  bone %d w=%.3f\n",
					x, inf.Index[0], inf.Weight[0], inf.Index[1], inf.Weight[1])
			}
			return nil
		},
	}
}
