package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/engine/camera"
	"github.com/Faultbox/folio/internal/engine/scene"
)

func newHitCmd(t *tool) *cobra.Command {
	var (
		page          int
		x, y          float64
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "hit",
		Short: "Show what a click at a viewport position would hit and do",
		Example: `  foliotool hit --x 700 --y 330
  foliotool hit --page 3 --x 400 --y 360 --width 1920 --height 1080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if width <= 0 || height <= 0 {
				return fmt.Errorf("invalid viewport %dx%d", width, height)
			}
			b, err := t.newBook(page)
			if err != nil {
				return err
			}
			sc, err := scene.New(b)
			if err != nil {
				return err
			}
			cam := camera.NewBookCamera(width, height)
			hits := sc.PickScreen(cam, x, y)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "page %d, viewport %dx%d, camera z=%.1f\n", b.Snapshot().Settled, width, height, cam.Distance)
			for _, h := range hits {
				fmt.Fprintf(out, "leaf %d  dist %.4f  point (%.3f, %.3f, %.3f)  uv (%.3f, %.3f)\n",
					h.Leaf, h.Distance, h.Point.X, h.Point.Y, h.Point.Z, h.UV.X, h.UV.Y)
			}
			act := b.Evaluate(hits)
			switch act.Kind {
			case book.ActionTurn:
				fmt.Fprintf(out, "action: turn leaf %d to page %d\n", act.Leaf, act.Target)
			case book.ActionNavigate:
				fmt.Fprintf(out, "action: navigate to %s\n", act.Route)
			default:
				fmt.Fprintln(out, "action: none")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page the book rests at")
	cmd.Flags().Float64Var(&x, "x", 0, "pointer x in viewport units")
	cmd.Flags().Float64Var(&y, "y", 0, "pointer y in viewport units")
	cmd.Flags().IntVar(&width, "width", 1280, "viewport width")
	cmd.Flags().IntVar(&height, "height", 720, "viewport height")
	return cmd
}
