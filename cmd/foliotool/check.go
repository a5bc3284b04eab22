package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sqweek/dialog"

	"github.com/Faultbox/folio/internal/assets"
	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/logger"
)

func newCheckCmd(t *tool) *cobra.Command {
	var (
		dir  string
		pick bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Decode every page texture and report the ones that fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick {
				chosen, err := dialog.Directory().Title("Choose texture folder").Browse()
				if err != nil {
					if err == dialog.ErrCancelled {
						return nil
					}
					return fmt.Errorf("folder dialog: %w", err)
				}
				dir = chosen
			}
			if dir == "" {
				dir = t.cfg.Assets.Dir
			}
			m := assets.NewManager(assets.Options{
				Dir:      dir,
				MaxSize:  t.cfg.Assets.MaxSize,
				Workers:  t.cfg.Assets.Workers,
				Circular: t.cfg.CircularSurfaces(),
				Log:      logger.Named("assets"),
			})
			defer m.Close()

			ids := book.Surfaces(t.cfg.Pages())
			err := m.Preload(cmd.Context(), ids)

			out := cmd.OutOrStdout()
			failed := 0
			for _, id := range ids {
				if e := m.Err(id); e != nil {
					failed++
					fmt.Fprintf(out, "FAIL  %s: %v\n", id, e)
					continue
				}
				img, lerr := m.Load(id)
				if lerr != nil {
					failed++
					fmt.Fprintf(out, "FAIL  %s: %v\n", id, lerr)
					continue
				}
				b := img.Bounds()
				fmt.Fprintf(out, "ok    %s  %dx%d\n", id, b.Dx(), b.Dy())
			}
			fmt.Fprintf(out, "%d surfaces, %d failed\n", len(ids), failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d surfaces failed", failed, len(ids))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "texture directory (default from config)")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose the texture directory in a native dialog")
	return cmd
}
