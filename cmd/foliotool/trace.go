package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/logger"
)

func newTraceCmd(t *tool) *cobra.Command {
	var from, to int
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print every settle step from one page to another",
		Example: `  foliotool trace --from 0 --to 6
  foliotool trace --from 5 --to 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := t.cfg.BookSettings()
			steps := traceSettle(len(s.Pages), from, to, s.Settle)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d leaves, %d -> %d\n", len(s.Pages), from, to)
			for _, st := range steps {
				fmt.Fprintf(out, "%8s  page %d  next check +%s\n", st.At, st.Settled, st.Delay)
			}
			if len(steps) > 0 {
				last := steps[len(steps)-1]
				fmt.Fprintf(out, "settled at %s\n", last.At+last.Delay)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&from, "from", 0, "settled page to start at")
	cmd.Flags().IntVar(&to, "to", 0, "target page")
	return cmd
}

// traceSettle records the steps a settler takes after a single retarget.
func traceSettle(leaves, from, to int, timing book.SettleTiming) []book.Step {
	s := book.NewSettler(leaves, from, timing, logger.Named("settle"))
	var steps []book.Step
	s.OnStep(func(st book.Step) { steps = append(steps, st) })

	s.SetTarget(to, 0)
	for {
		next, ok := s.Pending()
		if !ok {
			break
		}
		s.Tick(next)
	}
	return steps
}
