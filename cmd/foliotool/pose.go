package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/pkg/math"
)

const poseFrame = 16 * time.Millisecond

func newPoseCmd(t *tool) *cobra.Command {
	var (
		page, target, leaf int
		after              time.Duration
	)
	cmd := &cobra.Command{
		Use:   "pose",
		Short: "Print a leaf's bone angles some time after a page request",
		Example: `  foliotool pose --page 0 --target 1 --after 300ms
  foliotool pose --page 2 --target 5 --leaf 3 --after 1s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := t.newBook(page)
			if err != nil {
				return err
			}
			if leaf < 0 || leaf >= len(b.Leaves()) {
				return fmt.Errorf("leaf %d out of range [0, %d)", leaf, len(b.Leaves()))
			}
			if target >= 0 {
				b.SetTarget(target)
			}
			runFrames(b, after)

			l := b.Leaves()[leaf]
			snap := b.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "leaf %d at %s: target %d settled %d opened %t offset %.4f\n",
				leaf, after, snap.Target, snap.Settled, snap.Opened(leaf), l.OffsetZ())
			fmt.Fprintln(out, "bone    turn°    fold°")
			for i, bone := range l.Chain.Bones {
				fmt.Fprintf(out, "%4d  %7.2f  %7.2f\n", i, math.RadToDeg(bone.Turn), math.RadToDeg(bone.Fold))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page the book starts at")
	cmd.Flags().IntVar(&target, "target", -1, "page to request at time zero (negative for none)")
	cmd.Flags().IntVar(&leaf, "leaf", 0, "leaf to print")
	cmd.Flags().DurationVar(&after, "after", 300*time.Millisecond, "simulated time to run")
	return cmd
}

// runFrames advances b in fixed frames until d has elapsed.
func runFrames(b *book.Book, d time.Duration) {
	for now := time.Duration(0); now < d; {
		step := poseFrame
		if now+step > d {
			step = d - now
		}
		now += step
		b.Update(now, step)
	}
}
