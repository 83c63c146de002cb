package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/madun-it/portfolio/internal/nav"
)

// navCmd replays scroll positions through the section tracker, which is
// handy when tuning the threshold against a real page layout.
func navCmd() *cobra.Command {
	var (
		layout    []string
		scroll    []int
		threshold int
	)

	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Show which section is highlighted for a list of scroll offsets",
		Example: `  portfolio nav --layout home=0,about=800,skills=1400 --scroll 0,745,1500
  portfolio nav --layout home=0,about=800 --scroll 760 --threshold 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := parseLayout(layout)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tracker := nav.NewTracker(sections, threshold)
			fmt.Fprintf(out, "start\t%s\n", tracker.Active())

			var y int
			unsubscribe := tracker.Subscribe(func(active string) {
				fmt.Fprintf(out, "%d\t%s\n", y, active)
			})
			defer unsubscribe()

			for _, y = range scroll {
				tracker.Scroll(y)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&layout, "layout", nil, "sections in document order as id=top")
	cmd.Flags().IntSliceVar(&scroll, "scroll", nil, "scroll offsets to replay")
	cmd.Flags().IntVar(&threshold, "threshold", nav.DefaultThreshold, "pixels above a section top that already count as inside it")
	cmd.MarkFlagRequired("layout")
	return cmd
}

func parseLayout(entries []string) ([]nav.Offset, error) {
	sections := make([]nav.Offset, 0, len(entries))
	for _, e := range entries {
		id, top, ok := strings.Cut(e, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("layout entry %q: want id=top", e)
		}
		n, err := strconv.Atoi(top)
		if err != nil {
			return nil, fmt.Errorf("layout entry %q: %w", e, err)
		}
		sections = append(sections, nav.Offset{ID: id, Top: n})
	}
	return sections, nil
}
