package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"leetcode-srs-bot/internal/domain/schedule"
)

var defaultPreviewIntervals = []int{0, 1, 3, 10, 100}

// NewCmdPreview creates the preview command.
func NewCmdPreview() *cobra.Command {
	var intervals []int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the next interval for each rating",
		Long: `Prints a table of the interval, in days, that each rating produces
from a given current interval.`,
		Example: `  srsbot preview
  srsbot preview --interval 7 --interval 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writePreview(cmd.OutOrStdout(), intervals)
		},
	}

	cmd.Flags().IntSliceVarP(&intervals, "interval", "i", defaultPreviewIntervals, "Current intervals in days")
	return cmd
}

func writePreview(w io.Writer, intervals []int) error {
	const width = 10

	header := fmt.Sprintf("%-*s", width, "CURRENT")
	for _, r := range schedule.Ratings {
		header += fmt.Sprintf("%-*s", width, strings.ToUpper(r.String()))
	}
	fmt.Fprintln(w, color.New(color.Bold).Sprint(strings.TrimRight(header, " ")))

	for _, current := range intervals {
		line := fmt.Sprintf("%-*s", width, plural(current))
		for _, r := range schedule.Ratings {
			next, err := schedule.NextInterval(r, current)
			if err != nil {
				return fmt.Errorf("interval %d: %w", current, err)
			}
			// Pad first; escape codes would throw off the width.
			line += ratingColor(r).Sprintf("%-*s", width, plural(next))
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	return nil
}

func ratingColor(r schedule.Rating) *color.Color {
	switch r {
	case schedule.Again:
		return color.New(color.FgRed)
	case schedule.Hard:
		return color.New(color.FgYellow)
	case schedule.Good:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgCyan)
	}
}

func plural(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
