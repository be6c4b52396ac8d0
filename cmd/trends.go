package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/CosmoTheDev/scamshield/internal/controller"
	"github.com/CosmoTheDev/scamshield/models"
	"github.com/spf13/cobra"
)

var (
	trendsDate      string
	trendsCategory  string
	trendsOutputFmt string
)

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show reporting trends, or the reports behind one day or category",
	Long: `Without flags, prints total reports, the 7-day daily average, the daily
trend and the category distribution.

With --date or --category, lists the reports filed on that day or in that
category instead.

Examples:
  scamshield trends
  scamshield trends --date 2026-10-14
  scamshield trends --category upi --output json`,
	RunE: runTrends,
}

func init() {
	trendsCmd.Flags().StringVar(&trendsDate, "date", "", "Show reports filed on this day (YYYY-MM-DD)")
	trendsCmd.Flags().StringVar(&trendsCategory, "category", "", "Show reports in this category")
	trendsCmd.Flags().StringVarP(&trendsOutputFmt, "output", "o", "table", "Output format: table|json|yaml")
	trendsCmd.MarkFlagsMutuallyExclusive("date", "category")
}

func runTrends(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := validateOutput(trendsOutputFmt); err != nil {
		return err
	}
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	explorer := controller.NewTrendsExplorer(client, cfg.Trends, controller.Hooks{})
	out := cmd.OutOrStdout()

	if trendsDate != "" || trendsCategory != "" {
		filter := models.ByCategory(trendsCategory)
		if trendsDate != "" {
			if filter, err = models.ByDate(trendsDate); err != nil {
				return err
			}
		}
		if err := explorer.DrillDown(ctx, filter); err != nil {
			return err
		}
		explorer.Wait()
		detail := explorer.State().Detail
		if trendsOutputFmt != "table" {
			return writeStructured(out, trendsOutputFmt, detail.Reports)
		}
		fmt.Fprintln(out, headerStyle.Render(detail.Title))
		printReports(out, detail.Reports)
		return nil
	}

	explorer.Load(ctx)
	explorer.Wait()
	snap := explorer.State().Snapshot
	if snap == nil {
		fmt.Fprintln(out, dimStyle.Render("Trends are unavailable right now."))
		return nil
	}
	if trendsOutputFmt != "table" {
		return writeStructured(out, trendsOutputFmt, snap)
	}
	printTrends(out, *snap)
	return nil
}

func printTrends(w io.Writer, s models.TrendsSnapshot) {
	const barWidth = 40

	fmt.Fprintln(w, headerStyle.Render("Reporting trends"))
	fmt.Fprintf(w, "Total reports:        %d\n", s.TotalReports)
	fmt.Fprintf(w, "Daily average (7d):   %s\n", s.AverageDailyString())

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Daily reports:")
	highest := s.MaxTrendCount()
	for _, p := range s.Trend {
		n := 0
		if highest > 0 {
			n = p.Count * barWidth / highest
		}
		fmt.Fprintf(w, "  %s %s %d\n", p.Date, strings.Repeat("█", n), p.Count)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "By category:")
	for i, c := range s.Categories {
		share := s.CategoryShare(i)
		fmt.Fprintf(w, "  %-14s %s %d (%.0f%%)\n", c.Name, strings.Repeat("█", int(share*barWidth)), c.Value, share*100)
	}
}
