package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CosmoTheDev/scamshield/internal/controller"
	"github.com/spf13/cobra"
)

var feedOnce bool

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Watch the latest community reports",
	Long: `Prints the most recent reports and refreshes them on the configured
poll interval (feed.poll_interval, default 10s) until interrupted.

A failed refresh keeps the previous list and is retried on the next tick.`,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().BoolVar(&feedOnce, "once", false, "Print the first successful refresh and exit")
}

func runFeed(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	updates := make(chan struct{}, 1)
	poller := controller.NewLiveFeedPoller(client, cfg.Feed,
		controller.CronScheduler{Logger: slog.Default()},
		controller.Hooks{OnChange: func() {
			select {
			case updates <- struct{}{}:
			default:
			}
		}},
	)
	if err := poller.Start(ctx); err != nil {
		return err
	}
	defer poller.Stop()

	slog.Info("Watching community reports", "interval", cfg.Feed.PollInterval, "limit", cfg.Feed.Limit)

	out := cmd.OutOrStdout()
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
			st := poller.State()
			if st.LastUpdated.IsZero() || st.LastUpdated.Equal(last) {
				continue
			}
			last = st.LastUpdated
			printFeed(out, st)
			if feedOnce {
				return nil
			}
		}
	}
}

func printFeed(w io.Writer, st controller.FeedState) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Latest reports  %s", st.LastUpdated.Format("15:04:05"))))
	printReports(w, st.Records)
	fmt.Fprintln(w)
}
