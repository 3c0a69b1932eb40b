package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"plateanet-crawler/internal/components/chrono"
	"plateanet-crawler/internal/components/telemetry"
	"plateanet-crawler/internal/config"
	"plateanet-crawler/internal/crawler"
	"plateanet-crawler/internal/notify"

	"github.com/spf13/cobra"
)

var watchInterval *time.Duration
var watchMatch *string

func init() {
	watchInterval = watchCmd.Flags().Duration("interval", time.Minute*30, "How long to wait between crawls.")
	watchMatch = watchCmd.Flags().String("match", "", "Only crawl productions whose name resembles this.")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [--interval <duration>] [--match <name>]",
	Short: "Crawls repeatedly, mailing a digest of the promotions after each crawl when email is configured.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		clock, err := chrono.NewStandardImpl()
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}

		cfg, client, err := setup()
		if err != nil {
			return err
		}
		defer client.Close()

		opts := crawler.Options{Concurrency: cfg.Concurrency}
		if *watchMatch != "" {
			opts.Filter = crawler.MatchName(*watchMatch, crawler.DefaultMatchThreshold)
		}
		c := crawler.NewCrawler(client, opts, tel)

		var mailer *notify.Mailer
		if cfg.Email.Enabled() {
			m := notify.NewMailer(cfg.Email, clock, tel)
			mailer = &m
		} else {
			slog.Info("email is not configured, digests will be printed instead")
		}

		telemetry.InstrumentPerfStats(ctx, tel, time.Second*15)

		for {
			watchOnce(ctx, cfg, clock, c, mailer)

			select {
			case <-ctx.Done():
				slog.Info("watch stopped")
				return nil
			case <-time.After(*watchInterval):
			}
		}
	},
}

func watchOnce(ctx context.Context, cfg config.Config, clock chrono.API, c crawler.Crawler, mailer *notify.Mailer) {
	digest := &notify.Digest{}
	err := c.Run(ctx, digest)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("crawl failed", "err", err)
		}
		return
	}

	reports := digest.Reports()
	if mailer == nil {
		body, ok := notify.RenderDigest(reports, clock)
		if ok {
			os.Stdout.WriteString(body)
		}
		return
	}
	err = mailer.SendDigest(ctx, reports)
	if err != nil {
		slog.Error("failed to send digest", "to", cfg.Email.To, "err", err)
	}
}
