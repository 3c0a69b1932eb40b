package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"plateanet-crawler/internal/crawler"

	"github.com/spf13/cobra"
)

var crawlMatch *string
var crawlJson *bool
var crawlConcurrency *int

func init() {
	crawlMatch = crawlCmd.Flags().String("match", "", "Only crawl productions whose name resembles this.")
	crawlJson = crawlCmd.Flags().Bool("json", false, "Write one json object per production instead of a table.")
	crawlConcurrency = crawlCmd.Flags().Int("concurrency", 0, "How many productions are crawled at once, defaults to the config value.")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--match <name>] [--json] [--concurrency <n>]",
	Short: "Crawls every production and prints the promotions with seats left.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := setup()
		if err != nil {
			return err
		}
		defer client.Close()

		if *crawlConcurrency > 0 {
			cfg.Concurrency = *crawlConcurrency
		}
		opts := crawler.Options{Concurrency: cfg.Concurrency}
		if *crawlMatch != "" {
			opts.Filter = crawler.MatchName(*crawlMatch, crawler.DefaultMatchThreshold)
		}
		c := crawler.NewCrawler(client, opts, tel)

		var table *tableSink
		var sink crawler.Sink
		var jsonOut *jsonSink
		if *crawlJson {
			jsonOut = newJsonSink(os.Stdout)
			sink = jsonOut
		} else {
			table = &tableSink{}
			sink = table
		}
		counter := &failureCounter{inner: sink}

		start := time.Now()
		err = c.Run(cmd.Context(), counter)
		if errors.Is(err, context.Canceled) {
			slog.Info("crawl interrupted, printing what was finished", "productions", counter.total)
		} else if err != nil {
			return fmt.Errorf("crawl: %w", err)
		}

		if table != nil {
			table.Render(os.Stdout)
		}
		if jsonOut != nil && jsonOut.failed != nil {
			return fmt.Errorf("write output: %w", jsonOut.failed)
		}
		slog.Info(
			"crawl finished",
			"productions", counter.total,
			"failed", counter.failed,
			"seconds", time.Since(start).Seconds(),
		)
		return nil
	},
}
