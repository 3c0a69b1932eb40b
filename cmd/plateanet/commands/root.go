package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"plateanet-crawler/internal/components/telemetry"
	"plateanet-crawler/internal/config"
	"plateanet-crawler/internal/scrapers/plateanet"

	"github.com/spf13/cobra"
)

var configPath *string
var verbose *bool

var rootCmd = &cobra.Command{
	Use:           "plateanet",
	Short:         "plateanet is a CLI for crawling the promotions listed on plateanet.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "plateanet.json5", "The config file to read, a .local override next to it is merged in.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug logs.")
}

func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}

var tel telemetry.API = telemetry.SlogAPI{}

// commandError wraps a failure of `action`, a cancelled context is an
// operator interrupt and ends the command cleanly.
func commandError(action string, err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return fmt.Errorf("%s: %w", action, err)
}

func loadConfig() (config.Config, error) {
	return config.Load(*configPath)
}

// createClient builds the scraper out of the config, callers must Close it.
func createClient(cfg config.Config) (*plateanet.Client, error) {
	opts := cfg.ClientOptions()
	if cfg.DumpDir != "" {
		output, err := telemetry.NewFilesystemOutput(cfg.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("create dump directory: %w", err)
		}
		opts.Dump = output
	}
	return plateanet.NewClient(opts, tel)
}

// setup loads the config and the client every command needs.
func setup() (config.Config, *plateanet.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	client, err := createClient(cfg)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("initialize plateanet client: %w", err)
	}
	return cfg, client, nil
}
