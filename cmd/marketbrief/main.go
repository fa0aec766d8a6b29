// MarketBrief aggregates financial news from RSS feeds and market data
// APIs, filters and ranks it, and delivers HTML digest reports by email.
//
// Usage:
//
//	marketbrief daily        # general market digest
//	marketbrief portfolio    # digest for held stocks
//	marketbrief watchlist    # digest for watched stocks
//	marketbrief all          # run all three in sequence
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/itmurugan/marketbrief/internal/digest/config"
)

var version = "dev"

func main() {
	var cfgPath string
	var dryRun bool
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "marketbrief",
		Short: "Financial news digest generator",
		Long:  "MarketBrief fetches financial news from many sources, filters and ranks it, and emails HTML digest reports.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional; environment wins over it either way.
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config/marketbrief.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "fetch and render but do not send email")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	loadApp := func() (*app, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return &app{cfg: cfg, dryRun: dryRun, logger: slog.Default()}, nil
	}

	rootCmd.AddCommand(digestCmd(loadApp, "daily", "Fetch and deliver the general market digest"))
	rootCmd.AddCommand(digestCmd(loadApp, "portfolio", "Fetch and deliver news for held stocks"))
	rootCmd.AddCommand(digestCmd(loadApp, "watchlist", "Fetch and deliver news for watched stocks"))
	rootCmd.AddCommand(allCmd(loadApp))
	rootCmd.AddCommand(subscribeCmd(loadApp))
	rootCmd.AddCommand(unsubscribeCmd(loadApp))
	rootCmd.AddCommand(subscribersCmd(loadApp))
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func digestCmd(loadApp func() (*app, error), name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			return a.runDigest(cmd.Context(), name)
		},
	}
}

func allCmd(loadApp func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run daily, portfolio, and watchlist digests in sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			return a.runAll(cmd.Context())
		},
	}
}

func subscribeCmd(loadApp func() (*app, error)) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Add an email subscriber",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			return a.subscribe(cmd.Context(), email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	return cmd
}

func unsubscribeCmd(loadApp func() (*app, error)) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "unsubscribe",
		Short: "Remove an email subscriber",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			return a.unsubscribe(cmd.Context(), email)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	return cmd
}

func subscribersCmd(loadApp func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribers",
		Short: "List active email subscribers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			return a.listSubscribers(cmd.Context())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("marketbrief %s\n", version)
		},
	}
}
