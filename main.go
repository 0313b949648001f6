package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nightlife-server/config"
	"nightlife-server/di"
	"nightlife-server/engine"
	"nightlife-server/models"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "nightlife-server",
		Short: "Dubai venue and event finder backend",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DEFAULT_CONFIG_PATH, "config file path")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(refreshCmd())
	rootCmd.AddCommand(cardsCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getContainer(ctx context.Context) (*di.Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return di.NewContainer(ctx, cfg)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the periodic refresh job",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			container, err := getContainer(ctx)
			if err != nil {
				return err
			}
			refresher := container.RecordsRefresherService

			if !container.Config.Refresh.SkipOnStartup {
				if _, err := refresher.RefreshRecords(ctx); err != nil {
					// Serve whatever snapshot is already stored.
					log.Println("[MAIN] Initial refresh failed:", err)
				}
			}

			if err := refresher.StartPeriodicJob(container.Config.Refresh.Cron); err != nil {
				return err
			}
			defer refresher.Stop()

			return container.NightlifeHttpServer.Run(ctx)
		},
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch venues and events once and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := getContainer(cmd.Context())
			if err != nil {
				return err
			}

			report, err := container.RecordsRefresherService.RefreshRecords(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
}

func cardsCmd() *cobra.Command {
	var (
		areas      []string
		categories []string
		dates      []string
		query      string
		dedup      string
		venueID    string
	)

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Print the card list for a filter as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := engine.ParseDedupPolicy(dedup)
			if err != nil {
				return err
			}

			vals := url.Values{}
			vals[models.AREA_QUERY_ARG] = areas
			vals[models.CATEGORY_QUERY_ARG] = categories
			vals[models.DATE_QUERY_ARG] = dates
			if query != "" {
				vals.Set(models.SEARCH_QUERY_ARG, query)
			}
			fs := models.ParseFilterState(vals)

			ctx := cmd.Context()
			container, err := getContainer(ctx)
			if err != nil {
				return err
			}

			// An in-memory store starts empty.
			if container.Config.Redis.UseMock {
				if _, err := container.RecordsRefresherService.RefreshRecords(ctx); err != nil {
					return err
				}
			}

			now := time.Now().In(container.Engine.Location())
			var cards []models.Card
			if venueID != "" {
				cards, err = container.CatalogService.VenueCards(ctx, venueID, fs, policy, now)
			} else {
				cards, err = container.CatalogService.Cards(ctx, fs, policy, now)
			}
			if err != nil {
				return err
			}
			return printJSON(cards)
		},
	}

	cmd.Flags().StringSliceVar(&areas, "area", nil, "area filter (repeatable)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "category filter as Primary or Primary:Secondary (repeatable)")
	cmd.Flags().StringSliceVar(&dates, "date", nil, "date filter as YYYY-MM-DD (repeatable)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "free-text search")
	cmd.Flags().StringVar(&dedup, "dedup", "", "dedup policy: composite or closest")
	cmd.Flags().StringVar(&venueID, "venue", "", "restrict to one venue id")

	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.Save(configPath, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
