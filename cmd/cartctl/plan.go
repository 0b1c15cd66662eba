package main

import (
	"context"
	"fmt"
	"io"
	"store-route-assistant/internal/domain"
	"store-route-assistant/internal/render"
	"store-route-assistant/internal/services"
	"time"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <item>...",
	Short: "Plan a walking route for a shopping list",
	Long: `Plan a walking route for the given items and print the directions
with the trip metrics. Items are matched to the catalog case-insensitively.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trip, err := planTrip(cmd.Context(), args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printTrip(out, trip)

		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			dump := *trip
			dump.Playback = nil
			pretty.Fprintf(out, "\n%# v\n", dump)
		}

		if path, _ := cmd.Flags().GetString("out"); path != "" {
			if err := render.SavePNG(tripScene(trip), path); err != nil {
				return err
			}
			fmt.Fprintln(out, "map written to", path)
		}
		return nil
	},
}

func init() {
	planCmd.Flags().Bool("debug", false, "Dump the full trip after the summary")
	planCmd.Flags().StringP("out", "o", "", "Also render the route map to this PNG file")
}

func requestTimeout() time.Duration {
	return cfg.HTTPTimeout * time.Duration(cfg.RetryMax+1)
}

// planTrip runs one submission through a fresh trip session.
func planTrip(ctx context.Context, items []string) (*services.Trip, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout())
	defer cancel()

	reg, err := registry.FetchSections(ctx)
	if err != nil {
		return nil, err
	}

	session, err := services.NewTripSession(reg, services.SessionOptions{StoreLayout: cfg.StoreLayout})
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if _, err := session.Select(item); err != nil {
			return nil, fmt.Errorf("%s: %w", item, err)
		}
	}

	return session.Submit(ctx, tripPlanner)
}

func printTrip(w io.Writer, trip *services.Trip) {
	fmt.Fprintf(w, "Route (%d stops)\n", len(trip.Stops))
	for i, d := range trip.Directions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, d)
	}

	fmt.Fprintf(w, "\nDistance: %.0f px\n", trip.Metrics.TotalDistance)
	fmt.Fprintf(w, "Time:     %d min\n", trip.Metrics.EstimatedTimeMinutes)
	fmt.Fprintf(w, "Savings:  %.1f%%\n", trip.Metrics.SavingsPercent)

	if msg := services.UnmappedWarning(trip.Unmapped); msg != "" {
		fmt.Fprintln(w, "\nwarning:", msg)
	}
}

func tripScene(trip *services.Trip) render.Scene {
	scene := render.Scene{Layout: domain.DefaultLayout(), Title: "Shopping route"}
	if trip != nil {
		scene.Pins = trip.Pins
		scene.Path = trip.Path
	}
	return scene
}
