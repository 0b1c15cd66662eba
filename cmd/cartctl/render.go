package main

import (
	"fmt"
	"store-route-assistant/internal/render"
	"store-route-assistant/internal/services"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [item]...",
	Short: "Render the store map to a PNG file",
	Long: `Render the store map to a PNG file. With items, the route for them is
planned first and drawn with numbered pins; without, only the floor plan is
drawn.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")

		var trip *services.Trip
		if len(args) > 0 {
			var err error
			if trip, err = planTrip(cmd.Context(), args); err != nil {
				return err
			}
		}

		if err := render.SavePNG(tripScene(trip), path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "map written to", path)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringP("out", "o", "map.png", "Output PNG file")
}
