package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type healthChecker interface {
	Health(ctx context.Context) error
}

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List the store sections and the items each one stocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout())
		defer cancel()
		out := cmd.OutOrStdout()

		if check, _ := cmd.Flags().GetBool("check"); check {
			hc, ok := tripPlanner.(healthChecker)
			if !ok {
				fmt.Fprintln(out, "planner: offline")
			} else if err := hc.Health(ctx); err != nil {
				return err
			} else {
				fmt.Fprintln(out, "planner: ok")
			}
		}

		reg, err := registry.FetchSections(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SECTION\tX\tY\tITEMS")
		for _, s := range reg.Sections {
			x, y := "-", "-"
			if s.Coordinates != nil {
				x = fmt.Sprintf("%.0f", s.Coordinates.X)
				y = fmt.Sprintf("%.0f", s.Coordinates.Y)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, x, y, strings.Join(s.Items, ", "))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%d sections, %d supported items\n", len(reg.Sections), len(reg.SupportedItems))
		return nil
	},
}

func init() {
	sectionsCmd.Flags().Bool("check", false, "Check the planner health endpoint first")
}
