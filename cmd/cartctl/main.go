package main

import (
	"database/sql"
	"fmt"
	"os"
	"store-route-assistant/internal/app"
	"store-route-assistant/internal/config"
	"store-route-assistant/internal/platform/obs"
	"store-route-assistant/internal/ports"

	"github.com/spf13/cobra"
)

var (
	// cfgFile is set by the --config flag.
	cfgFile string

	// Initialized by PersistentPreRunE for every command but version.
	cfg         config.Config
	store       *sql.DB
	registry    ports.SectionRegistry
	tripPlanner ports.TripPlanner
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cartctl",
	Short: "Plan and inspect shopping routes from the command line",
	Long: `cartctl talks to the same route planner and section registry as the
store route server. It lists the store sections, plans a trip for a list of
items and renders the store map with the route drawn on it.

Settings come from the environment, .env and $HOME/.store-route.yaml.
Set OFFLINE=true to plan without a backend.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.store-route.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "", "Set log level. Available: debug, info, warn, error")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(renderCmd)
}

// setup loads the configuration and wires the adapters.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == versionCmd.Name() {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if cmd.Flags().Changed("loglevel") {
		level, _ = cmd.Flags().GetString("loglevel")
	}
	if err := obs.SetLogLevel(level); err != nil {
		return err
	}

	st, dialect, err := app.OpenStore(cfg)
	if err != nil {
		return err
	}
	store = st

	registry, tripPlanner, err = app.BuildAdapters(cfg, store, app.RouteCache(cfg, store, dialect))
	return err
}

func teardown(cmd *cobra.Command, args []string) error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}
