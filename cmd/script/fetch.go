package main

import (
	"fmt"
	"os"

	"themeradar/cmd"
	"themeradar/internal/app"
	"themeradar/internal/repository"
	"themeradar/internal/util"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch live quotes and news for a universe, then screen and store",
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

var (
	universePath string
	notify       bool
)

func init() {
	fetchCmd.Flags().StringVar(&universePath, "universe", "", "universe csv (default from config)")
	fetchCmd.Flags().BoolVar(&notify, "notify", false, "email the report to the configured recipients")
}

func runFetch(c *cobra.Command, args []string) error {
	if configPath != "" {
		os.Setenv(util.ConfigEnvVar, configPath)
	}

	deps, err := cmd.InitializeDependencies()
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(deps)

	universe := deps.ApiHandler.UniverseRepository
	if universePath != "" {
		universe = repository.NewUniverseRepository(universePath)
	}
	members, err := universe.List()
	if err != nil {
		return err
	}

	result, err := deps.ApiHandler.ScreeningApp.Run(c.Context(), app.RunInput{
		Symbols: repository.Symbols(members),
		Notify:  notify,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.ErrOrStderr(), "stored report run %s\n", result.Run.ReportRunID)
	return writeReport(c.OutOrStdout(), result.Report)
}
