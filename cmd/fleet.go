package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Claudio-NG/FROTAS/app"
	"github.com/Claudio-NG/FROTAS/config"
	"github.com/Claudio-NG/FROTAS/core/fleet"
	"github.com/Claudio-NG/FROTAS/core/normalize"
	"github.com/Claudio-NG/FROTAS/infra/logger"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List resolved vehicles across all sources",
	RunE:  runFleetLs,
}

func init() {
	fleetCmd.AddCommand(fleetLsCmd)
	rootCmd.AddCommand(fleetCmd)
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	srcs, err := app.LoadSources(cfg.Sources, logger.New("fleet-ls"))
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	filter := normalize.NewStatusFilter(cfg.ExcludedStatuses)
	index := fleet.Resolve(
		normalize.Roster(srcs.Roster, filter),
		normalize.Service(srcs.Maintenance),
		normalize.Intake(srcs.Intake, filter),
		normalize.Fuel(srcs.Fuel),
	)
	for _, plate := range index.Plates() {
		rec, _ := index.Record(plate)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", plate, rec.Make, rec.Model)
	}
	return nil
}
