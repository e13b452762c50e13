package main

import (
	"fmt"

	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"github.com/iwvelando/emissions-forecast/pkg/output"
	"github.com/iwvelando/emissions-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type projectOptions struct {
	scenario string
	horizon  int
	seed     int64
}

func newProjectCmd(root *rootOptions) *cobra.Command {
	opts := &projectOptions{}

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Print the historical series extended under a scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProject(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "scenario to project: BAU, Moderate, Aggressive (default from config)")
	cmd.Flags().IntVar(&opts.horizon, "horizon", constants.DefaultHorizon, "number of fiscal years to project")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "seed for the projection noise")
	return cmd
}

func runProject(cmd *cobra.Command, root *rootOptions, opts *projectOptions) error {
	a, err := root.load(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.logger.Sync()
	}()

	if cmd.Flags().Changed("horizon") {
		a.conf.Forecast.Horizon = opts.horizon
	}
	if cmd.Flags().Changed("seed") {
		seed := opts.seed
		a.conf.Forecast.Seed = &seed
	}

	format := root.resolveFormat(a.conf, "")
	if err := validation.ValidateOutputFormat(format); err != nil {
		return err
	}

	sc, err := a.pickScenario(opts.scenario)
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}

	view, err := svc.Load(cmd.Context(), sc)
	if err != nil {
		return err
	}
	a.logger.Debug("projection complete",
		zap.String("op", "main.project"),
		zap.String("scenario", sc.String()),
		zap.Int("records", view.Series.Len()),
		zap.String("forecast_source", string(view.ForecastSource)),
	)

	out := cmd.OutOrStdout()
	switch format {
	case constants.OutputFormatJSON:
		return output.JSON(out, view.Series)
	default:
		return output.PrettySeries(out, fmt.Sprintf("Results for scenario %s", sc), view.Series)
	}
}
