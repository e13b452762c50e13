package main

import (
	"github.com/iwvelando/emissions-forecast/internal/metrics"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"github.com/iwvelando/emissions-forecast/pkg/output"
	"github.com/iwvelando/emissions-forecast/pkg/validation"
	"github.com/spf13/cobra"
)

// overviewOutput is the JSON form of the overview command.
type overviewOutput struct {
	Overview   metrics.Overview   `json:"overview"`
	Confidence metrics.Confidence `json:"confidence"`
}

func newOverviewCmd(root *rootOptions) *cobra.Command {
	var scenarioName string

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Print the headline figures for the latest observed year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.load(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = a.logger.Sync()
			}()

			format := root.resolveFormat(a.conf, "")
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}

			sc, err := a.pickScenario(scenarioName)
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

			out := cmd.OutOrStdout()
			if format == constants.OutputFormatJSON {
				return output.JSON(out, overviewOutput{Overview: view.Overview, Confidence: view.Confidence})
			}
			return output.PrettyOverview(out, view.Overview, view.Confidence)
		},
	}

	cmd.Flags().StringVar(&scenarioName, "scenario", "", "scenario whose view is loaded (default from config)")
	return cmd
}
