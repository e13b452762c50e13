package main

import (
	"io"

	"github.com/iwvelando/emissions-forecast/internal/report"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"github.com/iwvelando/emissions-forecast/pkg/output"
	"github.com/iwvelando/emissions-forecast/pkg/validation"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	scenario string
	format   string
}

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Assemble the emissions report for a scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.scenario, "scenario", "", "scenario to report on (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", "", "report format: pretty, json, markdown, html")
	return cmd
}

func runReport(cmd *cobra.Command, root *rootOptions, opts *reportOptions) error {
	a, err := root.load(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.logger.Sync()
	}()

	format := root.resolveFormat(a.conf, opts.format)
	if err := validation.ValidateReportFormat(format); err != nil {
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

	return writeReport(cmd.OutOrStdout(), view.Report, format)
}

func writeReport(w io.Writer, r report.Report, format string) error {
	switch format {
	case constants.OutputFormatJSON:
		return output.JSON(w, r)
	case constants.OutputFormatMarkdown:
		_, err := io.WriteString(w, r.Markdown())
		return err
	case constants.OutputFormatHTML:
		body, err := report.RenderHTML(r)
		if err != nil {
			return err
		}
		_, err = w.Write(body)
		return err
	default:
		return output.PrettyReport(w, r)
	}
}
