package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/services"
)

type reportOutput struct {
	Reports   []domain.EnergyReport `json:"reports" yaml:"reports"`
	Summaries []domain.TypeSummary  `json:"summaries,omitempty" yaml:"summaries,omitempty"`
}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	var (
		format  string
		period  string
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Compute per-device usage from cumulative readings",
		Long: `Compute per-device usage for each hour, day or month from cumulative readings.

Usage of a period is the last reading of the period minus the last reading of the
previous period (or the first reading of the period for the first one), converted
into the device type's target unit. --summary adds totals per device type.`,
		Example: `  prism report readings.csv --period day
  prism report readings.json --period month --summary -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := domain.ReportPeriod(strings.ToUpper(period))
			switch p {
			case domain.ReportPeriodHour, domain.ReportPeriodDay, domain.ReportPeriodMonth:
			default:
				return fmt.Errorf("invalid period %q (use hour|day|month)", period)
			}
			return runReport(cmd, args[0], format, p, summary)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format (csv|json), inferred from the extension by default")
	cmd.Flags().StringVar(&period, "period", "day", "Report period (hour|day|month)")
	cmd.Flags().BoolVar(&summary, "summary", false, "Add usage totals per device type")
	return cmd
}

func runReport(cmd *cobra.Command, path, format string, period domain.ReportPeriod, summary bool) error {
	rt, err := getRuntime(cmd)
	if err != nil {
		return err
	}

	readings, _, err := readFile(cmd.Context(), rt, path, format)
	if err != nil {
		return err
	}

	targets, err := rt.cfg.TargetUnits(rt.units)
	if err != nil {
		return err
	}
	reporter := services.NewUsageReporter(targets, rt.cfg.ScaleFactor, rt.logger)

	reports, err := reporter.Report(cmd.Context(), readings, period)
	if err != nil {
		return err
	}
	out := reportOutput{Reports: reports}
	if out.Reports == nil {
		out.Reports = []domain.EnergyReport{}
	}
	if summary {
		if out.Summaries, err = reporter.Summarize(reports); err != nil {
			return err
		}
	}

	r := newRenderer(cmd.OutOrStdout(), rt.cfg.Output)
	if r.structured() {
		return r.encode(out)
	}

	r.table(func(t table.Writer) {
		t.AppendHeader(table.Row{"Device", "Type", "Start", "Usage", "Unit", "Scaled"})
		for _, rep := range out.Reports {
			t.AppendRow(table.Row{rep.DeviceID, rep.DeviceType, rep.StartTime.Format(time.RFC3339), formatFloat(rep.TotalUsage), rep.Unit, rep.UsageScaled})
		}
	})
	if summary && len(out.Summaries) > 0 {
		r.table(func(t table.Writer) {
			t.SetTitle("Summary")
			t.AppendHeader(table.Row{"Type", "Start", "Devices", "Total", "Unit"})
			for _, s := range out.Summaries {
				t.AppendRow(table.Row{s.DeviceType, s.StartTime.Format(time.RFC3339), s.Devices, formatFloat(s.TotalUsage), s.Unit})
			}
		})
	}
	return nil
}
