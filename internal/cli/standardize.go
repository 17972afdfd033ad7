package cli

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/renjie/prism-qudt/pkg/adapters/memory"
	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/services"
)

type standardizeOutput struct {
	Ingestion   *domain.IngestionResult  `json:"ingestion" yaml:"ingestion"`
	Readings    []domain.StandardReading `json:"readings" yaml:"readings"`
	Quarantined []quarantineRow          `json:"quarantined" yaml:"quarantined"`
}

type quarantineRow struct {
	DeviceID  string    `json:"device_id" yaml:"device_id"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Value     string    `json:"value" yaml:"value"`
	RuleID    string    `json:"rule_id,omitempty" yaml:"rule_id,omitempty"`
	Reason    string    `json:"reason" yaml:"reason"`
}

// NewStandardizeCommand creates the standardize command.
func NewStandardizeCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "standardize <file>",
		Short: "Clean and standardize raw meter readings",
		Long: `Read raw cumulative meter readings from a CSV or JSON file, clean them with the
configured rules, convert every reading into its device type's target unit and
print the resulting standard readings.

CSV columns: device_id, timestamp, value [, unit, model, type]
JSON: an array of {"device_id", "timestamp", "value", "unit", "model", "type"}

Readings that fail a rule, repeat a timestamp or carry a unit that cannot be
converted to the target unit are quarantined.`,
		Example: `  prism standardize readings.csv
  prism standardize readings.json --interval 15m --interpolate -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStandardize(cmd, args[0], format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "Input format (csv|json), inferred from the extension by default")
	cmd.Flags().Duration("interval", 0, "Align readings to a time grid with this interval (0 disables)")
	cmd.Flags().Duration("tolerance", 0, "Maximum distance between a grid point and its snapshot reading")
	cmd.Flags().Bool("interpolate", false, "Interpolate grid points without a reading within tolerance")
	cmd.Flags().String("strategy", "", "Ingest strategy (REALTIME|BATCH_LATE|CALIBRATION)")
	return cmd
}

func runStandardize(cmd *cobra.Command, path, format string) error {
	rt, err := getRuntime(cmd)
	if err != nil {
		return err
	}
	cfg := rt.cfg

	strategy, err := cfg.IngestStrategy()
	if err != nil {
		return err
	}
	ctx := domain.NewContext(cmd.Context(), domain.IngestContext{
		TraceID:  uuid.NewString(),
		Strategy: strategy,
		Operator: "cli",
		BatchID:  filepath.Base(path),
	})

	readings, result, err := readFile(ctx, rt, path, format)
	if err != nil {
		return err
	}

	quarantine := memory.NewQuarantineRepository()
	standardizer, err := newStandardizer(rt, quarantine)
	if err != nil {
		return err
	}

	standards, err := standardizer.ProcessAndStandardize(ctx, readings)
	if err != nil {
		return err
	}
	rejected, err := quarantine.FindPending(ctx, 0)
	if err != nil {
		return err
	}

	out := standardizeOutput{Ingestion: result, Readings: standards, Quarantined: quarantineRows(rejected)}
	if out.Readings == nil {
		out.Readings = []domain.StandardReading{}
	}
	return renderStandardize(cmd, rt, out)
}

// newStandardizer wires the configured targets, rules and alignment into a standardizer.
func newStandardizer(rt *runtime, quarantine *memory.QuarantineRepository) (*services.CoreStandardizer, error) {
	cfg := rt.cfg

	targets, err := cfg.TargetUnits(rt.units)
	if err != nil {
		return nil, err
	}

	opts := []services.StandardizerOption{
		services.WithScaleFactor(cfg.ScaleFactor),
		services.WithConcurrencyLimit(cfg.Concurrency),
		services.WithLogger(rt.logger),
		services.WithRepository(memory.NewStandardReadingRepository()),
		services.WithQuarantineRepository(quarantine),
	}
	for deviceType, u := range targets {
		opts = append(opts, services.WithTargetUnit(deviceType, u))
	}
	if rules := cfg.CleaningRules(); len(rules) > 0 {
		opts = append(opts, services.WithRuleRepository(memory.NewCleaningRuleRepository(rules...), rt.units))
	}
	if cfg.Alignment.Interval > 0 {
		opts = append(opts, services.WithAlignment(cfg.Alignment.Interval, cfg.Alignment.Tolerance, cfg.Alignment.Interpolate))
	}
	return services.NewCoreStandardizer(opts...), nil
}

func quarantineRows(records []domain.QuarantineReading) []quarantineRow {
	rows := make([]quarantineRow, 0, len(records))
	for _, q := range records {
		rows = append(rows, quarantineRow{
			DeviceID:  q.Reading.DeviceInfo.ID,
			Timestamp: q.Reading.Timestamp,
			Value:     q.Reading.Quantity.String(),
			RuleID:    q.RuleID,
			Reason:    q.Reason,
		})
	}
	return rows
}

func renderStandardize(cmd *cobra.Command, rt *runtime, out standardizeOutput) error {
	r := newRenderer(cmd.OutOrStdout(), rt.cfg.Output)
	if r.structured() {
		return r.encode(out)
	}

	r.table(func(t table.Writer) {
		t.AppendHeader(table.Row{"Device", "Timestamp", "Value", "Unit", "Scaled", "Quality"})
		for _, s := range out.Readings {
			t.AppendRow(table.Row{s.DeviceID, s.Timestamp.Format(time.RFC3339), formatFloat(s.ValueDisplay), s.Unit, s.ValueScaled, s.Quality})
		}
		t.AppendFooter(table.Row{"", "", "", "", "Total", len(out.Readings)})
	})

	if len(out.Quarantined) > 0 {
		r.table(func(t table.Writer) {
			t.SetTitle("Quarantined")
			t.AppendHeader(table.Row{"Device", "Timestamp", "Value", "Rule", "Reason"})
			for _, q := range out.Quarantined {
				t.AppendRow(table.Row{q.DeviceID, q.Timestamp.Format(time.RFC3339), q.Value, q.RuleID, q.Reason})
			}
		})
	}
	return nil
}
