package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

type conversion struct {
	Value  float64 `json:"value" yaml:"value"`
	From   string  `json:"from" yaml:"from"`
	Result float64 `json:"result" yaml:"result"`
	To     string  `json:"to" yaml:"to"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a value between two units",
		Long: `Convert a value expressed in one unit into another unit of the same dimension.
Offset units such as degC and degF are converted through their absolute scale.`,
		Example: `  # 2.5 kilowatt hours in megajoules
  prism convert 2.5 kWh MJ

  # negative values must follow "--"
  prism convert -- -40 degC degF`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}

			q, err := parseQuantity(rt.units, args[0], args[1])
			if err != nil {
				return err
			}
			to, err := rt.units.Lookup(args[2])
			if err != nil {
				return err
			}

			out, err := domain.TryConvert(q, to)
			if err != nil {
				return err
			}
			rt.logger.Debug("converted", "from", q, "to", out, "raw", q.Raw())

			res := conversion{Value: q.Value(), From: args[1], Result: out.Value(), To: to.String()}
			return newRenderer(cmd.OutOrStdout(), rt.cfg.Output).render(res, func(t table.Writer) {
				t.AppendHeader(table.Row{"Value", "From", "Result", "To"})
				t.AppendRow(table.Row{formatFloat(res.Value), res.From, formatFloat(res.Result), res.To})
			})
		},
	}
}

// parseQuantity builds a quantity from a display value and a unit symbol.
func parseQuantity(units ports.UnitRepository, value, symbol string) (domain.QuantityValue, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return domain.QuantityValue{}, fmt.Errorf("invalid value %q: %w", value, err)
	}
	u, err := units.Lookup(symbol)
	if err != nil {
		return domain.QuantityValue{}, err
	}
	return domain.OfScaled(v, u), nil
}
