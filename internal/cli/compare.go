package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/renjie/prism-qudt/pkg/core/domain"
)

type comparison struct {
	Left     string `json:"left" yaml:"left"`
	Right    string `json:"right" yaml:"right"`
	Relation string `json:"relation" yaml:"relation"`
	Exact    bool   `json:"exact" yaml:"exact"`
}

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <value1> <unit1> <value2> <unit2>",
		Short: "Compare two quantities",
		Long: `Compare two quantities of the same dimension.

Values whose relative difference is below 1e-5 are reported as equal ("=").
"exact" is true only when both quantities are bit-identical in SI base units.`,
		Example: `  prism compare 1 kWh 3.6 MJ
  prism compare 100 cm 1 m -o json`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}

			a, err := parseQuantity(rt.units, args[0], args[1])
			if err != nil {
				return err
			}
			b, err := parseQuantity(rt.units, args[2], args[3])
			if err != nil {
				return err
			}

			c, err := domain.Compare(a, b)
			if err != nil {
				return err
			}

			res := comparison{Left: a.String(), Right: b.String(), Relation: relation(c), Exact: a.Equal(b)}
			return newRenderer(cmd.OutOrStdout(), rt.cfg.Output).render(res, func(t table.Writer) {
				t.AppendHeader(table.Row{"Left", "", "Right", "Exact"})
				t.AppendRow(table.Row{res.Left, res.Relation, res.Right, res.Exact})
			})
		},
	}
}

func relation(c int) string {
	switch {
	case c < 0:
		return "<"
	case c > 0:
		return ">"
	default:
		return "="
	}
}
