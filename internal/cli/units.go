package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/renjie/prism-qudt/pkg/core/domain"
)

type unitInfo struct {
	Symbol     string  `json:"symbol" yaml:"symbol"`
	Name       string  `json:"name" yaml:"name"`
	Dimension  string  `json:"dimension" yaml:"dimension"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
	Offset     float64 `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// NewUnitsCommand creates the units command.
func NewUnitsCommand() *cobra.Command {
	var like string

	cmd := &cobra.Command{
		Use:   "units",
		Short: "List the units known to the catalog",
		Long: `List the unit catalog grouped by dimension.

With --like only the units convertible with the given unit are listed.`,
		Example: `  prism units
  prism units --like kWh`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}

			list := rt.units.Units()
			if like != "" {
				u, err := rt.units.Lookup(like)
				if err != nil {
					return err
				}
				list = rt.units.ConvertibleWith(u)
			}

			infos := make([]unitInfo, 0, len(list))
			for _, u := range list {
				infos = append(infos, describeUnit(u))
			}

			return newRenderer(cmd.OutOrStdout(), rt.cfg.Output).render(infos, func(t table.Writer) {
				t.AppendHeader(table.Row{"Symbol", "Name", "Dimension", "Multiplier", "Offset"})
				for _, info := range infos {
					t.AppendRow(table.Row{info.Symbol, info.Name, info.Dimension, formatFloat(info.Multiplier), formatFloat(info.Offset)})
				}
				t.AppendFooter(table.Row{"", "", "", "Total", len(infos)})
			})
		},
	}

	cmd.Flags().StringVar(&like, "like", "", "Only list units convertible with this unit")
	return cmd
}

// describeUnit 单位的展示信息，multiplier 为 1 个该单位对应的 SI 基准增量
func describeUnit(u domain.Unit) unitInfo {
	info := unitInfo{
		Symbol:     u.String(),
		Dimension:  u.Dimension().String(),
		Multiplier: u.Unscale(1) - u.Unscale(0),
	}
	if named, ok := u.(interface{ Name() string }); ok {
		info.Name = named.Name()
	}
	if affine, ok := u.(domain.AffineUnit); ok {
		info.Offset = affine.Offset()
	}
	return info
}
