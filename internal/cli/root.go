// Package cli provides the command-line interface for prism.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/renjie/prism-qudt/internal/config"
	"github.com/renjie/prism-qudt/pkg/adapters/catalog"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// runtimeKey is used to store the command runtime in context.
type runtimeKey struct{}

// runtime holds the dependencies shared by all commands.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	units  *catalog.Catalog
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "prism",
		Short: "Prism - unit-aware meter reading standardization",
		Long: `Prism converts physical quantities between units and turns raw meter
readings reported in mixed units (Wh, kWh, MJ, m3, L ...) into clean,
unit-consistent standard readings and usage reports.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, used, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			if used != "" {
				logger.Debug("using config file", "path", used)
			}

			ctx := context.WithValue(cmd.Context(), runtimeKey{}, &runtime{
				cfg:    cfg,
				logger: logger,
				units:  catalog.Default(),
			})
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./prism.yaml)")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", "", "Output format (table|json|yaml)")
	pf.Int("scale-factor", config.DefaultScaleFactor, "Fixed-point scale factor for standard readings")
	pf.Int("concurrency", config.DefaultConcurrency, "Maximum number of devices processed concurrently")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewConvertCommand())
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewUnitsCommand())
	rootCmd.AddCommand(NewStandardizeCommand())
	rootCmd.AddCommand(NewReportCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// getRuntime retrieves the runtime stored by the root command.
func getRuntime(cmd *cobra.Command) (*runtime, error) {
	if rt, ok := cmd.Context().Value(runtimeKey{}).(*runtime); ok {
		return rt, nil
	}
	return nil, fmt.Errorf("%s: command must be run through the prism root command", cmd.Name())
}
