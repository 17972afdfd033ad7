package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-qudt/pkg/adapters/catalog"
	"github.com/renjie/prism-qudt/pkg/core/domain"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("scale-factor", DefaultScaleFactor, "")
	fs.StringP("output", "o", DefaultOutput, "")
	fs.Duration("interval", 0, "")
	fs.Bool("interpolate", false, "")
	fs.Bool("verbose", false, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, used, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, used)
	assert.Equal(t, DefaultScaleFactor, cfg.ScaleFactor)
	assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
	assert.Equal(t, "table", cfg.Output)
	assert.Equal(t, "REALTIME", cfg.Strategy)
	assert.Equal(t, DefaultTolerance, cfg.Alignment.Tolerance)
	assert.Zero(t, cfg.Alignment.Interval)
	assert.Equal(t, "kWh", cfg.Targets["ELEC"])
	assert.Equal(t, "m3", cfg.Targets["WATER"])
	assert.Empty(t, cfg.Rules)
}

func TestLoad_File(t *testing.T) {
	cfg, used, err := Load("testdata/prism.yaml", nil)
	require.NoError(t, err)

	assert.Equal(t, "testdata/prism.yaml", used)
	assert.Equal(t, 100, cfg.ScaleFactor)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "MWh", cfg.Targets["ELEC"])
	assert.Equal(t, "MJ", cfg.Targets["HEAT"])
	// 未覆盖的默认值保留
	assert.Equal(t, "m3", cfg.Targets["GAS"])
	assert.Equal(t, 15*time.Minute, cfg.Alignment.Interval)
	assert.Equal(t, 2*time.Minute, cfg.Alignment.Tolerance)
	assert.True(t, cfg.Alignment.Interpolate)

	require.Len(t, cfg.Rules, 3)
	assert.Equal(t, "ELEC", cfg.Rules[0].DeviceType)
	assert.Equal(t, "RANGE", cfg.Rules[0].Type)
	assert.Equal(t, "CORRECT", cfg.Rules[0].Action)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("PRISM_SCALE_FACTOR", "1000")
	t.Setenv("PRISM_OUTPUT", "YAML")
	t.Setenv("PRISM_ALIGNMENT__TOLERANCE", "30s")
	t.Setenv("PRISM_TARGETS__GAS", "L")

	cfg, _, err := Load("testdata/prism.yaml", nil)
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.ScaleFactor)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, 30*time.Second, cfg.Alignment.Tolerance)
	assert.Equal(t, "L", cfg.Targets["GAS"])
	assert.NotContains(t, cfg.Targets, "gas")
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("PRISM_SCALE_FACTOR", "1000")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--scale-factor=10", "-o", "yaml", "--interval=1h"}))

	cfg, _, err := Load("", fs)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.ScaleFactor)
	assert.Equal(t, "yaml", cfg.Output)
	assert.Equal(t, time.Hour, cfg.Alignment.Interval)
	// 未显式设置的 flag 不覆盖
	assert.False(t, cfg.Verbose)
}

func TestLoad_Invalid(t *testing.T) {
	_, _, err := Load("testdata/invalid.yaml", nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	msg := err.Error()
	assert.Contains(t, msg, "ScaleFactor")
	assert.Contains(t, msg, "Output")
	assert.Contains(t, msg, "Targets")
	assert.Contains(t, msg, "Rules[0].ID")
	assert.Contains(t, msg, "Rules[0].Type")
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load("testdata/nope.yaml", nil)
	assert.Error(t, err)
}

func TestConfig_TargetUnits(t *testing.T) {
	cfg, _, err := Load("testdata/prism.yaml", nil)
	require.NoError(t, err)

	units, err := cfg.TargetUnits(catalog.Default())
	require.NoError(t, err)
	assert.Equal(t, catalog.MegawattHour, units[domain.DeviceTypeElec])
	assert.Equal(t, catalog.Megajoule, units[domain.DeviceTypeHeat])

	cfg.Targets["ELEC"] = "furlong"
	_, err = cfg.TargetUnits(catalog.Default())
	assert.ErrorIs(t, err, catalog.ErrUnknownUnit)
}

func TestConfig_CleaningRules(t *testing.T) {
	cfg, _, err := Load("testdata/prism.yaml", nil)
	require.NoError(t, err)

	rules := cfg.CleaningRules()
	require.Len(t, rules, 3)

	assert.Equal(t, domain.RuleTypeRange, rules[0].Type)
	assert.Equal(t, domain.ActionCorrect, rules[0].Action)
	assert.True(t, rules[0].Enabled)
	assert.Equal(t, "kWh", rules[0].Parameters["unit"])
	assert.EqualValues(t, 100000, rules[0].Parameters["max"])

	assert.True(t, rules[1].Enabled)
	assert.False(t, rules[2].Enabled)
	assert.Equal(t, domain.DeviceTypeWater, rules[2].DeviceType)
}

func TestConfig_IngestStrategy(t *testing.T) {
	t.Setenv("PRISM_STRATEGY", "calibration")

	cfg, _, err := Load("", nil)
	require.NoError(t, err)

	st, err := cfg.IngestStrategy()
	require.NoError(t, err)
	assert.Equal(t, domain.IngestStrategyCalibration, st)
}
