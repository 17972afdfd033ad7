package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-qudt/pkg/adapters/catalog"
	"github.com/renjie/prism-qudt/pkg/adapters/memory"
	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
	"github.com/renjie/prism-qudt/pkg/core/services/rules"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCoreStandardizer_ConvertsToTargetUnit(t *testing.T) {
	repo := memory.NewStandardReadingRepository()
	quarantine := memory.NewQuarantineRepository()

	standardizer := NewCoreStandardizer(
		WithScaleFactor(10000),
		WithTargetUnit(domain.DeviceTypeElec, catalog.KilowattHour),
		WithCleaningRules(&rules.MonotonicRule{ID: "mono"}),
		WithRepository(repo),
		WithQuarantineRepository(quarantine),
		WithLogger(discardLogger()),
	)

	// 1. 10:00 1500 Wh -> 1.5 kWh
	// 2. 10:00 重复时间戳 -> 隔离
	// 3. 10:30 1000 Wh 回退 -> 隔离
	// 4. 11:00 2500.19 Wh -> 2.50019 kWh -> 25002
	// 5. D2 直接上报 kWh
	// 6. D3 类型为电表但上报 m3，无法换算 -> 隔离
	raw := []domain.Reading{
		elec("D1", 0, 1500, catalog.WattHour),
		elec("D1", 0, 1500, catalog.WattHour),
		elec("D1", 30*time.Minute, 1000, catalog.WattHour),
		elec("D1", time.Hour, 2500.19, catalog.WattHour),
		elec("D2", 0, 3, catalog.KilowattHour),
		elec("D3", 0, 7, catalog.CubicMeter),
	}

	ctx := context.Background()
	results, err := standardizer.ProcessAndStandardize(ctx, raw)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "D1", results[0].DeviceID)
	assert.Equal(t, int64(15000), results[0].ValueScaled)
	assert.Equal(t, 10000, results[0].ScaleFactor)
	assert.Equal(t, "kWh", results[0].Unit)
	assert.Equal(t, domain.QualityValid, results[0].Quality)
	assert.Equal(t, domain.ReadingTypeStandard, results[0].SourceType)

	assert.Equal(t, int64(25002), results[1].ValueScaled)
	assert.InDelta(t, 2.50019, results[1].ValueDisplay, 1e-9)

	assert.Equal(t, "D2", results[2].DeviceID)
	assert.Equal(t, int64(30000), results[2].ValueScaled)

	pending, err := quarantine.FindPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	var incompatible int
	for _, q := range pending {
		if q.Reading.DeviceInfo.ID == "D3" {
			incompatible++
			assert.Contains(t, q.Reason, "cannot convert")
			assert.Empty(t, q.RuleID)
		}
	}
	assert.Equal(t, 1, incompatible)

	// 已持久化，可按时间点查询
	got, err := standardizer.GetStandardReading(ctx, "D1", tBase.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(25002), got.ValueScaled)

	_, err = standardizer.GetStandardReading(ctx, "D1", tBase.Add(30*time.Minute))
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCoreStandardizer_KeepsReadingUnitWithoutTarget(t *testing.T) {
	standardizer := NewCoreStandardizer(WithScaleFactor(100))

	results, err := standardizer.ProcessAndStandardize(context.Background(), []domain.Reading{
		elec("D1", 0, 12.34, catalog.MegawattHour),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "MWh", results[0].Unit)
	assert.Equal(t, int64(1234), results[0].ValueScaled)
	assert.Equal(t, 100, results[0].ScaleFactor)
}

func TestCoreStandardizer_Alignment(t *testing.T) {
	standardizer := NewCoreStandardizer(
		WithAlignment(15*time.Minute, 5*time.Minute, true),
		WithTargetUnit(domain.DeviceTypeElec, catalog.KilowattHour),
	)

	results, err := standardizer.ProcessAndStandardize(context.Background(), []domain.Reading{
		elec("D1", 2*time.Minute, 10, catalog.KilowattHour),
		elec("D1", 29*time.Minute, 12000, catalog.WattHour),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, tBase, results[0].Timestamp)
	assert.Equal(t, domain.QualityValid, results[0].Quality)
	assert.InDelta(t, 10, results[0].ValueDisplay, 1e-9)

	// 10:15 附近 5 分钟内无读数，在 10:02 与 10:29 之间插值
	assert.Equal(t, tBase.Add(15*time.Minute), results[1].Timestamp)
	assert.Equal(t, domain.QualityInterpolated, results[1].Quality)
	assert.InDelta(t, 10+2*13.0/27.0, results[1].ValueDisplay, 1e-9)

	assert.Equal(t, tBase.Add(30*time.Minute), results[2].Timestamp)
	assert.InDelta(t, 12, results[2].ValueDisplay, 1e-9)
}

func TestCoreStandardizer_DynamicRules(t *testing.T) {
	ruleRepo := memory.NewCleaningRuleRepository(domain.CleaningRule{
		ID:         "elec-range",
		DeviceType: domain.DeviceTypeElec,
		Type:       domain.RuleTypeRange,
		Action:     domain.ActionReject,
		Enabled:    true,
		Parameters: map[string]any{"min": 0, "max": 100, "unit": "kWh"},
	})
	quarantine := memory.NewQuarantineRepository()

	standardizer := NewCoreStandardizer(
		WithRuleRepository(ruleRepo, catalog.Default()),
		WithQuarantineRepository(quarantine),
		WithLogger(discardLogger()),
	)

	water := domain.Reading{
		DeviceInfo: domain.DeviceInfo{ID: "W1", Type: domain.DeviceTypeWater},
		Timestamp:  tBase,
		Quantity:   domain.OfScaled(500, catalog.CubicMeter),
	}
	results, err := standardizer.ProcessAndStandardize(context.Background(), []domain.Reading{
		elec("D1", 0, 50, catalog.KilowattHour),
		elec("D1", time.Hour, 250000, catalog.WattHour),
		water,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "D1", results[0].DeviceID)
	assert.Equal(t, "W1", results[1].DeviceID)

	pending, err := quarantine.FindPending(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "elec-range", pending[0].RuleID)
}

func TestCoreStandardizer_DynamicRulesInvalidConfig(t *testing.T) {
	ruleRepo := memory.NewCleaningRuleRepository(domain.CleaningRule{
		ID:         "broken",
		DeviceType: domain.DeviceTypeElec,
		Type:       domain.RuleTypeRange,
		Enabled:    true,
		Parameters: map[string]any{"min": 10, "max": 1},
	})
	standardizer := NewCoreStandardizer(WithRuleRepository(ruleRepo, catalog.Default()))

	_, err := standardizer.ProcessAndStandardize(context.Background(), []domain.Reading{
		elec("D1", 0, 50, catalog.KilowattHour),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

type failingRepo struct {
	ports.StandardReadingRepository
}

func (failingRepo) SaveBatch(context.Context, []domain.StandardReading) error {
	return errors.New("disk full")
}

func TestCoreStandardizer_PersistFailure(t *testing.T) {
	standardizer := NewCoreStandardizer(WithRepository(failingRepo{}))

	_, err := standardizer.ProcessAndStandardize(context.Background(), []domain.Reading{
		elec("D1", 0, 1, catalog.KilowattHour),
	})
	assert.ErrorContains(t, err, "disk full")
}

func TestCoreStandardizer_StatelessQuery(t *testing.T) {
	_, err := NewCoreStandardizer().GetStandardReading(context.Background(), "D1", tBase)
	assert.Error(t, err)
}
