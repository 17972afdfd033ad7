package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-qudt/pkg/adapters/catalog"
	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/services/rules"
)

var tBase = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func elec(id string, offset time.Duration, v float64, u domain.Unit) domain.Reading {
	return domain.Reading{
		DeviceInfo: domain.DeviceInfo{ID: id, Type: domain.DeviceTypeElec},
		Timestamp:  tBase.Add(offset),
		Quantity:   domain.OfScaled(v, u),
	}
}

func TestChainSanitizer_DuplicatesAndOrdering(t *testing.T) {
	s := NewSanitizer(&rules.MonotonicRule{ID: "mono"}).(*ChainSanitizer)
	s.now = func() time.Time { return tBase }

	input := []domain.Reading{
		elec("D1", time.Hour, 12, catalog.KilowattHour),
		elec("D2", 0, 5, catalog.KilowattHour),
		elec("D1", 0, 10, catalog.KilowattHour),
		elec("D1", 0, 10, catalog.KilowattHour),
	}
	clean, quarantined := s.Clean(input)

	require.Len(t, clean, 3)
	assert.Equal(t, "D1", clean[0].DeviceInfo.ID)
	assert.Equal(t, tBase, clean[0].Timestamp)
	assert.Equal(t, "D1", clean[1].DeviceInfo.ID)
	// D2 的 5 kWh 小于 D1 的读数，但不同设备之间不做单调性比较
	assert.Equal(t, "D2", clean[2].DeviceInfo.ID)

	require.Len(t, quarantined, 1)
	assert.Equal(t, "duplicate timestamp", quarantined[0].Reason)
	assert.Equal(t, tBase, quarantined[0].CreatedAt)
	assert.Equal(t, domain.QuarantineStatusPending, quarantined[0].Status)
	assert.NotEmpty(t, quarantined[0].ID)

	// 调用方的切片保持原顺序
	assert.Equal(t, "D1", input[0].DeviceInfo.ID)
	assert.Equal(t, tBase.Add(time.Hour), input[0].Timestamp)
}

func TestChainSanitizer_CorrectionFlowsToNextRule(t *testing.T) {
	s := NewSanitizer(
		&rules.RangeRule{
			ID:     "range",
			Min:    domain.OfScaled(0, catalog.KilowattHour),
			Max:    domain.OfScaled(100, catalog.KilowattHour),
			Action: domain.ActionCorrect,
		},
		&rules.MonotonicRule{ID: "mono"},
	)

	clean, quarantined := s.Clean([]domain.Reading{
		elec("D1", 0, 150000, catalog.WattHour),
		elec("D1", time.Hour, 90, catalog.KilowattHour),
	})

	require.Len(t, clean, 1)
	assert.Equal(t, domain.QualityCorrected, clean[0].Quality)
	assert.Equal(t, catalog.WattHour, clean[0].Quantity.Unit())
	assert.InDelta(t, 100000, clean[0].Quantity.Value(), 1e-9)

	// 90 kWh 与修正后的 100 kWh 比较，判为回退
	require.Len(t, quarantined, 1)
	assert.Equal(t, "mono", quarantined[0].RuleID)
	assert.Contains(t, quarantined[0].Reason, "regression")
}

func TestChainSanitizer_IncompatibleUnitsAreQuarantined(t *testing.T) {
	s := NewSanitizer(&rules.MonotonicRule{ID: "mono"})

	clean, quarantined := s.Clean([]domain.Reading{
		elec("D1", 0, 10, catalog.KilowattHour),
		elec("D1", time.Hour, 11, catalog.CubicMeter),
	})

	assert.Len(t, clean, 1)
	require.Len(t, quarantined, 1)
	assert.Contains(t, quarantined[0].Reason, "cannot compare")
}

func TestChainSanitizer_Empty(t *testing.T) {
	clean, quarantined := NewSanitizer().Clean(nil)
	assert.Nil(t, clean)
	assert.Nil(t, quarantined)
}

func TestChainSanitizer_DuplicateOfRejectedReading(t *testing.T) {
	s := NewSanitizer(&rules.RangeRule{
		ID:     "range",
		Min:    domain.OfScaled(0, catalog.KilowattHour),
		Max:    domain.OfScaled(100, catalog.KilowattHour),
		Action: domain.ActionReject,
	})

	clean, quarantined := s.Clean([]domain.Reading{
		elec("D1", 0, 150, catalog.KilowattHour),
		elec("D1", 0, 150, catalog.KilowattHour),
	})

	assert.Empty(t, clean)
	require.Len(t, quarantined, 2)
	assert.Equal(t, "range", quarantined[0].RuleID)
	assert.Equal(t, "duplicate timestamp", quarantined[1].Reason)
}
