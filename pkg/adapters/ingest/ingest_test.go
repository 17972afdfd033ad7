package ingest

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renjie/prism-qudt/pkg/adapters/catalog"
	"github.com/renjie/prism-qudt/pkg/core/domain"
)

func collect() (*[]domain.Reading, Downstream) {
	var received []domain.Reading
	return &received, func(_ context.Context, data []domain.Reading) error {
		received = append(received, data...)
		return nil
	}
}

func TestCsvUniversalIngestor_IngestStream(t *testing.T) {
	file, err := os.Open("testdata/readings.csv")
	require.NoError(t, err)
	defer file.Close()

	received, downstream := collect()
	ingestor := NewCsvUniversalIngestor(catalog.Default(), downstream)

	result, err := ingestor.IngestStream(context.Background(), file)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Total)
	assert.Equal(t, 4, result.Success)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "line 5")
	assert.Contains(t, result.Errors[1], "furlong")

	require.Len(t, *received, 4)
	r1 := (*received)[0]
	assert.Equal(t, "E-01", r1.DeviceInfo.ID)
	assert.Equal(t, domain.DeviceTypeElec, r1.DeviceInfo.Type)
	assert.Equal(t, catalog.WattHour, r1.Quantity.Unit())
	assert.InDelta(t, 1.5, domain.Convert(r1.Quantity, catalog.KilowattHour).Value(), 1e-12)

	r2 := (*received)[1]
	assert.Equal(t, 11, r2.Timestamp.Hour())
	assert.Equal(t, 2.5, r2.Quantity.Value())

	// 空单位列解析为无量纲
	heat := (*received)[3]
	assert.Equal(t, domain.Num, heat.Quantity.Unit())
	assert.Equal(t, 42.0, heat.Quantity.Value())
}

func TestCsvUniversalIngestor_Headers(t *testing.T) {
	_, downstream := collect()
	ingestor := NewCsvUniversalIngestor(catalog.Default(), downstream)

	_, err := ingestor.IngestStream(context.Background(), strings.NewReader("device_id,value\nD1,1\n"))
	assert.ErrorContains(t, err, "timestamp")

	result, err := ingestor.IngestStream(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, result.Total)

	_, err = ingestor.IngestBatch(context.Background(), strings.NewReader(""), "json")
	assert.Error(t, err)
}

func TestCsvUniversalIngestor_BatchesDownstream(t *testing.T) {
	var b strings.Builder
	b.WriteString("device_id,timestamp,value,unit\n")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 250; i++ {
		b.WriteString("D1," + base.Add(time.Duration(i)*time.Minute).Format(time.RFC3339) + ",1,kWh\n")
	}

	var calls []int
	ingestor := NewCsvUniversalIngestor(catalog.Default(), func(_ context.Context, data []domain.Reading) error {
		calls = append(calls, len(data))
		return nil
	})

	result, err := ingestor.IngestBatch(context.Background(), strings.NewReader(b.String()), "CSV")
	require.NoError(t, err)
	assert.Equal(t, 250, result.Success)
	assert.Equal(t, []int{100, 100, 50}, calls)
}

func TestCsvUniversalIngestor_DownstreamError(t *testing.T) {
	boom := errors.New("boom")
	ingestor := NewCsvUniversalIngestor(catalog.Default(), func(context.Context, []domain.Reading) error {
		return boom
	})

	result, err := ingestor.IngestStream(context.Background(),
		strings.NewReader("device_id,timestamp,value\nD1,2024-01-01T00:00:00Z,1\n"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, result.Total)
}

func TestJsonUniversalIngestor_Array(t *testing.T) {
	file, err := os.Open("testdata/stream_data.json")
	require.NoError(t, err)
	defer file.Close()

	received, downstream := collect()
	ingestor := NewJsonUniversalIngestor(catalog.Default(), downstream)

	result, err := ingestor.IngestStream(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 2, result.Failed)

	require.Len(t, *received, 2)
	r1 := (*received)[0]
	assert.Equal(t, "D-Uni-01", r1.DeviceInfo.ID)
	assert.Equal(t, 500.5, r1.Quantity.Value())
	assert.Equal(t, "500.5 kWh", r1.Quantity.String())

	r2 := (*received)[1]
	assert.Equal(t, domain.DeviceTypeWater, r2.DeviceInfo.Type)
	assert.Equal(t, 12, r2.Timestamp.Hour())
	assert.Equal(t, 30, r2.Timestamp.Minute())
	assert.InDelta(t, 0.01225, domain.Convert(r2.Quantity, catalog.CubicMeter).Value(), 1e-12)
}

func TestJsonUniversalIngestor_SingleObject(t *testing.T) {
	received, downstream := collect()
	ingestor := NewJsonUniversalIngestor(catalog.Default(), downstream)

	result, err := ingestor.IngestBatch(context.Background(),
		strings.NewReader(`  {"device_id":"D1","timestamp":"2024-03-01T10:00:00Z","value":7,"unit":"MJ"}`), "json")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Success)
	require.Len(t, *received, 1)
	assert.Equal(t, catalog.Megajoule, (*received)[0].Quantity.Unit())

	_, err = ingestor.IngestStream(context.Background(), strings.NewReader(`"nope"`))
	assert.Error(t, err)

	_, err = ingestor.IngestBatch(context.Background(), strings.NewReader("[]"), "csv")
	assert.Error(t, err)
}
