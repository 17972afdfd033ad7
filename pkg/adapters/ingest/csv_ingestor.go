package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

var requiredCsvColumns = []string{"device_id", "timestamp", "value"}

// CsvUniversalIngestor 处理带表头的 CSV 流
// 列: device_id, timestamp, value [, unit, model, type]，顺序不限
type CsvUniversalIngestor struct {
	units      ports.UnitRepository
	downstream Downstream
}

var _ ports.UniversalIngestor = (*CsvUniversalIngestor)(nil)

// NewCsvUniversalIngestor 创建 CSV 摄入器，units 用于解析 unit 列
func NewCsvUniversalIngestor(units ports.UnitRepository, downstream Downstream) *CsvUniversalIngestor {
	return &CsvUniversalIngestor{units: units, downstream: downstream}
}

// IngestStream 单行解析失败只计入 result，表头错误或下游失败则中止
func (c *CsvUniversalIngestor) IngestStream(ctx context.Context, stream io.Reader) (*domain.IngestionResult, error) {
	reader := csv.NewReader(stream)
	reader.FieldsPerRecord = -1 // 可选列允许缺失
	reader.TrimLeadingSpace = true

	result := &domain.IngestionResult{}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	out := &batcher{downstream: c.downstream}
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		result.Total++
		if err != nil {
			result.Reject("csv read error at line %d: %v", line, err)
			continue
		}

		reading, err := columns.record(row).toReading(c.units)
		if err != nil {
			result.Reject("line %d: %v", line, err)
			continue
		}
		result.Success++
		if err := out.add(ctx, reading); err != nil {
			return result, err
		}
	}

	if err := out.flush(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// IngestBatch 只接受 csv 格式
func (c *CsvUniversalIngestor) IngestBatch(ctx context.Context, file io.Reader, format string) (*domain.IngestionResult, error) {
	if !strings.EqualFold(format, "csv") {
		return nil, fmt.Errorf("unsupported format for CsvIngestor: %s", format)
	}
	return c.IngestStream(ctx, file)
}

// csvColumns 列名 (小写) 到下标
type csvColumns map[string]int

func indexColumns(header []string) (csvColumns, error) {
	cols := make(csvColumns, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredCsvColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required csv header: %s", name)
		}
	}
	return cols, nil
}

func (cols csvColumns) record(row []string) record {
	get := func(name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return row[idx]
		}
		return ""
	}
	return record{
		deviceID:  get("device_id"),
		model:     get("model"),
		deviceTyp: get("type"),
		timestamp: get("timestamp"),
		value:     get("value"),
		unit:      get("unit"),
	}
}
