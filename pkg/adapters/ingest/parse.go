package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

// batchSize 下游批量推送的缓冲大小
const batchSize = 100

// Downstream 数据流向的下一站
// 在实际系统中，这里可能是调用 Standardizer.ProcessAndStandardize，或者推送到消息队列
type Downstream func(context.Context, []domain.Reading) error

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp format: %s", s)
}

// resolveUnit 解析单位符号，空符号表示无量纲数
func resolveUnit(units ports.UnitRepository, symbol string) (domain.Unit, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return domain.Num, nil
	}
	if units == nil {
		return nil, fmt.Errorf("unit %q given but no unit repository configured", symbol)
	}
	return units.Lookup(symbol)
}

// record 与格式无关的扁平读数，CSV 行与 JSON 对象都先映射为它
type record struct {
	deviceID  string
	model     string
	deviceTyp string
	timestamp string
	value     string
	unit      string
}

// toReading 数值按单位的展示刻度解释 (12.5 kWh 即 12.5 千瓦时)
func (r record) toReading(units ports.UnitRepository) (domain.Reading, error) {
	deviceID := strings.TrimSpace(r.deviceID)
	if deviceID == "" {
		return domain.Reading{}, fmt.Errorf("device_id is empty")
	}

	ts, err := parseTimestamp(r.timestamp)
	if err != nil {
		return domain.Reading{}, err
	}

	val, err := strconv.ParseFloat(strings.TrimSpace(r.value), 64)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("invalid value format: %q", r.value)
	}

	unit, err := resolveUnit(units, r.unit)
	if err != nil {
		return domain.Reading{}, err
	}

	return domain.Reading{
		DeviceInfo: domain.DeviceInfo{
			ID:    deviceID,
			Model: strings.TrimSpace(r.model),
			Type:  domain.DeviceType(strings.ToUpper(strings.TrimSpace(r.deviceTyp))),
		},
		Timestamp: ts,
		Quantity:  domain.OfScaled(val, unit),
		Quality:   domain.QualityValid,
	}, nil
}

// batcher 缓冲读数，满 batchSize 条推送一次下游
type batcher struct {
	downstream Downstream
	buf        []domain.Reading
}

func (b *batcher) add(ctx context.Context, r domain.Reading) error {
	b.buf = append(b.buf, r)
	if len(b.buf) < batchSize {
		return nil
	}
	return b.flush(ctx)
}

func (b *batcher) flush(ctx context.Context) error {
	if len(b.buf) == 0 {
		return nil
	}
	batch := b.buf
	b.buf = nil
	return b.downstream(ctx, batch)
}
