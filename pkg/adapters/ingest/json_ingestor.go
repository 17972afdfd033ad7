package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

// JsonUniversalIngestor 处理 JSON 流: 对象数组或单个对象
type JsonUniversalIngestor struct {
	units      ports.UnitRepository
	downstream Downstream
}

var _ ports.UniversalIngestor = (*JsonUniversalIngestor)(nil)

func NewJsonUniversalIngestor(units ports.UnitRepository, downstream Downstream) *JsonUniversalIngestor {
	return &JsonUniversalIngestor{units: units, downstream: downstream}
}

// jsonReading 扁平化的 JSON 读数
type jsonReading struct {
	DeviceID  string      `json:"device_id"`
	Model     string      `json:"model"`
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	Value     json.Number `json:"value"` // 保留原始数字文本
	Unit      string      `json:"unit"`
}

func (p jsonReading) record() record {
	return record{
		deviceID:  p.DeviceID,
		model:     p.Model,
		deviceTyp: p.Type,
		timestamp: p.Timestamp,
		value:     p.Value.String(),
		unit:      p.Unit,
	}
}

// IngestStream 预读首个非空白字节区分数组与单个对象
// 数组内单个元素映射失败只计入 result，语法错误则中止
func (j *JsonUniversalIngestor) IngestStream(ctx context.Context, stream io.Reader) (*domain.IngestionResult, error) {
	buffered := bufio.NewReader(stream)
	head, err := peekNonSpace(buffered)
	if errors.Is(err, io.EOF) {
		return &domain.IngestionResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to peek start token: %w", err)
	}

	decoder := json.NewDecoder(buffered)
	decoder.UseNumber()

	switch head {
	case '[':
		if _, err := decoder.Token(); err != nil {
			return nil, err
		}
		return j.decodeArray(ctx, decoder)
	case '{':
		return j.decodeOne(ctx, decoder)
	default:
		return nil, fmt.Errorf("unexpected JSON format (expected '[' or '{', got '%c')", head)
	}
}

// IngestBatch 只接受 json 格式
func (j *JsonUniversalIngestor) IngestBatch(ctx context.Context, file io.Reader, format string) (*domain.IngestionResult, error) {
	if !strings.EqualFold(format, "json") {
		return nil, fmt.Errorf("unsupported format for JsonIngestor: %s", format)
	}
	return j.IngestStream(ctx, file)
}

func (j *JsonUniversalIngestor) decodeOne(ctx context.Context, decoder *json.Decoder) (*domain.IngestionResult, error) {
	var p jsonReading
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode single object: %w", err)
	}

	result := &domain.IngestionResult{Total: 1}
	reading, err := p.record().toReading(j.units)
	if err != nil {
		result.Reject("mapping error: %v", err)
		return result, nil
	}
	if err := j.downstream(ctx, []domain.Reading{reading}); err != nil {
		return result, err
	}
	result.Success++
	return result, nil
}

func (j *JsonUniversalIngestor) decodeArray(ctx context.Context, decoder *json.Decoder) (*domain.IngestionResult, error) {
	result := &domain.IngestionResult{}
	out := &batcher{downstream: j.downstream}

	for decoder.More() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		var p jsonReading
		if err := decoder.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode error inside array: %w", err)
		}
		result.Total++

		reading, err := p.record().toReading(j.units)
		if err != nil {
			result.Reject("item %d skipped: %v", result.Total, err)
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
	// ']'
	if _, err := decoder.Token(); err != nil {
		return result, err
	}
	return result, nil
}

func peekNonSpace(r *bufio.Reader) (byte, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, r.UnreadByte()
	}
}
