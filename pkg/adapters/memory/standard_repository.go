package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

type readingKey struct {
	deviceID string
	unixNano int64
}

type storedReading struct {
	reading  domain.StandardReading
	priority int
}

// StandardReadingRepository 内存版标准读数仓储
// 同一设备同一时间点只保留一条记录。覆盖规则取决于摄入策略 (domain.IngestContext)：
// 新记录的优先级不低于已有记录时覆盖，否则保留旧值。ctx 中未携带策略时按实时流处理。
type StandardReadingRepository struct {
	mu   sync.RWMutex
	data map[readingKey]storedReading
}

var _ ports.StandardReadingRepository = (*StandardReadingRepository)(nil)

func NewStandardReadingRepository() *StandardReadingRepository {
	return &StandardReadingRepository{data: make(map[readingKey]storedReading)}
}

func (r *StandardReadingRepository) SaveBatch(ctx context.Context, readings []domain.StandardReading) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// 整批校验通过后才写入
	for _, sr := range readings {
		if sr.DeviceID == "" {
			return fmt.Errorf("save standard reading: empty device id at %s", sr.Timestamp)
		}
	}
	priority := domain.StrategyFromContext(ctx).Priority()

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sr := range readings {
		k := readingKey{deviceID: sr.DeviceID, unixNano: sr.Timestamp.UnixNano()}
		if old, ok := r.data[k]; ok && old.priority > priority {
			continue
		}
		r.data[k] = storedReading{reading: sr, priority: priority}
	}
	return nil
}

func (r *StandardReadingRepository) FindExact(ctx context.Context, deviceID string, timestamp time.Time) (*domain.StandardReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[readingKey{deviceID: deviceID, unixNano: timestamp.UnixNano()}]
	if !ok {
		return nil, fmt.Errorf("standard reading %s@%s: %w", deviceID, timestamp.Format(time.RFC3339), ports.ErrNotFound)
	}
	out := s.reading
	return &out, nil
}

func (r *StandardReadingRepository) FindRange(ctx context.Context, deviceID string, start, end time.Time) ([]domain.StandardReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var out []domain.StandardReading
	for k, s := range r.data {
		if k.deviceID != deviceID {
			continue
		}
		ts := s.reading.Timestamp
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		out = append(out, s.reading)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}
