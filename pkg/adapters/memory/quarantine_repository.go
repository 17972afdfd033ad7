package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

// QuarantineRepository 内存版隔离区
type QuarantineRepository struct {
	mu      sync.RWMutex
	records []domain.QuarantineReading
}

var _ ports.QuarantineRepository = (*QuarantineRepository)(nil)

func NewQuarantineRepository() *QuarantineRepository {
	return &QuarantineRepository{}
}

func (r *QuarantineRepository) Save(ctx context.Context, record domain.QuarantineReading) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.Status == "" {
		record.Status = domain.QuarantineStatusPending
	}

	r.mu.Lock()
	r.records = append(r.records, record)
	r.mu.Unlock()
	return nil
}

// FindPending 按隔离时间升序返回待处理记录
func (r *QuarantineRepository) FindPending(ctx context.Context, limit int) ([]domain.QuarantineReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var out []domain.QuarantineReading
	for _, rec := range r.records {
		if rec.Status == domain.QuarantineStatusPending {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *QuarantineRepository) UpdateStatus(ctx context.Context, id string, status domain.QuarantineStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			return r.records[i].Transition(status)
		}
	}
	return fmt.Errorf("quarantine %s: %w", id, ports.ErrNotFound)
}
