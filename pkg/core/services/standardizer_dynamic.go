package services

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/renjie/prism-qudt/pkg/adapters/factory"
	"github.com/renjie/prism-qudt/pkg/core/domain"
)

// cleanWithDynamicRules 根据设备类型动态加载规则进行清洗
func (s *CoreStandardizer) cleanWithDynamicRules(ctx context.Context, readings []domain.Reading) ([]domain.Reading, []domain.QuarantineReading, error) {
	// 1. Group by DeviceType
	typeGroups := make(map[domain.DeviceType][]domain.Reading)
	for _, r := range readings {
		typeGroups[r.DeviceInfo.Type] = append(typeGroups[r.DeviceInfo.Type], r)
	}

	var result []domain.Reading
	var quarantined []domain.QuarantineReading
	var mu sync.Mutex

	// 2. 每类设备并发加载规则并清洗
	g, gctx := errgroup.WithContext(ctx)
	for dType, grp := range typeGroups {
		g.Go(func() error {
			domainRules, err := s.ruleRepo.ListEnabledByDeviceType(gctx, dType)
			if err != nil {
				return fmt.Errorf("load rules for %s failed: %w", dType, err)
			}

			execRules, err := factory.GetRuleFactory().CreateRules(domainRules, s.units)
			if err != nil {
				return err
			}

			cleanedRows, rejectedRows := NewSanitizer(execRules...).Clean(grp)

			mu.Lock()
			result = append(result, cleanedRows...)
			quarantined = append(quarantined, rejectedRows...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return result, quarantined, nil
}
