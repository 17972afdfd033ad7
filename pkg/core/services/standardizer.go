package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/renjie/prism-qudt/pkg/core/domain"
	"github.com/renjie/prism-qudt/pkg/core/ports"
)

// DefaultScaleFactor 默认精度因子 (支持4位小数精度)
const DefaultScaleFactor = 10000

// CoreStandardizer 核心数据标准化服务
// 实现了 QuantityStandardizer 接口
type CoreStandardizer struct {
	sanitizer        ports.Sanitizer
	aligner          ports.Aligner
	standardInterval time.Duration // 0 表示不做频率对齐
	targets          map[domain.DeviceType]domain.Unit
	scaleFactor      int
	unifier          domain.Unifier
	concurrencyLimit int
	logger           *slog.Logger

	repo           ports.StandardReadingRepository // 可选持久层依赖
	ruleRepo       ports.CleaningRuleRepository    // 可选规则持久层
	units          ports.UnitRepository            // 动态规则解析阈值单位
	quarantineRepo ports.QuarantineRepository      // 可选隔离区持久层
}

// StandardizerOption 定义配置选项函数 (Functional Option Pattern)
type StandardizerOption func(*CoreStandardizer)

// WithTargetUnit 设置某类设备的目标单位
// 未设置目标单位的设备类型保留读数自身的单位
func WithTargetUnit(deviceType domain.DeviceType, u domain.Unit) StandardizerOption {
	return func(s *CoreStandardizer) {
		s.targets[deviceType] = u
	}
}

// WithQuarantineRepository 设置隔离区仓储依赖
func WithQuarantineRepository(repo ports.QuarantineRepository) StandardizerOption {
	return func(s *CoreStandardizer) {
		s.quarantineRepo = repo
	}
}

// WithRuleRepository 设置规则持久层依赖 (按设备类型动态加载规则)
// units 用于解析规则参数中的单位符号
func WithRuleRepository(repo ports.CleaningRuleRepository, units ports.UnitRepository) StandardizerOption {
	return func(s *CoreStandardizer) {
		s.ruleRepo = repo
		s.units = units
	}
}

// WithAlignment 设置时间对齐参数
// interpolate 为 true 时，网格点附近没有读数则线性插值
func WithAlignment(interval, tolerance time.Duration, interpolate bool) StandardizerOption {
	return func(s *CoreStandardizer) {
		s.standardInterval = interval
		s.aligner = domain.NewAligner(tolerance, interpolate)
	}
}

// WithRepository 设置持久层依赖
func WithRepository(repo ports.StandardReadingRepository) StandardizerOption {
	return func(s *CoreStandardizer) {
		s.repo = repo
	}
}

// WithCleaningRules 设置清洗规则
func WithCleaningRules(rules ...ports.CleaningRule) StandardizerOption {
	return func(s *CoreStandardizer) {
		s.sanitizer = NewSanitizer(rules...)
	}
}

// WithConcurrencyLimit 设置最大并发数 (默认 100)
func WithConcurrencyLimit(limit int) StandardizerOption {
	return func(s *CoreStandardizer) {
		if limit > 0 {
			s.concurrencyLimit = limit
		}
	}
}

// WithScaleFactor 设置精度因子 (默认 10000)
func WithScaleFactor(factor int) StandardizerOption {
	return func(s *CoreStandardizer) {
		if factor > 0 {
			s.scaleFactor = factor
		}
	}
}

func WithLogger(logger *slog.Logger) StandardizerOption {
	return func(s *CoreStandardizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewCoreStandardizer 初始化标准化服务
// 使用 Functional Options 模式进行配置
func NewCoreStandardizer(opts ...StandardizerOption) *CoreStandardizer {
	s := &CoreStandardizer{
		sanitizer:        NewSanitizer(),
		targets:          make(map[domain.DeviceType]domain.Unit),
		scaleFactor:      DefaultScaleFactor,
		concurrencyLimit: 100,
		logger:           slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.unifier = domain.NewUnifier(s.scaleFactor)

	return s
}

// GetStandardReading 获取特定时间点的标准读数
func (s *CoreStandardizer) GetStandardReading(ctx context.Context, deviceID string, timestamp time.Time) (*domain.StandardReading, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("repository not configured: cannot query historical standards in stateless mode")
	}
	return s.repo.FindExact(ctx, deviceID, timestamp)
}

func (s *CoreStandardizer) ProcessAndStandardize(ctx context.Context, rawReadings []domain.Reading) ([]domain.StandardReading, error) {
	// Step 1: 数据清洗
	var cleanReadings []domain.Reading
	var quarantined []domain.QuarantineReading

	if s.ruleRepo != nil {
		var err error
		cleanReadings, quarantined, err = s.cleanWithDynamicRules(ctx, rawReadings)
		if err != nil {
			return nil, fmt.Errorf("dynamic cleaning failed: %w", err)
		}
	} else {
		cleanReadings, quarantined = s.sanitizer.Clean(rawReadings)
	}

	// Step 2: 按设备分片并发处理
	deviceGroups := make(map[string][]domain.Reading)
	for _, r := range cleanReadings {
		deviceGroups[r.DeviceInfo.ID] = append(deviceGroups[r.DeviceInfo.ID], r)
	}

	var standards []domain.StandardReading
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrencyLimit)

	for _, readings := range deviceGroups {
		g.Go(func() error {
			sort.Slice(readings, func(i, j int) bool {
				return readings[i].Timestamp.Before(readings[j].Timestamp)
			})

			snapshots, err := s.snapshots(gctx, readings)
			if err != nil {
				return err
			}

			var groupStandards []domain.StandardReading
			var groupRejected []domain.QuarantineReading
			for _, r := range snapshots {
				sr, err := s.standardizeOne(r)
				if err != nil {
					groupRejected = append(groupRejected, domain.QuarantineReading{
						ID:        uuid.NewString(),
						Reading:   r,
						Reason:    err.Error(),
						CreatedAt: time.Now(),
						Status:    domain.QuarantineStatusPending,
					})
					continue
				}
				groupStandards = append(groupStandards, sr)
			}

			mu.Lock()
			standards = append(standards, groupStandards...)
			quarantined = append(quarantined, groupRejected...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.saveQuarantine(ctx, quarantined)

	sort.Slice(standards, func(i, j int) bool {
		if standards[i].DeviceID != standards[j].DeviceID {
			return standards[i].DeviceID < standards[j].DeviceID
		}
		return standards[i].Timestamp.Before(standards[j].Timestamp)
	})

	// Step 3: 持久化 (如已配置)
	if s.repo != nil && len(standards) > 0 {
		if err := s.repo.SaveBatch(ctx, standards); err != nil {
			return nil, fmt.Errorf("failed to persist standards: %w", err)
		}
	}

	return standards, nil
}

// snapshots 频率对齐: 按标准间隔生成时间网格并为每个网格点取快照
// 未配置对齐时原样返回
func (s *CoreStandardizer) snapshots(ctx context.Context, readings []domain.Reading) ([]domain.Reading, error) {
	if s.standardInterval <= 0 || s.aligner == nil || len(readings) == 0 {
		return readings, nil
	}

	startTime := readings[0].Timestamp.Truncate(s.standardInterval)
	endTime := readings[len(readings)-1].Timestamp
	if endTime.After(endTime.Truncate(s.standardInterval)) {
		endTime = endTime.Truncate(s.standardInterval).Add(s.standardInterval)
	}

	var out []domain.Reading
	for t := startTime; !t.After(endTime); t = t.Add(s.standardInterval) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if snapshot := s.aligner.FindSnapshot(readings, t); snapshot != nil {
			r := *snapshot
			r.Timestamp = t // Force alignment to the grid time
			out = append(out, r)
		}
	}
	return out, nil
}

// standardizeOne 单条数据的换算逻辑: 目标单位 -> 展示值 -> 高精度整型
func (s *CoreStandardizer) standardizeOne(r domain.Reading) (domain.StandardReading, error) {
	target, ok := s.targets[r.DeviceInfo.Type]
	if !ok {
		target = r.Quantity.Unit()
	}

	q, err := domain.TryConvert(r.Quantity, target)
	if err != nil {
		return domain.StandardReading{}, err
	}

	display, scaled := s.unifier.Render(q)
	quality := r.Quality
	if quality == "" {
		quality = domain.QualityValid
	}

	return domain.StandardReading{
		DeviceID:     r.DeviceInfo.ID,
		Timestamp:    r.Timestamp,
		ValueScaled:  scaled,
		ScaleFactor:  s.unifier.ScaleFactor(),
		ValueDisplay: display,
		Unit:         target.String(),
		Quality:      quality,
		SourceType:   domain.ReadingTypeStandard,
	}, nil
}

// saveQuarantine 保存隔离区数据，失败只记录日志不阻塞主流程
func (s *CoreStandardizer) saveQuarantine(ctx context.Context, records []domain.QuarantineReading) {
	logger := s.logger
	if info, ok := domain.FromContext(ctx); ok {
		logger = logger.With("trace_id", info.TraceID, "batch_id", info.BatchID)
	}

	for _, q := range records {
		logger.Debug("reading quarantined",
			"device_id", q.Reading.DeviceInfo.ID,
			"timestamp", q.Reading.Timestamp,
			"reason", q.Reason)
	}
	if len(records) == 0 || s.quarantineRepo == nil {
		return
	}

	for _, q := range records {
		if err := s.quarantineRepo.Save(ctx, q); err != nil {
			logger.Error("failed to save quarantine reading",
				"device_id", q.Reading.DeviceInfo.ID,
				"timestamp", q.Reading.Timestamp,
				"reason", q.Reason,
				"error", err)
		}
	}
}
