package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/renjie/prism-qudt/pkg/core/domain"
)

// UsageReporter 用量统计服务
// 实现了 ports.UsageReporter 接口
type UsageReporter struct {
	targets map[domain.DeviceType]domain.Unit
	unifier domain.Unifier
	logger  *slog.Logger
}

// NewUsageReporter 创建用量统计服务
// targets 为各设备类型的报表单位，未配置的类型使用读数自身的单位
func NewUsageReporter(targets map[domain.DeviceType]domain.Unit, scaleFactor int, logger *slog.Logger) *UsageReporter {
	if scaleFactor <= 0 {
		scaleFactor = DefaultScaleFactor
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UsageReporter{targets: targets, unifier: domain.NewUnifier(scaleFactor), logger: logger}
}

// Report 按设备与周期计算用量
// 每个周期的用量 = 周期内最后一条累积读数 - 基线；
// 基线为上一个周期的最后一条读数，第一个周期则为本周期第一条读数。
func (u *UsageReporter) Report(ctx context.Context, readings []domain.Reading, period domain.ReportPeriod) ([]domain.EnergyReport, error) {
	byDevice := make(map[string][]domain.Reading)
	for _, r := range readings {
		byDevice[r.DeviceInfo.ID] = append(byDevice[r.DeviceInfo.ID], r)
	}

	var reports []domain.EnergyReport
	for deviceID, series := range byDevice {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sort.Slice(series, func(i, j int) bool {
			return series[i].Timestamp.Before(series[j].Timestamp)
		})

		var baseline *domain.Reading
		for i := 0; i < len(series); {
			start := period.Truncate(series[i].Timestamp)
			end := period.Next(start)

			j := i
			for j < len(series) && series[j].Timestamp.Before(end) {
				j++
			}
			first, last := series[i], series[j-1]
			if baseline == nil {
				baseline = &first
			}

			report, err := u.usage(*baseline, last, start, end, period)
			if err != nil {
				u.logger.Warn("skipping report period",
					"device_id", deviceID,
					"start", start,
					"error", err)
			} else {
				reports = append(reports, report)
			}

			baseline = &series[j-1]
			i = j
		}
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].DeviceID != reports[j].DeviceID {
			return reports[i].DeviceID < reports[j].DeviceID
		}
		return reports[i].StartTime.Before(reports[j].StartTime)
	})
	return reports, nil
}

func (u *UsageReporter) usage(baseline, last domain.Reading, start, end time.Time, period domain.ReportPeriod) (domain.EnergyReport, error) {
	diff, err := domain.TryDifference(last.Quantity, baseline.Quantity)
	if err != nil {
		return domain.EnergyReport{}, err
	}

	target, ok := u.targets[last.DeviceInfo.Type]
	if !ok {
		target = last.Quantity.Unit()
	}
	usage, err := domain.TryConvert(diff, target)
	if err != nil {
		return domain.EnergyReport{}, err
	}

	display, scaled := u.unifier.Render(usage)
	return domain.EnergyReport{
		ID:          uuid.NewString(),
		DeviceID:    last.DeviceInfo.ID,
		DeviceType:  last.DeviceInfo.Type,
		Period:      period,
		StartTime:   start,
		EndTime:     end,
		Usage:       usage,
		TotalUsage:  display,
		Unit:        target.String(),
		UsageScaled: scaled,
		ScaleFactor: u.unifier.ScaleFactor(),
	}, nil
}

// Summarize 按设备类型与周期合计用量，结果沿用该组第一份报表的单位
func (u *UsageReporter) Summarize(reports []domain.EnergyReport) ([]domain.TypeSummary, error) {
	type groupKey struct {
		deviceType domain.DeviceType
		start      time.Time
	}

	groups := make(map[groupKey]*domain.TypeSummary)
	units := make(map[groupKey]domain.Unit)
	var order []groupKey

	for _, r := range reports {
		k := groupKey{deviceType: r.DeviceType, start: r.StartTime.UTC()}
		sum, ok := groups[k]
		if !ok {
			sum = &domain.TypeSummary{DeviceType: r.DeviceType, Period: r.Period, StartTime: r.StartTime}
			groups[k] = sum
			units[k] = r.Usage.Unit()
			order = append(order, k)
		}

		total, err := domain.TryAdd(sum.Total, r.Usage)
		if err != nil {
			return nil, fmt.Errorf("summarize %s at %s: %w", r.DeviceType, r.StartTime, err)
		}
		sum.Total = total
		sum.Devices++
	}

	out := make([]domain.TypeSummary, 0, len(order))
	for _, k := range order {
		sum := groups[k]
		total := domain.OfScaled(0, units[k])
		if sum.Total.Raw() != 0 {
			converted, err := domain.TryConvert(sum.Total, units[k])
			if err != nil {
				return nil, fmt.Errorf("summarize %s at %s: %w", sum.DeviceType, sum.StartTime, err)
			}
			total = converted
		}
		sum.Total = total
		sum.TotalUsage = total.Value()
		sum.Unit = units[k].String()
		out = append(out, *sum)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DeviceType != out[j].DeviceType {
			return out[i].DeviceType < out[j].DeviceType
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}
