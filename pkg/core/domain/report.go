package domain

import "time"

// ReportPeriod 报表统计维度
type ReportPeriod string

const (
	ReportPeriodHour  ReportPeriod = "HOUR"
	ReportPeriodDay   ReportPeriod = "DAY"
	ReportPeriodMonth ReportPeriod = "MONTH"
)

// Truncate 返回 t 所在统计周期的起点 (UTC)
func (p ReportPeriod) Truncate(t time.Time) time.Time {
	t = t.UTC()
	switch p {
	case ReportPeriodHour:
		return t.Truncate(time.Hour)
	case ReportPeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Next 返回下一个统计周期的起点
func (p ReportPeriod) Next(start time.Time) time.Time {
	switch p {
	case ReportPeriodHour:
		return start.Add(time.Hour)
	case ReportPeriodMonth:
		return start.AddDate(0, 1, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// EnergyReport 能耗统计报表
// 周期内用量 = 周期内最后一条累积读数 - 第一条累积读数，换算到目标单位
type EnergyReport struct {
	ID         string       `json:"id" yaml:"id"`
	DeviceID   string       `json:"device_id" yaml:"device_id"`
	DeviceType DeviceType   `json:"device_type" yaml:"device_type"`
	Period     ReportPeriod `json:"period" yaml:"period"`
	StartTime  time.Time    `json:"start_time" yaml:"start_time"`
	EndTime    time.Time    `json:"end_time" yaml:"end_time"`

	Usage       QuantityValue `json:"-" yaml:"-"`
	TotalUsage  float64       `json:"total_usage" yaml:"total_usage"` // 目标单位下的展示值
	Unit        string        `json:"unit" yaml:"unit"`
	UsageScaled int64         `json:"usage_scaled" yaml:"usage_scaled"` // 缩放后的整数值 (e.g. 10.1234 -> 101234)
	ScaleFactor int           `json:"scale_factor" yaml:"scale_factor"`
}

// TypeSummary 同类设备在同一周期内的用量合计
type TypeSummary struct {
	DeviceType DeviceType    `json:"device_type" yaml:"device_type"`
	Period     ReportPeriod  `json:"period" yaml:"period"`
	StartTime  time.Time     `json:"start_time" yaml:"start_time"`
	Devices    int           `json:"devices" yaml:"devices"`
	Total      QuantityValue `json:"-" yaml:"-"`
	TotalUsage float64       `json:"total_usage" yaml:"total_usage"`
	Unit       string        `json:"unit" yaml:"unit"`
}
