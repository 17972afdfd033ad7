package domain

import (
	"encoding/json"
	"time"
)

// ReadingType 定义读数类型
type ReadingType string

const (
	ReadingTypeRaw      ReadingType = "RAW"      // 原始读数
	ReadingTypeStandard ReadingType = "STANDARD" // 标准化读数
)

// QualityState 数据质量状态
type QualityState string

const (
	QualityValid        QualityState = "VALID"        // 有效
	QualityCorrected    QualityState = "CORRECTED"    // 已修正 (如范围截断)
	QualityInterpolated QualityState = "INTERPOLATED" // 时间对齐产物
)

// Reading 一次原始累积读数
// 不同设备可以上报不同的单位 (Wh / kWh / MJ ...)，由 Quantity 携带。
type Reading struct {
	DeviceInfo DeviceInfo
	Timestamp  time.Time
	Quantity   QuantityValue
	Quality    QualityState
}

// readingView 读数的序列化形式，数值为所在单位下的展示值
type readingView struct {
	DeviceInfo DeviceInfo   `json:"device_info" yaml:"device_info"`
	Timestamp  time.Time    `json:"timestamp" yaml:"timestamp"`
	Value      float64      `json:"value" yaml:"value"`
	Unit       string       `json:"unit" yaml:"unit"`
	Quality    QualityState `json:"quality,omitempty" yaml:"quality,omitempty"`
}

func (r Reading) view() readingView {
	return readingView{
		DeviceInfo: r.DeviceInfo,
		Timestamp:  r.Timestamp,
		Value:      r.Quantity.Value(),
		Unit:       r.Quantity.Unit().String(),
		Quality:    r.Quality,
	}
}

func (r Reading) MarshalJSON() ([]byte, error) { return json.Marshal(r.view()) }

// MarshalYAML implements yaml.Marshaler.
func (r Reading) MarshalYAML() (any, error) { return r.view(), nil }

// StandardReading 代表“数据标准”输出
// 统一度量衡: 同类设备的读数换算到同一个目标单位，再转为高精度整型
type StandardReading struct {
	DeviceID     string       `json:"device_id" yaml:"device_id"`
	Timestamp    time.Time    `json:"timestamp" yaml:"timestamp"`         // 标准时间点 (e.g. 10:00:00)
	ValueScaled  int64        `json:"value_scaled" yaml:"value_scaled"`   // 高精度整型值
	ScaleFactor  int          `json:"scale_factor" yaml:"scale_factor"`   // 精度因子 (e.g. 10000)
	ValueDisplay float64      `json:"value_display" yaml:"value_display"` // 展示用浮点值 (目标单位下)
	Unit         string       `json:"unit" yaml:"unit"`                   // 目标单位符号
	Quality      QualityState `json:"quality" yaml:"quality"`             // 数据质量标记
	SourceType   ReadingType  `json:"source_type" yaml:"source_type"`     // 数据来源类型
}
