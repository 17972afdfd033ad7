// Package config provides layered configuration for the prism CLI.
//
// Values are resolved from (lowest to highest precedence) built-in defaults,
// a prism.yaml file, PRISM_ environment variables and command line flags.
package config

import (
	"time"
)

// Config is the resolved CLI configuration.
type Config struct {
	ScaleFactor int    `koanf:"scale_factor" validate:"gt=0"`
	Concurrency int    `koanf:"concurrency" validate:"gt=0"`
	Verbose     bool   `koanf:"verbose"`
	Output      string `koanf:"output" validate:"oneof=table json yaml"`

	// Strategy 标准读数写入仓储时使用的摄入策略
	Strategy string `koanf:"strategy" validate:"oneof=REALTIME BATCH_LATE CALIBRATION"`

	// Targets 设备类型 -> 目标单位符号
	Targets map[string]string `koanf:"targets" validate:"dive,keys,oneof=WATER ELEC GAS HEAT,endkeys,required"`

	Alignment AlignmentConfig `koanf:"alignment"`
	Rules     []RuleConfig    `koanf:"rules" validate:"dive"`
}

// AlignmentConfig controls time-grid alignment. A zero interval disables it.
type AlignmentConfig struct {
	Interval    time.Duration `koanf:"interval" validate:"gte=0"`
	Tolerance   time.Duration `koanf:"tolerance" validate:"gte=0"`
	Interpolate bool          `koanf:"interpolate"`
}

// RuleConfig 清洗规则配置
//
//	rules:
//	  - id: elec-range
//	    device_type: ELEC
//	    type: RANGE
//	    action: CORRECT
//	    parameters: {min: 0, max: 100000, unit: kWh}
type RuleConfig struct {
	ID         string         `koanf:"id" validate:"required"`
	DeviceType string         `koanf:"device_type" validate:"required,oneof=WATER ELEC GAS HEAT"`
	Type       string         `koanf:"type" validate:"required,oneof=RANGE MONOTONIC JUMP STAGNATION"`
	Action     string         `koanf:"action" validate:"omitempty,oneof=REJECT CORRECT"`
	Enabled    *bool          `koanf:"enabled"` // 缺省为启用
	Priority   int            `koanf:"priority"`
	Parameters map[string]any `koanf:"parameters"`
}
