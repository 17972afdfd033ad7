package domain

// DeviceType 计量设备类型，决定标准化时的目标单位
type DeviceType string

const (
	DeviceTypeWater DeviceType = "WATER" // 水表
	DeviceTypeElec  DeviceType = "ELEC"  // 电表
	DeviceTypeGas   DeviceType = "GAS"   // 燃气表
	DeviceTypeHeat  DeviceType = "HEAT"  // 热量表
)

// DeviceInfo 读数所属设备
type DeviceInfo struct {
	ID    string     `json:"device_id" yaml:"device_id"`
	Model string     `json:"model,omitempty" yaml:"model,omitempty"`
	Type  DeviceType `json:"type" yaml:"type"`
}
