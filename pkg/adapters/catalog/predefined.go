package catalog

import "github.com/renjie/prism-qudt/pkg/core/domain"

// 常用量纲
var (
	DimLength      = domain.Dim(domain.Length, 1)
	DimMass        = domain.Dim(domain.Mass, 1)
	DimTime        = domain.Dim(domain.Time, 1)
	DimCurrent     = domain.Dim(domain.Current, 1)
	DimTemperature = domain.Dim(domain.Temperature, 1)
	DimAmount      = domain.Dim(domain.Amount, 1)
	DimLuminosity  = domain.Dim(domain.Luminosity, 1)
	DimArea        = domain.Dim(domain.Length, 2)
	DimVolume      = domain.Dim(domain.Length, 3)
	DimSpeed       = domain.Dim(domain.Length, 1).With(domain.Time, -1)
	DimEnergy      = domain.Dim(domain.Mass, 1).With(domain.Length, 2).With(domain.Time, -2)
	DimPower       = DimEnergy.With(domain.Time, -1)
	DimPressure    = domain.Dim(domain.Mass, 1).With(domain.Length, -1).With(domain.Time, -2)
	DimFlow        = DimVolume.With(domain.Time, -1)
)

// 预定义单位 (相干基准为 SI 基本/导出单位)
var (
	// 长度
	Meter      = NewLinearUnit("m", "meter", DimLength, 1)
	Kilometer  = NewLinearUnit("km", "kilometer", DimLength, 1000)
	Centimeter = NewLinearUnit("cm", "centimeter", DimLength, 0.01)
	Millimeter = NewLinearUnit("mm", "millimeter", DimLength, 0.001)
	Inch       = NewLinearUnit("in", "inch", DimLength, 0.0254)
	Foot       = NewLinearUnit("ft", "foot", DimLength, 0.3048)
	Mile       = NewLinearUnit("mi", "mile", DimLength, 1609.344)

	// 质量
	Kilogram = NewLinearUnit("kg", "kilogram", DimMass, 1)
	Gram     = NewLinearUnit("g", "gram", DimMass, 0.001)
	Tonne    = NewLinearUnit("t", "tonne", DimMass, 1000)
	Pound    = NewLinearUnit("lb", "pound", DimMass, 0.45359237)

	// 时间
	Second = NewLinearUnit("s", "second", DimTime, 1)
	Minute = NewLinearUnit("min", "minute", DimTime, 60)
	Hour   = NewLinearUnit("h", "hour", DimTime, 3600)
	Day    = NewLinearUnit("d", "day", DimTime, 86400)

	// 温度
	Kelvin     = NewLinearUnit("K", "kelvin", DimTemperature, 1)
	Celsius    = NewAffineUnit("degC", "degree Celsius", DimTemperature, 1, 273.15)
	Fahrenheit = NewAffineUnit("degF", "degree Fahrenheit", DimTemperature, 5.0/9.0, 459.67)

	// 能量
	Joule        = NewLinearUnit("J", "joule", DimEnergy, 1)
	Kilojoule    = NewLinearUnit("kJ", "kilojoule", DimEnergy, 1000)
	Megajoule    = NewLinearUnit("MJ", "megajoule", DimEnergy, 1e6)
	WattHour     = NewLinearUnit("Wh", "watt hour", DimEnergy, 3600)
	KilowattHour = NewLinearUnit("kWh", "kilowatt hour", DimEnergy, 3.6e6)
	MegawattHour = NewLinearUnit("MWh", "megawatt hour", DimEnergy, 3.6e9)

	// 功率
	Watt     = NewLinearUnit("W", "watt", DimPower, 1)
	Kilowatt = NewLinearUnit("kW", "kilowatt", DimPower, 1000)
	Megawatt = NewLinearUnit("MW", "megawatt", DimPower, 1e6)

	// 压力
	Pascal     = NewLinearUnit("Pa", "pascal", DimPressure, 1)
	Kilopascal = NewLinearUnit("kPa", "kilopascal", DimPressure, 1000)
	Bar        = NewLinearUnit("bar", "bar", DimPressure, 1e5)

	// 面积 / 体积 / 流量
	SquareMeter         = NewLinearUnit("m2", "square meter", DimArea, 1)
	CubicMeter          = NewLinearUnit("m3", "cubic meter", DimVolume, 1)
	Liter               = NewLinearUnit("L", "liter", DimVolume, 0.001)
	CubicMeterPerHour   = NewLinearUnit("m3/h", "cubic meter per hour", DimFlow, 1.0/3600)
	CubicMeterPerSecond = NewLinearUnit("m3/s", "cubic meter per second", DimFlow, 1)

	// 速度
	MeterPerSecond   = NewLinearUnit("m/s", "meter per second", DimSpeed, 1)
	KilometerPerHour = NewLinearUnit("km/h", "kilometer per hour", DimSpeed, 1000.0/3600)

	// 其他 SI 基本单位
	Ampere  = NewLinearUnit("A", "ampere", DimCurrent, 1)
	Mole    = NewLinearUnit("mol", "mole", DimAmount, 1)
	Candela = NewLinearUnit("cd", "candela", DimLuminosity, 1)

	// 无量纲
	Percent = NewLinearUnit("%", "percent", domain.Dimensionless, 0.01)
)

func predefined() []domain.Unit {
	return []domain.Unit{
		domain.Num, Percent,
		Meter, Kilometer, Centimeter, Millimeter, Inch, Foot, Mile,
		Kilogram, Gram, Tonne, Pound,
		Second, Minute, Hour, Day,
		Kelvin, Celsius, Fahrenheit,
		Joule, Kilojoule, Megajoule, WattHour, KilowattHour, MegawattHour,
		Watt, Kilowatt, Megawatt,
		Pascal, Kilopascal, Bar,
		SquareMeter, CubicMeter, Liter, CubicMeterPerHour, CubicMeterPerSecond,
		MeterPerSecond, KilometerPerHour,
		Ampere, Mole, Candela,
	}
}
