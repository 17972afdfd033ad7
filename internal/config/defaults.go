package config

import "time"

const (
	DefaultScaleFactor = 10000
	DefaultConcurrency = 100
	DefaultOutput      = "table"
	DefaultStrategy    = "REALTIME"
	DefaultTolerance   = 5 * time.Minute
)

// config file names searched in the working directory
var configFileNames = []string{"prism.yaml", "prism.yml"}

func defaults() map[string]any {
	return map[string]any{
		"scale_factor":          DefaultScaleFactor,
		"concurrency":           DefaultConcurrency,
		"verbose":               false,
		"output":                DefaultOutput,
		"strategy":              DefaultStrategy,
		"alignment.interval":    "0s",
		"alignment.tolerance":   DefaultTolerance.String(),
		"alignment.interpolate": false,
		"targets.ELEC":          "kWh",
		"targets.WATER":         "m3",
		"targets.GAS":           "m3",
		"targets.HEAT":          "kWh",
	}
}
