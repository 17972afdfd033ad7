package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ErrInvalidConfig is returned when the resolved configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// flagKeys maps flag names that do not follow the kebab -> snake convention.
var flagKeys = map[string]string{
	"interval":    "alignment.interval",
	"tolerance":   "alignment.tolerance",
	"interpolate": "alignment.interpolate",
}

var validate = validator.New()

// findConfigFile finds the config file to use.
// Priority: explicit path > prism.yaml > prism.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, file, environment variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
// It returns the config together with the path of the config file used, if any.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, string, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, "", fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment variables (PRISM_ prefix)
	// PRISM_SCALE_FACTOR -> scale_factor, PRISM_ALIGNMENT__INTERVAL -> alignment.interval
	if err := k.Load(env.Provider("PRISM_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "PRISM_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, "", fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, "", fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, "", fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return &cfg, used, nil
}

// normalize upper-cases enum-like values so that env vars and hand-written
// YAML may use any case.
func (c *Config) normalize() {
	c.Output = strings.ToLower(c.Output)
	c.Strategy = strings.ToUpper(c.Strategy)

	// 大写键来自默认值，其余写法 (环境变量等) 优先
	targets := make(map[string]string, len(c.Targets))
	for k, v := range c.Targets {
		if k == strings.ToUpper(k) {
			targets[k] = v
		}
	}
	for k, v := range c.Targets {
		if k != strings.ToUpper(k) {
			targets[strings.ToUpper(k)] = v
		}
	}
	c.Targets = targets

	for i := range c.Rules {
		r := &c.Rules[i]
		r.DeviceType = strings.ToUpper(r.DeviceType)
		r.Type = strings.ToUpper(r.Type)
		r.Action = strings.ToUpper(r.Action)
	}
}

// Validate checks the struct constraints of the configuration.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
