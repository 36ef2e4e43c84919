// Package config loads viewer configuration via viper. Everything has a
// default; a missing config file is not an error.
package config

import (
	"github.com/spf13/viper"

	"github.com/Treystu/BMSview-sub013/src/logging"
)

// Config is the full viewer configuration.
type Config struct {
	Viewer struct {
		// Logical plot dimensions the engine works in.
		ChartWidth  int `mapstructure:"chart_width"`
		ChartHeight int `mapstructure:"chart_height"`
		// Height of the brush overview strip in screen pixels.
		BrushHeight int `mapstructure:"brush_height"`
		// Default records file opened at startup.
		RecordsFile string `mapstructure:"records_file"`
		LogLevel    string `mapstructure:"log_level"`
	} `mapstructure:"viewer"`
	Analytics struct {
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"analytics"`
	System struct {
		// Rated capacity in Ah, used to derive State of Health.
		RatedCapacityAh float64 `mapstructure:"rated_capacity_ah"`
	} `mapstructure:"system"`
	// Axes overrides the default metric-to-side assignment at startup.
	// Values are "left", "right" or "hidden".
	Axes map[string]string `mapstructure:"axes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("viewer.chart_width", 1000)
	v.SetDefault("viewer.chart_height", 400)
	v.SetDefault("viewer.brush_height", 60)
	v.SetDefault("viewer.records_file", "bms_records.jsonl")
	v.SetDefault("viewer.log_level", "info")
	v.SetDefault("analytics.timeout_seconds", 15)
	v.SetDefault("system.rated_capacity_ah", 0)
}

// Load reads bmsview.yaml from the given directory (and the environment)
// into a Config. File absence falls back to defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("bmsview")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")
	v.SetEnvPrefix("BMSVIEW")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		logging.Debugf("no config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
