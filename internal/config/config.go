package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/danmuck/midiwire/internal/midi"
)

type MonitorConfig struct {
	Name         string        `toml:"name"`
	Addr         string        `toml:"addr"`
	CorsOrigins  []string      `toml:"cors_origins"`
	HistoryLimit int           `toml:"history_limit"`
	SystemCommon []int         `toml:"system_common_counts"`
	Inputs       []InputConfig `toml:"inputs"`
}

type InputConfig struct {
	ID       string `toml:"id"`
	Channels []int  `toml:"channels"`
}

func LoadMonitorConfig(path string) (MonitorConfig, error) {
	var cfg MonitorConfig
	if err := loadToml(path, &cfg); err != nil {
		return MonitorConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "midimon"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9300"
	}
	if cfg.HistoryLimit == 0 {
		cfg.HistoryLimit = 256
	}
	if err := ValidateMonitorConfig(cfg); err != nil {
		return MonitorConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateMonitorConfig(cfg MonitorConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("monitor config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("monitor config missing addr")
	}
	if cfg.HistoryLimit < 0 {
		return fmt.Errorf("monitor config history_limit must not be negative")
	}
	if len(cfg.SystemCommon) != 0 && len(cfg.SystemCommon) != 6 {
		return fmt.Errorf("monitor config system_common_counts needs 6 entries, got %d",
			len(cfg.SystemCommon))
	}
	if _, err := ParserConfig(cfg); err != nil {
		return err
	}
	for i, inputCfg := range cfg.Inputs {
		if err := ValidateInputEntry(inputCfg); err != nil {
			return fmt.Errorf("input[%d] invalid: %w", i, err)
		}
	}
	return nil
}

func ValidateInputEntry(cfg InputConfig) error {
	if strings.TrimSpace(cfg.ID) == "" {
		return fmt.Errorf("id is required")
	}
	for _, ch := range cfg.Channels {
		if ch < 0 || ch > 15 {
			return fmt.Errorf("channel %d out of range 0..15", ch)
		}
	}
	return nil
}

// ParserConfig converts the monitor-level system common table into the
// decoder's configuration. An absent table keeps the stock counts.
func ParserConfig(cfg MonitorConfig) (midi.ParserConfig, error) {
	parserCfg := midi.DefaultParserConfig()
	if len(cfg.SystemCommon) == 0 {
		return parserCfg, nil
	}
	for i, n := range cfg.SystemCommon {
		if n < 0 || n > 255 {
			return midi.ParserConfig{}, fmt.Errorf(
				"system_common_counts[%d] out of range: %d", i, n)
		}
		parserCfg.SystemCommon[i] = uint8(n)
	}
	if err := parserCfg.Validate(); err != nil {
		return midi.ParserConfig{}, err
	}
	return parserCfg, nil
}
