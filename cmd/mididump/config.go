package main

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/midiwire/internal/midi"
)

type fileConfig struct {
	Channels     []int `toml:"channels"`
	HideRealtime bool  `toml:"hide_realtime"`
	SystemCommon []int `toml:"system_common_counts"`
}

type dumpConfig struct {
	Channels     []int
	HideRealtime bool
	Parser       midi.ParserConfig
}

func defaultDumpConfig() dumpConfig {
	return dumpConfig{Parser: midi.DefaultParserConfig()}
}

func loadDumpConfig(path string) (dumpConfig, error) {
	cfg := defaultDumpConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return dumpConfig{}, fmt.Errorf("load dump config: %w", err)
	}

	if meta.IsDefined("channels") {
		for _, ch := range raw.Channels {
			if ch < 0 || ch > 15 {
				return dumpConfig{}, fmt.Errorf("channel %d out of range 0..15", ch)
			}
		}
		cfg.Channels = raw.Channels
	}

	if meta.IsDefined("hide_realtime") {
		cfg.HideRealtime = raw.HideRealtime
	}

	if meta.IsDefined("system_common_counts") {
		if len(raw.SystemCommon) != len(cfg.Parser.SystemCommon) {
			return dumpConfig{}, fmt.Errorf("system_common_counts needs %d entries, got %d",
				len(cfg.Parser.SystemCommon), len(raw.SystemCommon))
		}
		for i, n := range raw.SystemCommon {
			if n < 0 {
				return dumpConfig{}, fmt.Errorf("system_common_counts[%d] must not be negative", i)
			}
			cfg.Parser.SystemCommon[i] = uint8(n)
		}
		if err := cfg.Parser.Validate(); err != nil {
			return dumpConfig{}, err
		}
	}

	return cfg, nil
}
