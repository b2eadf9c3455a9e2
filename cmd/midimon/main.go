package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/midiwire/internal/config"
	"github.com/danmuck/midiwire/internal/monitor"
	"github.com/danmuck/midiwire/internal/observability"
)

func main() {
	configPath := flag.String("config", "cmd/midimon/config.toml", "monitor config path")
	flag.Parse()

	observability.InitLogger("midimon")
	cfg, err := config.LoadMonitorConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load monitor config")
	}
	log.Info().Str("path", *configPath).Msg("loaded monitor config")

	svc, err := monitor.NewService(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start monitor")
	}
	if err := svc.Run(); err != nil {
		log.Fatal().Err(err).Msg("monitor stopped")
	}
}
