package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/midiwire/internal/config"
	"github.com/danmuck/midiwire/internal/observability"
)

// Service is the monitor runtime: input registry plus HTTP boundary.
type Service struct {
	cfg      config.MonitorConfig
	server   *Server
	router   *gin.Engine
	appeared time.Time
}

// NewService wires the registry, parser configuration, and HTTP router from
// one monitor configuration.
func NewService(cfg config.MonitorConfig) (*Service, error) {
	parserCfg, err := config.ParserConfig(cfg)
	if err != nil {
		return nil, err
	}

	server := NewServer(parserCfg, cfg.HistoryLimit)
	for _, inputCfg := range cfg.Inputs {
		if err := server.AddInput(inputCfg.ID, inputCfg.Channels); err != nil {
			return nil, fmt.Errorf("register input %q: %w", inputCfg.ID, err)
		}
	}

	observability.RegisterMetrics()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	svc := &Service{
		cfg:      cfg,
		server:   server,
		router:   r,
		appeared: time.Now(),
	}
	svc.registerRoutes()
	return svc, nil
}

// Router exposes the gin engine for tests and embedding.
func (s *Service) Router() *gin.Engine {
	return s.router
}

// Registry exposes the input registry.
func (s *Service) Registry() *Server {
	return s.server
}

// Run serves the HTTP boundary until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Service) Run() error {
	httpServer := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("name", s.cfg.Name).
			Str("addr", s.cfg.Addr).
			Int("inputs", len(s.cfg.Inputs)).
			Msg("monitor_listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("monitor_shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		out = append(out, "http://localhost")
	}
	return out
}
