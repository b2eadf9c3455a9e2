package monitor

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Raw feed bodies above this size are rejected rather than buffered.
const maxFeedBytes = 1 << 20

type addInputRequest struct {
	ID       string `json:"id"`
	Channels []int  `json:"channels"`
}

func (s *Service) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    time.Since(s.appeared).String(),
			"component": "midimon",
			"version":   "0.1.0",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":     true,
			"uptime":    time.Since(s.appeared).String(),
			"component": "midimon",
			"version":   "0.1.0",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/inputs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"inputs": s.server.Inputs(),
		})
	})

	s.router.POST("/inputs", func(c *gin.Context) {
		var req addInputRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input request"})
			return
		}
		for _, ch := range req.Channels {
			if ch < 0 || ch > 15 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "channel out of range 0..15"})
				return
			}
		}
		if err := s.server.AddInput(req.ID, req.Channels); err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, ErrInputExists) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		log.Info().Str("input", req.ID).Ints("channels", req.Channels).Msg("input_registered")
		c.JSON(http.StatusCreated, gin.H{"status": "registered", "id": req.ID})
	})

	s.router.DELETE("/inputs/:input", func(c *gin.Context) {
		id := c.Param("input")
		if err := s.server.RemoveInput(id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "removed", "id": id})
	})

	s.router.POST("/inputs/:input/feed", func(c *gin.Context) {
		id := c.Param("input")
		data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFeedBytes+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read feed body"})
			return
		}
		if len(data) > maxFeedBytes {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "feed body too large"})
			return
		}

		result, err := s.server.Feed(id, data)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Debug().
			Str("input", id).
			Int("bytes", result.Bytes).
			Int("messages", result.Messages).
			Msg("input_feed")
		c.JSON(http.StatusOK, result)
	})

	s.router.GET("/inputs/:input/events", func(c *gin.Context) {
		id := c.Param("input")
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = v
		}
		events, err := s.server.Events(id, limit)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"input": id, "events": events})
	})
}
