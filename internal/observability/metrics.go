package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	bytesIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "decoder",
			Name:      "bytes_total",
			Help:      "Raw wire bytes fed to the decoder.",
		},
		[]string{"input"},
	)
	messagesDecoded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "decoder",
			Name:      "messages_total",
			Help:      "Completed MIDI messages by status family.",
		},
		[]string{"input", "family"},
	)
	strayBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "decoder",
			Name:      "stray_bytes_total",
			Help:      "Data bytes received with no active status.",
		},
		[]string{"input"},
	)
	gatedMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "midiwire",
			Subsystem: "decoder",
			Name:      "gated_messages_total",
			Help:      "Channel messages dropped by the channel gate.",
		},
		[]string{"input"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(bytesIn, messagesDecoded, strayBytes, gatedMessages)
	})
}

func RecordBytes(input string, n int) {
	RegisterMetrics()
	bytesIn.WithLabelValues(input).Add(float64(n))
}

func RecordMessage(input, family string) {
	RegisterMetrics()
	messagesDecoded.WithLabelValues(input, family).Inc()
}

func RecordStrayByte(input string) {
	RegisterMetrics()
	strayBytes.WithLabelValues(input).Inc()
}

func RecordGatedMessage(input string) {
	RegisterMetrics()
	gatedMessages.WithLabelValues(input).Inc()
}
