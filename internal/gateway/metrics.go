package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the service's Prometheus counters. Each Gateway owns
// its own registry so tests can run modules side by side without
// duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	messages  prometheus.Counter
	errors    prometheus.Counter
	tokens    prometheus.Counter
	summaries prometheus.Counter
}

// NewMetrics creates the counter set on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		messages: factory.NewCounter(prometheus.CounterOpts{
			Name: "steward_messages_total",
			Help: "Inbound user messages processed.",
		}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Name: "steward_errors_total",
			Help: "Message-processing failures.",
		}),
		tokens: factory.NewCounter(prometheus.CounterOpts{
			Name: "steward_llm_tokens_total",
			Help: "Total tokens reported by the LLM provider.",
		}),
		summaries: factory.NewCounter(prometheus.CounterOpts{
			Name: "steward_history_summaries_total",
			Help: "Conversation histories compressed into a summary.",
		}),
	}
}

// RecordMessage records an inbound message.
func (m *Metrics) RecordMessage() { m.messages.Inc() }

// RecordError records a processing error.
func (m *Metrics) RecordError() { m.errors.Inc() }

// RecordTokens adds the token usage of one completion.
func (m *Metrics) RecordTokens(n int) {
	if n > 0 {
		m.tokens.Add(float64(n))
	}
}

// RecordSummary records one history compression.
func (m *Metrics) RecordSummary() { m.summaries.Inc() }

// Handler returns the scrape endpoint for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
