// Package metrics exposes the survey's operational counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Set holds the counters the orchestrator increments.
type Set struct {
	WavesStarted       prometheus.Counter
	RecipientsEnrolled prometheus.Counter
	PromptsSent        prometheus.Counter
	SendFailures       prometheus.Counter
	Completions        prometheus.Counter
	Exports            prometheus.Counter
	ExportFailures     prometheus.Counter
	EventsDropped      prometheus.Counter
}

// New registers the counter set with the given registerer.
func New(reg prometheus.Registerer) *Set {
	factory := promauto.With(reg)
	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace: "healthwave",
			Name:      name,
			Help:      help,
		})
	}
	return &Set{
		WavesStarted:       counter("waves_started_total", "Survey waves started."),
		RecipientsEnrolled: counter("recipients_enrolled_total", "Records initialized at wave start."),
		PromptsSent:        counter("prompts_sent_total", "Outbound prompts delivered."),
		SendFailures:       counter("send_failures_total", "Outbound deliveries that failed."),
		Completions:        counter("completions_total", "Records that reached the done stage."),
		Exports:            counter("exports_total", "Rows successfully appended to the sink."),
		ExportFailures:     counter("export_failures_total", "Sink writes that failed; rows are lost."),
		EventsDropped:      counter("events_dropped_total", "Inbound events matching no rule or no record."),
	}
}

// NewNop returns an unregistered set for tests and defaults.
func NewNop() *Set {
	return New(prometheus.NewRegistry())
}
