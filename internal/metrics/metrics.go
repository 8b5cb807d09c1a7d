// Package metrics collects Prometheus metrics for the bot.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the dialog and middleware layers report to
type Recorder interface {
	RecordTransition(from, to string)
	RecordQuizAnswer(correct bool)
	RecordQuestionUnavailable(reason string)
	RecordWordAdded(result string)
	RecordWordRemoved()
	RecordFailure(op string)
	RecordRateLimited()
	ObserveHandleDuration(d time.Duration)
}

// Collector is the Prometheus implementation of Recorder
type Collector struct {
	transitions    *prometheus.CounterVec
	quizAnswers    *prometheus.CounterVec
	quizUnavail    *prometheus.CounterVec
	wordsAdded     *prometheus.CounterVec
	wordsRemoved   prometheus.Counter
	failures       *prometheus.CounterVec
	rateLimited    prometheus.Counter
	handleDuration prometheus.Histogram
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "englishcard_dialog_transitions_total",
			Help: "Dialog state transitions by source and target state.",
		}, []string{"from", "to"}),
		quizAnswers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "englishcard_quiz_answers_total",
			Help: "Quiz answers by correctness.",
		}, []string{"correct"}),
		quizUnavail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "englishcard_quiz_unavailable_total",
			Help: "Quiz requests that could not produce a question.",
		}, []string{"reason"}),
		wordsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "englishcard_words_added_total",
			Help: "Add-word attempts by outcome.",
		}, []string{"result"}),
		wordsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "englishcard_words_removed_total",
			Help: "Words removed from user lists.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "englishcard_failures_total",
			Help: "Failed operations surfaced to users as a generic error.",
		}, []string{"op"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "englishcard_rate_limited_total",
			Help: "Updates dropped by the per-user rate limiter.",
		}),
		handleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "englishcard_handle_duration_seconds",
			Help:    "Time spent handling one incoming message.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}

	reg.MustRegister(
		c.transitions,
		c.quizAnswers,
		c.quizUnavail,
		c.wordsAdded,
		c.wordsRemoved,
		c.failures,
		c.rateLimited,
		c.handleDuration,
	)

	return c
}

func (c *Collector) RecordTransition(from, to string) {
	c.transitions.WithLabelValues(from, to).Inc()
}

func (c *Collector) RecordQuizAnswer(correct bool) {
	c.quizAnswers.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

func (c *Collector) RecordQuestionUnavailable(reason string) {
	c.quizUnavail.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordWordAdded(result string) {
	c.wordsAdded.WithLabelValues(result).Inc()
}

func (c *Collector) RecordWordRemoved() {
	c.wordsRemoved.Inc()
}

func (c *Collector) RecordFailure(op string) {
	c.failures.WithLabelValues(op).Inc()
}

func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

func (c *Collector) ObserveHandleDuration(d time.Duration) {
	c.handleDuration.Observe(d.Seconds())
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordTransition(string, string)     {}
func (Nop) RecordQuizAnswer(bool)               {}
func (Nop) RecordQuestionUnavailable(string)    {}
func (Nop) RecordWordAdded(string)              {}
func (Nop) RecordWordRemoved()                  {}
func (Nop) RecordFailure(string)                {}
func (Nop) RecordRateLimited()                  {}
func (Nop) ObserveHandleDuration(time.Duration) {}

// Handler returns the HTTP handler for Prometheus scrapes
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
