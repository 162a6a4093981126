package models

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "speech_bridge"

var (
	eventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "events_emitted_total",
		Help:      "Events sent to the host application, by event name.",
	}, []string{"event"})

	simpleTasksStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "simple_tasks_started_total",
		Help:      "Single-shot recognition tasks started.",
	})

	simpleTasksCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "simple_tasks_cancelled_total",
		Help:      "Single-shot recognition tasks cancelled before their result arrived.",
	})

	simpleTasksActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "simple_tasks_tracked",
		Help:      "Single-shot recognition tasks currently in the registry.",
	})

	continuousListening = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "continuous_listening",
		Help:      "1 while continuous recognition is active.",
	})
)
