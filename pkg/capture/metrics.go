// SPDX-FileCopyrightText: 2024 The ofh-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capture

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics count the outcomes of U-Plane decoding.
type Metrics struct {
	messages *prometheus.CounterVec
	sections prometheus.Counter
	stored   prometheus.Counter
}

// NewMetrics creates Metrics and registers them at reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ofh",
				Subsystem: "uplane",
				Name:      "messages_total",
				Help:      "Received U-Plane messages by decoding outcome",
			},
			[]string{"outcome"},
		),
		sections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ofh",
				Subsystem: "uplane",
				Name:      "sections_total",
				Help:      "Sections of accepted U-Plane messages",
			},
		),
		stored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "ofh",
				Subsystem: "capture",
				Name:      "stored_total",
				Help:      "Captures written to the store",
			},
		),
	}

	reg.MustRegister(m.messages, m.sections, m.stored)
	return m
}

// Observe a decoded message.
func (m *Metrics) Observe(accepted bool, nofSections int) {
	if !accepted {
		m.messages.WithLabelValues("rejected").Inc()
		return
	}

	m.messages.WithLabelValues("accepted").Inc()
	m.sections.Add(float64(nofSections))
}

// ObserveStored counts a new capture in the Store.
func (m *Metrics) ObserveStored() {
	m.stored.Inc()
}
