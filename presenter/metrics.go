/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package presenter

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Metrics holds the prometheus instruments shared by the models of one
// host (or wired into standalone models via WithMetrics).
type Metrics struct {
	Transitions        *prometheus.CounterVec
	IllegalTransitions prometheus.Counter
	Attachments        prometheus.Counter
	LiveModels         prometheus.Gauge
	BufferedCommands   prometheus.Gauge
}

// NewMetrics builds the instrument set and registers it on reg. A nil reg
// leaves the instruments unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "presenter_phase_transitions_total",
			Help: "Successful lifecycle transitions, by target phase.",
		}, []string{"phase"}),
		IllegalTransitions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presenter_illegal_transitions_total",
			Help: "Rejected lifecycle transitions.",
		}),
		Attachments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "presenter_attachments_total",
			Help: "Successful parent-child attachments.",
		}),
		LiveModels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "presenter_live_models",
			Help: "Models that have been created and not yet destroyed.",
		}),
		BufferedCommands: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "presenter_buffered_commands",
			Help: "Command values withheld while their model is not resumed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.IllegalTransitions, m.Attachments, m.LiveModels, m.BufferedCommands)
	}
	return m
}

// Telemetry is the optional OTel pairing for a model: a span per push and
// a transition counter instrument.
type Telemetry struct {
	tracer      trace.Tracer
	transitions metric.Int64Counter
}

// NewTelemetry builds a Telemetry from an OTel meter and tracer.
func NewTelemetry(meter metric.Meter, tracer trace.Tracer) (*Telemetry, error) {
	transitions, err := meter.Int64Counter(
		"presenter.phase.transitions",
		metric.WithDescription("Successful lifecycle transitions."),
	)
	if err != nil {
		return nil, err
	}
	return &Telemetry{tracer: tracer, transitions: transitions}, nil
}

func (t *Telemetry) recordTransition(model string, to Phase) {
	attrs := []attribute.KeyValue{
		attribute.String("presenter.model", model),
		attribute.String("presenter.phase", to.String()),
	}
	ctx, span := t.tracer.Start(context.Background(), "presenter.push",
		trace.WithAttributes(attrs...))
	t.transitions.Add(ctx, 1, metric.WithAttributes(attrs...))
	span.End()
}
