/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package metrics exports cast and codec outcomes as Prometheus metrics.
//
// *Metrics implements apis.Observer and plugs into cast.WithObserver and
// codec.WithObserver. Labels are bounded: target is "concrete" or
// "interface", outcome is "ok" or an error kind name.
package metrics

import (
	stderrors "errors"

	"github.com/prometheus/client_golang/prometheus"

	"dirpx.dev/dyncast/apis"
)

const namespace = "dyncast"

// Metrics holds the cast and codec counters.
type Metrics struct {
	Casts *prometheus.CounterVec
	Codec *prometheus.CounterVec
}

// Ensure Metrics implements apis.Observer.
var _ apis.Observer = (*Metrics)(nil)

// New creates the counters and registers them with reg. A nil reg skips
// registration. Counters already registered by an earlier New are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Casts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cast",
				Name:      "total",
				Help:      "Total number of casts by target kind, requested mode and outcome",
			},
			[]string{"target", "mode", "outcome"},
		),
		Codec: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "codec",
				Name:      "operations_total",
				Help:      "Total number of codec operations by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	if m.Casts, err = register(reg, m.Casts); err != nil {
		return nil, err
	}
	if m.Codec, err = register(reg, m.Codec); err != nil {
		return nil, err
	}
	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if stderrors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

// ObserveCast counts one cast.
func (m *Metrics) ObserveCast(target string, mode apis.Access, outcome string) {
	m.Casts.WithLabelValues(target, mode.String(), outcome).Inc()
}

// ObserveCodec counts one codec operation.
func (m *Metrics) ObserveCodec(op string, outcome string) {
	m.Codec.WithLabelValues(op, outcome).Inc()
}

// RegisterRegistryGauges exposes the size and phase of r as gauges labelled
// with the registry ID.
func RegisterRegistryGauges(reg prometheus.Registerer, r apis.Registry) error {
	labels := prometheus.Labels{"registry": r.ID()}
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "registry",
			Name:        "types",
			Help:        "Number of registered concrete types",
			ConstLabels: labels,
		}, func() float64 { return float64(r.Count()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "registry",
			Name:        "interfaces",
			Help:        "Number of interfaces with at least one implementation",
			ConstLabels: labels,
		}, func() float64 { return float64(len(r.Interfaces())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "registry",
			Name:        "frozen",
			Help:        "Registry phase (0=accepting registrations, 1=frozen)",
			ConstLabels: labels,
		}, func() float64 {
			if r.Frozen() {
				return 1
			}
			return 0
		}),
	}
	for _, g := range gauges {
		if err := reg.Register(g); err != nil {
			return err
		}
	}
	return nil
}
