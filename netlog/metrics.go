// Copyright 2024 The Overlaynet Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package netlog

import "github.com/prometheus/client_golang/prometheus"

// Metrics mirrors the events a Logger logs as Prometheus counters.
// It is entirely optional: a Logger built without WithMetrics behaves
// exactly as before, just without the counter increments.
type Metrics struct {
	queueAdmits          prometheus.Counter
	queueDrops           *prometheus.CounterVec
	emitted              prometheus.Counter
	lossDrops            prometheus.Counter
	retransmits          prometheus.Counter
	retransmitsExhausted prometheus.Counter
	pingMisses           prometheus.Counter
}

// NewMetrics registers a Metrics recorder's collectors with reg and
// returns it. namespace is used as the Prometheus metric namespace,
// e.g. "overlaynet_emulator".
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		queueAdmits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_admits_total",
			Help:      "Packets accepted into a priority queue.",
		}),
		queueDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_drops_total",
			Help:      "Packets dropped on queue admission, by reason.",
		}, []string{"reason"}),
		emitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emitted_total",
			Help:      "Packets emitted toward a next hop after their delay elapsed.",
		}),
		lossDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loss_drops_total",
			Help:      "Packets dropped by the loss dice after their delay elapsed.",
		}),
		retransmits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retransmits_total",
			Help:      "Sender window retransmissions.",
		}),
		retransmitsExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retransmits_exhausted_total",
			Help:      "Sender window slots retired as failed after MAX_RETRIES.",
		}),
		pingMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ping_misses_total",
			Help:      "Neighbours declared dead after missing their liveness deadline.",
		}),
	}
	reg.MustRegister(m.queueAdmits, m.queueDrops, m.emitted, m.lossDrops, m.retransmits, m.retransmitsExhausted, m.pingMisses)
	return m
}
