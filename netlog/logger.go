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

import (
	"log"

	"github.com/rs/xid"

	"github.com/overlaynet/overlaynet/wire"
)

// A Logger emits overlaynet's per-event log lines to an underlying
// *log.Logger. The zero value is not usable; construct one with New.
// A nil *Logger is valid and silently discards every event, so a node
// that was built without a Logger option can call its methods
// unconditionally.
type Logger struct {
	ll      *log.Logger
	metrics *Metrics
	inst    xid.ID
}

// An Option configures a Logger constructed with New.
type Option func(*Logger)

// WithMetrics attaches a Metrics recorder that mirrors every logged
// event as a Prometheus counter increment.
func WithMetrics(m *Metrics) Option {
	return func(l *Logger) { l.metrics = m }
}

// New builds a Logger that writes to ll. Each Logger is tagged with a
// process-unique instance ID (via github.com/rs/xid) so log lines from
// concurrently running nodes in the same test or lab session can be
// told apart, the same role the "inst" tag plays in a raw-socket
// listener logging its pid/object address per receive loop.
func New(ll *log.Logger, opts ...Option) *Logger {
	l := &Logger{ll: ll, inst: xid.New()}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Logger) printf(format string, args ...interface{}) {
	if l == nil || l.ll == nil {
		return
	}
	args = append([]interface{}{l.inst}, args...)
	l.ll.Printf("[%s] "+format, args...)
}

// QueueAdmit logs that pkt was accepted into priority queue priority.
func (l *Logger) QueueAdmit(priority uint8, h wire.Header) {
	l.printf("queue admit priority=%d type=%s src=%s dst=%s seq=%d", priority, h.Type, h.Src, h.Dst, h.SeqNo)
	if l != nil && l.metrics != nil {
		l.metrics.queueAdmits.Inc()
	}
}

// QueueDrop logs that pkt was dropped on admission, with reason.
func (l *Logger) QueueDrop(reason string, h wire.Header) {
	l.printf("queue drop reason=%q type=%s src=%s dst=%s seq=%d", reason, h.Type, h.Src, h.Dst, h.SeqNo)
	if l != nil && l.metrics != nil {
		l.metrics.queueDrops.WithLabelValues(reason).Inc()
	}
}

// DelayStart logs that pkt entered the emulator's delay slot.
func (l *Logger) DelayStart(h wire.Header) {
	l.printf("delay start type=%s src=%s dst=%s seq=%d", h.Type, h.Src, h.Dst, h.SeqNo)
}

// Emit logs that pkt left the delay slot toward nextHop.
func (l *Logger) Emit(h wire.Header, nextHop wire.Endpoint) {
	l.printf("emit type=%s src=%s dst=%s seq=%d next_hop=%s", h.Type, h.Src, h.Dst, h.SeqNo, nextHop)
	if l != nil && l.metrics != nil {
		l.metrics.emitted.Inc()
	}
}

// LossDrop logs that pkt was dropped by the loss dice after its delay
// elapsed.
func (l *Logger) LossDrop(h wire.Header) {
	l.printf("loss drop type=%s src=%s dst=%s seq=%d", h.Type, h.Src, h.Dst, h.SeqNo)
	if l != nil && l.metrics != nil {
		l.metrics.lossDrops.Inc()
	}
}

// Retransmit logs that the sender window retransmitted seqNo for the
// count-th time.
func (l *Logger) Retransmit(seqNo uint32, count int) {
	l.printf("sender retransmit seq=%d count=%d", seqNo, count)
	if l != nil && l.metrics != nil {
		l.metrics.retransmits.Inc()
	}
}

// RetransmitExhausted logs that seqNo was retired as failed after
// exhausting its retries.
func (l *Logger) RetransmitExhausted(seqNo uint32) {
	l.printf("sender retransmit exhausted seq=%d", seqNo)
	if l != nil && l.metrics != nil {
		l.metrics.retransmitsExhausted.Inc()
	}
}

// PingSend logs that a link-state ping was sent to neighbour.
func (l *Logger) PingSend(neighbour wire.Endpoint) {
	l.printf("ping send neighbour=%s", neighbour)
}

// PingMiss logs that neighbour missed its liveness deadline and is
// being declared dead.
func (l *Logger) PingMiss(neighbour wire.Endpoint) {
	l.printf("ping miss neighbour=%s", neighbour)
	if l != nil && l.metrics != nil {
		l.metrics.pingMisses.Inc()
	}
}

// TopologySnapshot logs the current link-state database, one line per
// record, formatted by the caller.
func (l *Logger) TopologySnapshot(lines []string) {
	for _, line := range lines {
		l.printf("topology %s", line)
	}
}

// ForwardingTableSnapshot logs the current forwarding table, one line
// per destination, formatted by the caller.
func (l *Logger) ForwardingTableSnapshot(lines []string) {
	for _, line := range lines {
		l.printf("forwarding-table %s", line)
	}
}
