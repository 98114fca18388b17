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

package queue

import (
	"math/rand"
	"sort"
	"time"

	"github.com/overlaynet/overlaynet/wire"
)

// Clock abstracts time.Now so Bank.Tick can be driven deterministically
// in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Rand abstracts the loss dice so loss decisions are reproducible in
// tests.
type Rand interface {
	Intn(n int) int
}

type mathRand struct{}

func (mathRand) Intn(n int) int { return rand.Intn(n) }

// PriorityOf maps a packet type to the priority class its queue
// occupies. The unified 24-byte header this module settles on (see
// wire.Header) carries no explicit priority field — that field existed
// only in the separate, shorter header an earlier iteration used
// alongside a narrower three-field forwarding model. Priority is
// derived from packet type instead, by default giving control traffic
// (link-state floods, acknowledgements, trace probes) a lower,
// higher-priority class than bulk data, which keeps the "three
// configurable FIFOs" shape spec.md describes without reopening the
// header's wire layout.
func PriorityOf(t wire.PacketType) int {
	switch t {
	case wire.TypeLinkState:
		return 0
	case wire.TypeAck, wire.TypeTrace:
		return 1
	default:
		return 2
	}
}

// A PriorityFunc computes the priority class a packet occupies. Bank's
// default is PriorityOf; WithPriorityFunc overrides it, e.g. to restore
// a literal per-packet priority field carried out-of-band by the
// caller.
type PriorityFunc func(wire.Header) int

// queued packet, pending admission to a priority FIFO or already
// waiting in one.
type queuedPacket struct {
	Header  wire.Header
	Payload []byte
}

// delayed packet, currently occupying the single delay slot.
type delayedPacket struct {
	admitted time.Time
	pkt      queuedPacket
}

// NextHopParams describes the per-neighbour delay and loss
// characteristics Tick applies to whatever packet currently occupies
// the delay slot.
type NextHopParams struct {
	Delay           time.Duration
	LossProbability int // 0-100
}

// An Emission is a packet the bank has decided to send onward, after
// surviving its delay slot and the loss dice.
type Emission struct {
	Header  wire.Header
	Payload []byte
}

// A Drop records why a packet never reached Emission, for the caller
// to log.
type Drop struct {
	Header wire.Header
	Reason error
}

// Option configures a Bank at construction.
type Option func(*Bank)

// WithClock overrides the clock used to stamp delay-slot admission
// times. Tests inject a fake so delay expiry does not require sleeping.
func WithClock(c Clock) Option {
	return func(b *Bank) { b.clock = c }
}

// WithRand overrides the source of randomness used for the loss dice.
func WithRand(r Rand) Option {
	return func(b *Bank) { b.rand = r }
}

// WithPriorityFunc overrides how a packet's priority class is derived.
func WithPriorityFunc(f PriorityFunc) Option {
	return func(b *Bank) { b.priorityOf = f }
}

// A Bank is one emulator's priority queue bank toward a single next
// hop: a FIFO per priority class, a tail-drop admission policy bounded
// by size, and a single delay slot that packets occupy between
// admission and emission.
type Bank struct {
	size       int
	queues     map[int][]queuedPacket
	delay      *delayedPacket
	clock      Clock
	rand       Rand
	priorityOf PriorityFunc
}

// NewBank constructs a Bank whose per-priority FIFOs each hold up to
// size packets.
func NewBank(size int, opts ...Option) *Bank {
	b := &Bank{
		size:       size,
		queues:     make(map[int][]queuedPacket),
		clock:      systemClock{},
		rand:       mathRand{},
		priorityOf: func(h wire.Header) int { return PriorityOf(h.Type) },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Enqueue admits a packet into the bank. Packets of wire.TypeEnd bypass
// queueing and are returned immediately as a ready Emission so the
// caller can send them without waiting for a Tick. Any other packet is
// appended to its priority class's FIFO, or dropped with
// *QueueFullError if that FIFO is already at capacity.
func (b *Bank) Enqueue(h wire.Header, payload []byte) (*Emission, error) {
	if h.Type == wire.TypeEnd {
		return &Emission{Header: h, Payload: payload}, nil
	}

	prio := b.priorityOf(h)
	if len(b.queues[prio]) >= b.size {
		return nil, &QueueFullError{Priority: prio, Size: b.size}
	}
	b.queues[prio] = append(b.queues[prio], queuedPacket{Header: h, Payload: payload})
	return nil, nil
}

// Tick advances the bank by one scheduling step against hop, the
// current next-hop delay/loss parameters. It admits a packet into the
// delay slot if the slot is empty and some priority queue is
// non-empty, then — if the slot is occupied and has waited at least
// hop.Delay — rolls the loss dice and either drops the packet or
// returns it as an Emission, clearing the slot either way.
//
// Tick returns at most one Emission and at most one Drop per call;
// both may be nil.
func (b *Bank) Tick(now time.Time, hop NextHopParams) (*Emission, *Drop) {
	if b.delay == nil {
		if pkt, ok := b.popHighestPriority(); ok {
			b.delay = &delayedPacket{admitted: now, pkt: pkt}
		}
	}

	if b.delay == nil {
		return nil, nil
	}
	if now.Sub(b.delay.admitted) < hop.Delay {
		return nil, nil
	}

	pkt := b.delay.pkt
	b.delay = nil

	if pkt.Header.Type != wire.TypeEnd && b.rollLoss(hop.LossProbability) {
		return nil, &Drop{Header: pkt.Header, Reason: &LossEventError{Priority: b.priorityOf(pkt.Header)}}
	}
	return &Emission{Header: pkt.Header, Payload: pkt.Payload}, nil
}

func (b *Bank) rollLoss(probability int) bool {
	if probability <= 0 {
		return false
	}
	if probability >= 100 {
		return true
	}
	return b.rand.Intn(100) < probability
}

// popHighestPriority removes and returns the packet at the head of the
// numerically smallest non-empty priority FIFO.
func (b *Bank) popHighestPriority() (queuedPacket, bool) {
	prios := make([]int, 0, len(b.queues))
	for p, q := range b.queues {
		if len(q) > 0 {
			prios = append(prios, p)
		}
	}
	if len(prios) == 0 {
		return queuedPacket{}, false
	}
	sort.Ints(prios)
	best := prios[0]

	q := b.queues[best]
	pkt := q[0]
	b.queues[best] = q[1:]
	return pkt, true
}

// TickNow calls Tick with the bank's configured clock, for callers that
// don't track their own notion of "now" (see WithClock).
func (b *Bank) TickNow(hop NextHopParams) (*Emission, *Drop) {
	return b.Tick(b.clock.Now(), hop)
}

// Depth returns the current length of the priority-class FIFO for
// priority, for diagnostics and tests.
func (b *Bank) Depth(priority int) int {
	return len(b.queues[priority])
}

// DelayOccupied reports whether a packet currently occupies the delay
// slot.
func (b *Bank) DelayOccupied() bool {
	return b.delay != nil
}
