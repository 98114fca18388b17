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

package sender

import (
	"time"

	"github.com/overlaynet/overlaynet/netlog"
)

// MaxRetries is the number of retransmission attempts a segment gets
// before its slot is retired as failed.
const MaxRetries = 5

// Clock abstracts time.Now so retransmission timing can be driven
// deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// TransmitFunc sends packet, previously admitted under seqNo, to the
// ingress emulator. A non-nil error does not stop the retransmission
// schedule; the next Tick tries again once the timeout elapses.
type TransmitFunc func(seqNo uint32, packet []byte) error

// Option configures a Window at construction.
type Option func(*Window)

// WithClock overrides the clock used for retransmission timing.
func WithClock(c Clock) Option {
	return func(w *Window) { w.clock = c }
}

// WithLogger attaches a structured event logger.
func WithLogger(l *netlog.Logger) Option {
	return func(w *Window) { w.log = l }
}

type segment struct {
	packet       []byte
	retries      int
	lastTransmit time.Time
	acked        bool
	failed       bool
}

func (s *segment) done() bool { return s.acked || s.failed }

// Window is the fixed-capacity table of outstanding segments a sender
// keeps while waiting for a batch of data packets to be acknowledged.
// It never sleeps and never dials a socket: the caller supplies the
// current time and a TransmitFunc on every call.
type Window struct {
	size     int
	timeout  time.Duration
	clock    Clock
	log      *netlog.Logger
	segments map[uint32]*segment

	firstTransmissions int
	retransmissions    int
	failures           int
}

// NewWindow constructs a Window holding at most size outstanding
// segments at once, retransmitting any unacknowledged segment once
// timeout has elapsed since its last transmission.
func NewWindow(size int, timeout time.Duration, opts ...Option) *Window {
	w := &Window{
		size:     size,
		timeout:  timeout,
		clock:    systemClock{},
		segments: make(map[uint32]*segment),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Admit inserts a newly formed segment into the window and performs
// its first transmission. canAdmitMore reports whether the window has
// room for another segment without first draining via Tick/Ack.
func (w *Window) Admit(seqNo uint32, packet []byte, transmit TransmitFunc) (canAdmitMore bool, err error) {
	if _, exists := w.segments[seqNo]; exists {
		return len(w.segments) < w.size, &DuplicateSeqNoError{SeqNo: seqNo}
	}
	if len(w.segments) >= w.size {
		return false, &WindowFullError{Size: w.size}
	}

	now := w.clock.Now()
	w.segments[seqNo] = &segment{packet: packet, lastTransmit: now}
	w.firstTransmissions++

	if err := transmit(seqNo, packet); err != nil {
		return len(w.segments) < w.size, err
	}
	return len(w.segments) < w.size, nil
}

// Ack marks seqNo's segment as acknowledged. Acking a seqNo not
// currently outstanding (already acked, failed, or never admitted) is
// a no-op, matching the source's ack_packet guard.
func (w *Window) Ack(seqNo uint32) {
	if s, ok := w.segments[seqNo]; ok {
		s.acked = true
	}
}

// Tick retransmits every outstanding segment whose timeout has
// elapsed, retiring as failed any segment that has already exhausted
// MaxRetries. allDone reports whether every segment in the window is
// now either acked or failed, i.e. whether the batch can be cleared.
func (w *Window) Tick(now time.Time, transmit TransmitFunc) (allDone bool) {
	for seqNo, s := range w.segments {
		if s.done() {
			continue
		}
		if s.retries >= MaxRetries {
			s.failed = true
			w.failures++
			if w.log != nil {
				w.log.RetransmitExhausted(seqNo)
			}
			continue
		}
		if now.Sub(s.lastTransmit) < w.timeout {
			continue
		}
		s.retries++
		s.lastTransmit = now
		w.retransmissions++
		if w.log != nil {
			w.log.Retransmit(seqNo, s.retries)
		}
		transmit(seqNo, s.packet)
	}

	for _, s := range w.segments {
		if !s.done() {
			return false
		}
	}
	return true
}

// Clear drops every segment from the window, ready for the next
// batch. Cumulative transmission counters used by Summary survive a
// Clear.
func (w *Window) Clear() {
	w.segments = make(map[uint32]*segment)
}

// Depth reports the number of segments currently held in the window,
// acked or failed ones included, until the next Clear.
func (w *Window) Depth() int {
	return len(w.segments)
}

// Summary reports the sender's cumulative transmission statistics
// since construction.
type Summary struct {
	FirstTransmissions int
	Retransmissions    int
	Failures           int
	// LossRate is the percentage of all transmissions (first
	// transmissions plus retransmissions) that were retransmissions,
	// matching print_summary's average loss rate.
	LossRate float64
}

// Summary computes the Window's cumulative Summary.
func (w *Window) Summary() Summary {
	var lossRate float64
	if total := w.retransmissions + w.firstTransmissions; total > 0 {
		lossRate = float64(w.retransmissions) * 100.0 / float64(total)
	}
	return Summary{
		FirstTransmissions: w.firstTransmissions,
		Retransmissions:    w.retransmissions,
		Failures:           w.failures,
		LossRate:           lossRate,
	}
}
