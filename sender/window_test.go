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
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestAdmitTransmitsAndTracksFirstTransmission(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	w := NewWindow(2, 100*time.Millisecond, WithClock(clk))

	var sent []uint32
	transmit := func(seqNo uint32, pkt []byte) error {
		sent = append(sent, seqNo)
		return nil
	}

	more, err := w.Admit(1, []byte("a"), transmit)
	if err != nil {
		t.Fatal(err)
	}
	if !more {
		t.Fatal("expected room for a second segment")
	}
	more, err = w.Admit(2, []byte("b"), transmit)
	if err != nil {
		t.Fatal(err)
	}
	if more {
		t.Fatal("expected window to report full after second admit")
	}

	if len(sent) != 2 || sent[0] != 1 || sent[1] != 2 {
		t.Fatalf("sent = %v, want [1 2]", sent)
	}
	if s := w.Summary(); s.FirstTransmissions != 2 {
		t.Fatalf("FirstTransmissions = %d, want 2", s.FirstTransmissions)
	}
}

func TestAdmitRejectsWhenFull(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	w := NewWindow(1, 100*time.Millisecond, WithClock(clk))
	noop := func(uint32, []byte) error { return nil }

	if _, err := w.Admit(1, []byte("a"), noop); err != nil {
		t.Fatal(err)
	}
	_, err := w.Admit(2, []byte("b"), noop)
	var full *WindowFullError
	if !errors.As(err, &full) {
		t.Fatalf("Admit on full window = %v, want *WindowFullError", err)
	}
}

func TestAdmitRejectsDuplicateSeqNo(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	w := NewWindow(4, 100*time.Millisecond, WithClock(clk))
	noop := func(uint32, []byte) error { return nil }

	if _, err := w.Admit(1, []byte("a"), noop); err != nil {
		t.Fatal(err)
	}
	_, err := w.Admit(1, []byte("a-again"), noop)
	var dup *DuplicateSeqNoError
	if !errors.As(err, &dup) {
		t.Fatalf("re-Admit of same seq_no = %v, want *DuplicateSeqNoError", err)
	}
}

func TestAckRetiresSegmentAndAllDoneFollows(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	w := NewWindow(2, 100*time.Millisecond, WithClock(clk))
	noop := func(uint32, []byte) error { return nil }

	w.Admit(1, []byte("a"), noop)
	w.Admit(2, []byte("b"), noop)

	w.Ack(1)
	w.Ack(2)

	allDone := w.Tick(clk.now, noop)
	if !allDone {
		t.Fatal("expected allDone once every segment is acked")
	}
}

// TestTickRetransmitsUntilMaxRetriesThenFails exercises the loss+retry
// scenario: a single segment is never acked, so every Tick past the
// timeout retransmits it, until MaxRetries is exhausted and the slot
// is retired as failed without a sixth attempt.
func TestTickRetransmitsUntilMaxRetriesThenFails(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	timeout := 50 * time.Millisecond
	w := NewWindow(1, timeout, WithClock(clk))

	retransmits := 0
	transmit := func(uint32, []byte) error { retransmits++; return nil }

	if _, err := w.Admit(1, []byte("a"), transmit); err != nil {
		t.Fatal(err)
	}
	retransmits = 0 // don't count the initial Admit transmission

	allDone := false
	for i := 0; i < MaxRetries+1; i++ {
		clk.now = clk.now.Add(timeout)
		allDone = w.Tick(clk.now, transmit)
	}

	if !allDone {
		t.Fatal("expected the segment to be retired as failed by now")
	}
	if retransmits != MaxRetries {
		t.Fatalf("retransmit attempts = %d, want %d (MaxRetries, no 6th attempt)", retransmits, MaxRetries)
	}

	s := w.Summary()
	if s.Failures != 1 {
		t.Fatalf("Failures = %d, want 1", s.Failures)
	}
	if s.Retransmissions != MaxRetries {
		t.Fatalf("Retransmissions = %d, want %d", s.Retransmissions, MaxRetries)
	}
	wantLossRate := float64(MaxRetries) * 100.0 / float64(MaxRetries+1)
	if s.LossRate != wantLossRate {
		t.Fatalf("LossRate = %v, want %v", s.LossRate, wantLossRate)
	}
}

func TestTickDoesNotRetransmitBeforeTimeout(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	timeout := time.Second
	w := NewWindow(1, timeout, WithClock(clk))
	calls := 0
	transmit := func(uint32, []byte) error { calls++; return nil }

	w.Admit(1, []byte("a"), transmit)
	calls = 0

	clk.now = clk.now.Add(timeout / 2)
	if allDone := w.Tick(clk.now, transmit); allDone {
		t.Fatal("expected allDone=false with an un-acked, not-yet-timed-out segment")
	}
	if calls != 0 {
		t.Fatalf("unexpected retransmit before timeout: calls=%d", calls)
	}
}

func TestClearResetsDepthNotCounters(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	w := NewWindow(2, 100*time.Millisecond, WithClock(clk))
	noop := func(uint32, []byte) error { return nil }

	w.Admit(1, []byte("a"), noop)
	w.Ack(1)
	if w.Depth() != 1 {
		t.Fatalf("Depth = %d, want 1", w.Depth())
	}
	w.Clear()
	if w.Depth() != 0 {
		t.Fatalf("Depth after Clear = %d, want 0", w.Depth())
	}
	if w.Summary().FirstTransmissions != 1 {
		t.Fatal("expected cumulative counters to survive Clear")
	}
}
