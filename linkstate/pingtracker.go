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

package linkstate

import (
	"time"

	"github.com/overlaynet/overlaynet/wire"
)

// PingInterval is the interval at which an emulator pings each of its
// configured neighbours.
const PingInterval = 500 * time.Millisecond

// DeadAfter is how long a neighbour may go without answering a ping
// before PingTracker declares it dead. Six missed intervals, per
// spec.md §5.2.
const DeadAfter = 6 * PingInterval

// Clock abstracts time.Now so PingTracker can be driven deterministically
// in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock with the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// PingTracker tracks neighbour liveness via last-seen timestamps. It
// has no knowledge of sockets: the emulator is responsible for
// actually sending ping packets and for feeding replies back in via
// Touch.
type PingTracker struct {
	clock    Clock
	lastSeen map[wire.Endpoint]time.Time
}

// NewPingTracker constructs a PingTracker driven by clock. If clock is
// nil, SystemClock{} is used.
func NewPingTracker(clock Clock) *PingTracker {
	if clock == nil {
		clock = SystemClock{}
	}
	return &PingTracker{
		clock:    clock,
		lastSeen: make(map[wire.Endpoint]time.Time),
	}
}

// Touch records that neighbour answered a ping (or is otherwise known
// to be alive) at the current time.
func (p *PingTracker) Touch(neighbour wire.Endpoint) {
	p.lastSeen[neighbour] = p.clock.Now()
}

// Forget drops all liveness state for neighbour, e.g. after it has
// already been declared dead and removed from the topology.
func (p *PingTracker) Forget(neighbour wire.Endpoint) {
	delete(p.lastSeen, neighbour)
}

// DeadSince reports, for every tracked neighbour that has gone silent
// for at least DeadAfter, how long it has been silent. Neighbours
// never Touch'd are not reported — they are presumed newly configured
// and get a full DeadAfter grace period starting from their first
// Touch.
func (p *PingTracker) DeadSince() map[wire.Endpoint]time.Duration {
	now := p.clock.Now()
	dead := make(map[wire.Endpoint]time.Duration)
	for ep, last := range p.lastSeen {
		if silence := now.Sub(last); silence >= DeadAfter {
			dead[ep] = silence
		}
	}
	return dead
}

// Tracked reports whether neighbour has ever been Touch'd.
func (p *PingTracker) Tracked(neighbour wire.Endpoint) bool {
	_, ok := p.lastSeen[neighbour]
	return ok
}
