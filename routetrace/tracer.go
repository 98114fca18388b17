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

package routetrace

import (
	"context"
	"fmt"
	"time"

	"github.com/overlaynet/overlaynet/wire"
)

// Option configures a Tracer at construction.
type Option func(*Tracer)

// WithPollInterval overrides how long a single non-blocking read waits
// before Run rechecks ctx (default 20ms).
func WithPollInterval(d time.Duration) Option {
	return func(t *Tracer) { t.pollInterval = d }
}

// A Tracer runs a hop-by-hop route probe from self, registered with
// ingress, toward dst.
type Tracer struct {
	self    wire.Endpoint
	ingress wire.Endpoint
	dst     wire.Endpoint
	conn    PacketConn

	pollInterval time.Duration
}

// NewTracer constructs a Tracer. self is the tracer's own client
// endpoint, ingress is the emulator it registers with, and dst is the
// destination emulator whose hop path is being probed.
func NewTracer(self, ingress, dst wire.Endpoint, conn PacketConn, opts ...Option) *Tracer {
	t := &Tracer{
		self:         self,
		ingress:      ingress,
		dst:          dst,
		conn:         conn,
		pollInterval: 20 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run registers with the ingress emulator, then probes with
// increasing TTL until a reply's source is dst itself, returning the
// ordered list of hop addresses (one per TTL value, terminating at
// dst). It returns an error if ctx is cancelled or more than
// wire.TTLMax hops are probed without reaching dst.
func (t *Tracer) Run(ctx context.Context) ([]wire.Endpoint, error) {
	if err := t.register(); err != nil {
		return nil, err
	}

	var hops []wire.Endpoint
	for ttl := uint16(0); ttl <= wire.TTLMax; ttl++ {
		select {
		case <-ctx.Done():
			return hops, ctx.Err()
		default:
		}
		if err := t.sendProbe(ttl); err != nil {
			return hops, err
		}
		reply, err := t.awaitReply(ctx)
		if err != nil {
			return hops, err
		}
		hops = append(hops, reply.Src)
		if reply.Src == t.dst {
			return hops, nil
		}
	}
	return hops, fmt.Errorf("routetrace: no reply from %v within %d hops", t.dst, wire.TTLMax)
}

func (t *Tracer) register() error {
	h, err := wire.NewHeader(t.self, t.ingress, wire.TypeAck, 0, 1, 0, false)
	if err != nil {
		return err
	}
	_, err = t.conn.WriteToUDP(h.Encode(), t.ingress)
	return err
}

func (t *Tracer) sendProbe(ttl uint16) error {
	h, err := wire.NewHeader(t.self, t.dst, wire.TypeTrace, 0, ttl, 0, false)
	if err != nil {
		return err
	}
	tunnel, err := wire.NewTunnelHeader(t.dst)
	if err != nil {
		return err
	}
	buf := append(h.Encode(), tunnel.Encode()...)
	_, err = t.conn.WriteToUDP(buf, t.ingress)
	return err
}

func (t *Tracer) awaitReply(ctx context.Context) (wire.Header, error) {
	buf := make([]byte, 64*1024)
	for {
		select {
		case <-ctx.Done():
			return wire.Header{}, ctx.Err()
		default:
		}

		if err := t.conn.SetReadDeadline(time.Now().Add(t.pollInterval)); err != nil {
			return wire.Header{}, err
		}
		sz, _, err := t.conn.ReadFromUDP(buf)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			return wire.Header{}, err
		}
		h, err := wire.Decode(buf[:sz])
		if err != nil || h.Type != wire.TypeTrace {
			continue
		}
		return h, nil
	}
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	te, ok := err.(timeout)
	return ok && te.Timeout()
}
