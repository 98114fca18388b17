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

package emulator

import (
	"context"
	"time"

	"github.com/overlaynet/overlaynet/linkstate"
	"github.com/overlaynet/overlaynet/netlog"
	"github.com/overlaynet/overlaynet/queue"
	"github.com/overlaynet/overlaynet/topology"
	"github.com/overlaynet/overlaynet/wire"
)

// Clock abstracts time.Now so a Node's ping maintenance and queue
// ticking can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Node at construction.
type Option func(*Node)

// WithLogger attaches a structured event logger.
func WithLogger(l *netlog.Logger) Option {
	return func(n *Node) { n.log = l }
}

// WithClock overrides the clock used for ping scheduling and queue
// ticking.
func WithClock(c Clock) Option {
	return func(n *Node) { n.clock = c }
}

// WithQueueSize overrides the per-neighbour priority FIFO depth (default 16).
func WithQueueSize(size int) Option {
	return func(n *Node) { n.queueSize = size }
}

// A Node is one emulator: a forwarding pipeline over a link-state
// Graph and a bank of per-neighbour priority queues, reachable through
// a PacketConn.
type Node struct {
	self wire.Endpoint
	conn PacketConn
	log  *netlog.Logger
	clock Clock

	graph   *linkstate.Graph
	pings   *linkstate.PingTracker
	linkParams map[wire.Endpoint]topology.LinkParams

	banks     map[wire.Endpoint]*queue.Bank
	queueSize int

	registeredClients map[wire.Endpoint]struct{}
	lastPingSent      map[wire.Endpoint]time.Time
}

// NewNode constructs a Node rooted at self, with graph as its initial
// link-state database (already populated from a topology file) and
// linkParams giving each neighbour's delay/loss characteristics.
func NewNode(self wire.Endpoint, graph *linkstate.Graph, linkParams map[wire.Endpoint]topology.LinkParams, conn PacketConn, opts ...Option) *Node {
	n := &Node{
		self:              self,
		conn:              conn,
		clock:             systemClock{},
		graph:             graph,
		linkParams:        linkParams,
		banks:             make(map[wire.Endpoint]*queue.Bank),
		queueSize:         16,
		registeredClients: make(map[wire.Endpoint]struct{}),
		lastPingSent:      make(map[wire.Endpoint]time.Time),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.pings = linkstate.NewPingTracker(n.clock)
	rec, _ := graph.Record(self)
	for _, nb := range rec.SortedNeighbours() {
		n.bankFor(nb)
		n.pings.Touch(nb)
	}
	return n
}

func (n *Node) bankFor(neighbour wire.Endpoint) *queue.Bank {
	b, ok := n.banks[neighbour]
	if !ok {
		b = queue.NewBank(n.queueSize, queue.WithClock(n.clock))
		n.banks[neighbour] = b
	}
	return b
}

// Self returns the node's own endpoint.
func (n *Node) Self() wire.Endpoint { return n.self }

// Graph exposes the node's link-state database, mainly for tests and
// diagnostics.
func (n *Node) Graph() *linkstate.Graph { return n.graph }

// RegisteredClients reports whether client has registered with this
// node via an A packet addressed to it.
func (n *Node) RegisteredClients(client wire.Endpoint) bool {
	_, ok := n.registeredClients[client]
	return ok
}

// Run drives the node's cooperative poll loop until ctx is cancelled:
// a short, non-blocking read, dispatch of whatever arrived, then a
// Tick of every neighbour's queue bank and ping schedule. It never
// returns a non-nil error except one from the underlying PacketConn
// itself (a read or write failure, not a protocol violation — those
// are logged and swallowed inside HandleDatagram).
func (n *Node) Run(ctx context.Context) error {
	buf := make([]byte, 64*1024)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := n.conn.SetReadDeadline(n.clock.Now().Add(20 * time.Millisecond)); err != nil {
			return err
		}
		sz, src, err := n.conn.ReadFromUDP(buf)
		if err != nil {
			if !isTimeout(err) {
				return err
			}
		} else {
			n.HandleDatagram(src, buf[:sz])
		}

		if err := n.Tick(n.clock.Now()); err != nil {
			return err
		}
	}
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	t, ok := err.(timeout)
	return ok && t.Timeout()
}

// Tick advances ping maintenance and every neighbour's queue bank by
// one scheduling step, sending whatever becomes ready to emit.
func (n *Node) Tick(now time.Time) error {
	if err := n.sendPings(now); err != nil {
		return err
	}
	return n.tickBanks(now)
}

func (n *Node) tickBanks(now time.Time) error {
	for neighbour, bank := range n.banks {
		hop := queue.NextHopParams{
			Delay:           n.linkParams[neighbour].Delay,
			LossProbability: n.linkParams[neighbour].Loss,
		}
		emission, drop := bank.Tick(now, hop)
		if drop != nil && n.log != nil {
			n.log.LossDrop(drop.Header)
		}
		if emission != nil {
			if n.log != nil {
				n.log.Emit(emission.Header, neighbour)
			}
			if err := n.send(neighbour, emission.Header, emission.Payload); err != nil {
				return err
			}
		}
	}
	return nil
}

func (n *Node) send(dst wire.Endpoint, h wire.Header, payload []byte) error {
	buf := append(h.Encode(), payload...)
	_, err := n.conn.WriteToUDP(buf, dst)
	return err
}
