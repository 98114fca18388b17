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
	"net"
	"testing"
	"time"

	"github.com/overlaynet/overlaynet/linkstate"
	"github.com/overlaynet/overlaynet/topology"
	"github.com/overlaynet/overlaynet/wire"
)

// sentDatagram records one outbound write through a fakeConn.
type sentDatagram struct {
	dst  wire.Endpoint
	data []byte
}

// fakeConn is an in-memory PacketConn: it never blocks, records every
// write, and serves reads from a pre-loaded queue.
type fakeConn struct {
	sent   []sentDatagram
	inbox  []sentDatagram
	closed bool
}

func (f *fakeConn) ReadFromUDP(b []byte) (int, wire.Endpoint, error) {
	if len(f.inbox) == 0 {
		return 0, wire.Endpoint{}, &timeoutError{}
	}
	next := f.inbox[0]
	f.inbox = f.inbox[1:]
	n := copy(b, next.data)
	return n, next.dst, nil
}

func (f *fakeConn) WriteToUDP(b []byte, dst wire.Endpoint) (int, error) {
	cp := make([]byte, len(b))
	copy(cp, b)
	f.sent = append(f.sent, sentDatagram{dst: dst, data: cp})
	return len(b), nil
}

func (f *fakeConn) SetReadDeadline(time.Time) error { return nil }
func (f *fakeConn) Close() error                    { f.closed = true; return nil }

type timeoutError struct{}

func (*timeoutError) Error() string   { return "fakeConn: no data queued" }
func (*timeoutError) Timeout() bool   { return true }
func (*timeoutError) Temporary() bool { return true }

// onlyType filters out the ping traffic Tick's send-pings step
// generates as a side effect, returning just the datagrams of typ.
func onlyType(t *testing.T, sent []sentDatagram, typ wire.PacketType) []sentDatagram {
	t.Helper()
	var out []sentDatagram
	for _, s := range sent {
		h, err := wire.Decode(s.data)
		if err != nil {
			t.Fatalf("decode sent datagram: %v", err)
		}
		if h.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

func epT(t *testing.T, ip string, port uint16) wire.Endpoint {
	t.Helper()
	e, err := wire.NewEndpoint(net.ParseIP(ip), port)
	if err != nil {
		t.Fatalf("NewEndpoint: %v", err)
	}
	return e
}

// newTestNode builds a 3-node chain A-B-C with B as the node under
// test, fully converged (forwarding table built).
func newTestNode(t *testing.T) (node *Node, a, b, c wire.Endpoint, conn *fakeConn) {
	t.Helper()
	a = epT(t, "10.0.0.1", 5000)
	b = epT(t, "10.0.0.2", 5000)
	c = epT(t, "10.0.0.3", 5000)

	graph := linkstate.NewGraph(b)
	graph.AddOrReplace(a, 1, []wire.Endpoint{b})
	graph.AddOrReplace(b, 1, []wire.Endpoint{a, c})
	graph.AddOrReplace(c, 1, []wire.Endpoint{b})
	graph.BuildForwardingTable()

	conn = &fakeConn{}
	params := map[wire.Endpoint]topology.LinkParams{}
	node = NewNode(b, graph, params, conn)
	return node, a, b, c, conn
}

func TestHandleDatagramStoreAndForward(t *testing.T) {
	node, a, b, c, conn := newTestNode(t)

	h, err := wire.NewHeader(a, c, wire.TypeData, 7, 5, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	data := append(h.Encode(), []byte("data")...)

	if err := node.HandleDatagram(a, data); err != nil {
		t.Fatalf("HandleDatagram: %v", err)
	}
	// Queue size 16 default, delay 0: a Tick should emit toward c.
	if err := node.Tick(time.Unix(0, 0)); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	data2 := onlyType(t, conn.sent, wire.TypeData)
	if len(data2) != 1 {
		t.Fatalf("got %d forwarded data datagrams, want 1", len(data2))
	}
	got, err := wire.Decode(data2[0].data)
	if err != nil {
		t.Fatalf("decode sent datagram: %v", err)
	}
	if got.TTL != 4 {
		t.Fatalf("forwarded TTL = %d, want 4 (decremented once)", got.TTL)
	}
	if data2[0].dst != c {
		t.Fatalf("forwarded to %v, want next hop %v", data2[0].dst, c)
	}
	_ = b
}

func TestHandleDatagramRegistrationThenTunnel(t *testing.T) {
	node, _, b, c, conn := newTestNode(t)
	client := epT(t, "192.168.1.1", 9000)

	// Client registers with its ingress emulator (dst == self).
	regHeader, err := wire.NewHeader(client, b, wire.TypeAck, 0, 10, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := node.HandleDatagram(client, regHeader.Encode()); err != nil {
		t.Fatal(err)
	}
	if !node.RegisteredClients(client) {
		t.Fatal("expected client to be registered")
	}

	// The same client now sends a D packet with a tunnel header
	// naming its intended destination emulator.
	dataHeader, err := wire.NewHeader(client, c, wire.TypeData, 1, 10, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	tunnel, err := wire.NewTunnelHeader(c)
	if err != nil {
		t.Fatal(err)
	}
	payload := append(dataHeader.Encode(), tunnel.Encode()...)
	payload = append(payload, []byte("hello")...)

	if err := node.HandleDatagram(client, payload); err != nil {
		t.Fatal(err)
	}
	if err := node.Tick(time.Unix(0, 0)); err != nil {
		t.Fatal(err)
	}

	data2 := onlyType(t, conn.sent, wire.TypeData)
	if len(data2) != 1 {
		t.Fatalf("got %d forwarded tunnel datagrams, want 1", len(data2))
	}
	outer, err := wire.Decode(data2[0].data)
	if err != nil {
		t.Fatalf("decode forwarded tunnel packet: %v", err)
	}
	if !outer.Wrapped {
		t.Fatal("expected the forwarded packet to be tunnel-wrapped")
	}
	if outer.Src != b || outer.Dst != c {
		t.Fatalf("outer header = %+v, want src=%v dst=%v", outer, b, c)
	}
}

func TestHandleExpiredDropsNonTrace(t *testing.T) {
	node, a, b, _, conn := newTestNode(t)
	h, err := wire.NewHeader(a, b, wire.TypeData, 1, 0, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := node.HandleDatagram(a, h.Encode()); err != nil {
		t.Fatal(err)
	}
	if len(conn.sent) != 0 {
		t.Fatal("a non-trace packet at ttl=0 must be dropped silently")
	}
}

func TestHandleExpiredRegisteredClientRepliesDirectly(t *testing.T) {
	node, _, b, _, conn := newTestNode(t)
	client := epT(t, "192.168.1.1", 9000)

	reg, err := wire.NewHeader(client, b, wire.TypeAck, 0, 10, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := node.HandleDatagram(client, reg.Encode()); err != nil {
		t.Fatal(err)
	}

	probe, err := wire.NewHeader(client, b, wire.TypeTrace, 3, 0, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := node.HandleDatagram(client, probe.Encode()); err != nil {
		t.Fatal(err)
	}

	if len(conn.sent) != 1 {
		t.Fatalf("got %d sent datagrams, want 1", len(conn.sent))
	}
	reply, err := wire.Decode(conn.sent[0].data)
	if err != nil {
		t.Fatal(err)
	}
	if reply.Src != b || reply.Dst != client {
		t.Fatalf("reply = %+v, want src=%v dst=%v", reply, b, client)
	}
}
