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
	"github.com/overlaynet/overlaynet/linkstate"
	"github.com/overlaynet/overlaynet/queue"
	"github.com/overlaynet/overlaynet/wire"
)

// HandleDatagram decodes and dispatches one arriving datagram from src.
// Every protocol-level problem — a malformed header, an unroutable
// destination, a full queue — is logged through the node's Logger and
// swallowed here; the only errors HandleDatagram returns are I/O
// failures writing a reply back out through the PacketConn.
func (n *Node) HandleDatagram(src wire.Endpoint, data []byte) error {
	h, err := wire.Decode(data)
	if err != nil {
		if n.log != nil {
			n.log.QueueDrop(err.Error(), wire.Header{})
		}
		return nil
	}
	payload := data[wire.HeaderSize:]

	if h.TTL == 0 {
		return n.handleExpired(h, payload)
	}

	switch h.Type {
	case wire.TypeLinkState:
		return n.handleLinkState(h, payload)
	case wire.TypeAck:
		// The 'A' tag is overloaded between a client registering
		// itself with its ingress emulator (always addressed
		// directly to that emulator) and an end-to-end
		// acknowledgement that must be routed like any other
		// data-plane packet. The two are told apart by whether this
		// node is the final destination.
		if h.Dst == n.self {
			n.registeredClients[h.Src] = struct{}{}
			return nil
		}
		return n.handleDataPlane(h, payload)
	default:
		return n.handleDataPlane(h, payload)
	}
}

// handleDataPlane implements spec.md §4.4 step 4: deliver to a local
// client, tunnel-wrap a locally originated packet, or plain
// store-and-forward.
func (n *Node) handleDataPlane(h wire.Header, payload []byte) error {
	if h.Dst == n.self && h.Wrapped {
		inner, err := wire.Decode(payload)
		if err != nil {
			if n.log != nil {
				n.log.QueueDrop(err.Error(), h)
			}
			return nil
		}
		if !n.RegisteredClients(inner.Dst) {
			return nil
		}
		innerPayload := payload[wire.HeaderSize:]
		buf := append(inner.Encode(), innerPayload...)
		_, err = n.conn.WriteToUDP(buf, inner.Dst)
		return err
	}

	if n.RegisteredClients(h.Src) {
		tunnel, err := wire.DecodeTunnelHeader(payload)
		if err != nil {
			if n.log != nil {
				n.log.QueueDrop(err.Error(), h)
			}
			return nil
		}
		remaining := payload[wire.TunnelHeaderSize:]
		outer, err := wire.NewHeader(n.self, tunnel.DstEmulator, h.Type, 0, h.TTL, h.PayloadLength, true)
		if err != nil {
			if n.log != nil {
				n.log.QueueDrop(err.Error(), h)
			}
			return nil
		}
		newPayload := append(h.Encode(), remaining...)
		return n.forward(outer, newPayload)
	}

	return n.forward(h, payload)
}

// forward looks up the next hop toward h.Dst, decrements TTL, and
// admits the packet into that neighbour's queue bank, sending it
// immediately if the bank returns a ready Emission (an E-type bypass).
func (n *Node) forward(h wire.Header, payload []byte) error {
	nextHop, ok := n.graph.FindNextHop(h.Dst)
	if !ok {
		if n.log != nil {
			n.log.QueueDrop("no route to destination", h)
		}
		return nil
	}
	h.TTL--

	bank := n.bankFor(nextHop)
	emission, err := bank.Enqueue(h, payload)
	if err != nil {
		if n.log != nil {
			n.log.QueueDrop(err.Error(), h)
		}
		return nil
	}
	if n.log != nil {
		n.log.QueueAdmit(uint8(queue.PriorityOf(h.Type)), h)
	}
	if emission != nil {
		if n.log != nil {
			n.log.Emit(emission.Header, nextHop)
		}
		return n.send(nextHop, emission.Header, emission.Payload)
	}
	return nil
}

// handleExpired implements spec.md §4.5: a packet whose TTL reached
// zero is dropped unless it is a route-trace probe, in which case a
// reply is synthesized and sent back toward the probe's originator.
func (n *Node) handleExpired(h wire.Header, payload []byte) error {
	if h.Type != wire.TypeTrace {
		return nil
	}

	if n.RegisteredClients(h.Src) {
		reply := wire.Reverse(h)
		reply.Src = n.self
		buf := append(reply.Encode(), payload...)
		_, err := n.conn.WriteToUDP(buf, reply.Dst)
		return err
	}

	inner, err := wire.Decode(payload)
	if err != nil {
		if n.log != nil {
			n.log.QueueDrop(err.Error(), h)
		}
		return nil
	}
	innerPayload := payload[wire.HeaderSize:]

	replyOuter := wire.Reverse(h)
	replyOuter.Src = n.self
	replyOuter.TTL = wire.TTLMax

	replyInner := wire.Reverse(inner)
	replyInner.Src = n.self
	replyInner.TTL = wire.TTLMax

	newPayload := append(replyInner.Encode(), innerPayload...)
	return n.forward(replyOuter, newPayload)
}

// handleLinkState implements spec.md §4.4 step 2: merge a flood,
// auto-discover the sender as a neighbour, and either reply with
// fresher local state or relay the flood onward.
func (n *Node) handleLinkState(h wire.Header, payload []byte) error {
	owner, neighbours, err := linkstate.ParseFloodPayload(payload)
	if err != nil {
		if n.log != nil {
			n.log.QueueDrop(err.Error(), h)
		}
		return nil
	}

	if n.graph.AddNeighbour(n.self, h.Src) {
		n.graph.BuildForwardingTable()
	}
	n.pings.Touch(h.Src)

	oldSeqNo := n.graph.UpdateFromFlood(owner, h.SeqNo, neighbours)

	switch {
	case oldSeqNo > h.SeqNo:
		return n.sendSourcePing(owner, h)
	case oldSeqNo < h.SeqNo:
		return n.sendNeighbourPing(h, payload)
	default:
		return nil
	}
}

func (n *Node) sendSourcePing(owner wire.Endpoint, h wire.Header) error {
	rec, ok := n.graph.Record(owner)
	if !ok {
		return nil
	}
	reply := wire.Reverse(h)
	reply.SeqNo = rec.SeqNo
	lines := rec.PayloadLines()
	body := []byte(lines[0] + "\n" + lines[1] + "\n")
	reply.PayloadLength = uint32(len(body))
	buf := append(reply.Encode(), body...)
	_, err := n.conn.WriteToUDP(buf, reply.Dst)
	return err
}

func (n *Node) sendNeighbourPing(h wire.Header, payload []byte) error {
	reply := wire.Reverse(h)
	self, _ := n.graph.Record(n.self)
	for _, neighbour := range self.SortedNeighbours() {
		if neighbour == h.Src {
			continue
		}
		reply.Dst = neighbour
		buf := append(reply.Encode(), payload...)
		if _, err := n.conn.WriteToUDP(buf, neighbour); err != nil {
			return err
		}
	}
	return nil
}
