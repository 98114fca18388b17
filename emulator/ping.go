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
	"time"

	"github.com/overlaynet/overlaynet/linkstate"
	"github.com/overlaynet/overlaynet/wire"
)

// sendPings implements spec.md §4.4 step 5: age out neighbours that
// have missed their liveness deadline, then re-advertise the local
// record to every neighbour whose last ping predates PingInterval.
func (n *Node) sendPings(now time.Time) error {
	n.reapDeadNeighbours(now)

	rec, ok := n.graph.Record(n.self)
	if !ok {
		return nil
	}
	lines := rec.PayloadLines()
	body := []byte(lines[0] + "\n" + lines[1] + "\n")

	for _, neighbour := range rec.SortedNeighbours() {
		if last, sent := n.lastPingSent[neighbour]; sent && now.Sub(last) < linkstate.PingInterval {
			continue
		}
		h, err := wire.NewHeader(n.self, neighbour, wire.TypeLinkState, rec.SeqNo, 1, uint32(len(body)), false)
		if err != nil {
			continue
		}
		if n.log != nil {
			n.log.PingSend(neighbour)
		}
		if err := n.send(neighbour, h, body); err != nil {
			return err
		}
		n.lastPingSent[neighbour] = now
	}
	return nil
}

func (n *Node) reapDeadNeighbours(now time.Time) {
	dead := n.pings.DeadSince()
	if len(dead) == 0 {
		return
	}
	deadList := make([]wire.Endpoint, 0, len(dead))
	for neighbour := range dead {
		deadList = append(deadList, neighbour)
	}

	if n.graph.RemoveNeighbours(n.self, deadList) {
		n.graph.BuildForwardingTable()
	}
	for _, neighbour := range deadList {
		if n.log != nil {
			n.log.PingMiss(neighbour)
		}
		n.pings.Forget(neighbour)
		delete(n.lastPingSent, neighbour)
		delete(n.banks, neighbour)
	}
}
