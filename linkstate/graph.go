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
	"container/heap"

	"github.com/overlaynet/overlaynet/wire"
)

// A Graph is the link-state database rooted at self, plus the
// forwarding table Dijkstra derives from it. The zero value is not
// usable; construct one with NewGraph.
type Graph struct {
	self       wire.Endpoint
	records    map[wire.Endpoint]*Record
	forwarding map[wire.Endpoint]wire.Endpoint
}

// NewGraph constructs an empty Graph rooted at self.
func NewGraph(self wire.Endpoint) *Graph {
	return &Graph{
		self:       self,
		records:    make(map[wire.Endpoint]*Record),
		forwarding: make(map[wire.Endpoint]wire.Endpoint),
	}
}

// Self returns the local node's endpoint.
func (g *Graph) Self() wire.Endpoint { return g.self }

// Record returns the current Record for owner, if any.
func (g *Graph) Record(owner wire.Endpoint) (Record, bool) {
	r, ok := g.records[owner]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// SelfRecord returns the local node's own Record, creating an empty
// one if it does not exist yet.
func (g *Graph) SelfRecord() *Record {
	return g.recordFor(g.self)
}

func (g *Graph) recordFor(owner wire.Endpoint) *Record {
	r, ok := g.records[owner]
	if !ok {
		r = newRecord(owner)
		g.records[owner] = r
	}
	return r
}

// AddOrReplace installs (or overwrites) the Record for owner with
// seqNo and neighbours — used when bootstrapping from a topology file,
// where every line is trusted as-is rather than merged.
func (g *Graph) AddOrReplace(owner wire.Endpoint, seqNo uint32, neighbours []wire.Endpoint) {
	r := newRecord(owner)
	r.SeqNo = seqNo
	for _, n := range neighbours {
		r.Neighbours[n] = struct{}{}
	}
	g.records[owner] = r
}

// AddNeighbour adds neighbour to owner's own record (used for the
// local record only: other nodes' records are only ever replaced
// wholesale by UpdateFromFlood). The neighbour set is mutated
// unconditionally; when neighbour was new, owner's seq_no is bumped
// here and changed is true, which is what gates the forwarding-table
// rebuild in the caller. This resolves the source's ambiguous
// LinkStateIndividual.__add__, which computed a "did this change
// anything" boolean but always mutated regardless of its value: here
// the mutation and the boolean are both always performed, and it is
// the boolean alone that callers use to decide whether to react.
func (g *Graph) AddNeighbour(owner, neighbour wire.Endpoint) (changed bool) {
	r := g.recordFor(owner)
	_, exists := r.Neighbours[neighbour]
	r.Neighbours[neighbour] = struct{}{}
	if !exists {
		r.SeqNo++
	}
	return !exists
}

// RemoveNeighbours removes every endpoint in dead from owner's record.
// changed reports whether at least one was actually present.
func (g *Graph) RemoveNeighbours(owner wire.Endpoint, dead []wire.Endpoint) (changed bool) {
	r := g.recordFor(owner)
	for _, n := range dead {
		if _, ok := r.Neighbours[n]; ok {
			delete(r.Neighbours, n)
			changed = true
		}
	}
	if changed {
		r.SeqNo++
	}
	return changed
}

// UpdateFromFlood merges an incoming link-state advertisement for src
// into the graph. If newSeqNo is strictly greater than the stored
// seq_no, the neighbour set is replaced, the forwarding table is
// rebuilt, and the (now-stale) old seq_no is returned so the caller
// can decide whether to flood the update onward. If newSeqNo is less
// than or equal to the stored seq_no, nothing changes.
func (g *Graph) UpdateFromFlood(src wire.Endpoint, newSeqNo uint32, neighbours []wire.Endpoint) (oldSeqNo uint32) {
	r := g.recordFor(src)
	oldSeqNo = r.SeqNo
	if newSeqNo <= oldSeqNo {
		return oldSeqNo
	}
	r.SeqNo = newSeqNo
	r.Neighbours = make(map[wire.Endpoint]struct{}, len(neighbours))
	for _, n := range neighbours {
		r.Neighbours[n] = struct{}{}
	}
	g.BuildForwardingTable()
	return oldSeqNo
}

// FindNextHop returns the first-hop neighbour on the shortest path
// from self toward dst, if one is known.
func (g *Graph) FindNextHop(dst wire.Endpoint) (wire.Endpoint, bool) {
	hop, ok := g.forwarding[dst]
	return hop, ok
}

// BuildForwardingTable recomputes the forwarding table from scratch by
// running unit-weight Dijkstra rooted at self. If self is missing from
// the link-state database, the forwarding table is left empty, per
// spec.md §4.2.
func (g *Graph) BuildForwardingTable() {
	g.forwarding = make(map[wire.Endpoint]wire.Endpoint)
	if _, ok := g.records[g.self]; !ok {
		return
	}

	parents, visited := g.dijkstra()
	firstHop := make(map[wire.Endpoint]wire.Endpoint, len(visited))

	var resolve func(node wire.Endpoint) (wire.Endpoint, bool)
	resolving := make(map[wire.Endpoint]bool)
	resolve = func(node wire.Endpoint) (wire.Endpoint, bool) {
		if node == g.self {
			return wire.Endpoint{}, false
		}
		if hop, ok := firstHop[node]; ok {
			return hop, true
		}
		if resolving[node] {
			// A cycle in the parent map should never happen coming out
			// of Dijkstra; bail out rather than spin forever.
			return wire.Endpoint{}, false
		}
		resolving[node] = true
		defer delete(resolving, node)

		parent, ok := parents[node]
		if !ok {
			return wire.Endpoint{}, false
		}
		if parent == g.self {
			firstHop[node] = node
			return node, true
		}
		hop, ok := resolve(parent)
		if !ok {
			return wire.Endpoint{}, false
		}
		firstHop[node] = hop
		return hop, true
	}

	for node := range visited {
		if node == g.self {
			continue
		}
		if hop, ok := resolve(node); ok {
			g.forwarding[node] = hop
		}
	}
}

type queueItem struct {
	cost int
	node wire.Endpoint
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].cost < pq[j].cost }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(queueItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// dijkstra runs unit-weight shortest paths from self over the current
// link-state database, returning the parent map and the visited set.
func (g *Graph) dijkstra() (parents map[wire.Endpoint]wire.Endpoint, visited map[wire.Endpoint]bool) {
	parents = make(map[wire.Endpoint]wire.Endpoint)
	visited = make(map[wire.Endpoint]bool)
	costs := make(map[wire.Endpoint]int)

	pq := &priorityQueue{{cost: 0, node: g.self}}
	costs[g.self] = 0
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(queueItem)
		if visited[item.node] {
			continue
		}
		visited[item.node] = true

		rec, ok := g.records[item.node]
		if !ok {
			continue
		}
		for neighbour := range rec.Neighbours {
			if visited[neighbour] {
				continue
			}
			newCost := costs[item.node] + 1
			if old, ok := costs[neighbour]; !ok || newCost < old {
				costs[neighbour] = newCost
				parents[neighbour] = item.node
				heap.Push(pq, queueItem{cost: newCost, node: neighbour})
			}
		}
	}
	return parents, visited
}
