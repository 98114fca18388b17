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
	"fmt"
	"sort"

	"github.com/overlaynet/overlaynet/wire"
)

// A Record is one node's link-state advertisement: its sequence
// number and its current neighbour set. Records are never destroyed
// once created, only mutated — created at topology load or on first
// flood receipt, per spec.md §3.
type Record struct {
	Owner      wire.Endpoint
	SeqNo      uint32
	Neighbours map[wire.Endpoint]struct{}
}

func newRecord(owner wire.Endpoint) *Record {
	return &Record{Owner: owner, Neighbours: make(map[wire.Endpoint]struct{})}
}

// SortedNeighbours returns r's neighbours in a deterministic order,
// for logging and for building stable flood payloads.
func (r *Record) SortedNeighbours() []wire.Endpoint {
	out := make([]wire.Endpoint, 0, len(r.Neighbours))
	for n := range r.Neighbours {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IP != out[j].IP {
			return out[i].IP < out[j].IP
		}
		return out[i].Port < out[j].Port
	})
	return out
}

// String renders r the way the source's LinkStateIndividual.__str__
// does, e.g. "3 10.0.0.1:5000 -> 10.0.0.2:5001,10.0.0.3:5002".
func (r *Record) String() string {
	neighbours := r.SortedNeighbours()
	parts := make([]string, len(neighbours))
	for i, n := range neighbours {
		parts[i] = n.String()
	}
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += ","
		}
		joined += p
	}
	return fmt.Sprintf("%d %s -> %s", r.SeqNo, r.Owner, joined)
}

// PayloadLines renders the two-line ASCII flood payload body for r:
// the first line names the originator, the second repeats it followed
// by every neighbour, all in "ip,port" form.
func (r *Record) PayloadLines() []string {
	first := r.Owner.CommaForm()
	second := r.Owner.CommaForm()
	for _, n := range r.SortedNeighbours() {
		second += " " + n.CommaForm()
	}
	return []string{first, second}
}
