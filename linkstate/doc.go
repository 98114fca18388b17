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

// Package linkstate implements the link-state database and the
// forwarding table derived from it: a per-node record of (seq_no,
// neighbour set) keyed by (ip, port), a unit-weight Dijkstra that
// recomputes first hops on any topology change, and the two-line ASCII
// flood payload format used to propagate records between emulators.
//
// Everything here is pure and synchronous — no sockets, no clocks.
// PingTracker, the neighbour-liveness half of spec.md's PingState, is
// the one piece that reasons about time, and it does so through an
// injected clock rather than time.Now so tests never sleep.
package linkstate
