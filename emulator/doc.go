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

// Package emulator implements the Node type: the forwarding pipeline
// that multiplexes priority-queued store-and-forward, link-state route
// maintenance, client registration and tunnel encapsulation for
// overlay participants, and TTL-expiry handling (the mechanism behind
// route-trace replies).
//
// A Node owns one queue.Bank per neighbour and one *linkstate.Graph
// rooted at itself. It is driven by a cooperative poll loop —
// HandleDatagram on arrival, Tick between arrivals — rather than by
// per-packet goroutines, so its entire state is single-threaded and
// lock-free.
package emulator
