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

// Package netlog emits the per-event log lines spec.md §6 calls for
// (queue admit/drop, delay start, emission, loss drop, sender
// retransmit, ping send/miss, topology/forwarding-table snapshots)
// over a caller-supplied *log.Logger, the same seam
// github.com/digitalocean/go-openvswitch/ovsdb exposes through its
// Debug(ll *log.Logger) OptionFunc. A Logger is never required: every
// method on a nil *Logger is a no-op, so callers that don't care about
// observability can pass one around for free.
package netlog
