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

// Package routetrace implements Tracer, a hop-by-hop route probe:
// register with an ingress emulator, then send Trace packets of
// increasing TTL, tunnel-addressed at the final destination emulator,
// until the responder named in a reply is the destination itself.
// Each reply names the emulator its TTL expired at, grounded on
// original_source/Lab3/trace.py's perform_trace loop.
package routetrace
