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

// Package wire implements the fixed-layout, big-endian binary encoding
// used on the wire between every overlaynet node role: the outer packet
// header shared by emulators and clients, and the tunnel header that
// prefixes a client-originated packet on its first hop.
//
// Encoding has no hidden state: Decode(Encode(h)) == h for every Header
// that passes validation. NewHeader and Decode validate; Encode does
// not, so a Header built as a struct literal with invalid fields still
// encodes, and Decode then rejects the result.
package wire
