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

package wire

import "fmt"

// A MalformedPacketError is returned when a byte slice cannot be decoded
// into a Header or TunnelHeader, or decodes into field values that
// violate the wire invariants (src_ip == 0, ttl > TTLMax, an unknown
// packet type, ...).
type MalformedPacketError struct {
	// Reason is a short, human-readable description of the violated
	// invariant.
	Reason string
}

// Error implements the error interface.
func (e *MalformedPacketError) Error() string {
	return fmt.Sprintf("wire: malformed packet: %s", e.Reason)
}

func malformed(format string, args ...interface{}) *MalformedPacketError {
	return &MalformedPacketError{Reason: fmt.Sprintf(format, args...)}
}
