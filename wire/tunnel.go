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

import "encoding/binary"

// TunnelHeaderSize is the encoded size, in bytes, of a TunnelHeader.
const TunnelHeaderSize = 4 + 2

// A TunnelHeader names the emulator that owns the far end of a tunnel.
// It is present only on the first hop of a client-originated R/D/E/T
// packet, immediately following the outer Header.
type TunnelHeader struct {
	DstEmulator Endpoint
}

// NewTunnelHeader constructs a TunnelHeader, returning a
// *MalformedPacketError if dst is the zero address.
func NewTunnelHeader(dst Endpoint) (TunnelHeader, error) {
	if dst.Zero() {
		return TunnelHeader{}, malformed("dst_emulator_ip must not be zero")
	}
	return TunnelHeader{DstEmulator: dst}, nil
}

// Encode returns t's 6-byte big-endian wire encoding.
func (t TunnelHeader) Encode() []byte {
	b := make([]byte, TunnelHeaderSize)
	binary.BigEndian.PutUint32(b, t.DstEmulator.IP)
	binary.BigEndian.PutUint16(b[4:], t.DstEmulator.Port)
	return b
}

// DecodeTunnelHeader parses a TunnelHeader from the first
// TunnelHeaderSize bytes of b.
func DecodeTunnelHeader(b []byte) (TunnelHeader, error) {
	if len(b) < TunnelHeaderSize {
		return TunnelHeader{}, malformed("buffer of %d bytes shorter than tunnel header size %d", len(b), TunnelHeaderSize)
	}
	t := TunnelHeader{}
	t.DstEmulator.IP = binary.BigEndian.Uint32(b)
	t.DstEmulator.Port = binary.BigEndian.Uint16(b[4:])
	if t.DstEmulator.Zero() {
		return TunnelHeader{}, malformed("dst_emulator_ip must not be zero")
	}
	return t, nil
}
