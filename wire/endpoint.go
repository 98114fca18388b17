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

import (
	"encoding/binary"
	"fmt"
	"net"
)

// An Endpoint is an IPv4 address and port pair. It is comparable and can
// be used directly as a map key, unlike net.IP which is backed by a
// slice.
type Endpoint struct {
	IP   uint32
	Port uint16
}

// NewEndpoint builds an Endpoint from an IPv4 address and a port.
func NewEndpoint(ip net.IP, port uint16) (Endpoint, error) {
	v4 := ip.To4()
	if v4 == nil {
		return Endpoint{}, fmt.Errorf("wire: %v is not an IPv4 address", ip)
	}
	return Endpoint{IP: binary.BigEndian.Uint32(v4), Port: port}, nil
}

// IPAddr returns e's address as a net.IP.
func (e Endpoint) IPAddr() net.IP {
	b := make(net.IP, 4)
	binary.BigEndian.PutUint32(b, e.IP)
	return b
}

// String returns e in "ip:port" form.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.IPAddr(), e.Port)
}

// CommaForm returns e in "ip,port" form, the separator used by every
// text wire format in this module (topology files, tracker files,
// link-state flood payloads).
func (e Endpoint) CommaForm() string {
	return fmt.Sprintf("%s,%d", e.IPAddr(), e.Port)
}

// Zero reports whether e carries the zero IPv4 address. A zero source
// address is never valid on the wire (see Header.validate).
func (e Endpoint) Zero() bool {
	return e.IP == 0
}
