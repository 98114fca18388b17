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
	"net"
	"strconv"
	"strings"

	"github.com/overlaynet/overlaynet/wire"
)

// ParseFloodPayload decodes the two-line ASCII body carried by an L-type
// packet: a first line naming the originator in "ip,port" form, and a
// second line repeating the originator followed by each of its current
// neighbours, space-separated. It is the wire counterpart of
// Record.PayloadLines.
func ParseFloodPayload(body []byte) (owner wire.Endpoint, neighbours []wire.Endpoint, err error) {
	lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
	if len(lines) < 2 {
		return wire.Endpoint{}, nil, fmt.Errorf("linkstate: flood payload has %d lines, want at least 2", len(lines))
	}

	owner, err = parseCommaForm(lines[0])
	if err != nil {
		return wire.Endpoint{}, nil, fmt.Errorf("linkstate: originator line: %w", err)
	}

	fields := strings.Fields(lines[1])
	if len(fields) == 0 {
		return wire.Endpoint{}, nil, fmt.Errorf("linkstate: neighbour line is empty")
	}
	self, err := parseCommaForm(fields[0])
	if err != nil {
		return wire.Endpoint{}, nil, fmt.Errorf("linkstate: neighbour line self-reference: %w", err)
	}
	if self != owner {
		return wire.Endpoint{}, nil, fmt.Errorf("linkstate: neighbour line self-reference %v does not match originator %v", self, owner)
	}

	neighbours = make([]wire.Endpoint, 0, len(fields)-1)
	for _, tok := range fields[1:] {
		n, err := parseCommaForm(tok)
		if err != nil {
			return wire.Endpoint{}, nil, fmt.Errorf("linkstate: neighbour token %q: %w", tok, err)
		}
		neighbours = append(neighbours, n)
	}
	return owner, neighbours, nil
}

func parseCommaForm(tok string) (wire.Endpoint, error) {
	parts := strings.Split(tok, ",")
	if len(parts) != 2 {
		return wire.Endpoint{}, fmt.Errorf("malformed ip,port token %q", tok)
	}
	ip := net.ParseIP(parts[0])
	if ip == nil {
		return wire.Endpoint{}, fmt.Errorf("malformed IPv4 address %q", parts[0])
	}
	port, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return wire.Endpoint{}, fmt.Errorf("malformed port %q: %w", parts[1], err)
	}
	return wire.NewEndpoint(ip, uint16(port))
}
