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

package requester

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/overlaynet/overlaynet/wire"
)

// BuildRequestPayload renders the two-line ASCII body carried by a
// RequestType packet: the requested filename, then the requester's own
// ingress emulator address. A sender reads the second line to learn
// where to tunnel its reply packets back to, mirroring
// original_source/Lab3/requester.py's send_request_packet payload.
func BuildRequestPayload(filename string, ownIngress wire.Endpoint) []byte {
	return []byte(filename + "\n" + ownIngress.CommaForm())
}

// ParseRequestPayload is the wire counterpart of BuildRequestPayload.
func ParseRequestPayload(body []byte) (filename string, ownIngress wire.Endpoint, err error) {
	lines := strings.SplitN(strings.TrimRight(string(body), "\n"), "\n", 2)
	if len(lines) != 2 {
		return "", wire.Endpoint{}, fmt.Errorf("requester: request payload has %d lines, want 2", len(lines))
	}
	filename = lines[0]
	if filename == "" {
		return "", wire.Endpoint{}, fmt.Errorf("requester: request payload names an empty filename")
	}
	ownIngress, err = parseCommaForm(lines[1])
	if err != nil {
		return "", wire.Endpoint{}, fmt.Errorf("requester: ingress emulator address: %w", err)
	}
	return filename, ownIngress, nil
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
