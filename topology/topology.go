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

package topology

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/overlaynet/overlaynet/wire"
)

// LinkParams carries the lab-2 topology variant's per-neighbour delay
// and loss-probability columns. The zero value (Delay 0, Loss 0)
// applies when a neighbour token carries no such columns, matching
// spec.md §6's lab-3 variant.
type LinkParams struct {
	Delay time.Duration
	Loss  int // percent, [0, 100]
}

// A Neighbour is one adjacency of an Entry, optionally carrying link
// parameters for queue emission.
type Neighbour struct {
	Endpoint wire.Endpoint
	Params   LinkParams
}

// An Entry is one line of a topology file: a node and its declared
// neighbours.
type Entry struct {
	Self       wire.Endpoint
	Neighbours []Neighbour
}

// LoadTopology parses path in the adjacency-list form
//
//	host,port neighbour1,port1 neighbour2,port2 ...
//
// skipping blank lines and lines starting with '#'. A neighbour token
// may carry two extra comma-separated fields, delay_ms and
// loss_percent (the lab-2 topology variant); their absence defaults to
// LinkParams{}. Hostnames are resolved to IPv4 through resolver.
//
// Every line in the file is returned, not only the entry for the
// local node: the link-state database needs the full graph to run
// Dijkstra, exactly as the source's __read_topology__ populates its
// link_state_map from every line before ever looking for "self".
func LoadTopology(path string, resolver HostResolver) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fatalf(path, "%v", err)
	}
	defer f.Close()
	return parseTopology(path, f, resolver)
}

func parseTopology(path string, r io.Reader, resolver HostResolver) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := parseTopologyLine(line, resolver)
		if err != nil {
			return nil, fatalf(path, "line %d: %v", lineNo, err)
		}
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, fatalf(path, "%v", err)
	}
	if len(entries) == 0 {
		return nil, fatalf(path, "no topology entries found")
	}
	return entries, nil
}

func parseTopologyLine(line string, resolver HostResolver) (Entry, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return Entry{}, fatalf("", "empty line")
	}

	self, err := parseHostPort(tokens[0], resolver)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Self: self}
	for _, tok := range tokens[1:] {
		n, err := parseNeighbourToken(tok, resolver)
		if err != nil {
			return Entry{}, err
		}
		entry.Neighbours = append(entry.Neighbours, n)
	}
	return entry, nil
}

func parseNeighbourToken(tok string, resolver HostResolver) (Neighbour, error) {
	fields := strings.Split(tok, ",")
	switch len(fields) {
	case 2:
		ep, err := parseHostPort(tok, resolver)
		if err != nil {
			return Neighbour{}, err
		}
		return Neighbour{Endpoint: ep}, nil
	case 4:
		ep, err := parseHostPort(fields[0]+","+fields[1], resolver)
		if err != nil {
			return Neighbour{}, err
		}
		delayMs, err := strconv.Atoi(fields[2])
		if err != nil {
			return Neighbour{}, fatalf("", "invalid delay %q: %v", fields[2], err)
		}
		loss, err := strconv.Atoi(fields[3])
		if err != nil {
			return Neighbour{}, fatalf("", "invalid loss_probability %q: %v", fields[3], err)
		}
		return Neighbour{Endpoint: ep, Params: LinkParams{Delay: time.Duration(delayMs) * time.Millisecond, Loss: loss}}, nil
	default:
		return Neighbour{}, fatalf("", "neighbour token %q must have 2 or 4 comma-separated fields", tok)
	}
}

func parseHostPort(tok string, resolver HostResolver) (wire.Endpoint, error) {
	host, portStr, found := strings.Cut(tok, ",")
	if !found {
		return wire.Endpoint{}, fatalf("", "%q is not in host,port form", tok)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return wire.Endpoint{}, fatalf("", "invalid port %q: %v", portStr, err)
	}
	ip, err := resolver.LookupIPAddr(host)
	if err != nil {
		return wire.Endpoint{}, err
	}
	ep, err := wire.NewEndpoint(ip, uint16(port))
	if err != nil {
		return wire.Endpoint{}, err
	}
	return ep, nil
}
