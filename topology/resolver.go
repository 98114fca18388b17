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
	"context"
	"fmt"
	"net"
)

// A HostResolver resolves a hostname or dotted-quad string to an IPv4
// address. It is the seam topology file loading uses instead of
// calling net.LookupIP directly, mirroring the way
// github.com/digitalocean/go-openvswitch/ovsdb.Dial takes its network
// transport as a parameter instead of hardcoding net.Dial.
type HostResolver interface {
	LookupIPAddr(host string) (net.IP, error)
}

// DefaultResolver resolves hostnames with net.DefaultResolver, exactly
// as the source's socket.gethostbyname calls did.
var DefaultResolver HostResolver = defaultResolver{}

type defaultResolver struct{}

func (defaultResolver) LookupIPAddr(host string) (net.IP, error) {
	if ip := net.ParseIP(host); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4, nil
		}
		return nil, fmt.Errorf("topology: %s is not an IPv4 address", host)
	}
	addrs, err := net.DefaultResolver.LookupIPAddr(context.Background(), host)
	if err != nil {
		return nil, err
	}
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			return v4, nil
		}
	}
	return nil, fmt.Errorf("topology: %s has no IPv4 address", host)
}
