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

package emulator

import (
	"net"
	"time"

	"github.com/overlaynet/overlaynet/wire"
)

// PacketConn is the minimal socket seam Node needs: receive a
// datagram with its source, send one to a destination, and bound how
// long a read may block. Business logic never calls net.Dial or holds
// a *net.UDPConn directly; it is handed a PacketConn instead, the same
// way the teacher's ovsdb.Client is handed a *jsonrpc.Conn rather than
// dialing a socket itself.
type PacketConn interface {
	ReadFromUDP(b []byte) (n int, src wire.Endpoint, err error)
	WriteToUDP(b []byte, dst wire.Endpoint) (n int, err error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// udpConn adapts a *net.UDPConn to PacketConn.
type udpConn struct {
	conn *net.UDPConn
}

// NewUDPConn wraps conn as a PacketConn.
func NewUDPConn(conn *net.UDPConn) PacketConn {
	return &udpConn{conn: conn}
}

func (u *udpConn) ReadFromUDP(b []byte) (int, wire.Endpoint, error) {
	n, addr, err := u.conn.ReadFromUDP(b)
	if err != nil {
		return n, wire.Endpoint{}, err
	}
	ep, epErr := wire.NewEndpoint(addr.IP, uint16(addr.Port))
	if epErr != nil {
		return n, wire.Endpoint{}, epErr
	}
	return n, ep, nil
}

func (u *udpConn) WriteToUDP(b []byte, dst wire.Endpoint) (int, error) {
	addr := &net.UDPAddr{IP: dst.IPAddr(), Port: int(dst.Port)}
	return u.conn.WriteToUDP(b, addr)
}

func (u *udpConn) SetReadDeadline(t time.Time) error {
	return u.conn.SetReadDeadline(t)
}

func (u *udpConn) Close() error {
	return u.conn.Close()
}
