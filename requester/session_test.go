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
	"bytes"
	"net"
	"testing"

	"github.com/overlaynet/overlaynet/topology"
	"github.com/overlaynet/overlaynet/wire"
)

func epR(t *testing.T, ip string, port uint16) wire.Endpoint {
	t.Helper()
	e, err := wire.NewEndpoint(net.ParseIP(ip), port)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// TestSessionWritesSendersInTrackerOrderRegardlessOfArrival covers the
// two-sender reassembly requirement: sender 2's datagrams arrive and
// complete first, but WriteTo must still place sender 1's bytes first.
func TestSessionWritesSendersInTrackerOrderRegardlessOfArrival(t *testing.T) {
	sender1 := topology.SenderRecord{Filename: "split.txt", FileID: 1, Sender: epR(t, "10.0.0.7", 5001)}
	sender2 := topology.SenderRecord{Filename: "split.txt", FileID: 2, Sender: epR(t, "10.0.0.8", 5002)}

	s := NewSession([]topology.SenderRecord{sender1, sender2})

	// Sender 2 finishes first.
	s.HandleData(sender2, 1, []byte("second-"))
	s.HandleData(sender2, 2, []byte("half"))
	if allDone := s.HandleEnd(sender2); allDone {
		t.Fatal("expected allDone=false with sender 1 still outstanding")
	}

	// Sender 1 arrives after.
	s.HandleData(sender1, 1, []byte("first-"))
	s.HandleData(sender1, 2, []byte("half "))
	allDone := s.HandleEnd(sender1)
	if !allDone {
		t.Fatal("expected allDone=true once every sender has ended")
	}

	var out bytes.Buffer
	if _, err := s.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "first-half second-half"; got != want {
		t.Fatalf("WriteTo produced %q, want %q", got, want)
	}
}

func TestSessionHandleDataReturnsAckSeqNo(t *testing.T) {
	sender := topology.SenderRecord{Filename: "a.txt", FileID: 1, Sender: epR(t, "10.0.0.7", 5001)}
	s := NewSession([]topology.SenderRecord{sender})

	if ack := s.HandleData(sender, 7, []byte("x")); ack != 7 {
		t.Fatalf("HandleData ack = %d, want 7", ack)
	}
}
