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
	"io"

	"github.com/overlaynet/overlaynet/topology"
	"github.com/overlaynet/overlaynet/wire"
)

// A Session is the set of per-sender Buffers for a single file
// request, ordered the way the tracker file names them — the order
// WriteTo must honor regardless of which sender's datagrams actually
// arrive first.
type Session struct {
	order   []wire.Endpoint
	buffers map[wire.Endpoint]*Buffer
}

// NewSession constructs a Session with one empty Buffer per record,
// in records' order (callers pass topology.RecordsForFile's result,
// already sorted ascending by FileID).
func NewSession(records []topology.SenderRecord) *Session {
	s := &Session{buffers: make(map[wire.Endpoint]*Buffer, len(records))}
	for _, r := range records {
		if _, exists := s.buffers[r.Sender]; exists {
			continue
		}
		s.buffers[r.Sender] = NewBuffer()
		s.order = append(s.order, r.Sender)
	}
	return s
}

func (s *Session) bufferFor(sender topology.SenderRecord) *Buffer {
	b, ok := s.buffers[sender.Sender]
	if !ok {
		b = NewBuffer()
		s.buffers[sender.Sender] = b
		s.order = append(s.order, sender.Sender)
	}
	return b
}

// HandleData stores one data segment arriving from sender, returning
// the sequence number to acknowledge back to it.
func (s *Session) HandleData(sender topology.SenderRecord, seqNo uint32, payload []byte) (ackSeqNo uint32) {
	s.bufferFor(sender).Store(seqNo, payload)
	return seqNo
}

// HandleEnd marks sender's transfer complete. allDone reports whether
// every sender in the session has now sent its End packet, meaning
// WriteTo can run.
func (s *Session) HandleEnd(sender topology.SenderRecord) (allDone bool) {
	s.bufferFor(sender).MarkEnd()
	for _, ep := range s.order {
		if !s.buffers[ep].Done() {
			return false
		}
	}
	return true
}

// WriteTo writes every sender's reassembled bytes to w, one sender
// fully before the next, in tracker order — satisfying the
// two-sender-reassembly requirement (a file split across senders must
// read back in the order the tracker names them, independent of
// datagram interleaving on the wire).
func (s *Session) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, ep := range s.order {
		n, err := s.buffers[ep].Flush(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
