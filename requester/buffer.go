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
	"sort"
)

// A Buffer collects the data segments of one file transfer from a
// single sender, keyed by sequence number, and knows how to flush them
// in order once the sender's End marker has arrived.
type Buffer struct {
	segments map[uint32][]byte
	ended    bool
}

// NewBuffer constructs an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{segments: make(map[uint32][]byte)}
}

// Store records payload under seqNo. stored reports whether this was
// the first time seqNo was seen; a duplicate (the sender retransmitted
// before its ack arrived back) is accepted without error and simply
// ignored.
func (b *Buffer) Store(seqNo uint32, payload []byte) (stored bool) {
	if _, exists := b.segments[seqNo]; exists {
		return false
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	b.segments[seqNo] = cp
	return true
}

// MarkEnd records that the sender's End packet has arrived.
func (b *Buffer) MarkEnd() {
	b.ended = true
}

// Done reports whether this sender's End packet has arrived. It says
// nothing about whether every segment has: a sender's TTL-expired or
// lost segments never retried past MaxRetries are simply absent from
// the flushed output, matching the source's no-retry-limit-on-the-
// requester-side behavior.
func (b *Buffer) Done() bool {
	return b.ended
}

// Flush writes every stored segment to w in ascending sequence-number
// order.
func (b *Buffer) Flush(w io.Writer) (int64, error) {
	seqNos := make([]uint32, 0, len(b.segments))
	for seqNo := range b.segments {
		seqNos = append(seqNos, seqNo)
	}
	sort.Slice(seqNos, func(i, j int) bool { return seqNos[i] < seqNos[j] })

	var total int64
	for _, seqNo := range seqNos {
		n, err := w.Write(b.segments[seqNo])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
