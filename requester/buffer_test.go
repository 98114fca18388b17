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
	"testing"
)

func TestBufferFlushesInAscendingSeqNoOrder(t *testing.T) {
	b := NewBuffer()
	b.Store(3, []byte("ghi"))
	b.Store(1, []byte("abc"))
	b.Store(2, []byte("def"))
	b.MarkEnd()

	if !b.Done() {
		t.Fatal("expected Done() after MarkEnd")
	}

	var out bytes.Buffer
	n, err := b.Flush(&out)
	if err != nil {
		t.Fatal(err)
	}
	want := "abcdefghi"
	if got := out.String(); got != want {
		t.Fatalf("Flush wrote %q, want %q", got, want)
	}
	if n != int64(len(want)) {
		t.Fatalf("Flush returned n=%d, want %d", n, len(want))
	}
}

func TestBufferStoreIgnoresDuplicateSeqNo(t *testing.T) {
	b := NewBuffer()
	if stored := b.Store(1, []byte("first")); !stored {
		t.Fatal("expected first Store to report stored=true")
	}
	if stored := b.Store(1, []byte("retransmit")); stored {
		t.Fatal("expected duplicate seq_no Store to report stored=false")
	}

	var out bytes.Buffer
	if _, err := b.Flush(&out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "first" {
		t.Fatalf("Flush wrote %q, want %q (original segment retained)", out.String(), "first")
	}
}
