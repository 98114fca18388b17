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
	"testing"

	"github.com/overlaynet/overlaynet/wire"
)

func TestParseFloodPayloadRoundTrip(t *testing.T) {
	a := ep(t, "10.0.0.1", 5000)
	b := ep(t, "10.0.0.2", 5001)
	c := ep(t, "10.0.0.3", 5002)

	g := NewGraph(a)
	g.AddOrReplace(a, 7, []wire.Endpoint{b, c})
	rec, _ := g.Record(a)
	lines := rec.PayloadLines()
	body := lines[0] + "\n" + lines[1] + "\n"

	owner, neighbours, err := ParseFloodPayload([]byte(body))
	if err != nil {
		t.Fatalf("ParseFloodPayload: %v", err)
	}
	if owner != a {
		t.Fatalf("owner = %v, want %v", owner, a)
	}
	if len(neighbours) != 2 {
		t.Fatalf("got %d neighbours, want 2", len(neighbours))
	}
	want := map[wire.Endpoint]bool{b: true, c: true}
	for _, n := range neighbours {
		if !want[n] {
			t.Fatalf("unexpected neighbour %v", n)
		}
	}
}

func TestParseFloodPayloadRejectsTooFewLines(t *testing.T) {
	if _, _, err := ParseFloodPayload([]byte("10.0.0.1,5000")); err == nil {
		t.Fatal("expected error for single-line payload")
	}
}

func TestParseFloodPayloadRejectsMismatchedSelfReference(t *testing.T) {
	body := "10.0.0.1,5000\n10.0.0.2,5000 10.0.0.3,5000\n"
	if _, _, err := ParseFloodPayload([]byte(body)); err == nil {
		t.Fatal("expected error when neighbour line's self-reference disagrees with originator")
	}
}

func TestParseFloodPayloadRejectsMalformedToken(t *testing.T) {
	body := "10.0.0.1,5000\n10.0.0.1,5000 not-an-endpoint\n"
	if _, _, err := ParseFloodPayload([]byte(body)); err == nil {
		t.Fatal("expected error for malformed neighbour token")
	}
}
