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

package netlog

import (
	"bytes"
	"log"
	"net"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/overlaynet/overlaynet/wire"
)

func mustEndpoint(t *testing.T, ip string, port uint16) wire.Endpoint {
	t.Helper()
	ep, err := wire.NewEndpoint(net.ParseIP(ip), port)
	if err != nil {
		t.Fatalf("NewEndpoint: %v", err)
	}
	return ep
}

func TestLoggerNilIsNoop(t *testing.T) {
	var l *Logger
	h := wire.Header{Src: mustEndpoint(t, "10.0.0.1", 1), Dst: mustEndpoint(t, "10.0.0.2", 2), Type: wire.TypeData}
	l.QueueAdmit(0, h)
	l.QueueDrop("queue full", h)
	l.Retransmit(1, 1)
}

func TestLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(log.New(&buf, "", 0))

	h := wire.Header{Src: mustEndpoint(t, "10.0.0.1", 1), Dst: mustEndpoint(t, "10.0.0.2", 2), Type: wire.TypeData, SeqNo: 4}
	l.QueueDrop("priority queue 0 was full", h)

	out := buf.String()
	if !strings.Contains(out, "queue drop") || !strings.Contains(out, "priority queue 0 was full") {
		t.Fatalf("unexpected log output: %q", out)
	}
}

func TestLoggerMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "overlaynet_test")
	l := New(log.New(bytes.NewBuffer(nil), "", 0), WithMetrics(m))

	h := wire.Header{Src: mustEndpoint(t, "10.0.0.1", 1), Dst: mustEndpoint(t, "10.0.0.2", 2), Type: wire.TypeData}
	l.QueueDrop("full", h)
	l.QueueDrop("full", h)

	mf, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var got float64
	for _, f := range mf {
		if f.GetName() != "overlaynet_test_queue_drops_total" {
			continue
		}
		for _, metric := range f.Metric {
			got += metric.GetCounter().GetValue()
		}
	}
	if got != 2 {
		t.Fatalf("queue_drops_total = %v, want 2", got)
	}
}
