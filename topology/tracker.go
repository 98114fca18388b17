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
	"sort"
	"strconv"
	"strings"

	"github.com/overlaynet/overlaynet/wire"
)

// A SenderRecord is one row of a requester tracker file: the lab-3
// variant, "filename file_id sender_emulator_addr sender_addr", with
// each address in "ip,port" form.
type SenderRecord struct {
	Filename       string
	FileID         int
	SenderEmulator wire.Endpoint
	Sender         wire.Endpoint
}

// LoadTracker parses path and returns every SenderRecord it names,
// sorted by (Filename, FileID) ascending — the order requester.Session
// writes chunks in, per spec.md §4.7/§6.
func LoadTracker(path string, resolver HostResolver) ([]SenderRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fatalf(path, "%v", err)
	}
	defer f.Close()
	return parseTracker(path, f, resolver)
}

func parseTracker(path string, r io.Reader, resolver HostResolver) ([]SenderRecord, error) {
	var records []SenderRecord
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseTrackerLine(line, resolver)
		if err != nil {
			return nil, fatalf(path, "line %d: %v", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fatalf(path, "%v", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Filename != records[j].Filename {
			return records[i].Filename < records[j].Filename
		}
		return records[i].FileID < records[j].FileID
	})
	return records, nil
}

func parseTrackerLine(line string, resolver HostResolver) (SenderRecord, error) {
	tokens := strings.Fields(line)
	if len(tokens) != 4 {
		return SenderRecord{}, fatalf("", "expected 4 fields, got %d", len(tokens))
	}
	fileID, err := strconv.Atoi(tokens[1])
	if err != nil {
		return SenderRecord{}, fatalf("", "invalid file_id %q: %v", tokens[1], err)
	}
	emulator, err := parseHostPort(tokens[2], resolver)
	if err != nil {
		return SenderRecord{}, err
	}
	sender, err := parseHostPort(tokens[3], resolver)
	if err != nil {
		return SenderRecord{}, err
	}
	return SenderRecord{Filename: tokens[0], FileID: fileID, SenderEmulator: emulator, Sender: sender}, nil
}

// RecordsForFile returns every SenderRecord naming filename, in
// ascending FileID order, or a *FatalConfigError if filename is
// unknown to records — the "tracker missing filename" fatal
// precondition in spec.md §6.
func RecordsForFile(records []SenderRecord, filename string) ([]SenderRecord, error) {
	var out []SenderRecord
	for _, r := range records {
		if r.Filename == filename {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, fatalf("tracker", "filename %q not found", filename)
	}
	return out, nil
}
