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

package sender

import "fmt"

// WindowFullError reports an Admit call against a Window that already
// holds Size outstanding segments.
type WindowFullError struct {
	Size int
}

func (e *WindowFullError) Error() string {
	return fmt.Sprintf("sender: window full at %d outstanding segments", e.Size)
}

// DuplicateSeqNoError reports an Admit call naming a sequence number
// already outstanding in the window.
type DuplicateSeqNoError struct {
	SeqNo uint32
}

func (e *DuplicateSeqNoError) Error() string {
	return fmt.Sprintf("sender: seq_no %d already outstanding", e.SeqNo)
}
