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

package queue

import "fmt"

// A QueueFullError is returned by Enqueue when the target priority
// class is already at capacity. The packet passed to Enqueue is
// dropped, never admitted.
type QueueFullError struct {
	Priority int
	Size     int
}

// Error implements the error interface.
func (e *QueueFullError) Error() string {
	return fmt.Sprintf("queue: priority class %d is full at %d packets", e.Priority, e.Size)
}

// A LossEventError is the Reason of the Drop that Tick returns when
// the loss dice discard a packet after its delay elapsed. No function
// returns it as its error result; it gives a dice-decided drop the same
// typed-error shape the rest of the module uses.
type LossEventError struct {
	Priority int
}

// Error implements the error interface.
func (e *LossEventError) Error() string {
	return fmt.Sprintf("queue: packet lost in transit from priority class %d", e.Priority)
}
