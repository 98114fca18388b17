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

// Package queue implements an emulator's per-neighbour priority queue
// bank: a small set of FIFOs keyed by priority class, a single
// in-flight delay slot, tail-drop admission, and loss decided by dice
// roll at emission rather than at admission.
//
// Packets of wire.TypeEnd bypass the bank entirely, reaching emission
// immediately, so end-of-stream signalling survives congestion that
// would otherwise stall a file transfer indefinitely.
package queue
