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

// Package sender implements the Window type: a fixed-size outstanding
// segment table with per-segment retransmission on timeout, retired
// after MaxRetries failed attempts.
//
// Window is synchronous and sleep-free: a caller drives it with Tick,
// supplying the current time and a TransmitFunc to invoke for every
// (re)transmission Window decides is due. Rate-limiting between
// transmissions is a separate concern, left to RateLimiter, so Window
// itself never sleeps and stays trivially testable.
package sender
