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

// Package topology loads the two text file formats an overlaynet
// deployment bootstraps from: the emulator topology file and the
// requester tracker file. Both are whitespace-separated, '#'-comment
// tolerant, line-oriented formats resolved against a caller-supplied
// HostResolver, the same injectable-transport seam
// github.com/digitalocean/go-openvswitch/ovsdb uses for its Dial.
package topology
