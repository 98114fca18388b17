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

import "fmt"

// A FatalConfigError reports that a topology or tracker file could not
// be parsed, or a tracker file did not name a requested filename. Per
// spec.md §7, this is the one error kind that is not recovered locally
// by the node that encounters it.
type FatalConfigError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *FatalConfigError) Error() string {
	return fmt.Sprintf("topology: %s: %s", e.Path, e.Reason)
}

func fatalf(path, format string, args ...interface{}) *FatalConfigError {
	return &FatalConfigError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
