// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// timeoutContext bounds a background remote call.
func timeoutContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// cleanFilename turns a tab title into a file name stem.
func cleanFilename(name string) string {
	name = unsafeFilename.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "_.")
	if name == "" {
		return "grid"
	}
	return name
}
