// Copyright 2025 walteh LLC
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

package transform

import (
	"strings"

	"github.com/walteh/collectionlint/pkg/collection"
)

// autoGeneratedHeaders are set by the client or transport and are never parameterized
var autoGeneratedHeaders = map[string]struct{}{
	"content-type":    {},
	"user-agent":      {},
	"accept":          {},
	"cache-control":   {},
	"postman-token":   {},
	"host":            {},
	"accept-encoding": {},
	"connection":      {},
}

// IsAutoGeneratedHeader reports whether key names a client or transport header.
func IsAutoGeneratedHeader(key string) bool {
	_, ok := autoGeneratedHeaders[strings.ToLower(key)]
	return ok
}

// HeaderVariableName returns the variable a header is extracted into: X-Api-Key becomes X_API_KEY.
func HeaderVariableName(key string) string {
	return strings.ReplaceAll(strings.ToUpper(key), "-", "_")
}

// 🏷️ ProcessHeaders replaces every custom header value with a reference to a
// variable named after the header. The first value seen for a name becomes
// the variable value; later headers with the same name only get the reference.
func ProcessHeaders(headers []*collection.Header, vars *VariableSet) {
	for _, h := range headers {
		if h == nil || IsAutoGeneratedHeader(h.Key) {
			continue
		}
		name := HeaderVariableName(h.Key)
		vars.Add(name, h.Value)
		h.Value = "{{" + name + "}}"
	}
}
