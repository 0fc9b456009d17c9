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
	"net/url"
	"regexp"
	"strings"

	"github.com/walteh/collectionlint/pkg/collection"
)

var templateRef = regexp.MustCompile(`\{\{.*?\}\}`)

// 🏷️ ResolveRequestName derives a display name from the request URL.
//
//	{{baseUrl}}/users/42?active=true   -> /users/42?active=true
//	https://api.example.com/users?x=1  -> /users?x=1
//
// Items without a usable URL keep their stored name.
func ResolveRequestName(item *collection.RequestItem) string {
	if item.Request == nil || item.Request.URL == nil {
		return item.Name
	}
	raw := item.Request.URL.Raw

	if strings.Contains(raw, "{{") {
		if loc := templateRef.FindStringIndex(raw); loc != nil {
			raw = raw[:loc[0]] + raw[loc[1]:]
		}
		return strings.TrimSpace(raw)
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return item.Name
	}
	return strings.TrimSpace(pathAndQuery(u))
}

// pathAndQuery renders the path (at least "/") and the query with its "?"
func pathAndQuery(u *url.URL) string {
	path := u.EscapedPath()
	if u.Opaque != "" {
		path = u.Opaque
	}
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		return path + "?" + u.RawQuery
	}
	return path
}

// isAbsoluteHTTP reports whether raw is a complete http(s) URL
func isAbsoluteHTTP(raw string) (*url.URL, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u, true
	default:
		return nil, false
	}
}
