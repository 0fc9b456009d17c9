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
	"context"
	"strings"

	"github.com/walteh/collectionlint/pkg/collection"
)

// 🧪 AddTestsToRequest appends the status, response-time, generated and custom
// assertions to the test script of item, creating the script when missing.
//
// Running it again with the same arguments adds nothing: the status and
// response-time checks are skipped when a line already carries their title,
// and every other statement is skipped when the exact line is present.
//
// The returned error is only ever a non-fatal ErrMalformedInput for a body
// that is not JSON. The item is fully instrumented, minus the generated
// field checks, when it is returned.
func AddTestsToRequest(ctx context.Context, item *collection.RequestItem, statusCode int, body string, opts Options) error {
	script := ensureTestScript(item)
	lines := newLineSet(script.Exec)

	scope := ""
	if opts.scoped() {
		scope = ResolveRequestName(item)
	}

	if !lines.containsPhrase(statusPhrase(scope)) {
		lines.add(statusAssertion(scope, statusCode))
	}
	if !lines.containsPhrase(responseTimePhrase(scope)) {
		lines.add(responseTimeAssertion(scope))
	}

	tests, err := GenerateResponseTests(ctx, body, opts.Assertions, scope)
	if err != nil {
		tests = opts.Assertions
	}
	for _, t := range tests {
		lines.add(t)
	}

	script.Exec = lines.lines
	return err
}

// ensureTestScript returns the script of the test event of item, creating what is missing
func ensureTestScript(item *collection.RequestItem) *collection.Script {
	if item.Event == nil {
		item.Event = []*collection.Event{}
	}

	var ev *collection.Event
	for _, e := range item.Event {
		if e != nil && e.Listen == collection.ListenTest {
			ev = e
			break
		}
	}
	if ev == nil {
		ev = collection.NewTestEvent()
		item.Event = append(item.Event, ev)
	}
	if ev.Script == nil {
		ev.Script = collection.NewScript()
	}
	if ev.Script.Exec == nil {
		ev.Script.Exec = collection.Exec{}
	}
	return ev.Script
}

// 📋 lineSet is an ordered statement list with set-backed membership
type lineSet struct {
	lines collection.Exec
	seen  map[string]struct{}
}

func newLineSet(existing collection.Exec) *lineSet {
	s := &lineSet{
		lines: existing,
		seen:  make(map[string]struct{}, len(existing)),
	}
	for _, l := range existing {
		s.seen[l] = struct{}{}
	}
	return s
}

func (s *lineSet) add(line string) bool {
	if _, ok := s.seen[line]; ok {
		return false
	}
	s.lines = append(s.lines, line)
	s.seen[line] = struct{}{}
	return true
}

func (s *lineSet) containsPhrase(phrase string) bool {
	for _, l := range s.lines {
		if strings.Contains(l, phrase) {
			return true
		}
	}
	return false
}
