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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/collectionlint/pkg/collection"
	"gitlab.com/tozd/go/errors"
)

// MaxResponseTimeMillis is the bound of the generated response-time assertion.
const MaxResponseTimeMillis = 1000

const (
	statusTitle       = "Expected HTTP status:"
	responseTimeTitle = "Response time is acceptable"
)

// 🧪 GenerateResponseTests returns one statement per top-level field of the
// response body followed by the custom statements, in that order.
//
// Objects, arrays and null get a presence check; every other value gets an
// equality check against its JSON literal. A body that is not a JSON object
// generates nothing. A body that is not JSON at all returns an
// ErrMalformedInput error and no statements; callers still owe the custom
// statements to the script. scope, when set, prefixes every test title.
func GenerateResponseTests(ctx context.Context, body string, custom []string, scope string) ([]string, error) {
	fields, err := topLevelFields(body)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("scope", scope).Msg("response body is not JSON, skipping generated assertions")
		return []string{}, newError(ErrMalformedInput, err, "")
	}

	tests := make([]string, 0, len(fields)+len(custom))
	for _, f := range fields {
		if f.structured() {
			tests = append(tests, presenceAssertion(scope, f.key))
		} else {
			tests = append(tests, equalityAssertion(scope, f.key, f.literal()))
		}
	}
	tests = append(tests, custom...)
	return tests, nil
}

func statusAssertion(scope string, code int) string {
	return statement(titled(scope, fmt.Sprintf("%s %d", statusTitle, code)),
		fmt.Sprintf("pm.response.to.have.status(%d);", code))
}

func responseTimeAssertion(scope string) string {
	return statement(titled(scope, responseTimeTitle),
		fmt.Sprintf("pm.expect(pm.response.responseTime).to.be.below(%d);", MaxResponseTimeMillis))
}

func presenceAssertion(scope, key string) string {
	return statement(titled(scope, fmt.Sprintf("Response contains field '%s'", key)),
		fmt.Sprintf("pm.expect(pm.response.json()).to.have.property(%s);", jsString(key)))
}

func equalityAssertion(scope, key, literal string) string {
	return statement(titled(scope, fmt.Sprintf("Response field '%s' has expected value", key)),
		fmt.Sprintf("pm.expect(pm.response.json()[%s]).to.eql(%s);", jsString(key), literal))
}

// statusPhrase is contained in every status assertion for scope, whatever the code
func statusPhrase(scope string) string {
	return titlePhrase(titled(scope, statusTitle))
}

func responseTimePhrase(scope string) string {
	return titlePhrase(titled(scope, responseTimeTitle))
}

func titled(scope, title string) string {
	if scope == "" {
		return title
	}
	return "[" + scope + "] - " + title
}

// statement renders one self-contained pm.test line
func statement(title, body string) string {
	return fmt.Sprintf("pm.test(%s, function () { %s });", jsString(title), body)
}

// titlePhrase is the start of a statement up to, not including, the closing quote of its title
func titlePhrase(title string) string {
	return "pm.test(" + strings.TrimSuffix(jsString(title), `"`)
}

// jsString quotes s as a JSON string, which is also a valid JavaScript string literal
func jsString(s string) string {
	b, err := collection.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}

type field struct {
	key   string
	value json.RawMessage
}

// structured mirrors `typeof value === "object"`: objects, arrays and null
func (f field) structured() bool {
	switch firstByte(f.value) {
	case '{', '[', 'n':
		return true
	default:
		return false
	}
}

func (f field) literal() string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, f.value); err != nil {
		return string(f.value)
	}
	return buf.String()
}

// topLevelFields returns the members of a JSON object body in document order.
// A repeated key keeps its first position and its last value.
func topLevelFields(body string) ([]field, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	var probe json.RawMessage
	if err := json.Unmarshal([]byte(body), &probe); err != nil {
		return nil, errors.Errorf("parsing response body: %w", err)
	}
	if firstByte(probe) != '{' {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(probe))
	if _, err := dec.Token(); err != nil {
		return nil, errors.Errorf("reading response body: %w", err)
	}

	var fields []field
	seen := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Errorf("reading response body key: %w", err)
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, errors.Errorf("reading response body value %q: %w", key, err)
		}

		if i, ok := seen[key]; ok {
			fields[i].value = value
			continue
		}
		seen[key] = len(fields)
		fields = append(fields, field{key: key, value: value})
	}
	return fields, nil
}

func firstByte(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
