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

package collection

import (
	"bytes"
	"encoding/json"
	"slices"

	"gitlab.com/tozd/go/errors"
)

// 📦 Extra holds JSON members a type does not model, so they survive a rewrite untouched.
// It also remembers the member order of the decoded object, modelled members included,
// so a rewritten object keeps the layout of its source.
type Extra struct {
	members map[string]json.RawMessage
	order   []string
}

// 🔍 decodeExtra returns every member of the object in data except the known ones
func decodeExtra(data []byte, known ...string) (Extra, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return Extra{}, errors.Errorf("decoding object members: %w", err)
	}
	order, err := memberKeys(data)
	if err != nil {
		return Extra{}, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		all = nil
	}
	return Extra{members: all, order: order}, nil
}

// 📝 encodeWithExtra marshals v and merges the extra members back in source order.
// Members the source did not have follow the member they are encoded after.
func encodeWithExtra(v any, extra Extra) ([]byte, error) {
	base, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra.members) == 0 && len(extra.order) == 0 {
		return base, nil
	}

	fields, err := objectMembers(base)
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int, len(fields))
	for i, f := range fields {
		pos[f.key] = i
	}
	ordered := make(map[string]struct{}, len(extra.order))
	for _, k := range extra.order {
		ordered[k] = struct{}{}
	}

	w := newObjectWriter()
	emitBase := func(i int) {
		w.member(fields[i].key, fields[i].value)
		for j := i + 1; j < len(fields); j++ {
			if _, ok := ordered[fields[j].key]; ok || w.has(fields[j].key) {
				break
			}
			w.member(fields[j].key, fields[j].value)
		}
	}

	for _, k := range extra.order {
		if w.has(k) {
			continue
		}
		if i, ok := pos[k]; ok {
			emitBase(i)
			continue
		}
		if raw, ok := extra.members[k]; ok {
			w.member(k, raw)
		}
	}
	for _, f := range fields {
		if !w.has(f.key) {
			w.member(f.key, f.value)
		}
	}
	return w.bytes()
}

// Get returns the raw value of an unmodelled member.
func (e Extra) Get(key string) (json.RawMessage, bool) {
	raw, ok := e.members[key]
	return raw, ok
}

// Len returns the number of unmodelled members.
func (e Extra) Len() int {
	return len(e.members)
}

// Set stores value under key, encoded as JSON. A new key goes after the existing members.
func (e *Extra) Set(key string, value any) error {
	raw, err := Marshal(value)
	if err != nil {
		return errors.Errorf("encoding %s: %w", key, err)
	}
	if e.members == nil {
		e.members = map[string]json.RawMessage{}
	}
	if !slices.Contains(e.order, key) {
		e.order = append(e.order, key)
	}
	e.members[key] = raw
	return nil
}

func (e Extra) clone() Extra {
	out := Extra{order: slices.Clone(e.order)}
	if e.members != nil {
		out.members = make(map[string]json.RawMessage, len(e.members))
		for k, v := range e.members {
			out.members[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

type member struct {
	key   string
	value json.RawMessage
}

// memberKeys returns the member names of the object in data in document order, each once
func memberKeys(data []byte) ([]string, error) {
	fields, err := objectMembers(data)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f.key]; ok {
			continue
		}
		seen[f.key] = struct{}{}
		keys = append(keys, f.key)
	}
	return keys, nil
}

// objectMembers walks the object in data and returns its members in document order
func objectMembers(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, errors.Errorf("reading object: %w", err)
	}
	var out []member
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Errorf("reading member name: %w", err)
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, errors.Errorf("reading member %q: %w", key, err)
		}
		out = append(out, member{key: key, value: value})
	}
	return out, nil
}

// objectWriter assembles a JSON object one member at a time, each name once
type objectWriter struct {
	buf  bytes.Buffer
	seen map[string]struct{}
	err  error
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{seen: map[string]struct{}{}}
	w.buf.WriteByte('{')
	return w
}

func (w *objectWriter) has(key string) bool {
	_, ok := w.seen[key]
	return ok
}

func (w *objectWriter) member(key string, value json.RawMessage) {
	if w.err != nil || w.has(key) {
		return
	}
	name, err := Marshal(key)
	if err != nil {
		w.err = err
		return
	}
	if len(w.seen) > 0 {
		w.buf.WriteByte(',')
	}
	w.seen[key] = struct{}{}
	w.buf.Write(name)
	w.buf.WriteByte(':')
	if len(value) == 0 {
		w.buf.WriteString("null")
	} else {
		w.buf.Write(value)
	}
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}

// 🎯 Marshal encodes v compactly without escaping HTML characters.
// Generated scripts and URLs routinely contain <, > and &.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Errorf("encoding json: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// 🎯 MarshalIndent encodes v with two-space indentation, the layout collection files use on disk
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Errorf("encoding json: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// firstByte returns the first non-whitespace byte of data, or 0
func firstByte(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
