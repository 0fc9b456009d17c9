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
	"encoding/json"
)

const (
	// ListenTest is the listener name of post-response test scripts
	ListenTest = "test"
	// ScriptTypeJavaScript is the only script type collections run
	ScriptTypeJavaScript = "text/javascript"
)

// ⚡ Event attaches a script to a request lifecycle hook
type Event struct {
	Listen string  `json:"listen"`
	Script *Script `json:"script,omitempty"`
	Extra  Extra   `json:"-"`
}

// NewTestEvent returns an empty test event: no statements, javascript, no packages.
func NewTestEvent() *Event {
	return &Event{
		Listen: ListenTest,
		Script: NewScript(),
	}
}

func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	if err := json.Unmarshal(data, (*plain)(e)); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "listen", "script")
	if err != nil {
		return err
	}
	e.Extra = extra
	return nil
}

func (e Event) MarshalJSON() ([]byte, error) {
	type plain Event
	return encodeWithExtra(plain(e), e.Extra)
}

// Clone returns a deep copy of the event. A nil event clones to nil.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	out := &Event{Listen: e.Listen, Extra: e.Extra.clone()}
	if e.Script != nil {
		s := *e.Script
		s.Exec = append(Exec(nil), e.Script.Exec...)
		s.Packages = append(json.RawMessage(nil), e.Script.Packages...)
		s.Extra = e.Script.Extra.clone()
		out.Script = &s
	}
	return out
}

// 📜 Script holds the ordered statement lines of an event
type Script struct {
	Exec     Exec            `json:"exec"`
	Type     string          `json:"type,omitempty"`
	Packages json.RawMessage `json:"packages,omitempty"`
	Extra    Extra           `json:"-"`
}

// NewScript returns an empty javascript script with no packages.
func NewScript() *Script {
	return &Script{
		Exec:     Exec{},
		Type:     ScriptTypeJavaScript,
		Packages: json.RawMessage("{}"),
	}
}

func (s *Script) UnmarshalJSON(data []byte) error {
	type plain Script
	if err := json.Unmarshal(data, (*plain)(s)); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "exec", "type", "packages")
	if err != nil {
		return err
	}
	s.Extra = extra
	return nil
}

func (s Script) MarshalJSON() ([]byte, error) {
	type plain Script
	p := plain(s)
	if p.Exec == nil {
		p.Exec = Exec{}
	}
	return encodeWithExtra(p, s.Extra)
}

// 📜 Exec is the statement list of a script. A single string is read as one statement.
type Exec []string

func (x *Exec) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '"':
		var line string
		if err := json.Unmarshal(data, &line); err != nil {
			return err
		}
		*x = Exec{line}
		return nil
	case 'n':
		*x = Exec{}
		return nil
	}
	var lines []string
	if err := json.Unmarshal(data, &lines); err != nil {
		return err
	}
	*x = lines
	return nil
}
