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

	"gitlab.com/tozd/go/errors"
)

// ⚠️ ErrStructure is returned when the document tree has a shape the model cannot represent
var ErrStructure = errors.Base("invalid collection structure")

// 📚 Collection is the root of a collection document
type Collection struct {
	Info     *Info       `json:"info,omitempty"`
	Item     Nodes       `json:"item"`
	Variable []*Variable `json:"variable,omitempty"` // a non-nil empty list is written as []
	Extra    Extra       `json:"-"`
}

// 🎯 Parse decodes a collection document
func Parse(data []byte) (*Collection, error) {
	if firstByte(data) != '{' {
		return nil, errors.Errorf("%w: document is not a JSON object", ErrStructure)
	}
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Collection) UnmarshalJSON(data []byte) error {
	type plain Collection
	if err := json.Unmarshal(data, (*plain)(c)); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "info", "item", "variable")
	if err != nil {
		return err
	}
	c.Extra = extra
	return nil
}

func (c Collection) MarshalJSON() ([]byte, error) {
	type plain Collection
	p := plain(c)
	if p.Item == nil {
		p.Item = Nodes{}
	}
	if p.Variable != nil {
		return encodeWithExtra(struct {
			plain
			Variable []*Variable `json:"variable"`
		}{p, p.Variable}, c.Extra)
	}
	return encodeWithExtra(p, c.Extra)
}

// ℹ️ Info carries the collection name and description
type Info struct {
	Name        string       `json:"name"`
	Description *Description `json:"description,omitempty"`
	Extra       Extra        `json:"-"`
}

func (i *Info) UnmarshalJSON(data []byte) error {
	type plain Info
	if err := json.Unmarshal(data, (*plain)(i)); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "name", "description")
	if err != nil {
		return err
	}
	i.Extra = extra
	return nil
}

func (i Info) MarshalJSON() ([]byte, error) {
	type plain Info
	return encodeWithExtra(plain(i), i.Extra)
}

// 📝 Description is either a plain string or an object with a content member
type Description struct {
	Content string
	Extra   Extra

	object bool
}

// NewDescription returns a plain string description.
func NewDescription(content string) *Description {
	return &Description{Content: content}
}

func (d *Description) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '"':
		d.object = false
		return json.Unmarshal(data, &d.Content)
	case '{':
		var body struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return err
		}
		extra, err := decodeExtra(data, "content")
		if err != nil {
			return err
		}
		d.Content = body.Content
		d.Extra = extra
		d.object = true
		return nil
	default:
		d.Content = ""
		return nil
	}
}

func (d Description) MarshalJSON() ([]byte, error) {
	if !d.object {
		return Marshal(d.Content)
	}
	return encodeWithExtra(struct {
		Content string `json:"content"`
	}{d.Content}, d.Extra)
}

// 🔑 Variable is a named placeholder in a collection or environment
type Variable struct {
	Key     string          `json:"key"`
	Value   json.RawMessage `json:"value,omitempty"`
	Enabled *bool           `json:"enabled,omitempty"`
	Extra   Extra           `json:"-"`
}

// NewVariable returns a variable holding a string value.
func NewVariable(key, value string) *Variable {
	raw, _ := Marshal(value)
	return &Variable{Key: key, Value: raw}
}

// StringValue returns the value when it is a JSON string, or its raw text otherwise.
func (v *Variable) StringValue() string {
	var s string
	if err := json.Unmarshal(v.Value, &s); err == nil {
		return s
	}
	return string(v.Value)
}

func (v *Variable) UnmarshalJSON(data []byte) error {
	type plain Variable
	if err := json.Unmarshal(data, (*plain)(v)); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "key", "value", "enabled")
	if err != nil {
		return err
	}
	v.Extra = extra
	return nil
}

func (v Variable) MarshalJSON() ([]byte, error) {
	type plain Variable
	return encodeWithExtra(plain(v), v.Extra)
}

// 🌍 Environment is the companion document holding variable values outside the collection
type Environment struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Values []*Variable `json:"values"`
}
