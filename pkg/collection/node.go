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

// 🌳 Node is one entry of an item list: a *Folder or a *RequestItem, never both
type Node interface {
	NodeName() string
	node()
}

// 📂 Folder groups nested nodes
type Folder struct {
	Name  string `json:"name"`
	Item  Nodes  `json:"item"`
	Extra Extra  `json:"-"`
}

func (*Folder) node() {}

// NodeName returns the folder name.
func (f *Folder) NodeName() string { return f.Name }

func (f *Folder) UnmarshalJSON(data []byte) error {
	type plain Folder
	if err := json.Unmarshal(data, (*plain)(f)); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "name", "item")
	if err != nil {
		return err
	}
	f.Extra = extra
	return nil
}

func (f Folder) MarshalJSON() ([]byte, error) {
	type plain Folder
	p := plain(f)
	if p.Item == nil {
		p.Item = Nodes{}
	}
	return encodeWithExtra(p, f.Extra)
}

// 📨 RequestItem describes a single request and its saved response examples
type RequestItem struct {
	Name     string      `json:"name"`
	Event    []*Event    `json:"event,omitempty"`
	Request  *Request    `json:"request"`
	Response []*Response `json:"response"`
	Extra    Extra       `json:"-"`
}

func (*RequestItem) node() {}

// NodeName returns the stored item name.
func (r *RequestItem) NodeName() string { return r.Name }

func (r *RequestItem) UnmarshalJSON(data []byte) error {
	type plain RequestItem
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "name", "event", "request", "response")
	if err != nil {
		return err
	}
	r.Extra = extra
	return nil
}

func (r RequestItem) MarshalJSON() ([]byte, error) {
	type plain RequestItem
	p := plain(r)
	if p.Response == nil {
		p.Response = []*Response{}
	}
	return encodeWithExtra(p, r.Extra)
}

// 🧬 Clone returns a structurally independent copy of the item
func (r *RequestItem) Clone() *RequestItem {
	out := &RequestItem{
		Name:  r.Name,
		Extra: r.Extra.clone(),
	}
	if r.Request != nil {
		out.Request = r.Request.Clone()
	}
	if r.Event != nil {
		out.Event = make([]*Event, len(r.Event))
		for i, e := range r.Event {
			out.Event[i] = e.Clone()
		}
	}
	if r.Response != nil {
		out.Response = make([]*Response, len(r.Response))
		for i, resp := range r.Response {
			out.Response[i] = resp.Clone()
		}
	}
	return out
}

// 📋 Nodes is an ordered item list
type Nodes []Node

// UnmarshalJSON decides the kind of every entry once, at decode time.
func (n *Nodes) UnmarshalJSON(data []byte) error {
	if firstByte(data) == 'n' {
		*n = nil
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(Nodes, 0, len(raws))
	for i, raw := range raws {
		node, err := decodeNode(raw)
		if err != nil {
			return errors.Errorf("item %d: %w", i, err)
		}
		out = append(out, node)
	}
	*n = out
	return nil
}

func decodeNode(raw json.RawMessage) (Node, error) {
	if firstByte(raw) != '{' {
		return nil, errors.Errorf("%w: item is not an object", ErrStructure)
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}

	if items, ok := probe["item"]; ok && firstByte(items) == '[' {
		var f Folder
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		return &f, nil
	}

	if req, ok := probe["request"]; ok && firstByte(req) != 'n' {
		var r RequestItem
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, err
		}
		return &r, nil
	}

	var named struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(raw, &named)
	return nil, errors.Errorf("%w: item %q is neither a folder nor a request", ErrStructure, named.Name)
}
