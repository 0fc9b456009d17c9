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

// 📨 Request is the HTTP request of a RequestItem.
// Method, body, auth and the rest are carried in Extra.
type Request struct {
	URL    *URL      `json:"url,omitempty"`
	Header []*Header `json:"header"`
	Extra  Extra     `json:"-"`
}

// UnmarshalJSON accepts both the object form and the shorthand where the
// request is only its URL string.
func (r *Request) UnmarshalJSON(data []byte) error {
	if firstByte(data) == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*r = Request{URL: &URL{Raw: raw, short: true}}
		return nil
	}
	type plain Request
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "url", "header")
	if err != nil {
		return err
	}
	r.Extra = extra
	return nil
}

func (r Request) MarshalJSON() ([]byte, error) {
	type plain Request
	p := plain(r)
	if p.Header == nil {
		p.Header = []*Header{}
	}
	return encodeWithExtra(p, r.Extra)
}

// Clone returns a deep copy of the request.
func (r *Request) Clone() *Request {
	out := &Request{Extra: r.Extra.clone()}
	if r.URL != nil {
		u := *r.URL
		u.Extra = r.URL.Extra.clone()
		out.URL = &u
	}
	if r.Header != nil {
		out.Header = make([]*Header, len(r.Header))
		for i, h := range r.Header {
			if h == nil {
				continue
			}
			c := *h
			c.Extra = h.Extra.clone()
			out.Header[i] = &c
		}
	}
	return out
}

// 🔗 URL keeps the raw URL string; host, path, query and the other parts live in Extra
type URL struct {
	Raw   string
	Extra Extra

	short bool
}

func (u *URL) UnmarshalJSON(data []byte) error {
	if firstByte(data) == '"' {
		u.short = true
		return json.Unmarshal(data, &u.Raw)
	}
	var body struct {
		Raw string `json:"raw"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "raw")
	if err != nil {
		return err
	}
	u.Raw = body.Raw
	u.Extra = extra
	u.short = false
	return nil
}

func (u URL) MarshalJSON() ([]byte, error) {
	if u.short && u.Extra.Len() == 0 {
		return Marshal(u.Raw)
	}
	return encodeWithExtra(struct {
		Raw string `json:"raw"`
	}{u.Raw}, u.Extra)
}

// SetHost replaces the host parts of the URL.
func (u *URL) SetHost(parts ...string) error {
	u.short = false
	return u.Extra.Set("host", parts)
}

// Host returns the host parts when they are stored as a string list.
func (u *URL) Host() []string {
	var parts []string
	if raw, ok := u.Extra.Get("host"); ok {
		_ = json.Unmarshal(raw, &parts)
	}
	return parts
}

// 🏷️ Header is a request header entry
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Extra Extra  `json:"-"`
}

func (h *Header) UnmarshalJSON(data []byte) error {
	type plain Header
	if err := json.Unmarshal(data, (*plain)(h)); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "key", "value")
	if err != nil {
		return err
	}
	h.Extra = extra
	return nil
}

func (h Header) MarshalJSON() ([]byte, error) {
	type plain Header
	return encodeWithExtra(plain(h), h.Extra)
}
