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
	"net/http"
)

// 📬 Response is a saved response example of a request
type Response struct {
	Name  string `json:"name,omitempty"`
	Code  int    `json:"code,omitempty"`
	Body  string `json:"body,omitempty"`
	Extra Extra  `json:"-"`
}

// StatusCode returns the saved status, 200 when none was recorded.
func (r *Response) StatusCode() int {
	if r.Code == 0 {
		return http.StatusOK
	}
	return r.Code
}

func (r *Response) UnmarshalJSON(data []byte) error {
	type plain Response
	if err := json.Unmarshal(data, (*plain)(r)); err != nil {
		return err
	}
	extra, err := decodeExtra(data, "name", "code", "body")
	if err != nil {
		return err
	}
	r.Extra = extra
	return nil
}

func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	return encodeWithExtra(plain(r), r.Extra)
}

// Clone returns a deep copy of the response example. A nil example clones to nil.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Extra = r.Extra.clone()
	return &out
}
