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

package transform_test

import (
	"context"
	"fmt"

	"github.com/walteh/collectionlint/pkg/transform"
)

func ExampleGenerateResponseTests() {
	tests, err := transform.GenerateResponseTests(context.Background(), `{"a": 1, "b": {"x": 1}}`, nil, "")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, t := range tests {
		fmt.Println(t)
	}
	// Output:
	// pm.test("Response field 'a' has expected value", function () { pm.expect(pm.response.json()["a"]).to.eql(1); });
	// pm.test("Response contains field 'b'", function () { pm.expect(pm.response.json()).to.have.property("b"); });
}

func ExampleTransform() {
	raw := []byte(`{
		"info": {"name": "Users"},
		"item": [{
			"name": "get user",
			"request": {"url": "https://api.example.com/users/1", "header": [{"key": "X-Api-Key", "value": "k"}]},
			"response": [{"name": "ok", "code": 200}, {"name": "gone", "code": 410}]
		}]
	}`)

	res, err := transform.Transform(context.Background(), raw, transform.Options{
		Version:     "Version1",
		ConcatNames: true,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.NewName)
	fmt.Printf("requests: %d -> %d\n", res.Stats.RequestsIn, res.Stats.RequestsOut)
	fmt.Println("variables:", res.Stats.Variables)
	// Output:
	// Users_Version1
	// requests: 1 -> 2
	// variables: 1
}
