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
	"github.com/walteh/collectionlint/pkg/collection"
)

// 🔑 VariableSet appends to a variable list while keeping its keys unique.
// It writes through to the list it was created over, so the owning
// collection or environment sees every addition in first-seen order.
type VariableSet struct {
	list  *[]*collection.Variable
	index map[string]struct{}
}

// NewVariableSet wraps list. Keys already present are never added again.
func NewVariableSet(list *[]*collection.Variable) *VariableSet {
	s := &VariableSet{
		list:  list,
		index: make(map[string]struct{}, len(*list)),
	}
	for _, v := range *list {
		if v != nil {
			s.index[v.Key] = struct{}{}
		}
	}
	return s
}

// Has reports whether key is in the list.
func (s *VariableSet) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Add appends key with a string value unless the key is already present.
func (s *VariableSet) Add(key, value string) bool {
	if s.Has(key) {
		return false
	}
	*s.list = append(*s.list, collection.NewVariable(key, value))
	s.index[key] = struct{}{}
	return true
}

// Keys returns the keys in list order.
func (s *VariableSet) Keys() []string {
	keys := make([]string, 0, len(*s.list))
	for _, v := range *s.list {
		if v != nil {
			keys = append(keys, v.Key)
		}
	}
	return keys
}
