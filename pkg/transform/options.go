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
	"gitlab.com/tozd/go/errors"
)

// 🔀 Mode selects where header variables land and how requests are named
type Mode string

const (
	// ModeCollection parameterizes absolute URLs with {{baseUrl}} and keeps
	// header variables in the collection variable list.
	ModeCollection Mode = "collection"
	// ModeEnvironment renames {{baseUrl}} to the chosen URL variable, keeps
	// header variables in a companion environment document and derives
	// request names from their URLs.
	ModeEnvironment Mode = "environment"
)

// DefaultURLVariable is the variable absolute URLs are rewritten against.
const DefaultURLVariable = "baseUrl"

// ParseMode returns the mode named s. The empty string is ModeCollection.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeCollection:
		return ModeCollection, nil
	case ModeEnvironment:
		return ModeEnvironment, nil
	default:
		return "", errors.Errorf("unknown mode %q (want %q or %q)", s, ModeCollection, ModeEnvironment)
	}
}

// ⚙️ Options configures one transform
type Options struct {
	Version     string   // appended to the collection name
	Assertions  []string // custom statements appended to every instrumented request
	ConcatNames bool     // name expanded items "<name> - <example name>"
	Mode        Mode
	URLVariable string // environment mode only, defaults to DefaultURLVariable
}

func (o Options) urlVariable() string {
	if o.URLVariable == "" {
		return DefaultURLVariable
	}
	return o.URLVariable
}

func (o Options) scoped() bool {
	return o.Mode == ModeEnvironment
}
