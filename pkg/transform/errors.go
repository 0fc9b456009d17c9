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

// ⚠️ Error kinds. Match them with errors.Is.
var (
	// ErrMalformedInput means a document or response body is not valid JSON
	ErrMalformedInput = errors.Base("malformed input")
	// ErrAlreadyProcessed means the collection name carries the version marker
	ErrAlreadyProcessed = errors.Base("collection already processed")
	// ErrStructural means the tree is missing something the rewrite needs
	ErrStructural = errors.Base("structural error")
)

// 🚨 Error is the single error value a transform fails with
type Error struct {
	Kind    error  // one of the Err* kinds above
	Message string // human-readable message, the cause's message when there is one
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func newError(kind error, cause error, message string) *Error {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}
