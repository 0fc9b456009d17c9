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
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/collectionlint/pkg/collection"
	"gitlab.com/tozd/go/errors"
)

// DefaultExampleName names response examples that have none when names are concatenated.
const DefaultExampleName = "Response"

// ⚠️ Warning records a recovered problem with one item
type Warning struct {
	Item    string
	Message string
}

func (w Warning) String() string {
	return w.Item + ": " + w.Message
}

// 🌳 ProcessItems rewrites nodes and returns the new item list.
//
// Folders are kept and rewritten recursively. Requests get their headers
// extracted into vars and their URL templated. A request with response
// examples is replaced by one copy per example, each holding only that
// example and instrumented against it. A request without examples is kept.
//
// The nodes slice itself is left untouched; the nodes it holds are edited in place.
func ProcessItems(ctx context.Context, nodes collection.Nodes, opts Options, vars *VariableSet) (collection.Nodes, []Warning, error) {
	out := make(collection.Nodes, 0, len(nodes))
	var warnings []Warning

	for _, n := range nodes {
		switch n := n.(type) {
		case *collection.Folder:
			children, w, err := ProcessItems(ctx, n.Item, opts, vars)
			if err != nil {
				return nil, nil, errors.Errorf("folder %q: %w", n.Name, err)
			}
			n.Item = children
			warnings = append(warnings, w...)
			out = append(out, n)

		case *collection.RequestItem:
			expanded, w, err := processRequest(ctx, n, opts, vars)
			if err != nil {
				return nil, nil, errors.Errorf("request %q: %w", n.Name, err)
			}
			warnings = append(warnings, w...)
			out = append(out, expanded...)

		default:
			return nil, nil, newError(ErrStructural, nil, "item list holds a node that is neither a folder nor a request")
		}
	}

	return out, warnings, nil
}

func processRequest(ctx context.Context, item *collection.RequestItem, opts Options, vars *VariableSet) (collection.Nodes, []Warning, error) {
	if item.Request == nil {
		return nil, nil, newError(ErrStructural, nil, "request item "+item.Name+" has no request")
	}

	ProcessHeaders(item.Request.Header, vars)

	if err := rewriteURL(item.Request.URL, opts); err != nil {
		return nil, nil, err
	}

	if len(item.Response) == 0 {
		if opts.scoped() {
			item.Name = ResolveRequestName(item)
		}
		return collection.Nodes{item}, nil, nil
	}

	logger := zerolog.Ctx(ctx)
	out := make(collection.Nodes, 0, len(item.Response))
	var warnings []Warning

	for _, example := range item.Response {
		if example == nil {
			continue
		}
		clone := item.Clone()
		clone.Name = expandedName(item, example, opts)
		clone.Response = []*collection.Response{example.Clone()}

		if err := AddTestsToRequest(ctx, clone, example.StatusCode(), example.Body, opts); err != nil {
			if !errors.Is(err, ErrMalformedInput) {
				return nil, nil, err
			}
			warnings = append(warnings, Warning{Item: clone.Name, Message: err.Error()})
		}

		logger.Debug().
			Str("item", clone.Name).
			Int("status", example.StatusCode()).
			Msg("expanded response example")
		out = append(out, clone)
	}

	return out, warnings, nil
}

// expandedName names the copy of item made for example
func expandedName(item *collection.RequestItem, example *collection.Response, opts Options) string {
	base := item.Name
	if opts.scoped() {
		base = ResolveRequestName(item)
	}
	if !opts.ConcatNames {
		return base
	}
	suffix := example.Name
	if suffix == "" {
		suffix = DefaultExampleName
	}
	return base + " - " + suffix
}

// rewriteURL templates the request URL against the base URL variable
func rewriteURL(u *collection.URL, opts Options) error {
	if u == nil {
		return nil
	}

	switch opts.Mode {
	case ModeEnvironment:
		const baseRef = "{{" + DefaultURLVariable + "}}"
		if !strings.Contains(u.Raw, baseRef) {
			return nil
		}
		ref := "{{" + opts.urlVariable() + "}}"
		u.Raw = strings.Replace(u.Raw, baseRef, ref, 1)
		return u.SetHost(ref)

	default:
		parsed, ok := isAbsoluteHTTP(u.Raw)
		if !ok {
			return nil
		}
		ref := "{{" + DefaultURLVariable + "}}"
		u.Raw = ref + pathAndQuery(parsed)
		return u.SetHost(ref)
	}
}
