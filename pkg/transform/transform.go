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

const (
	// VersionMarker in a collection name means the collection was already transformed.
	// A collection whose own name contains it can never be transformed.
	VersionMarker = "_Version"

	// DefaultCollectionName is used when the document has no name
	DefaultCollectionName = "Collection"
	// DefaultDescription is prefixed with the version tag when the document has no description
	DefaultDescription = "No description provided."

	// EnvironmentID is the fixed id of generated environment documents
	EnvironmentID = "environment-id"
	// DefaultURLValue is the value of the URL variable in generated environment documents
	DefaultURLValue = "https://"
)

// 📦 Result holds the serialized output of a transform
type Result struct {
	NewName     string
	Collection  []byte    // pretty-printed collection document
	Environment []byte    // pretty-printed environment document, environment mode only
	Warnings    []Warning // recovered per-item problems
	Stats       Stats
}

// 📊 Stats counts requests before and after expansion
type Stats struct {
	RequestsIn  int
	RequestsOut int
	Variables   int
}

// 🔍 IsAlreadyProcessed reports whether the collection name carries the version marker
func IsAlreadyProcessed(c *collection.Collection) bool {
	return c.Info != nil && strings.Contains(c.Info.Name, VersionMarker)
}

// 🎯 Transform parses raw, rewrites it and serializes the result.
// Every failure is a *Error whose kind is ErrMalformedInput,
// ErrAlreadyProcessed or ErrStructural.
func Transform(ctx context.Context, raw []byte, opts Options) (*Result, error) {
	c, err := collection.Parse(raw)
	if err != nil {
		if errors.Is(err, collection.ErrStructure) {
			return nil, newError(ErrStructural, err, "")
		}
		return nil, newError(ErrMalformedInput, err, "")
	}

	requestsIn := countRequests(c.Item)

	env, warnings, err := ModifyCollection(ctx, c, opts)
	if err != nil {
		return nil, asError(err)
	}

	res := &Result{
		NewName:  c.Info.Name,
		Warnings: warnings,
		Stats: Stats{
			RequestsIn:  requestsIn,
			RequestsOut: countRequests(c.Item),
			Variables:   len(c.Variable),
		},
	}

	res.Collection, err = collection.MarshalIndent(c)
	if err != nil {
		return nil, newError(ErrStructural, err, "")
	}

	if env != nil {
		res.Stats.Variables = len(env.Values)
		res.Environment, err = collection.MarshalIndent(env)
		if err != nil {
			return nil, newError(ErrStructural, err, "")
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("name", res.NewName).
		Int("requests_in", res.Stats.RequestsIn).
		Int("requests_out", res.Stats.RequestsOut).
		Int("variables", res.Stats.Variables).
		Int("warnings", len(res.Warnings)).
		Msg("collection transformed")

	return res, nil
}

// 🔄 ModifyCollection rewrites c in place: version name and description,
// header variables, URL templating and per-example expansion. In environment
// mode it returns the companion environment holding the variables.
func ModifyCollection(ctx context.Context, c *collection.Collection, opts Options) (*collection.Environment, []Warning, error) {
	if IsAlreadyProcessed(c) {
		return nil, nil, newError(ErrAlreadyProcessed, nil,
			"collection "+c.Info.Name+" already processed: its name contains "+VersionMarker)
	}

	if c.Info == nil {
		c.Info = &collection.Info{}
	}
	original := c.Info.Name
	if original == "" {
		original = DefaultCollectionName
	}
	newName := original + "_" + opts.Version
	c.Info.Name = newName
	c.Info.Description = versionedDescription(c.Info.Description, opts.Version)

	var (
		env  *collection.Environment
		vars *VariableSet
	)
	switch opts.Mode {
	case ModeEnvironment:
		enabled := true
		env = &collection.Environment{
			ID:   EnvironmentID,
			Name: "Environment for " + newName,
			Values: []*collection.Variable{
				collection.NewVariable(opts.urlVariable(), DefaultURLValue),
			},
		}
		env.Values[0].Enabled = &enabled
		vars = NewVariableSet(&env.Values)
	default:
		kept := make([]*collection.Variable, 0, len(c.Variable))
		for _, v := range c.Variable {
			if v != nil && v.Key != DefaultURLVariable {
				kept = append(kept, v)
			}
		}
		c.Variable = kept
		vars = NewVariableSet(&c.Variable)
	}

	items, warnings, err := ProcessItems(ctx, c.Item, opts, vars)
	if err != nil {
		return nil, nil, err
	}
	c.Item = items

	return env, warnings, nil
}

func versionedDescription(d *collection.Description, version string) *collection.Description {
	prefix := "version=" + version + " - "
	if d == nil {
		return collection.NewDescription(prefix + DefaultDescription)
	}
	if d.Content == "" {
		d.Content = DefaultDescription
	}
	d.Content = prefix + d.Content
	return d
}

func countRequests(nodes collection.Nodes) int {
	n := 0
	for _, node := range nodes {
		switch node := node.(type) {
		case *collection.Folder:
			n += countRequests(node.Item)
		case *collection.RequestItem:
			n++
		}
	}
	return n
}

// asError turns err into a *Error, keeping the kind of the first *Error in its chain
func asError(err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return newError(te.Kind, err, err.Error())
	}
	return newError(ErrStructural, err, "")
}
