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

package source

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// Schemes of the built-in providers
const (
	SchemeFile   = "file"
	SchemeHTTP   = "http"
	SchemeGitHub = "github"
)

// ErrNoMatch means a location expanded to no documents
var ErrNoMatch = errors.Base("no collection matched")

// 🔌 Provider reads collection documents from one kind of location
type Provider interface {
	// 📂 Resolve expands a location (a glob, a directory) into document locations
	Resolve(ctx context.Context, location string) ([]string, error)

	// 📄 Fetch returns the raw document at a location returned by Resolve
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// 🏭 Factory creates a new provider
type Factory func(ctx context.Context) (Provider, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Factory)
)

// 📝 Register registers a provider factory for a scheme
func Register(scheme string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	providers[scheme] = factory
}

// 🎯 Get returns a provider by scheme
func Get(ctx context.Context, scheme string) (Provider, error) {
	mu.RLock()
	factory, ok := providers[scheme]
	mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown source provider: %s", scheme)
	}
	return factory(ctx)
}

// 🔍 SchemeOf picks the provider scheme for a location
func SchemeOf(location string) string {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return SchemeHTTP
	case strings.HasPrefix(lower, "github://"):
		return SchemeGitHub
	default:
		return SchemeFile
	}
}

// 📄 Document is one resolved source
type Document struct {
	Location string
	Scheme   string
}

// 📦 Resolve expands every location with its provider. The result is sorted per
// location and free of duplicates. A location that matches nothing is an error.
func Resolve(ctx context.Context, locations []string) ([]Document, error) {
	var docs []Document
	seen := make(map[string]struct{})

	for _, loc := range locations {
		scheme := SchemeOf(loc)
		p, err := Get(ctx, scheme)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", loc, err)
		}

		found, err := p.Resolve(ctx, loc)
		if err != nil {
			return nil, errors.Errorf("resolving %s: %w", loc, err)
		}
		if len(found) == 0 {
			return nil, errors.Errorf("resolving %s: %w", loc, ErrNoMatch)
		}
		sort.Strings(found)

		for _, f := range found {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			docs = append(docs, Document{Location: f, Scheme: scheme})
		}
	}

	return docs, nil
}

// 📥 Fetch reads a resolved document with its provider
func Fetch(ctx context.Context, doc Document) ([]byte, error) {
	p, err := Get(ctx, doc.Scheme)
	if err != nil {
		return nil, err
	}
	data, err := p.Fetch(ctx, doc.Location)
	if err != nil {
		return nil, errors.Errorf("fetching %s: %w", doc.Location, err)
	}
	return data, nil
}
