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

package github

import (
	"context"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/collectionlint/pkg/source"
	"gitlab.com/tozd/go/errors"
)

const scheme = "github://"

// treeRef is listed when a glob location names no ref
const treeRef = "HEAD"

func init() {
	source.Register(source.SchemeGitHub, New)
}

// 🎯 Provider reads collections from GitHub repositories
type Provider struct {
	client *github.Client
}

// 🏭 New creates a GitHub provider, authenticated when GITHUB_TOKEN is set
func New(ctx context.Context) (source.Provider, error) {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	} else {
		zerolog.Ctx(ctx).Debug().Msg("GITHUB_TOKEN not set, using unauthenticated GitHub client")
	}
	return NewWithClient(client), nil
}

// 🏭 NewWithClient creates a GitHub provider around an existing client
func NewWithClient(client *github.Client) *Provider {
	return &Provider{client: client}
}

// 📍 Location is a parsed github://owner/repo/path[@ref]
type Location struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

func (l Location) String() string {
	s := scheme + l.Owner + "/" + l.Repo + "/" + l.Path
	if l.Ref != "" {
		s += "@" + l.Ref
	}
	return s
}

// 🔍 ParseLocation parses github://owner/repo/path[@ref]
func ParseLocation(location string) (Location, error) {
	if !strings.HasPrefix(location, scheme) {
		return Location{}, errors.Errorf("invalid GitHub location %q: missing %s prefix", location, scheme)
	}
	rest := strings.TrimPrefix(location, scheme)

	var ref string
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		rest, ref = rest[:i], rest[i+1:]
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Location{}, errors.Errorf("invalid GitHub location %q: want github://owner/repo/path[@ref]", location)
	}

	return Location{Owner: parts[0], Repo: parts[1], Path: parts[2], Ref: ref}, nil
}

// 📂 Resolve returns the location itself, or every matching blob of the tree for a glob
func (p *Provider) Resolve(ctx context.Context, location string) ([]string, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	if !source.IsPattern(loc.Path) {
		return []string{location}, nil
	}

	ref := loc.Ref
	if ref == "" {
		ref = treeRef
	}
	tree, _, err := p.client.Git.GetTree(ctx, loc.Owner, loc.Repo, ref, true)
	if err != nil {
		return nil, errors.Errorf("getting repository tree: %w", err)
	}
	if tree.GetTruncated() {
		zerolog.Ctx(ctx).Warn().Str("repo", loc.Owner+"/"+loc.Repo).Msg("repository tree truncated, glob may miss files")
	}

	var out []string
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		ok, err := doublestar.Match(loc.Path, entry.GetPath())
		if err != nil {
			return nil, errors.Errorf("matching %s: %w", loc.Path, err)
		}
		if ok {
			match := loc
			match.Path = entry.GetPath()
			out = append(out, match.String())
		}
	}
	return out, nil
}

// 📄 Fetch reads one file through the contents API
func (p *Provider) Fetch(ctx context.Context, location string) ([]byte, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	var opts *github.RepositoryContentGetOptions
	if loc.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: loc.Ref}
	}

	file, dir, _, err := p.client.Repositories.GetContents(ctx, loc.Owner, loc.Repo, loc.Path, opts)
	if err != nil {
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if file == nil {
		return nil, errors.Errorf("%s is a directory with %d entries, use a glob", loc.Path, len(dir))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}
	return []byte(content), nil
}
