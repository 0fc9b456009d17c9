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

package operation

import (
	"context"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/collectionlint/pkg/log"
	"github.com/walteh/collectionlint/pkg/output"
	"github.com/walteh/collectionlint/pkg/source"
	"github.com/walteh/collectionlint/pkg/transform"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation handles one resolved source document
type Operation interface {
	// Execute returns the outcome for doc. Problems with the document itself
	// are recorded in the outcome; the error is reserved for cancellation.
	Execute(ctx context.Context, doc source.Document) (*Outcome, error)
}

// 📥 Fetcher reads the raw bytes of a document
type Fetcher interface {
	Fetch(ctx context.Context, doc source.Document) ([]byte, error)
}

// 💾 Writer stores an output document. *output.Manager implements it.
type Writer interface {
	Write(ctx context.Context, path string, content []byte) (output.FileInfo, error)
}

// 🔍 Checker reports what writing an output document would do. *output.Manager implements it.
type Checker interface {
	Check(ctx context.Context, path string, content []byte) (output.FileInfo, error)
}

// SourceFetcher fetches documents through the registered source providers
type SourceFetcher struct{}

func (SourceFetcher) Fetch(ctx context.Context, doc source.Document) ([]byte, error) {
	return source.Fetch(ctx, doc)
}

// 🔧 Options configures an operation
type Options struct {
	// Transform is applied to every document
	Transform transform.Options
	// Ignore holds doublestar patterns matched against the location and its base name
	Ignore []string
	// Fetcher reads documents, SourceFetcher when nil
	Fetcher Fetcher
	// Writer stores output, required by the transform operation
	Writer Writer
	// Checker compares output, required by the status operation
	Checker Checker
}

func (o Options) validate() error {
	for _, pattern := range o.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	return nil
}

func (o Options) fetcher() Fetcher {
	if o.Fetcher == nil {
		return SourceFetcher{}
	}
	return o.Fetcher
}

// 🏷️ Status is what happened to a source document
type Status int

const (
	// StatusTransformed means the document was transformed and its output handled
	StatusTransformed Status = iota
	// StatusProcessed means the collection already carries the version marker
	StatusProcessed
	// StatusIgnored means an ignore pattern matched the location
	StatusIgnored
	// StatusFailed means the document could not be fetched, transformed or written
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusTransformed:
		return "transformed"
	case StatusProcessed:
		return "already processed"
	case StatusIgnored:
		return "ignored"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 File is one output document of a source
type File struct {
	Kind string // log.KindCollection or log.KindEnvironment
	output.FileInfo
}

// 📦 Outcome is the result of an operation on one source document
type Outcome struct {
	Source   source.Document
	Status   Status
	Name     string // collection name after the transform
	Version  string
	Mode     transform.Mode
	DryRun   bool   // files were checked, not written
	Reason   string // ignore pattern, or the error message
	Files    []File
	Warnings []transform.Warning
	Stats    transform.Stats
	Err      error
}

// Changed reports whether any output file is new or modified
func (o *Outcome) Changed() bool {
	for _, f := range o.Files {
		if f.Status == output.StatusNew || f.Status == output.StatusModified {
			return true
		}
	}
	return false
}

type base struct {
	opts    Options
	fetcher Fetcher
}

// ignored returns the first ignore pattern matching location
func (b *base) ignored(location string) (string, bool) {
	slashed := matchPath(location)
	for _, pattern := range b.opts.Ignore {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return pattern, true
		}
		if ok, _ := doublestar.Match(pattern, path.Base(slashed)); ok {
			return pattern, true
		}
	}
	return "", false
}

// produce fetches and transforms doc. A nil result means out is final.
func (b *base) produce(ctx context.Context, doc source.Document, out *Outcome) *transform.Result {
	if pattern, ok := b.ignored(doc.Location); ok {
		out.Status = StatusIgnored
		out.Reason = pattern
		return nil
	}

	raw, err := b.fetcher.Fetch(ctx, doc)
	if err != nil {
		b.fail(out, errors.Errorf("fetching: %w", err))
		return nil
	}

	res, err := transform.Transform(ctx, raw, b.opts.Transform)
	if err != nil {
		if errors.Is(err, transform.ErrAlreadyProcessed) {
			out.Status = StatusProcessed
			out.Reason = err.Error()
			return nil
		}
		b.fail(out, errors.Errorf("transforming: %w", err))
		return nil
	}

	out.Name = res.NewName
	out.Warnings = res.Warnings
	out.Stats = res.Stats
	return res
}

func (b *base) fail(out *Outcome, err error) {
	out.Status = StatusFailed
	out.Err = err
	out.Reason = err.Error()
}

func (b *base) newOutcome(doc source.Document) *Outcome {
	return &Outcome{
		Source:  doc,
		Version: b.opts.Transform.Version,
		Mode:    b.opts.Transform.Mode,
	}
}

type pendingFile struct {
	kind    string
	path    string
	content []byte
}

// outputs lists the documents a result produces, collection first
func outputs(res *transform.Result) []pendingFile {
	files := []pendingFile{
		{kind: log.KindCollection, path: output.CollectionFileName(res.NewName), content: res.Collection},
	}
	if res.Environment != nil {
		files = append(files, pendingFile{
			kind:    log.KindEnvironment,
			path:    output.EnvironmentFileName(res.NewName),
			content: res.Environment,
		})
	}
	return files
}

// matchPath is the form of location ignore patterns are matched against
func matchPath(location string) string {
	if source.SchemeOf(location) != source.SchemeFile {
		return location
	}
	return path.Clean(filepath.ToSlash(location))
}
