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

package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/walteh/collectionlint/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// DefaultDebounce is how long a document has to stay quiet before it is handled
const DefaultDebounce = 300 * time.Millisecond

// Handler handles changed documents and returns the paths it wrote. Events for
// those paths are not reported again.
type Handler func(ctx context.Context, docs []source.Document) []string

// 👀 Watcher reports local source documents that were created or written
type Watcher struct {
	fsw      *fsnotify.Watcher
	roots    []root
	handle   Handler
	debounce time.Duration
	pending  map[string]time.Time
	produced map[string]struct{}
}

// root is one watched source. Paths are absolute and slash separated in pattern.
type root struct {
	dir       string
	recursive bool
	pattern   string // doublestar pattern for directory and glob sources
	file      string // the single file of a file source
}

// 🏭 New watches the directories behind sources. Only local sources can be watched.
func New(ctx context.Context, sources []string, handle Handler) (*Watcher, error) {
	w := &Watcher{
		handle:   handle,
		debounce: DefaultDebounce,
		pending:  make(map[string]time.Time),
		produced: make(map[string]struct{}),
	}

	for _, s := range sources {
		if source.SchemeOf(s) != source.SchemeFile {
			return nil, errors.Errorf("cannot watch %s: only local sources can be watched", s)
		}
		r, err := newRoot(strings.TrimPrefix(s, "file://"))
		if err != nil {
			return nil, err
		}
		w.roots = append(w.roots, r)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("creating watcher: %w", err)
	}
	w.fsw = fsw

	for _, r := range w.roots {
		if err := w.add(ctx, r.dir, r.recursive); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

func newRoot(location string) (root, error) {
	abs, err := filepath.Abs(location)
	if err != nil {
		return root{}, errors.Errorf("watching %s: %w", location, err)
	}

	if source.IsPattern(abs) {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(abs))
		return root{dir: filepath.FromSlash(base), recursive: true, pattern: filepath.ToSlash(abs)}, nil
	}

	info, err := os.Stat(abs)
	if err != nil {
		return root{}, errors.Errorf("watching %s: %w", location, err)
	}
	if info.IsDir() {
		return root{dir: abs, recursive: true, pattern: filepath.ToSlash(abs) + "/" + source.DirectoryPattern}, nil
	}
	return root{dir: filepath.Dir(abs), file: abs}, nil
}

// WithDebounce sets how long a document has to stay quiet before it is handled
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// add watches dir, and every directory below it when recursive
func (w *Watcher) add(ctx context.Context, dir string, recursive bool) error {
	if !recursive {
		if err := w.fsw.Add(dir); err != nil {
			return errors.Errorf("watching %s: %w", dir, err)
		}
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.Errorf("watching %s: %w", path, err)
		}
		zerolog.Ctx(ctx).Debug().Str("dir", path).Msg("watching directory")
		return nil
	})
}

// Close stops watching. Run closes the watcher when it returns.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// 🔄 Run reports changes until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	logger := zerolog.Ctx(ctx)

	tick := w.debounce / 3
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")

		case <-ticker.C:
			w.flush(ctx, time.Now())
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}

	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.underRecursiveRoot(path) {
				if err := w.add(ctx, path, true); err != nil {
					zerolog.Ctx(ctx).Warn().Err(err).Str("dir", path).Msg("watching new directory")
				}
			}
			return
		}
	}

	if _, ok := w.produced[path]; ok {
		return
	}
	if !w.matches(path) {
		return
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Str("op", event.Op.String()).Msg("source changed")
	w.pending[path] = time.Now()
}

// flush hands every document that has been quiet for the debounce duration to the handler
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var due []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			due = append(due, path)
			delete(w.pending, path)
		}
	}
	if len(due) == 0 {
		return
	}
	sort.Strings(due)

	docs := make([]source.Document, len(due))
	for i, path := range due {
		docs[i] = source.Document{Location: path, Scheme: source.SchemeFile}
	}

	w.Ignore(w.handle(ctx, docs)...)
}

// Ignore drops future events for paths, such as output the caller wrote itself
func (w *Watcher) Ignore(paths ...string) {
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			w.produced[abs] = struct{}{}
		}
	}
}

func (w *Watcher) matches(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, r := range w.roots {
		if r.file != "" {
			if r.file == path {
				return true
			}
			continue
		}
		if ok, _ := doublestar.Match(r.pattern, slashed); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) underRecursiveRoot(path string) bool {
	for _, r := range w.roots {
		if r.recursive && strings.HasPrefix(path, r.dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
