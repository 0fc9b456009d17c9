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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/collectionlint/pkg/source"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func noop(ctx context.Context, docs []source.Document) []string {
	return nil
}

func newTestWatcher(t *testing.T, sources []string, handle Handler) *Watcher {
	t.Helper()
	w, err := New(testContext(t), sources, handle)
	require.NoError(t, err, "creating watcher should succeed")
	t.Cleanup(func() { w.Close() })
	return w
}

func TestNewRejectsRemoteSources(t *testing.T) {
	for _, src := range []string{"https://example.com/pets.json", "github://acme/api/pets.json"} {
		_, err := New(testContext(t), []string{src}, noop)
		require.Error(t, err, "%s should be rejected", src)
		assert.Contains(t, err.Error(), "only local sources can be watched")
	}

	_, err := New(testContext(t), []string{filepath.Join(t.TempDir(), "missing.json")}, noop)
	require.Error(t, err, "missing file should be rejected")
}

func TestMatches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dir", "nested"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "glob"), 0755))
	single := filepath.Join(dir, "single.json")
	require.NoError(t, os.WriteFile(single, []byte("{}"), 0644))

	w := newTestWatcher(t, []string{
		filepath.Join(dir, "dir"),
		filepath.Join(dir, "glob", "*.postman.json"),
		single,
	}, noop)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "directory_child", path: filepath.Join(dir, "dir", "a.json"), want: true},
		{name: "directory_nested", path: filepath.Join(dir, "dir", "nested", "b.json"), want: true},
		{name: "directory_not_json", path: filepath.Join(dir, "dir", "notes.txt"), want: false},
		{name: "glob_match", path: filepath.Join(dir, "glob", "api.postman.json"), want: true},
		{name: "glob_miss", path: filepath.Join(dir, "glob", "api.json"), want: false},
		{name: "single_file", path: single, want: true},
		{name: "single_file_sibling", path: filepath.Join(dir, "other.json"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.matches(tt.path))
		})
	}
}

func TestHandleEventDebounces(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(t)

	var got [][]source.Document
	w := newTestWatcher(t, []string{dir}, func(ctx context.Context, docs []source.Document) []string {
		got = append(got, docs)
		return []string{filepath.Join(dir, "Pets_v1.json")}
	}).WithDebounce(time.Second)

	pets := filepath.Join(dir, "pets.json")
	w.handleEvent(ctx, fsnotify.Event{Name: pets, Op: fsnotify.Create})
	w.handleEvent(ctx, fsnotify.Event{Name: pets, Op: fsnotify.Write})
	w.handleEvent(ctx, fsnotify.Event{Name: filepath.Join(dir, "pets.txt"), Op: fsnotify.Write})
	w.handleEvent(ctx, fsnotify.Event{Name: filepath.Join(dir, "gone.json"), Op: fsnotify.Remove})

	start := w.pending[pets]
	require.False(t, start.IsZero(), "matching event should be pending")
	assert.Len(t, w.pending, 1, "only the matching write should be pending")

	w.flush(ctx, start.Add(500*time.Millisecond))
	assert.Empty(t, got, "nothing is due before the debounce")

	w.flush(ctx, start.Add(2*time.Second))
	require.Len(t, got, 1, "due document should be handled")
	assert.Equal(t, []source.Document{{Location: pets, Scheme: source.SchemeFile}}, got[0])
	assert.Empty(t, w.pending)

	w.handleEvent(ctx, fsnotify.Event{Name: filepath.Join(dir, "Pets_v1.json"), Op: fsnotify.Create})
	assert.Empty(t, w.pending, "written output should not be reported")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(testContext(t))

	changed := make(chan []source.Document, 4)
	w := newTestWatcher(t, []string{dir}, func(ctx context.Context, docs []source.Document) []string {
		changed <- docs
		return nil
	}).WithDebounce(20 * time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	nested := filepath.Join(dir, "nested")
	require.NoError(t, os.MkdirAll(nested, 0755))
	// the new directory has to be picked up before a file in it can be seen
	time.Sleep(50 * time.Millisecond)

	pets := filepath.Join(nested, "pets.json")
	require.NoError(t, os.WriteFile(pets, []byte("{}"), 0644))

	select {
	case docs := <-changed:
		require.Len(t, docs, 1)
		assert.Equal(t, pets, docs[0].Location)
	case <-time.After(5 * time.Second):
		t.Fatal("change was not reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "run should stop cleanly")
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop")
	}
}
