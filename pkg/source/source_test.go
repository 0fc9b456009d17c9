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
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "creating parent dir")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing %s", name)
	}
}

func TestSchemeOf(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     string
	}{
		{name: "relative_file", location: "pets.json", want: SchemeFile},
		{name: "glob", location: "collections/**/*.json", want: SchemeFile},
		{name: "file_url", location: "file:///tmp/a.json", want: SchemeFile},
		{name: "http", location: "http://example.com/a.json", want: SchemeHTTP},
		{name: "https_upper", location: "HTTPS://example.com/a.json", want: SchemeHTTP},
		{name: "github", location: "github://walteh/apis/pets.json@main", want: SchemeGitHub},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SchemeOf(tt.location))
		})
	}
}

func TestFileProviderResolve(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.json":          "{}",
		"b.json":          "{}",
		"notes.txt":       "hi",
		"nested/c.json":   "{}",
		"nested/d.yaml":   "x: 1",
		"nested/e/f.json": "{}",
	})

	tests := []struct {
		name     string
		location string
		want     []string
		wantErr  bool
	}{
		{
			name:     "single_file",
			location: filepath.Join(dir, "a.json"),
			want:     []string{filepath.Join(dir, "a.json")},
		},
		{
			name:     "flat_glob",
			location: filepath.ToSlash(dir) + "/*.json",
			want:     []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")},
		},
		{
			name:     "recursive_glob",
			location: filepath.ToSlash(dir) + "/nested/**/*.json",
			want:     []string{filepath.Join(dir, "nested", "c.json"), filepath.Join(dir, "nested", "e", "f.json")},
		},
		{
			name:     "directory",
			location: filepath.Join(dir, "nested"),
			want:     []string{filepath.Join(dir, "nested", "c.json"), filepath.Join(dir, "nested", "e", "f.json")},
		},
		{
			name:     "missing_file",
			location: filepath.Join(dir, "missing.json"),
			wantErr:  true,
		},
	}

	p := &FileProvider{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Resolve(context.Background(), tt.location)
			if tt.wantErr {
				require.Error(t, err, "resolve should fail")
				return
			}
			require.NoError(t, err, "resolve should succeed")
			assert.ElementsMatch(t, tt.want, got, "resolved files should match")
		})
	}
}

func TestResolveSortsAndDedupes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"b.json": "{}", "a.json": "{}"})

	docs, err := Resolve(context.Background(), []string{
		filepath.ToSlash(dir) + "/*.json",
		filepath.Join(dir, "a.json"),
	})
	require.NoError(t, err)

	require.Len(t, docs, 2, "duplicate location should be dropped")
	assert.Equal(t, filepath.Join(dir, "a.json"), docs[0].Location)
	assert.Equal(t, filepath.Join(dir, "b.json"), docs[1].Location)
	assert.Equal(t, SchemeFile, docs[0].Scheme)
}

func TestResolveNoMatch(t *testing.T) {
	dir := t.TempDir()

	_, err := Resolve(context.Background(), []string{filepath.ToSlash(dir) + "/*.json"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoMatch), "error should be ErrNoMatch")
}

func TestFetchFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.json": `{"info":{}}`})

	data, err := Fetch(context.Background(), Document{Location: filepath.Join(dir, "a.json"), Scheme: SchemeFile})
	require.NoError(t, err)
	assert.Equal(t, `{"info":{}}`, string(data))
}

func TestHTTPProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pets.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"info":{"name":"Pets"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.Client())
	ctx := context.Background()

	locs, err := p.Resolve(ctx, srv.URL+"/pets.json")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/pets.json"}, locs, "URL should resolve to itself")

	data, err := p.Fetch(ctx, srv.URL+"/pets.json")
	require.NoError(t, err, "download should succeed")
	assert.JSONEq(t, `{"info":{"name":"Pets"}}`, string(data))

	_, err = p.Fetch(ctx, srv.URL+"/missing.json")
	require.Error(t, err, "404 should fail")
	assert.Contains(t, err.Error(), "unexpected status code: 404")
}

func TestGetUnknownScheme(t *testing.T) {
	_, err := Get(context.Background(), "ftp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source provider")
}
