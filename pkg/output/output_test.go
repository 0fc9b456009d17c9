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

package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestManagerWrite(t *testing.T) {
	tests := []struct {
		name       string
		existing   string
		content    string
		wantStatus FileStatus
	}{
		{
			name:       "new_file",
			content:    `{"a":1}`,
			wantStatus: StatusNew,
		},
		{
			name:       "modified_file",
			existing:   `{"a":0}`,
			content:    `{"a":1}`,
			wantStatus: StatusModified,
		},
		{
			name:       "unchanged_file",
			existing:   `{"a":1}`,
			content:    `{"a":1}`,
			wantStatus: StatusUnchanged,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			path := filepath.Join("out", "Pets_v1.json")

			if tt.existing != "" {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "out"), 0755))
				require.NoError(t, os.WriteFile(filepath.Join(dir, path), []byte(tt.existing), 0644))
			}

			mgr := New(dir, nil)
			info, err := mgr.Write(ctx, path, []byte(tt.content))
			require.NoError(t, err, "write should succeed")

			assert.Equal(t, tt.wantStatus, info.Status, "status should match")
			assert.Equal(t, calculateChecksum([]byte(tt.content)), info.Checksum, "checksum should match")
			assert.Equal(t, int64(len(tt.content)), info.Size)

			got, err := os.ReadFile(filepath.Join(dir, path))
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got), "file should hold the new content")

			leftovers, err := filepath.Glob(filepath.Join(dir, "out", "*.tmp"))
			require.NoError(t, err)
			assert.Empty(t, leftovers, "temp files should be gone")

			tracked := mgr.ListFiles(ctx)
			require.Len(t, tracked, 1, "file should be tracked")
			assert.Equal(t, tt.wantStatus, tracked[0].Status)
		})
	}
}

func TestManagerDryRun(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	mgr := New(dir, nil).WithDryRun(true)
	info, err := mgr.Write(ctx, "a.json", []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, StatusNew, info.Status, "dry run should still report the status")

	_, err = os.Stat(filepath.Join(dir, "a.json"))
	assert.True(t, os.IsNotExist(err), "dry run should not write")
}

func TestManagerWriteFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocker"), []byte("x"), 0644))

	mgr := New(dir, nil)
	_, err := mgr.Write(ctx, filepath.Join("blocker", "a.json"), []byte("{}"))
	require.Error(t, err, "writing under a file should fail")

	tracked := mgr.ListFiles(ctx)
	require.Len(t, tracked, 1)
	assert.Equal(t, StatusFailed, tracked[0].Status)
	assert.Error(t, tracked[0].Error)
}

func TestManagerListFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte("{}"), 0644))

	mgr := New(dir, nil)
	_, err := mgr.Write(ctx, "c.json", []byte("{}"))
	require.NoError(t, err)
	_, err = mgr.Write(ctx, "b.json", []byte("{}"))
	require.NoError(t, err)
	_, err = mgr.Write(ctx, "a.json", []byte("{}"))
	require.NoError(t, err)

	files := mgr.ListFiles(ctx)
	require.Len(t, files, 3)
	assert.Equal(t, []string{"a.json", "b.json", "c.json"}, []string{files[0].Path, files[1].Path, files[2].Path}, "files should be sorted")
	assert.Equal(t, []FileStatus{StatusNew, StatusUnchanged, StatusNew}, []FileStatus{files[0].Status, files[1].Status, files[2].Status})

	mgr.StartOperation(ctx, 1)
	assert.Empty(t, mgr.ListFiles(ctx), "a new run should start with no files")
}

func TestManagerWriteCollision(t *testing.T) {
	tests := []struct {
		name   string
		dryRun bool
		second string
	}{
		{
			name:   "same_path",
			second: "Pets_v1.json",
		},
		{
			name:   "same_path_after_cleaning",
			second: "./Pets_v1.json",
		},
		{
			name:   "dry_run",
			dryRun: true,
			second: "Pets_v1.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			mgr := New(dir, nil).WithDryRun(tt.dryRun)

			_, err := mgr.Write(ctx, "Pets_v1.json", []byte(`{"from":"a"}`))
			require.NoError(t, err, "first write should succeed")

			_, err = mgr.Write(ctx, tt.second, []byte(`{"from":"b"}`))
			require.Error(t, err, "second write to the same path should fail")
			assert.True(t, errors.Is(err, ErrPathCollision), "error should be ErrPathCollision, got %v", err)

			if !tt.dryRun {
				got, err := os.ReadFile(filepath.Join(dir, "Pets_v1.json"))
				require.NoError(t, err)
				assert.Equal(t, `{"from":"a"}`, string(got), "first document should be kept")
			}

			files := mgr.ListFiles(ctx)
			require.Len(t, files, 1)
			assert.Equal(t, StatusNew, files[0].Status, "the first write should stay tracked")
		})
	}
}

func TestManagerConcurrentCollision(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	mgr := New(dir, nil)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = mgr.Write(ctx, "Pets_v1.json", []byte(fmt.Sprintf(`{"writer":%d}`, i)))
		}()
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			assert.Equal(t, -1, winner, "only one writer should succeed")
			winner = i
			continue
		}
		assert.True(t, errors.Is(err, ErrPathCollision), "losers should collide, got %v", err)
	}
	require.NotEqual(t, -1, winner, "one writer should succeed")

	got, err := os.ReadFile(filepath.Join(dir, "Pets_v1.json"))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf(`{"writer":%d}`, winner), string(got), "the winner's document should be on disk")

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files should be gone")
}

func TestFileNames(t *testing.T) {
	tests := []struct {
		name    string
		newName string
		wantCol string
		wantEnv string
	}{
		{
			name:    "plain",
			newName: "Pets_Version1",
			wantCol: "Pets_Version1.json",
			wantEnv: "Pets_Version1-environment.json",
		},
		{
			name:    "separators_replaced",
			newName: "Pets/Store: v2_x",
			wantCol: "Pets_Store_ v2_x.json",
			wantEnv: "Pets_Store_ v2_x-environment.json",
		},
		{
			name:    "dot_dot",
			newName: "..",
			wantCol: "collection.json",
			wantEnv: "collection-environment.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCol, CollectionFileName(tt.newName))
			assert.Equal(t, tt.wantEnv, EnvironmentFileName(tt.newName))
		})
	}
}
