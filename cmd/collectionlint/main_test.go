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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/collectionlint/pkg/source"
)

const petsCollection = `{
  "info": {"name": "Pets", "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"},
  "item": [
    {
      "name": "list pets",
      "request": {"method": "GET", "url": "https://api.example.com/pets"},
      "response": [{"name": "ok", "code": 200, "body": "{\"id\": 1}"}]
    }
  ]
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	level := zerolog.GlobalLevel()
	defaultLogger := zerolog.DefaultContextLogger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(level)
		zerolog.DefaultContextLogger = defaultLogger
	})

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "writing %s", path)
	return path
}

func TestTransformCommand(t *testing.T) {
	tests := []struct {
		name        string
		args        func(src, out string) []string
		wantFiles   []string
		noFiles     []string
		wantErr     bool
		errContains string
		errIs       error
	}{
		{
			name: "collection_mode",
			args: func(src, out string) []string {
				return []string{"transform", "--version", "v1", "-o", out, filepath.Join(src, "pets.json")}
			},
			wantFiles: []string{"Pets_v1.json"},
			noFiles:   []string{"Pets_v1-environment.json"},
		},
		{
			name: "environment_mode",
			args: func(src, out string) []string {
				return []string{"transform", "--version", "v1", "--mode", "environment", "--url-variable", "apiUrl", "-o", out, filepath.Join(src, "pets.json")}
			},
			wantFiles: []string{"Pets_v1.json", "Pets_v1-environment.json"},
		},
		{
			name: "directory_source",
			args: func(src, out string) []string {
				return []string{"transform", "--version", "v2", "--async", "-o", out, src}
			},
			wantFiles: []string{"Pets_v2.json"},
		},
		{
			name: "ignored_source",
			args: func(src, out string) []string {
				return []string{"transform", "--version", "v1", "--ignore", "**/pets.json", "-o", out, filepath.Join(src, "pets.json")}
			},
			noFiles: []string{"Pets_v1.json"},
		},
		{
			name: "missing_version",
			args: func(src, out string) []string {
				return []string{"transform", "-o", out, filepath.Join(src, "pets.json")}
			},
			wantErr:     true,
			errContains: "version is required",
		},
		{
			name: "no_sources",
			args: func(src, out string) []string {
				return []string{"transform", "--version", "v1", "-o", out}
			},
			wantErr:     true,
			errContains: "no sources given",
		},
		{
			name: "unmatched_glob",
			args: func(src, out string) []string {
				return []string{"transform", "--version", "v1", "-o", out, filepath.Join(src, "*.yaml")}
			},
			wantErr: true,
			errIs:   source.ErrNoMatch,
		},
		{
			name: "malformed_source",
			args: func(src, out string) []string {
				return []string{"transform", "--version", "v1", "-o", out, filepath.Join(src, "broken", "bad.json")}
			},
			wantErr:     true,
			errContains: "1 of 1 sources failed",
		},
		{
			name: "bad_mode",
			args: func(src, out string) []string {
				return []string{"transform", "--version", "v1", "--mode", "v3", filepath.Join(src, "pets.json")}
			},
			wantErr:     true,
			errContains: "unknown mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := t.TempDir()
			out := filepath.Join(t.TempDir(), "dist")
			writeFile(t, filepath.Join(src, "pets.json"), petsCollection)
			if tt.name == "malformed_source" {
				writeFile(t, filepath.Join(src, "broken", "bad.json"), "{not json")
			}

			stdout, err := execute(t, tt.args(src, out)...)
			if tt.wantErr {
				require.Error(t, err, "command should fail")
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				}
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				return
			}

			require.NoError(t, err, "command should succeed: %s", stdout)
			for _, name := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(out, name))
			}
			for _, name := range tt.noFiles {
				assert.NoFileExists(t, filepath.Join(out, name))
			}
		})
	}
}

func TestTransformCommandWithConfig(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "dist")
	src := writeFile(t, filepath.Join(dir, "collections", "pets.json"), petsCollection)
	writeFile(t, filepath.Join(dir, "checks.js"), `pm.test("custom", function () { pm.expect(true).to.be.true; });`+"\n")
	configPath := writeFile(t, filepath.Join(dir, ".collectionlint.yaml"), `
version: v1
mode: environment
assertions_file: checks.js
sources:
  - `+src+`
output: `+out+`
`)

	_, err := execute(t, "transform", "-c", configPath, "--version", "v9")
	require.NoError(t, err, "command should succeed")

	assert.NoFileExists(t, filepath.Join(out, "Pets_v1.json"), "the flag should override the config version")
	require.FileExists(t, filepath.Join(out, "Pets_v9.json"))
	assert.FileExists(t, filepath.Join(out, "Pets_v9-environment.json"), "mode should come from the config")

	data, err := os.ReadFile(filepath.Join(out, "Pets_v9.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `pm.test(\"custom\"`, "assertions file should be applied")

	_, err = execute(t, "transform", "-c", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestTransformCommandRerun(t *testing.T) {
	src := writeFile(t, filepath.Join(t.TempDir(), "pets.json"), petsCollection)
	out := t.TempDir()

	_, err := execute(t, "transform", "--version", "Version1", "-o", out, src)
	require.NoError(t, err)

	// the output carries the version marker and is skipped, not failed
	stdout, err := execute(t, "transform", "--version", "Version2", "-o", out, filepath.Join(out, "Pets_Version1.json"))
	require.NoError(t, err, "already processed sources are not failures")
	assert.Contains(t, stdout, "already processed")
	assert.NoFileExists(t, filepath.Join(out, "Pets_Version1_Version2.json"))
}

func TestStatusCommand(t *testing.T) {
	src := writeFile(t, filepath.Join(t.TempDir(), "pets.json"), petsCollection)
	out := filepath.Join(t.TempDir(), "dist")

	stdout, err := execute(t, "status", "--version", "v1", "-o", out, src)
	require.NoError(t, err, "status should succeed")
	assert.Contains(t, stdout, "would write Pets_v1.json (new)")
	assert.NoDirExists(t, out, "status must not write")

	_, err = execute(t, "transform", "--version", "v1", "-o", out, src)
	require.NoError(t, err)

	stdout, err = execute(t, "status", "--version", "v1", "-o", out, src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "is up to date as Pets_v1")
}

func TestWatchCommand(t *testing.T) {
	src := t.TempDir()
	out := filepath.Join(t.TempDir(), "dist")
	writeFile(t, filepath.Join(src, "pets.json"), petsCollection)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := executeContext(t, ctx, "watch", "--version", "v1", "--debounce", "20ms", "-o", out, src)
		done <- err
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "Pets_v1.json"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "first run should transform existing sources")

	// give the watcher time to start before the next write
	time.Sleep(100 * time.Millisecond)
	writeFile(t, filepath.Join(src, "users.json"), strings.Replace(petsCollection, `"Pets"`, `"Users"`, 1))

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "Users_v1.json"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "new collection should be transformed")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err, "watch should stop cleanly on cancel")
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "collectionlint version info")
	assert.Contains(t, stdout, GetVersionInfo().GoVersion)
}

func TestSetupLogging(t *testing.T) {
	level := zerolog.GlobalLevel()
	defaultLogger := zerolog.DefaultContextLogger
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(level)
		zerolog.DefaultContextLogger = defaultLogger
	})

	var buf bytes.Buffer
	logger := setupLogging(&buf, false)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	assert.Same(t, logger, zerolog.DefaultContextLogger, "logger should become the context default")

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String(), "info should be filtered without --debug")

	setupLogging(&buf, true)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
