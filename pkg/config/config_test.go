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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/collectionlint/pkg/transform"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_yaml",
			filename: ".collectionlint.yaml",
			config: `
version: Version2
mode: environment
url_variable: apiUrl
concat_names: true
assertions:
  - pm.test("custom", function () { pm.expect(1).to.eql(1); });
sources:
  - collections/**/*.json
ignore:
  - "**/*_Version*.json"
output: out
async: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "Version2", cfg.Version, "version should match")
				assert.Equal(t, "environment", cfg.Mode, "mode should match")
				assert.Equal(t, "apiUrl", cfg.URLVariable, "url variable should match")
				assert.True(t, cfg.ConcatNames, "concat names should be set")
				assert.Len(t, cfg.Assertions, 1, "should have 1 assertion")
				assert.Equal(t, []string{"collections/**/*.json"}, cfg.Sources, "sources should match")
				assert.Equal(t, []string{"**/*_Version*.json"}, cfg.Ignore, "ignore should match")
				assert.Equal(t, "out", cfg.Output, "output should match")
				assert.True(t, cfg.Async, "async should be set")
			},
		},
		{
			name:     "valid_json",
			filename: ".collectionlint.json",
			config:   `{"version": "v1", "sources": ["a.json"], "concat_names": true}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "v1", cfg.Version, "version should match")
				assert.Equal(t, []string{"a.json"}, cfg.Sources, "sources should match")
				assert.True(t, cfg.ConcatNames, "concat names should be set")
			},
		},
		{
			name:     "valid_hcl",
			filename: ".collectionlint.hcl",
			config: `
version      = "v3"
mode         = "collection"
sources      = ["a.json", "b/*.json"]
assertions   = ["pm.test(\"x\", function () {});"]
output       = "dist"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "v3", cfg.Version, "version should match")
				assert.Equal(t, "collection", cfg.Mode, "mode should match")
				assert.Equal(t, []string{"a.json", "b/*.json"}, cfg.Sources, "sources should match")
				assert.Equal(t, []string{`pm.test("x", function () {});`}, cfg.Assertions, "assertions should match")
				assert.Equal(t, "dist", cfg.Output, "output should match")
			},
		},
		{
			name:     "hcl_reads_environment",
			filename: "config.hcl",
			config:   `version = env.COLLECTIONLINT_TEST_VERSION`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env", cfg.Version, "version should come from the environment")
			},
		},
		{
			name:     "empty_yaml",
			filename: "config.yml",
			config:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "", cfg.Version, "empty file should decode to zero config")
			},
		},
		{
			name:        "unknown_yaml_field",
			filename:    "config.yaml",
			config:      "version: v1\nprovider: github\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			filename:    "config.json",
			config:      `{"version": "v1", "destination": "x"}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "invalid_hcl",
			filename:    "config.hcl",
			config:      `version = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unsupported_extension",
			filename:    "config.toml",
			config:      `version = "v1"`,
			wantErr:     true,
			errContains: "no parser found",
		},
	}

	t.Setenv("COLLECTIONLINT_TEST_VERSION", "from-env")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644), "writing config should succeed")

			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			cfg, err := Load(ctx, path)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, path, cfg.Location(), "location should be recorded")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults",
			cfg:  Config{Version: " v1 "},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "v1", cfg.Version, "version should be trimmed")
				assert.Equal(t, string(transform.ModeCollection), cfg.Mode, "mode should default")
				assert.Equal(t, transform.DefaultURLVariable, cfg.URLVariable, "url variable should default")
				assert.Equal(t, DefaultOutput, cfg.Output, "output should default")
			},
		},
		{
			name: "output_is_cleaned",
			cfg:  Config{Version: "v1", Output: "out/../dist/"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "dist", cfg.Output)
			},
		},
		{
			name:        "missing_version",
			cfg:         Config{},
			wantErr:     true,
			errContains: "version is required",
		},
		{
			name:        "version_with_separator",
			cfg:         Config{Version: "v1/x"},
			wantErr:     true,
			errContains: "path separators",
		},
		{
			name:        "unknown_mode",
			cfg:         Config{Version: "v1", Mode: "v3"},
			wantErr:     true,
			errContains: "unknown mode",
		},
		{
			name:        "templated_url_variable",
			cfg:         Config{Version: "v1", URLVariable: "{{apiUrl}}"},
			wantErr:     true,
			errContains: "bare variable name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate(context.Background())
			if tt.wantErr {
				require.Error(t, err, "Validate should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}
			require.NoError(t, err, "Validate should succeed")
			if tt.check != nil {
				tt.check(t, &cfg)
			}
		})
	}
}

func TestLoadAssertions(t *testing.T) {
	dir := t.TempDir()
	assertionsFile := "pm.test(\"a\", function () {});\r\n\n   \npm.test(\"b\", function () {});\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "checks.js"), []byte(assertionsFile), 0644))

	configPath := filepath.Join(dir, ".collectionlint.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: v1\nassertions_file: checks.js\nassertions:\n  - inline\n"), 0644))

	ctx := context.Background()
	cfg, err := Load(ctx, configPath)
	require.NoError(t, err)

	got, err := cfg.LoadAssertions(ctx)
	require.NoError(t, err, "assertions should load")
	assert.Equal(t, []string{
		"inline",
		`pm.test("a", function () {});`,
		`pm.test("b", function () {});`,
	}, got, "inline assertions come first, blank lines are dropped")

	cfg.AssertionsFile = "missing.js"
	_, err = cfg.LoadAssertions(ctx)
	require.Error(t, err, "missing file should fail")
}

func TestSplitAssertions(t *testing.T) {
	assert.Nil(t, SplitAssertions(""))
	assert.Nil(t, SplitAssertions("\n\n  \n"))
	assert.Equal(t, []string{"a", "  b"}, SplitAssertions("a\n\n  b\n"))
}

func TestFind(t *testing.T) {
	dir := t.TempDir()

	_, ok := Find(dir)
	assert.False(t, ok, "empty dir should have no config")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".collectionlint.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".collectionlint.yml"), []byte(""), 0644))

	path, ok := Find(dir)
	require.True(t, ok, "config should be found")
	assert.Equal(t, filepath.Join(dir, ".collectionlint.yml"), path, "yaml should win over json")
}

func TestTransformOptions(t *testing.T) {
	cfg := Config{Version: "v2", Mode: "environment", URLVariable: "apiUrl", ConcatNames: true}
	require.NoError(t, cfg.Validate(context.Background()))

	opts := cfg.TransformOptions([]string{"x"})
	assert.Equal(t, transform.Options{
		Version:     "v2",
		Assertions:  []string{"x"},
		ConcatNames: true,
		Mode:        transform.ModeEnvironment,
		URLVariable: "apiUrl",
	}, opts)
}
