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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/collectionlint/pkg/transform"
	"gitlab.com/tozd/go/errors"
)

// DefaultNames are the config files looked up when none is given
var DefaultNames = []string{
	".collectionlint.yaml",
	".collectionlint.yml",
	".collectionlint.json",
	".collectionlint.hcl",
}

// DefaultOutput is the output directory when none is configured
const DefaultOutput = "."

// 🔌 Parser decodes one config file format
type Parser interface {
	// 📝 Parse decodes the config without validating it
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var parsers []Parser

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config holds everything a transform run needs
type Config struct {
	Version        string   `json:"version" yaml:"version" hcl:"version,optional"`
	Mode           string   `json:"mode,omitempty" yaml:"mode,omitempty" hcl:"mode,optional"`
	URLVariable    string   `json:"url_variable,omitempty" yaml:"url_variable,omitempty" hcl:"url_variable,optional"`
	ConcatNames    bool     `json:"concat_names,omitempty" yaml:"concat_names,omitempty" hcl:"concat_names,optional"`
	Assertions     []string `json:"assertions,omitempty" yaml:"assertions,omitempty" hcl:"assertions,optional"`
	AssertionsFile string   `json:"assertions_file,omitempty" yaml:"assertions_file,omitempty" hcl:"assertions_file,optional"`
	Sources        []string `json:"sources,omitempty" yaml:"sources,omitempty" hcl:"sources,optional"`
	Ignore         []string `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
	Output         string   `json:"output,omitempty" yaml:"output,omitempty" hcl:"output,optional"`
	Async          bool     `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`

	location string
}

// 🎯 Load reads and decodes a config file. It does not validate: command-line
// flags are applied on top first.
func Load(ctx context.Context, path string) (*Config, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	return cfg, nil
}

// 🔍 Find returns the first default config file present in dir
func Find(dir string) (string, bool) {
	for _, name := range DefaultNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Location is the file the config was loaded from, empty for flag-only configs
func (cfg *Config) Location() string {
	return cfg.location
}

// 🔍 Validate checks required fields and applies defaults
func (cfg *Config) Validate(ctx context.Context) error {
	cfg.Version = strings.TrimSpace(cfg.Version)
	if cfg.Version == "" {
		return errors.Errorf("version is required")
	}
	if strings.ContainsAny(cfg.Version, "/\\") {
		return errors.Errorf("version %q must not contain path separators", cfg.Version)
	}

	mode, err := transform.ParseMode(cfg.Mode)
	if err != nil {
		return errors.Errorf("mode: %w", err)
	}
	cfg.Mode = string(mode)

	if cfg.URLVariable == "" {
		cfg.URLVariable = transform.DefaultURLVariable
	}
	if strings.ContainsAny(cfg.URLVariable, "{} \t") {
		return errors.Errorf("url_variable %q must be a bare variable name", cfg.URLVariable)
	}

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	cfg.Output = filepath.Clean(cfg.Output)

	for i, src := range cfg.Sources {
		cfg.Sources[i] = strings.TrimSpace(src)
	}

	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("configuration validated")
	return nil
}

// 📋 LoadAssertions returns the inline assertions followed by those of the
// assertions file, one per line with blank lines dropped. A relative
// assertions file is resolved against the config file's directory.
func (cfg *Config) LoadAssertions(ctx context.Context) ([]string, error) {
	out := append([]string{}, cfg.Assertions...)
	if cfg.AssertionsFile == "" {
		return out, nil
	}

	path := cfg.AssertionsFile
	if !filepath.IsAbs(path) && cfg.location != "" {
		path = filepath.Join(filepath.Dir(cfg.location), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading assertions file: %w", err)
	}

	fromFile := SplitAssertions(string(data))
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("assertions", len(fromFile)).Msg("loaded assertions file")
	return append(out, fromFile...), nil
}

// SplitAssertions splits newline-separated statements, dropping blank lines
func SplitAssertions(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// 🔄 TransformOptions builds the transform options for a validated config
func (cfg *Config) TransformOptions(assertions []string) transform.Options {
	return transform.Options{
		Version:     cfg.Version,
		Assertions:  assertions,
		ConcatNames: cfg.ConcatNames,
		Mode:        transform.Mode(cfg.Mode),
		URLVariable: cfg.URLVariable,
	}
}

// 📝 String returns a one-line summary of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("version=%s mode=%s url=%s sources=%d -> %s",
		cfg.Version, cfg.Mode, cfg.URLVariable, len(cfg.Sources), cfg.Output)
}
