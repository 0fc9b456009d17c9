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
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DirectoryPattern selects the documents of a directory source
const DirectoryPattern = "**/*.json"

func init() {
	Register(SchemeFile, func(ctx context.Context) (Provider, error) {
		return &FileProvider{}, nil
	})
}

// 📁 FileProvider reads local files, directories and doublestar globs
type FileProvider struct{}

// IsPattern reports whether s holds doublestar glob syntax
func IsPattern(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func (p *FileProvider) Resolve(ctx context.Context, location string) ([]string, error) {
	location = strings.TrimPrefix(location, "file://")

	if IsPattern(location) {
		matches, err := doublestar.FilepathGlob(location, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("expanding glob: %w", err)
		}
		zerolog.Ctx(ctx).Debug().Str("pattern", location).Int("matches", len(matches)).Msg("expanded glob")
		return matches, nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, errors.Errorf("checking source: %w", err)
	}
	if !info.IsDir() {
		return []string{location}, nil
	}

	pattern := filepath.ToSlash(filepath.Clean(location)) + "/" + DirectoryPattern
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("listing directory: %w", err)
	}
	return matches, nil
}

func (p *FileProvider) Fetch(ctx context.Context, location string) ([]byte, error) {
	data, err := os.ReadFile(strings.TrimPrefix(location, "file://"))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return data, nil
}
