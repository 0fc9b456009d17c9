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

package commands

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/collectionlint/cmd/collectionlint/opts"
	"github.com/walteh/collectionlint/pkg/config"
	"github.com/walteh/collectionlint/pkg/source"
	"github.com/walteh/collectionlint/pkg/transform"
	"gitlab.com/tozd/go/errors"
)

// transformFlags are shared by transform and status. Set flags override the config file.
type transformFlags struct {
	version        string
	assertions     []string
	assertionsFile string
	concatNames    bool
	urlVariable    string
	mode           string
	output         string
	ignore         []string
	async          bool
}

func (f *transformFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.version, "version", "", "version tag appended to the collection name (required here or in the config)")
	fs.StringArrayVar(&f.assertions, "assert", nil, "custom pm.test statement added to every request (repeatable)")
	fs.StringVar(&f.assertionsFile, "assertions-file", "", "file of custom pm.test statements, one per line")
	fs.BoolVar(&f.concatNames, "concat-names", false, "append the response example name to request names")
	fs.StringVar(&f.urlVariable, "url-variable", "", "environment variable that replaces {{baseUrl}} (default \""+transform.DefaultURLVariable+"\")")
	fs.StringVar(&f.mode, "mode", "", "collection or environment (default \""+string(transform.ModeCollection)+"\")")
	fs.StringVarP(&f.output, "out", "o", "", "output directory (default \""+config.DefaultOutput+"\")")
	fs.StringArrayVar(&f.ignore, "ignore", nil, "doublestar pattern of sources to skip (repeatable)")
	fs.BoolVar(&f.async, "async", false, "transform sources concurrently")
}

// apply copies every flag the user set onto cfg. Positional sources replace configured ones.
func (f *transformFlags) apply(cmd *cobra.Command, cfg *config.Config, args []string) {
	fs := cmd.Flags()
	if fs.Changed("version") {
		cfg.Version = f.version
	}
	if fs.Changed("assert") {
		cfg.Assertions = append(cfg.Assertions, f.assertions...)
	}
	if fs.Changed("assertions-file") {
		// flag paths are relative to the working directory, not the config file
		path := f.assertionsFile
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		cfg.AssertionsFile = path
	}
	if fs.Changed("concat-names") {
		cfg.ConcatNames = f.concatNames
	}
	if fs.Changed("url-variable") {
		cfg.URLVariable = f.urlVariable
	}
	if fs.Changed("mode") {
		cfg.Mode = f.mode
	}
	if fs.Changed("out") {
		cfg.Output = f.output
	}
	if fs.Changed("ignore") {
		cfg.Ignore = append(cfg.Ignore, f.ignore...)
	}
	if fs.Changed("async") {
		cfg.Async = f.async
	}
	if len(args) > 0 {
		cfg.Sources = args
	}
}

// 📦 run is a validated configuration with its assertions and resolved sources
type run struct {
	cfg        *config.Config
	assertions []string
	docs       []source.Document
}

func prepare(ctx context.Context, cmd *cobra.Command, root *opts.RootOpts, flags *transformFlags, args []string) (*run, error) {
	cfg, err := root.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	flags.apply(cmd, cfg, args)

	if err := cfg.Validate(ctx); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	if len(cfg.Sources) == 0 {
		return nil, errors.Errorf("no sources given: pass them as arguments or list them under sources in the config")
	}

	assertions, err := cfg.LoadAssertions(ctx)
	if err != nil {
		return nil, err
	}

	docs, err := source.Resolve(ctx, cfg.Sources)
	if err != nil {
		return nil, err
	}

	return &run{cfg: cfg, assertions: assertions, docs: docs}, nil
}
