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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/collectionlint/cmd/collectionlint/opts"
	"github.com/walteh/collectionlint/pkg/config"
	"github.com/walteh/collectionlint/pkg/log"
	"github.com/walteh/collectionlint/pkg/operation"
	"github.com/walteh/collectionlint/pkg/output"
	"github.com/walteh/collectionlint/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// NewTransformCmd creates the transform command
func NewTransformCmd(root *opts.RootOpts) *cobra.Command {
	flags := &transformFlags{}

	cmd := &cobra.Command{
		Use:   "transform [sources...]",
		Short: "Version and instrument Postman collections",
		Long: `Transform rewrites Postman collections into versioned test suites.
It will:
1. Rename each collection to <name>_<version>
2. Move request headers into collection variables
3. Template request URLs with {{baseUrl}}, or an environment variable in environment mode
4. Split requests into one request per saved response example
5. Add pm.test assertions for status, response time and every body field

Sources are files, directories, doublestar globs, http(s) URLs or
github://owner/repo/path[@ref]. Output goes to <out>/<name>_<version>.json and,
in environment mode, <out>/<name>_<version>-environment.json.`,
		Example: `  collectionlint transform --version Version2 collections/*.json
  collectionlint transform --mode environment --url-variable apiUrl -o dist api.json
  collectionlint transform --version v3 github://acme/api-tests/postman/**/*.json@main`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withCommandLogger(cmd.Context(), "transform")

			r, err := prepare(ctx, cmd, root, flags, args)
			if err != nil {
				return err
			}

			t, err := newTransformer(ctx, cmd, r)
			if err != nil {
				return err
			}

			summary, _, err := t.run(ctx, r.docs)
			if err != nil {
				return err
			}
			return summary.Err()
		},
	}

	flags.bind(cmd)

	return cmd
}

func withCommandLogger(ctx context.Context, command string) context.Context {
	return zerolog.Ctx(ctx).With().Str("command", command).Logger().WithContext(ctx)
}

// 🔄 transformer runs the transform operation and prints to the command output
type transformer struct {
	cfg      *config.Config
	op       operation.Operation
	mgr      *output.Manager
	console  *log.Logger
	reporter *operation.Reporter
}

func newTransformer(ctx context.Context, cmd *cobra.Command, r *run) (*transformer, error) {
	logger := zerolog.Ctx(ctx)
	mgr := output.New(r.cfg.Output, logger)

	op, err := operation.NewTransformOperation(operation.Options{
		Transform: r.cfg.TransformOptions(r.assertions),
		Ignore:    r.cfg.Ignore,
		Writer:    mgr,
	})
	if err != nil {
		return nil, errors.Errorf("creating operation: %w", err)
	}

	console := log.NewWithZerolog(cmd.OutOrStdout(), *logger)

	return &transformer{
		cfg:      r.cfg,
		op:       op,
		mgr:      mgr,
		console:  console,
		reporter: operation.NewReporter(console, log.NewUserLoggerTo(ctx, cmd.OutOrStdout())),
	}, nil
}

// run transforms docs and returns the summary and every output path it handled
func (t *transformer) run(ctx context.Context, docs []source.Document) (operation.Summary, []string, error) {
	t.console.Header("transform " + t.cfg.String())

	outcomes, err := operation.NewRunner(zerolog.Ctx(ctx), t.cfg.Async).
		WithProgress(t.mgr).
		WithReporter(t.reporter.Report).
		Run(ctx, t.op, docs)
	if err != nil {
		return operation.Summary{}, nil, errors.Errorf("transforming collections: %w", err)
	}

	var written []string
	for _, f := range t.mgr.ListFiles(ctx) {
		written = append(written, filepath.Join(t.mgr.BaseDir(), f.Path))
	}

	summary := operation.Summarize(outcomes)
	if summary.Failed > 0 {
		t.console.Error(summary.String())
	} else {
		t.console.Success(summary.String())
	}
	return summary, written, nil
}
