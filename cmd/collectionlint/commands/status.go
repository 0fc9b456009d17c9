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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/collectionlint/cmd/collectionlint/opts"
	"github.com/walteh/collectionlint/pkg/log"
	"github.com/walteh/collectionlint/pkg/operation"
	"github.com/walteh/collectionlint/pkg/output"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates the status command
func NewStatusCmd(root *opts.RootOpts) *cobra.Command {
	flags := &transformFlags{}

	cmd := &cobra.Command{
		Use:   "status [sources...]",
		Short: "Show what transform would do without writing",
		Long: `Status runs the transform in memory and compares the result with the output directory.
It will:
1. Report sources that are ignored or already processed
2. Report sources that fail to fetch or transform
3. Report which output documents would be created or modified

Nothing is written. Status takes the same flags and config as transform.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withCommandLogger(cmd.Context(), "status")
			logger := zerolog.Ctx(ctx)

			r, err := prepare(ctx, cmd, root, flags, args)
			if err != nil {
				return err
			}

			mgr := output.New(r.cfg.Output, logger).WithDryRun(true)

			op, err := operation.NewStatusOperation(operation.Options{
				Transform: r.cfg.TransformOptions(r.assertions),
				Ignore:    r.cfg.Ignore,
				Checker:   mgr,
			})
			if err != nil {
				return errors.Errorf("creating operation: %w", err)
			}

			console := log.NewWithZerolog(cmd.OutOrStdout(), *logger)
			console.Header("status " + r.cfg.String())

			reporter := operation.NewReporter(console, log.NewUserLoggerTo(ctx, cmd.OutOrStdout()))

			outcomes, err := operation.NewRunner(logger, r.cfg.Async).
				WithReporter(reporter.Report).
				Run(ctx, op, r.docs)
			if err != nil {
				return errors.Errorf("checking collections: %w", err)
			}

			summary := operation.Summarize(outcomes)
			console.Info(summary.String())
			return summary.Err()
		},
	}

	flags.bind(cmd)

	return cmd
}
