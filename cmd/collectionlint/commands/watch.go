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
	"time"

	"github.com/spf13/cobra"
	"github.com/walteh/collectionlint/cmd/collectionlint/opts"
	"github.com/walteh/collectionlint/pkg/source"
	"github.com/walteh/collectionlint/pkg/watch"
	"gitlab.com/tozd/go/errors"
)

// NewWatchCmd creates the watch command
func NewWatchCmd(root *opts.RootOpts) *cobra.Command {
	flags := &transformFlags{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [sources...]",
		Short: "Transform local collections again whenever they change",
		Long: `Watch runs transform once, then keeps watching the local sources and
transforms every collection that is created or saved. It stops on interrupt.

Only files, directories and globs can be watched. Watch takes the same flags
and config as transform.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withCommandLogger(cmd.Context(), "watch")

			r, err := prepare(ctx, cmd, root, flags, args)
			if err != nil {
				return err
			}

			t, err := newTransformer(ctx, cmd, r)
			if err != nil {
				return err
			}

			_, written, err := t.run(ctx, r.docs)
			if err != nil {
				return err
			}

			w, err := watch.New(ctx, r.cfg.Sources, func(ctx context.Context, docs []source.Document) []string {
				_, paths, err := t.run(ctx, docs)
				if err != nil {
					t.console.Error(err.Error())
				}
				return paths
			})
			if err != nil {
				return errors.Errorf("starting watch: %w", err)
			}
			w.WithDebounce(debounce)

			// outputs of the first run must not trigger a second one
			w.Ignore(written...)

			t.console.Info("watching for changes, press Ctrl+C to stop")
			return w.Run(ctx)
		},
	}

	flags.bind(cmd)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet time before a changed collection is transformed")

	return cmd
}
