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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/collectionlint/pkg/output"
	"github.com/walteh/collectionlint/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// 🔍 NewStatusOperation creates an operation that transforms documents in memory and
// reports what a transform run would write, without writing anything
func NewStatusOperation(opts Options) (Operation, error) {
	if opts.Checker == nil {
		return nil, errors.Errorf("checker is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &statusOperation{
		base: base{opts: opts, fetcher: opts.fetcher()},
	}, nil
}

type statusOperation struct {
	base
}

// 🏃 Execute checks the output doc would produce against what is on disk
func (op *statusOperation) Execute(ctx context.Context, doc source.Document) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("checking %s: %w", doc.Location, err)
	}

	out := op.newOutcome(doc)
	out.DryRun = true

	res := op.produce(ctx, doc, out)
	if res == nil {
		return out, nil
	}

	out.Status = StatusTransformed
	for _, f := range outputs(res) {
		info, err := op.opts.Checker.Check(ctx, f.path, f.content)
		if err != nil {
			out.Files = append(out.Files, File{Kind: f.kind, FileInfo: output.FileInfo{Path: f.path, Status: output.StatusFailed, Error: err}})
			op.fail(out, errors.Errorf("checking %s: %w", f.path, err))
			return out, nil
		}
		out.Files = append(out.Files, File{Kind: f.kind, FileInfo: info})
	}

	zerolog.Ctx(ctx).Debug().
		Str("source", doc.Location).
		Bool("changed", out.Changed()).
		Msg("source checked")

	return out, nil
}
