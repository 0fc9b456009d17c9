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

// 🔄 NewTransformOperation creates an operation that transforms documents and writes the output
func NewTransformOperation(opts Options) (Operation, error) {
	if opts.Writer == nil {
		return nil, errors.Errorf("writer is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &transformOperation{
		base: base{opts: opts, fetcher: opts.fetcher()},
	}, nil
}

type transformOperation struct {
	base
}

// 🏃 Execute transforms doc and writes its collection and environment documents
func (op *transformOperation) Execute(ctx context.Context, doc source.Document) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("transforming %s: %w", doc.Location, err)
	}

	logger := zerolog.Ctx(ctx).With().Str("source", doc.Location).Logger()

	out := op.newOutcome(doc)
	res := op.produce(ctx, doc, out)
	if res == nil {
		logger.Debug().Str("status", out.Status.String()).Str("reason", out.Reason).Msg("source not transformed")
		return out, nil
	}

	out.Status = StatusTransformed
	for _, f := range outputs(res) {
		info, err := op.opts.Writer.Write(ctx, f.path, f.content)
		if err != nil {
			out.Files = append(out.Files, File{Kind: f.kind, FileInfo: output.FileInfo{Path: f.path, Status: output.StatusFailed, Error: err}})
			op.fail(out, errors.Errorf("writing %s: %w", f.path, err))
			return out, nil
		}
		out.Files = append(out.Files, File{Kind: f.kind, FileInfo: info})
	}

	logger.Debug().
		Str("name", out.Name).
		Int("requests_in", out.Stats.RequestsIn).
		Int("requests_out", out.Stats.RequestsOut).
		Int("warnings", len(out.Warnings)).
		Msg("source transformed")

	return out, nil
}
