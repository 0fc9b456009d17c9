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
	"github.com/walteh/collectionlint/pkg/source"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds async runs
const DefaultConcurrency = 8

// 📊 Progress receives batch progress. *output.Manager implements it.
type Progress interface {
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context)
	FinishOperation(ctx context.Context)
}

// ReportFunc is called once per outcome, in document order
type ReportFunc func(ctx context.Context, out *Outcome)

// 🏃 OperationRunner executes an operation over a batch of documents
type OperationRunner struct {
	logger   *zerolog.Logger
	async    bool
	limit    int
	progress Progress
	report   ReportFunc
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *zerolog.Logger, async bool) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{
		logger: logger,
		async:  async,
		limit:  DefaultConcurrency,
	}
}

// WithLimit sets how many documents an async run handles at once
func (r *OperationRunner) WithLimit(n int) *OperationRunner {
	if n > 0 {
		r.limit = n
	}
	return r
}

func (r *OperationRunner) WithProgress(p Progress) *OperationRunner {
	r.progress = p
	return r
}

func (r *OperationRunner) WithReporter(fn ReportFunc) *OperationRunner {
	r.report = fn
	return r
}

// 🏃 Run executes op for every document. Outcomes come back in document order.
// An error means the run was cut short; the outcomes gathered so far are returned with it.
func (r *OperationRunner) Run(ctx context.Context, op Operation, docs []source.Document) ([]*Outcome, error) {
	if r.progress != nil {
		r.progress.StartOperation(ctx, len(docs))
		defer r.progress.FinishOperation(ctx)
	}

	r.logger.Debug().Int("documents", len(docs)).Bool("async", r.async).Msg("running operation")

	if r.async {
		return r.runAsync(ctx, op, docs)
	}
	return r.runSync(ctx, op, docs)
}

// 🔄 runSync handles documents one after another, reporting each as it finishes
func (r *OperationRunner) runSync(ctx context.Context, op Operation, docs []source.Document) ([]*Outcome, error) {
	outcomes := make([]*Outcome, 0, len(docs))
	for _, doc := range docs {
		out, err := op.Execute(ctx, doc)
		if err != nil {
			return outcomes, errors.Errorf("executing operation: %w", err)
		}
		outcomes = append(outcomes, out)
		r.done(ctx, out)
	}
	return outcomes, nil
}

// ⚡ runAsync handles documents concurrently and reports once all are done
func (r *OperationRunner) runAsync(ctx context.Context, op Operation, docs []source.Document) ([]*Outcome, error) {
	results := make([]*Outcome, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for i, doc := range docs {
		g.Go(func() error {
			out, err := op.Execute(gctx, doc)
			if err != nil {
				return err
			}
			results[i] = out
			if r.progress != nil {
				r.progress.UpdateProgress(gctx)
			}
			return nil
		})
	}

	err := g.Wait()

	outcomes := make([]*Outcome, 0, len(docs))
	for _, out := range results {
		if out == nil {
			continue
		}
		outcomes = append(outcomes, out)
		if r.report != nil {
			r.report(ctx, out)
		}
	}

	if err != nil {
		return outcomes, errors.Errorf("executing operation: %w", err)
	}
	return outcomes, nil
}

func (r *OperationRunner) done(ctx context.Context, out *Outcome) {
	if r.report != nil {
		r.report(ctx, out)
	}
	if r.progress != nil {
		r.progress.UpdateProgress(ctx)
	}
}
