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
	"fmt"

	"github.com/walteh/collectionlint/pkg/log"
	"github.com/walteh/collectionlint/pkg/output"
	"gitlab.com/tozd/go/errors"
)

// 📢 Reporter prints outcomes to the console and user loggers
type Reporter struct {
	console *log.Logger
	user    *log.UserLogger
}

func NewReporter(console *log.Logger, user *log.UserLogger) *Reporter {
	return &Reporter{console: console, user: user}
}

// Report prints one outcome. It is a ReportFunc.
func (r *Reporter) Report(ctx context.Context, out *Outcome) {
	switch out.Status {
	case StatusIgnored:
		r.user.LogDocumentChange(log.DocumentChange{
			Type:        log.DocumentSkipped,
			Path:        out.Source.Location,
			Description: "ignored by " + out.Reason,
		})
	case StatusProcessed:
		r.user.LogDocumentChange(log.DocumentChange{
			Type:        log.DocumentSkipped,
			Path:        out.Source.Location,
			Description: "already processed",
		})
	case StatusFailed:
		r.user.LogDocumentChange(log.DocumentChange{
			Type:  log.DocumentFailed,
			Path:  out.Source.Location,
			Error: out.Err,
		})
	case StatusTransformed:
		if out.DryRun {
			r.reportCheck(out)
			return
		}
		r.reportTransform(ctx, out)
	}
}

func (r *Reporter) reportTransform(ctx context.Context, out *Outcome) {
	r.console.StartSourceOperation(ctx, log.SourceOperation{
		Source:  out.Source.Location,
		Name:    out.Name,
		Version: out.Version,
		Mode:    string(out.Mode),
	})

	for _, f := range out.Files {
		op := log.DocumentOperation{
			Path:       f.Path,
			Kind:       f.Kind,
			Status:     f.Status.String(),
			IsNew:      f.Status == output.StatusNew,
			IsModified: f.Status == output.StatusModified,
			IsFailed:   f.Status == output.StatusFailed,
		}
		if f.Kind == log.KindCollection {
			op.Warnings = len(out.Warnings)
		}
		r.console.LogDocumentOperation(ctx, op)
	}

	for _, w := range out.Warnings {
		r.user.LogItemWarning(out.Source.Location, w.Item, w.Message)
	}

	r.console.EndSourceOperation(ctx)
	r.console.LogNewline()
}

func (r *Reporter) reportCheck(out *Outcome) {
	if !out.Changed() {
		r.user.LogValidation(true, fmt.Sprintf("%s is up to date as %s", out.Source.Location, out.Name), nil)
		return
	}
	for _, f := range out.Files {
		if f.Status == output.StatusUnchanged {
			continue
		}
		r.user.LogValidation(false, fmt.Sprintf("%s would write %s (%s)", out.Source.Location, f.Path, f.Status), nil)
	}
}

// 📊 Summary counts outcomes per status
type Summary struct {
	Total       int
	Transformed int
	Changed     int // transformed with at least one new or modified file
	Processed   int
	Ignored     int
	Failed      int
	Warnings    int
}

func Summarize(outcomes []*Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for _, out := range outcomes {
		switch out.Status {
		case StatusTransformed:
			s.Transformed++
			if out.Changed() {
				s.Changed++
			}
		case StatusProcessed:
			s.Processed++
		case StatusIgnored:
			s.Ignored++
		case StatusFailed:
			s.Failed++
		}
		s.Warnings += len(out.Warnings)
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d sources: %d transformed (%d changed), %d already processed, %d ignored, %d failed, %d warnings",
		s.Total, s.Transformed, s.Changed, s.Processed, s.Ignored, s.Failed, s.Warnings)
}

// Err is non-nil when any source failed
func (s Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}
	return errors.Errorf("%d of %d sources failed", s.Failed, s.Total)
}
