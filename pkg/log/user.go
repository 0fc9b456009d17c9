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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// 📢 UserLogger prints short, friendly lines about documents and sources
type UserLogger struct {
	log zerolog.Logger
	out io.Writer
}

// 🎨 ChangeType is what happened to an output document
type ChangeType int

const (
	DocumentAdded ChangeType = iota
	DocumentUpdated
	DocumentUnchanged
	DocumentSkipped
	DocumentFailed
)

// 🖼️ DocumentChange describes one output document
type DocumentChange struct {
	Type        ChangeType
	Path        string
	Description string
	Error       error
}

// 🏭 NewUserLogger creates a user logger writing to stdout
func NewUserLogger(ctx context.Context) *UserLogger {
	return NewUserLoggerTo(ctx, os.Stdout)
}

// 🏭 NewUserLoggerTo creates a user logger writing to out
func NewUserLoggerTo(ctx context.Context, out io.Writer) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
		out: out,
	}
}

// 📝 LogDocumentChange prints a document change with its emoji
func (u *UserLogger) LogDocumentChange(change DocumentChange) {
	var prefix, action string
	var printer pterm.PrefixPrinter
	switch change.Type {
	case DocumentAdded:
		prefix, action = "✨", "Added"
		printer = pterm.Success
	case DocumentUpdated:
		prefix, action = "🔄", "Updated"
		printer = pterm.Info
	case DocumentUnchanged:
		prefix, action = "•", "Unchanged"
		printer = pterm.Info
	case DocumentSkipped:
		prefix, action = "⏭️", "Skipped"
		printer = pterm.Warning
	default:
		prefix, action = "❌", "Failed"
		printer = pterm.Error
	}

	msg := fmt.Sprintf("%s %s", action, filepath.Base(change.Path))
	if change.Description != "" {
		msg += fmt.Sprintf(" (%s)", change.Description)
	}

	printer.WithPrefix(pterm.Prefix{Text: prefix}).WithWriter(u.out).Println(msg)

	if change.Error != nil {
		pterm.Error.WithWriter(u.out).Println(change.Error)
		u.log.Error().Err(change.Error).Str("path", change.Path).Msg(msg)
		return
	}
	u.log.Info().Str("path", change.Path).Msg(msg)
}

// ⚠️ LogItemWarning prints a recovered problem with one collection item
func (u *UserLogger) LogItemWarning(source, item, message string) {
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).WithWriter(u.out).
		Printfln("%s: %s: %s", filepath.Base(source), item, message)
	u.log.Warn().Str("source", source).Str("item", item).Msg(message)
}

// 🔍 LogValidation prints the outcome of a check
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).WithWriter(u.out).Println(description)
		u.log.Info().Msg(description)
	case err != nil:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).WithWriter(u.out).Println(description)
		pterm.Error.WithWriter(u.out).Println(err)
		u.log.Error().Err(err).Msg(description)
	default:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).WithWriter(u.out).Println(description)
		u.log.Warn().Msg(description)
	}
}
