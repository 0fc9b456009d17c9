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

package output

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ⚠️ ErrPathCollision is returned when two sources of one run map to the same output file
var ErrPathCollision = errors.Base("output path already written by another source in this run")

// 📊 FileStatus is what writing a document did, or would do, to its file
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // file doesn't exist yet
	StatusModified             // file exists with other content
	StatusUnchanged            // file exists with the same content
	StatusFailed               // document could not be written
)

func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo describes one output document
type FileInfo struct {
	Path     string     // path relative to the output directory
	Status   FileStatus // result of the write
	Size     int64      // content size in bytes
	Checksum string     // sha256 of the content
	Error    error      // write error, StatusFailed only
}

// 🔧 Manager writes output documents under one directory and tracks what happened to them
type Manager struct {
	baseDir   string
	logger    *zerolog.Logger
	formatter FileFormatter
	dryRun    bool

	mu    sync.RWMutex
	files map[string]FileInfo

	total     int
	processed int
}

// 🏭 New creates an output manager rooted at baseDir
func New(baseDir string, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		files:     make(map[string]FileInfo),
	}
}

// WithDryRun makes Write report statuses without touching the disk
func (m *Manager) WithDryRun(dryRun bool) *Manager {
	m.dryRun = dryRun
	return m
}

// BaseDir returns the output directory
func (m *Manager) BaseDir() string {
	return m.baseDir
}

func (m *Manager) getAbsPath(path string) string {
	return filepath.Join(m.baseDir, path)
}

func calculateChecksum(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// 🔍 Check reports what writing content to path would do
func (m *Manager) Check(ctx context.Context, path string, content []byte) (FileInfo, error) {
	info := FileInfo{
		Path:     path,
		Size:     int64(len(content)),
		Checksum: calculateChecksum(content),
	}

	existing, err := os.ReadFile(m.getAbsPath(path))
	switch {
	case os.IsNotExist(err):
		info.Status = StatusNew
	case err != nil:
		return FileInfo{}, errors.Errorf("reading existing file: %w", err)
	case bytes.Equal(existing, content):
		info.Status = StatusUnchanged
	default:
		info.Status = StatusModified
	}
	return info, nil
}

// 💾 Write writes content to path unless the file already holds it, and tracks the result.
// Each path can be written once per run; a second write fails with ErrPathCollision
// and leaves the first document in place.
func (m *Manager) Write(ctx context.Context, path string, content []byte) (FileInfo, error) {
	if err := m.reserve(path); err != nil {
		return FileInfo{}, err
	}

	info, err := m.Check(ctx, path, content)
	if err != nil {
		m.TrackFile(ctx, path, FileInfo{Path: path, Status: StatusFailed, Error: err})
		return FileInfo{}, err
	}

	if info.Status != StatusUnchanged && !m.dryRun {
		if err := m.WriteFile(ctx, path, content); err != nil {
			m.TrackFile(ctx, path, FileInfo{Path: path, Status: StatusFailed, Error: err})
			return FileInfo{}, err
		}
	}

	m.TrackFile(ctx, path, info)
	return info, nil
}

// reserve claims path for the current run
func (m *Manager) reserve(path string) error {
	key := filepath.Clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[key]; ok {
		m.logger.Warn().Str("path", path).Msg(m.formatter.FormatError(ErrPathCollision))
		return errors.WithStack(ErrPathCollision)
	}
	m.files[key] = FileInfo{Path: path, Status: StatusUnknown}
	return nil
}

// WriteFile writes content to path, creating parent directories
func (m *Manager) WriteFile(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return errors.Errorf("creating parent directories: %w", err)
	}

	return m.WriteFileAtomic(ctx, path, content)
}

// WriteFileAtomic writes to a uniquely named temporary file next to path and renames it into place
func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)

	tmp, err := os.CreateTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("setting temp file mode: %w", err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}

// TrackFile records info for path and logs it
func (m *Manager) TrackFile(ctx context.Context, path string, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[filepath.Clean(path)] = info
	msg := m.formatter.FormatFileOperation(path, info.Status)
	if info.Error != nil {
		msg = m.formatter.FormatError(info.Error)
	}
	m.logger.Debug().Str("path", path).Str("status", info.Status.String()).Msg(msg)
}

// ListFiles returns every file written in the current run sorted by path
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// StartOperation begins a run of total sources and forgets the files of the previous run
func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.files = make(map[string]FileInfo)
	m.logger.Info().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

// UpdateProgress marks one more source as processed
func (m *Manager) UpdateProgress(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed++
	m.logger.Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}

// Output file name suffixes
const (
	CollectionSuffix  = ".json"
	EnvironmentSuffix = "-environment.json"
)

var unsafeFileChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", "\x00", "_",
)

// SanitizeFileName makes a collection name usable as a file name
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(unsafeFileChars.Replace(name))
	if name == "" || name == "." || name == ".." {
		return "collection"
	}
	return name
}

// CollectionFileName is the output file of a transformed collection
func CollectionFileName(newName string) string {
	return SanitizeFileName(newName) + CollectionSuffix
}

// EnvironmentFileName is the output file of a generated environment
func EnvironmentFileName(newName string) string {
	return SanitizeFileName(newName) + EnvironmentSuffix
}
