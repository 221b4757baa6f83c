// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package requirement

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Option configures a Loader.
type Option func(*Loader)

// Loader reads declaration files into requirements with customizable settings.
type Loader struct {
	maxSize          int64
	commentPrefix    string
	directivePrefix  string
	skipInvalidLines bool
}

// WithMaxSize sets the maximum size (in bytes) of a file to be parsed.
// Default is 1MB.
func WithMaxSize(size int64) Option {
	return func(l *Loader) {
		l.maxSize = size
	}
}

// WithSkipInvalidLines makes the loader log and skip unparsable lines
// instead of failing the whole file. Default is false.
func WithSkipInvalidLines(skip bool) Option {
	return func(l *Loader) {
		l.skipInvalidLines = skip
	}
}

// NewLoader creates a new declaration file loader with the provided options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		maxSize:         1 << 20, // 1MB default
		commentPrefix:   "#",
		directivePrefix: "-",
	}

	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseFile reads the declaration file at path and parses its lines into
// requirements. Blank lines, comments, and pip directives ("-f", "-r",
// "--index-url", ...) are skipped.
func (l *Loader) ParseFile(path string) ([]Requirement, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > l.maxSize {
		return nil, fmt.Errorf("file %s exceeds maximum size of %d bytes", path, l.maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var reqs []Requirement
	for i, line := range strings.Split(string(data), "\n") {
		entry := strings.TrimSpace(line)
		if entry == "" ||
			strings.HasPrefix(entry, l.commentPrefix) ||
			strings.HasPrefix(entry, l.directivePrefix) {
			continue
		}

		req, err := Parse(entry)
		if err != nil {
			if l.skipInvalidLines {
				slog.Warn("skipping unparsable requirement line",
					"path", path,
					"line", i+1,
					"error", err,
				)
				continue
			}
			return nil, fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		reqs = append(reqs, req)
	}

	return reqs, nil
}

// LoadFiles parses all declaration files concurrently and returns the
// combined requirements ordered by file path, then file order. Any file
// failure fails the whole load.
func (l *Loader) LoadFiles(ctx context.Context, paths ...string) ([]Requirement, error) {
	var mu sync.Mutex
	byPath := make(map[string][]Requirement, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reqs, err := l.ParseFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			byPath[path] = reqs
			mu.Unlock()
			slog.Debug("parsed requirement file", "path", path, "count", len(reqs))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sorted := make([]string, 0, len(byPath))
	for path := range byPath {
		sorted = append(sorted, path)
	}
	sort.Strings(sorted)

	var combined []Requirement
	for _, path := range sorted {
		combined = append(combined, byPath[path]...)
	}
	return combined, nil
}
