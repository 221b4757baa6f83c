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

package cuda

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/NVIDIA/torchpin/pkg/version"
)

const (
	// envToolkitRoot is the environment variable pointing at the toolkit
	// installation root.
	envToolkitRoot = "CUDA_HOME"

	// defaultToolkitRoot is the conventional toolkit location when
	// CUDA_HOME is not set.
	defaultToolkitRoot = "/usr/local/cuda"

	// versionFileName is the toolkit metadata file under the root.
	versionFileName = "version.json"

	// nvccCommand reports the toolkit version when no metadata file exists.
	nvccCommand = "nvcc"
)

// nvccReleasePattern matches the build tag in nvcc --version output,
// e.g. "Build cuda_12.1.r12.1/compiler.32688072_0".
var nvccReleasePattern = regexp.MustCompile(`cuda_(\d+\.\d+)`)

// Runner executes a command and returns its combined output.
// It exists so tests can substitute canned nvcc output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Option configures a Detector.
type Option func(*Detector)

// WithRoot overrides the toolkit installation root, bypassing the
// CUDA_HOME environment variable.
func WithRoot(root string) Option {
	return func(d *Detector) {
		d.root = root
	}
}

// WithRunner overrides the command runner used for nvcc.
func WithRunner(r Runner) Option {
	return func(d *Detector) {
		d.runner = r
	}
}

// WithTimeout bounds the nvcc invocation. Default is 10 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Detector) {
		d.timeout = timeout
	}
}

// Detector locates the installed CUDA toolkit and reports its version.
type Detector struct {
	root    string
	runner  Runner
	timeout time.Duration
}

// NewDetector creates a toolkit detector with the provided options.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		runner:  defaultRunner,
		timeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the CUDA toolkit version installed on the host, truncated
// to major.minor. The second return value is false when no toolkit was
// found, in which case callers fall back to the CPU-only build.
func (d *Detector) Detect(ctx context.Context) (version.Version, bool) {
	if v, ok := d.fromVersionFile(); ok {
		return v, true
	}
	return d.fromNvcc(ctx)
}

// Root returns the toolkit installation root the detector inspects.
func (d *Detector) Root() string {
	if d.root != "" {
		return d.root
	}
	if env := os.Getenv(envToolkitRoot); env != "" {
		return env
	}
	return defaultToolkitRoot
}

// fromVersionFile reads <root>/version.json when the root exists.
func (d *Detector) fromVersionFile() (version.Version, bool) {
	root := d.Root()
	if _, err := os.Stat(root); err != nil {
		slog.Debug("toolkit root not present", "root", root)
		return version.Version{}, false
	}

	path := filepath.Join(root, versionFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("toolkit metadata file not readable", "path", path, "error", err)
		return version.Version{}, false
	}

	var meta struct {
		Cuda struct {
			Version string `json:"version"`
		} `json:"cuda"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		slog.Debug("toolkit metadata file not parsable", "path", path, "error", err)
		return version.Version{}, false
	}
	if meta.Cuda.Version == "" {
		return version.Version{}, false
	}

	v, err := toolkitVersion(meta.Cuda.Version)
	if err != nil {
		slog.Debug("toolkit metadata version not parsable",
			"path", path,
			"value", meta.Cuda.Version,
			"error", err,
		)
		return version.Version{}, false
	}

	slog.Debug("detected toolkit from metadata file", "path", path, "version", v.String())
	return v, true
}

// fromNvcc runs "nvcc --version" and matches the release tag in its output.
// Invocation failures degrade to a warning: the CPU build is still usable.
func (d *Detector) fromNvcc(ctx context.Context) (version.Version, bool) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	out, err := d.runner(ctx, nvccCommand, "--version")
	if err != nil {
		slog.Warn("could not determine CUDA version, the CPU build of torch will be selected",
			"command", nvccCommand,
			"error", err,
		)
		return version.Version{}, false
	}

	match := nvccReleasePattern.FindSubmatch(out)
	if match == nil {
		slog.Debug("no release tag in nvcc output")
		return version.Version{}, false
	}

	v, err := toolkitVersion(string(match[1]))
	if err != nil {
		return version.Version{}, false
	}

	slog.Debug("detected toolkit from nvcc", "version", v.String())
	return v, true
}

// toolkitVersion parses a toolkit version string and truncates it to
// major.minor, the precision encoded in wheel build tags.
func toolkitVersion(s string) (version.Version, error) {
	v, err := version.ParseVersion(s)
	if err != nil {
		return version.Version{}, err
	}
	if v.Precision > 2 {
		v.Patch = 0
		v.Precision = 2
	}
	v.Extras = ""
	return v, nil
}
