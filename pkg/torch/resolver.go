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

package torch

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/torchpin/pkg/cuda"
	"github.com/NVIDIA/torchpin/pkg/errors"
	"github.com/NVIDIA/torchpin/pkg/requirement"
	"github.com/NVIDIA/torchpin/pkg/version"
)

const (
	// indexURLBase is the root of the PyTorch wheel index. The hardware
	// suffix selects the channel: .../whl/cu118, .../whl/cpu.
	indexURLBase = "https://download.pytorch.org/whl"

	// CPUSuffix is the build tag of accelerator-less wheels.
	CPUSuffix = "cpu"

	// TorchvisionPackage is the companion package installed alongside torch.
	TorchvisionPackage = "torchvision"

	// KindResolution identifies resolution objects in serialized output.
	KindResolution = "Resolution"

	// APIVersion is the schema version of serialized resolutions.
	APIVersion = "torchpin.nvidia.com/v1"
)

// Wheels for torch 2.1+ (and torchvision 0.16+) publish on the index
// without local build tags, so their specifiers stay plain.
var (
	torchPlainSince  = version.Version{Major: 2, Minor: 1, Precision: 2}
	visionPlainSince = version.Version{Major: 0, Minor: 16, Precision: 2}
)

// Resolution is the outcome of resolving a torch requirement: the flat pip
// argument list plus the individual decisions that produced it.
type Resolution struct {
	// Kind is the type of the resolution object.
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the schema version of the resolution object.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs about the resolution (id, creation
	// time, resolver version, detection outcome).
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Suffix is the hardware build tag selected for the wheels (cu118, cpu).
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`

	// IndexURL is the wheel channel matching the suffix. Empty on hosts
	// that install from the default index (darwin).
	IndexURL string `json:"indexUrl,omitempty" yaml:"indexUrl,omitempty"`

	// Torch is the final torch specifier.
	Torch string `json:"torch,omitempty" yaml:"torch,omitempty"`

	// Torchvision is the derived companion specifier.
	Torchvision string `json:"torchvision,omitempty" yaml:"torchvision,omitempty"`

	// Args is the flat installer argument list.
	Args []string `json:"args" yaml:"args"`
}

// Option is a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithDetector sets the CUDA toolkit detector.
func WithDetector(d *cuda.Detector) Option {
	return func(r *Resolver) {
		r.detector = d
	}
}

// WithMatrix overrides the compatibility table.
func WithMatrix(m *Matrix) Option {
	return func(r *Resolver) {
		r.matrix = m
	}
}

// WithPlatform overrides the host operating system family
// (default runtime.GOOS).
func WithPlatform(platform string) Option {
	return func(r *Resolver) {
		r.platform = platform
	}
}

// WithVersion sets the resolver version stamped into resolution metadata.
func WithVersion(v string) Option {
	return func(r *Resolver) {
		r.version = v
	}
}

// WithCUDAVersion pins the CUDA toolkit version, bypassing detection.
func WithCUDAVersion(v version.Version) Option {
	return func(r *Resolver) {
		r.pinnedCUDA = &v
	}
}

// Resolver derives installer arguments for torch requirements from the
// detected accelerator toolkit and the compatibility table.
type Resolver struct {
	detector   *cuda.Detector
	matrix     *Matrix
	platform   string
	version    string
	pinnedCUDA *version.Version
}

// NewResolver creates a new Resolver with the provided options.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		platform: runtime.GOOS,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.detector == nil {
		r.detector = cuda.NewDetector()
	}
	if r.matrix == nil {
		r.matrix = DefaultMatrix()
	}
	return r
}

// Suffix derives the hardware build tag for a CUDA version: "11.8"
// becomes "cu118". Pure function of the version string.
func Suffix(cuda version.Version) string {
	return "cu" + cuda.Compact()
}

// Negotiate clamps a detected CUDA version into the supported range of the
// given release, warning when the installed toolkit falls outside it.
func Negotiate(detected version.Version, rel Release) version.Version {
	min, max, ok := rel.CUDABounds()
	if !ok {
		return detected
	}

	bounded := detected.Clamp(min, max)
	if bounded.Compare(detected) != 0 {
		cudaClampTotal.Inc()
		slog.Warn("installed CUDA version is outside the range supported by this torch release, "+
			"the nearest supported version will be used; consider installing a supported toolkit "+
			"(see https://pytorch.org/get-started/locally/)",
			"installed", detected.String(),
			"supported_min", min.String(),
			"supported_max", max.String(),
			"selected", bounded.String(),
			"torch", rel.Torch.String(),
		)
	}
	return bounded
}

// Resolve produces the installer arguments for the given torch requirement.
//
// A requirement without version constraints resolves to itself verbatim.
// Otherwise the anchor release is looked up in the compatibility table
// (falling back to the newest known release with a warning), the detected
// CUDA version is negotiated into the release's supported range, and the
// suffixed specifiers plus wheel index URL are emitted. Hosts outside the
// linux/windows/darwin families fail with the UNSUPPORTED_PLATFORM
// condition.
func (r *Resolver) Resolve(ctx context.Context, req requirement.Requirement) (*Resolution, error) {
	start := time.Now()
	defer func() {
		resolveDuration.Observe(time.Since(start).Seconds())
	}()

	res := &Resolution{
		Kind:       KindResolution,
		APIVersion: APIVersion,
		Metadata: map[string]string{
			"id":       uuid.NewString(),
			"created":  time.Now().UTC().Format(time.RFC3339),
			"resolver": r.version,
			"platform": r.platform,
			"package":  req.Name,
		},
	}

	// No constraints means nothing to pin against: install as declared.
	if len(req.Specs) == 0 {
		res.Torch = req.String()
		res.Args = []string{req.String()}
		return res, nil
	}

	rel, anchorOp, err := r.anchorRelease(req)
	if err != nil {
		return nil, err
	}

	switch r.platform {
	case "linux", "windows":
		suffix, detected := r.hardwareSuffix(ctx, rel)
		res.Suffix = suffix
		res.IndexURL = indexURLBase + "/" + suffix
		if detected != "" {
			res.Metadata["cuda"] = detected
		}

		torchSpec, err := suffixedSpecifier(req, suffix)
		if err != nil {
			return nil, err
		}
		visionSpec := torchvisionSpecifier(rel, anchorOp, suffix)

		res.Torch = torchSpec
		res.Torchvision = visionSpec
		res.Args = []string{"--extra-index-url", res.IndexURL, torchSpec, visionSpec}

	case "darwin":
		// Default index wheels are CPU/Metal builds, no suffix channel.
		res.Torch = req.String()
		res.Args = []string{req.String()}

	default:
		return nil, errors.NewWithContext(errors.ErrCodeUnsupportedPlatform,
			"no known wheel distribution channel for host platform",
			map[string]any{"platform": r.platform})
	}

	return res, nil
}

// anchorRelease picks the table release the resolution is anchored on:
// the first equality-bearing constraint wins, otherwise the first one.
// Unknown versions fall back to the newest release in the table.
func (r *Resolver) anchorRelease(req requirement.Requirement) (Release, string, error) {
	anchor := req.Specs[0]
	for _, spec := range req.Specs {
		if strings.Contains(spec.Op, "=") {
			anchor = spec
			break
		}
	}

	anchorV, err := version.ParseVersion(anchor.Version)
	if err != nil {
		return Release{}, "", errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			"unparsable version in torch constraint", err,
			map[string]any{"constraint": anchor.String()})
	}

	rel, ok := r.matrix.Lookup(anchorV)
	if !ok {
		rel = r.matrix.Latest()
		slog.Warn("torch version not in compatibility table, using newest known release",
			"requested", anchorV.String(),
			"selected", rel.Torch.String(),
		)
	}

	return rel, anchor.Op, nil
}

// hardwareSuffix detects the CUDA toolkit, negotiates it against the
// release, and derives the build tag. No toolkit means the CPU channel.
// The second return value is the detected version for metadata, empty when
// nothing was found.
func (r *Resolver) hardwareSuffix(ctx context.Context, rel Release) (string, string) {
	detected, ok := r.detectCUDA(ctx)
	if !ok {
		cpuFallbackTotal.Inc()
		return CPUSuffix, ""
	}
	return Suffix(Negotiate(detected, rel)), detected.String()
}

func (r *Resolver) detectCUDA(ctx context.Context) (version.Version, bool) {
	if r.pinnedCUDA != nil {
		return *r.pinnedCUDA, true
	}
	return r.detector.Detect(ctx)
}

// suffixedSpecifier renders the requirement with the hardware build tag
// appended to each constraint version. A specifier is a single constraint
// or a two-sided range; anything longer fails with the
// UNSUPPORTED_SPECIFIER_SHAPE condition.
func suffixedSpecifier(req requirement.Requirement, suffix string) (string, error) {
	rendered := make([]string, 0, len(req.Specs))
	for _, spec := range req.Specs {
		v := spec.Version
		if torchTakesSuffix(v) {
			v += "+" + suffix
		}
		rendered = append(rendered, spec.Op+v)
	}

	switch len(rendered) {
	case 1:
		return req.Name + rendered[0], nil
	case 2:
		return req.Name + rendered[0] + ", " + rendered[1], nil
	default:
		return "", errors.NewWithContext(errors.ErrCodeUnsupportedSpecifierShape,
			"requirement version must be a single value or a range",
			map[string]any{"requirement": req.String(), "constraints": len(rendered)})
	}
}

// torchvisionSpecifier derives the companion constraint from the anchored
// release, reusing the anchor operator.
func torchvisionSpecifier(rel Release, op, suffix string) string {
	spec := TorchvisionPackage + op + rel.Torchvision.String()
	if visionTakesSuffix(rel.Torchvision) {
		spec += "+" + suffix
	}
	return spec
}

// torchTakesSuffix reports whether a torch wheel version carries a local
// build tag. Unparsable versions are left untouched.
func torchTakesSuffix(v string) bool {
	parsed, err := version.ParseVersion(v)
	if err != nil {
		return false
	}
	return parsed.Compare(torchPlainSince) < 0
}

func visionTakesSuffix(v version.Version) bool {
	return v.Compare(visionPlainSince) < 0
}
