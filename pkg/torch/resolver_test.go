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
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/torchpin/pkg/cuda"
	"github.com/NVIDIA/torchpin/pkg/errors"
	"github.com/NVIDIA/torchpin/pkg/requirement"
	"github.com/NVIDIA/torchpin/pkg/version"
)

// blindDetector never finds a toolkit.
func blindDetector(t *testing.T) *cuda.Detector {
	t.Helper()
	return cuda.NewDetector(
		cuda.WithRoot(filepath.Join(t.TempDir(), "missing")),
		cuda.WithRunner(func(context.Context, string, ...string) ([]byte, error) {
			return nil, fmt.Errorf("exec: \"nvcc\": executable file not found in $PATH")
		}),
	)
}

func TestResolveWithDetectedCUDA(t *testing.T) {
	tests := []struct {
		name      string
		req       string
		cuda      string
		wantTorch string
		wantVis   string
		wantIndex string
	}{
		{
			name:      "exact pin with matching toolkit",
			req:       "torch==2.0.1",
			cuda:      "11.8",
			wantTorch: "torch==2.0.1+cu118",
			wantVis:   "torchvision==0.15.2+cu118",
			wantIndex: "https://download.pytorch.org/whl/cu118",
		},
		{
			name:      "toolkit above supported range clamps down",
			req:       "torch==2.0.1",
			cuda:      "12.1",
			wantTorch: "torch==2.0.1+cu118",
			wantVis:   "torchvision==0.15.2+cu118",
			wantIndex: "https://download.pytorch.org/whl/cu118",
		},
		{
			name:      "toolkit below supported range clamps up",
			req:       "torch==2.1.1",
			cuda:      "11.4",
			wantTorch: "torch==2.1.1",
			wantVis:   "torchvision==0.16.1",
			wantIndex: "https://download.pytorch.org/whl/cu118",
		},
		{
			name:      "new releases keep plain specifiers",
			req:       "torch==2.2.0",
			cuda:      "12.1",
			wantTorch: "torch==2.2.0",
			wantVis:   "torchvision==0.16.2",
			wantIndex: "https://download.pytorch.org/whl/cu121",
		},
		{
			name:      "two sided range",
			req:       "torch>=2.0.0,<2.0.2",
			cuda:      "11.8",
			wantTorch: "torch>=2.0.0+cu118, <2.0.2+cu118",
			wantVis:   "torchvision>=0.15.1+cu118",
			wantIndex: "https://download.pytorch.org/whl/cu118",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(
				WithPlatform("linux"),
				WithCUDAVersion(version.MustParseVersion(tt.cuda)),
			)

			res, err := r.Resolve(t.Context(), requirement.MustParse(tt.req))
			require.NoError(t, err)

			assert.Equal(t, tt.wantTorch, res.Torch)
			assert.Equal(t, tt.wantVis, res.Torchvision)
			assert.Equal(t, tt.wantIndex, res.IndexURL)
			assert.Equal(t, []string{"--extra-index-url", tt.wantIndex, tt.wantTorch, tt.wantVis}, res.Args)
		})
	}
}

func TestResolveCPUFallback(t *testing.T) {
	r := NewResolver(WithPlatform("linux"), WithDetector(blindDetector(t)))

	res, err := r.Resolve(t.Context(), requirement.MustParse("torch==2.0.1"))
	require.NoError(t, err)

	assert.Equal(t, CPUSuffix, res.Suffix)
	assert.Equal(t, "https://download.pytorch.org/whl/cpu", res.IndexURL)
	assert.Equal(t, "torch==2.0.1+cpu", res.Torch)
	assert.Equal(t, "torchvision==0.15.2+cpu", res.Torchvision)
	assert.NotContains(t, res.Metadata, "cuda")
}

func TestResolveWithoutConstraints(t *testing.T) {
	r := NewResolver(WithPlatform("linux"), WithDetector(blindDetector(t)))

	res, err := r.Resolve(t.Context(), requirement.MustParse("torch"))
	require.NoError(t, err)

	assert.Equal(t, []string{"torch"}, res.Args)
	assert.Empty(t, res.IndexURL)
}

func TestResolveDarwin(t *testing.T) {
	r := NewResolver(WithPlatform("darwin"), WithDetector(blindDetector(t)))

	res, err := r.Resolve(t.Context(), requirement.MustParse("torch==2.0.1"))
	require.NoError(t, err)

	assert.Equal(t, []string{"torch==2.0.1"}, res.Args)
	assert.Empty(t, res.Suffix)
	assert.Empty(t, res.IndexURL)
}

func TestResolveUnsupportedPlatform(t *testing.T) {
	r := NewResolver(WithPlatform("plan9"), WithDetector(blindDetector(t)))

	_, err := r.Resolve(t.Context(), requirement.MustParse("torch==2.0.1"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedPlatform, errors.CodeOf(err))
}

func TestResolveTooManyConstraints(t *testing.T) {
	r := NewResolver(
		WithPlatform("linux"),
		WithCUDAVersion(version.MustParseVersion("11.8")),
	)

	_, err := r.Resolve(t.Context(), requirement.MustParse("torch>=2.0.0,<2.0.2,!=2.0.1"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnsupportedSpecifierShape, errors.CodeOf(err))
}

func TestResolveUnknownVersionUsesLatest(t *testing.T) {
	r := NewResolver(
		WithPlatform("linux"),
		WithCUDAVersion(version.MustParseVersion("12.1")),
	)

	res, err := r.Resolve(t.Context(), requirement.MustParse("torch==9.9.9"))
	require.NoError(t, err)

	// Anchored on the newest known release for the companion package.
	assert.Equal(t, "torchvision==0.16.2", res.Torchvision)
}

func TestNegotiateWithinBounds(t *testing.T) {
	m := DefaultMatrix()
	toolkits := []string{"10.2", "11.4", "11.7", "11.8", "12.0", "12.1", "12.9"}

	for _, rel := range m.Releases() {
		min, max, ok := rel.CUDABounds()
		require.True(t, ok)

		for _, tk := range toolkits {
			got := Negotiate(version.MustParseVersion(tk), rel)
			assert.True(t, got.EqualsOrNewer(min), "negotiated %s below %s for torch %s", got, min, rel.Torch)
			assert.False(t, got.IsNewer(max), "negotiated %s above %s for torch %s", got, max, rel.Torch)
		}
	}
}

func TestNegotiateInRangeUnchanged(t *testing.T) {
	rel, ok := DefaultMatrix().Lookup(version.MustParseVersion("2.1.2"))
	require.True(t, ok)

	got := Negotiate(version.MustParseVersion("12.0"), rel)
	assert.Equal(t, "12.0", got.String())
}

func TestSuffix(t *testing.T) {
	tests := []struct {
		cuda string
		want string
	}{
		{"11.7", "cu117"},
		{"11.8", "cu118"},
		{"12.1", "cu121"},
	}

	for _, tt := range tests {
		t.Run(tt.cuda, func(t *testing.T) {
			v := version.MustParseVersion(tt.cuda)
			assert.Equal(t, tt.want, Suffix(v))
			// Derivation must not depend on host state.
			assert.Equal(t, Suffix(v), Suffix(v))
		})
	}
}
