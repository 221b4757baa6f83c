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
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nvccOutput = `nvcc: NVIDIA (R) Cuda compiler driver
Copyright (c) 2005-2023 NVIDIA Corporation
Built on Mon_Apr__3_17:16:06_PDT_2023
Cuda compilation tools, release 12.1, V12.1.105
Build cuda_12.1.r12.1/compiler.32688072_0
`

// fakeRunner returns canned output for nvcc, or an error when out is empty.
func fakeRunner(out string) Runner {
	return func(_ context.Context, _ string, _ ...string) ([]byte, error) {
		if out == "" {
			return nil, fmt.Errorf("exec: \"nvcc\": executable file not found in $PATH")
		}
		return []byte(out), nil
	}
}

func writeVersionFile(t *testing.T, root, toolkitVersion string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(root, 0o755))
	content := fmt.Sprintf(`{"cuda": {"name": "CUDA SDK", "version": %q}}`, toolkitVersion)
	require.NoError(t, os.WriteFile(filepath.Join(root, versionFileName), []byte(content), 0o600))
}

func TestDetectFromVersionFile(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"full toolkit version truncated", "12.1.105", "12.1"},
		{"two component version kept", "11.8", "11.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := filepath.Join(t.TempDir(), "cuda")
			writeVersionFile(t, root, tt.version)

			d := NewDetector(WithRoot(root), WithRunner(fakeRunner("")))
			v, ok := d.Detect(t.Context())
			require.True(t, ok)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestDetectFallsBackToNvcc(t *testing.T) {
	// Root exists but has no metadata file.
	root := t.TempDir()

	d := NewDetector(WithRoot(root), WithRunner(fakeRunner(nvccOutput)))
	v, ok := d.Detect(t.Context())
	require.True(t, ok)
	assert.Equal(t, "12.1", v.String())
}

func TestDetectNvccWithoutRoot(t *testing.T) {
	d := NewDetector(
		WithRoot(filepath.Join(t.TempDir(), "missing")),
		WithRunner(fakeRunner(nvccOutput)),
	)
	v, ok := d.Detect(t.Context())
	require.True(t, ok)
	assert.Equal(t, "12.1", v.String())
}

func TestDetectNothingFound(t *testing.T) {
	d := NewDetector(
		WithRoot(filepath.Join(t.TempDir(), "missing")),
		WithRunner(fakeRunner("")),
	)
	_, ok := d.Detect(t.Context())
	assert.False(t, ok)
}

func TestDetectNvccOutputWithoutReleaseTag(t *testing.T) {
	d := NewDetector(
		WithRoot(filepath.Join(t.TempDir(), "missing")),
		WithRunner(fakeRunner("nvcc: NVIDIA (R) Cuda compiler driver\n")),
	)
	_, ok := d.Detect(t.Context())
	assert.False(t, ok)
}

func TestDetectMalformedVersionFileFallsThrough(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cuda")
	require.NoError(t, os.MkdirAll(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, versionFileName), []byte("not json"), 0o600))

	d := NewDetector(WithRoot(root), WithRunner(fakeRunner(nvccOutput)))
	v, ok := d.Detect(t.Context())
	require.True(t, ok)
	assert.Equal(t, "12.1", v.String())
}

func TestRootPrecedence(t *testing.T) {
	t.Setenv(envToolkitRoot, "/opt/cuda-env")

	assert.Equal(t, "/opt/cuda-env", NewDetector().Root())
	assert.Equal(t, "/opt/explicit", NewDetector(WithRoot("/opt/explicit")).Root())

	t.Setenv(envToolkitRoot, "")
	assert.Equal(t, defaultToolkitRoot, NewDetector().Root())
}
