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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/torchpin/pkg/version"
)

func TestDefaultMatrix(t *testing.T) {
	m := DefaultMatrix()
	require.NotNil(t, m)
	require.NotEmpty(t, m.Releases())

	rel, ok := m.Lookup(version.MustParseVersion("2.0.1"))
	require.True(t, ok)
	assert.Equal(t, "0.15.2", rel.Torchvision.String())

	min, max, ok := rel.CUDABounds()
	require.True(t, ok)
	assert.Equal(t, "11.7", min.String())
	assert.Equal(t, "11.8", max.String())

	assert.Equal(t, "2.2.0", m.Latest().Torch.String())
}

func TestLookupUnknownVersion(t *testing.T) {
	_, ok := DefaultMatrix().Lookup(version.MustParseVersion("1.13.1"))
	assert.False(t, ok)
}

func TestReleasesOrdered(t *testing.T) {
	releases := DefaultMatrix().Releases()
	for i := 1; i < len(releases); i++ {
		assert.True(t, releases[i-1].Torch.Compare(releases[i].Torch) < 0,
			"releases must be ordered oldest to newest")
	}
}

func TestLoadMatrixErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty table", "releases: []"},
		{"not yaml", ":\n:"},
		{"bad torch version", `releases: [{torch: "abc", torchvision: "0.15.1", cuda: ["11.8"]}]`},
		{"bad cuda version", `releases: [{torch: "2.0.0", torchvision: "0.15.1", cuda: ["x"]}]`},
		{"duplicate release", `releases:
  - {torch: "2.0.0", torchvision: "0.15.1", cuda: ["11.8"]}
  - {torch: "2.0.0", torchvision: "0.15.2", cuda: ["11.8"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMatrix([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadMatrixFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`releases:
  - {torch: "2.0.0", torchvision: "0.15.1", cuda: ["11.7", "11.8"]}`), 0o600))

	m, err := LoadMatrixFromFile(path)
	require.NoError(t, err)

	_, ok := m.Lookup(version.MustParseVersion("2.0.0"))
	assert.True(t, ok)
}

func TestCUDABoundsEmpty(t *testing.T) {
	_, _, ok := Release{}.CUDABounds()
	assert.False(t, ok)
}
