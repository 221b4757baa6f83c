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
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/torchpin/pkg/serializer"
	"github.com/NVIDIA/torchpin/pkg/version"
)

//go:embed data/compatibility.yaml
var compatibilityData []byte

// Release describes one torch release: its companion torchvision version
// and the CUDA toolkit versions it publishes wheels for.
type Release struct {
	Torch       version.Version   `json:"torch" yaml:"torch"`
	Torchvision version.Version   `json:"torchvision" yaml:"torchvision"`
	CUDA        []version.Version `json:"cuda" yaml:"cuda"`
}

// CUDABounds returns the lowest and highest CUDA version the release
// supports. The second return value is false for CPU-only releases.
func (r Release) CUDABounds() (min, max version.Version, ok bool) {
	if len(r.CUDA) == 0 {
		return version.Version{}, version.Version{}, false
	}
	min, max = r.CUDA[0], r.CUDA[0]
	for _, v := range r.CUDA[1:] {
		if v.Compare(min) < 0 {
			min = v
		}
		if v.Compare(max) > 0 {
			max = v
		}
	}
	return min, max, true
}

// Matrix is the static torch compatibility table. Read-only once loaded.
type Matrix struct {
	byTorch map[string]Release
	ordered []Release
}

// matrixFile is the on-disk shape of the compatibility table.
type matrixFile struct {
	Releases []struct {
		Torch       string   `yaml:"torch"`
		Torchvision string   `yaml:"torchvision"`
		CUDA        []string `yaml:"cuda"`
	} `yaml:"releases"`
}

// LoadMatrix parses a compatibility table from YAML.
func LoadMatrix(data []byte) (*Matrix, error) {
	var file matrixFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse compatibility table: %w", err)
	}
	return buildMatrix(file)
}

// LoadMatrixFromFile loads a compatibility table from a local path or
// http(s) URL. The format is detected from the file extension.
func LoadMatrixFromFile(path string) (*Matrix, error) {
	file, err := serializer.FromFile[matrixFile](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load compatibility table: %w", err)
	}
	return buildMatrix(*file)
}

func buildMatrix(file matrixFile) (*Matrix, error) {
	if len(file.Releases) == 0 {
		return nil, fmt.Errorf("compatibility table has no releases")
	}

	m := &Matrix{
		byTorch: make(map[string]Release, len(file.Releases)),
		ordered: make([]Release, 0, len(file.Releases)),
	}

	for _, entry := range file.Releases {
		torchV, err := version.ParseVersion(entry.Torch)
		if err != nil {
			return nil, fmt.Errorf("invalid torch version %q: %w", entry.Torch, err)
		}
		visionV, err := version.ParseVersion(entry.Torchvision)
		if err != nil {
			return nil, fmt.Errorf("invalid torchvision version %q: %w", entry.Torchvision, err)
		}

		rel := Release{
			Torch:       torchV,
			Torchvision: visionV,
			CUDA:        make([]version.Version, 0, len(entry.CUDA)),
		}
		for _, c := range entry.CUDA {
			cudaV, err := version.ParseVersion(c)
			if err != nil {
				return nil, fmt.Errorf("invalid cuda version %q for torch %s: %w", c, entry.Torch, err)
			}
			rel.CUDA = append(rel.CUDA, cudaV)
		}

		key := torchV.String()
		if _, exists := m.byTorch[key]; exists {
			return nil, fmt.Errorf("duplicate torch release %s in compatibility table", key)
		}
		m.byTorch[key] = rel
		m.ordered = append(m.ordered, rel)
	}

	sort.Slice(m.ordered, func(i, j int) bool {
		return m.ordered[i].Torch.Compare(m.ordered[j].Torch) < 0
	})

	return m, nil
}

// defaultMatrix loads the embedded table exactly once. The data is compiled
// into the binary, so a parse failure is a build defect.
var defaultMatrix = sync.OnceValue(func() *Matrix {
	m, err := LoadMatrix(compatibilityData)
	if err != nil {
		panic(fmt.Sprintf("embedded compatibility table: %v", err))
	}
	return m
})

// DefaultMatrix returns the compatibility table compiled into the binary.
func DefaultMatrix() *Matrix {
	return defaultMatrix()
}

// Lookup returns the release for an exact torch version.
func (m *Matrix) Lookup(torch version.Version) (Release, bool) {
	rel, ok := m.byTorch[torch.String()]
	return rel, ok
}

// Latest returns the newest release in the table.
func (m *Matrix) Latest() Release {
	return m.ordered[len(m.ordered)-1]
}

// Releases returns all releases ordered from oldest to newest.
func (m *Matrix) Releases() []Release {
	out := make([]Release, len(m.ordered))
	copy(out, m.ordered)
	return out
}
