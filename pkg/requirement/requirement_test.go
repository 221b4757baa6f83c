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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/torchpin/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		want      Requirement
		wantError bool
	}{
		{
			name: "bare name",
			line: "networkx",
			want: Requirement{Name: "networkx"},
		},
		{
			name: "pinned",
			line: "torch==2.0.1",
			want: Requirement{Name: "torch", Specs: []Spec{{Op: "==", Version: "2.0.1"}}},
		},
		{
			name: "range with space after comma",
			line: "torch>=1.13.0, <=2.0.1",
			want: Requirement{Name: "torch", Specs: []Spec{
				{Op: ">=", Version: "1.13.0"},
				{Op: "<=", Version: "2.0.1"},
			}},
		},
		{
			name: "compatible release",
			line: "onnx~=1.16",
			want: Requirement{Name: "onnx", Specs: []Spec{{Op: "~=", Version: "1.16"}}},
		},
		{
			name: "space before operator",
			line: "scipy >=1.8",
			want: Requirement{Name: "scipy", Specs: []Spec{{Op: ">=", Version: "1.8"}}},
		},
		{
			name: "local build tag kept verbatim",
			line: "torch==2.0.1+cu118",
			want: Requirement{Name: "torch", Specs: []Spec{{Op: "==", Version: "2.0.1+cu118"}}},
		},
		{
			name: "extras bracket stays in name",
			line: "uvicorn[standard]==0.27.0",
			want: Requirement{Name: "uvicorn[standard]", Specs: []Spec{{Op: "==", Version: "0.27.0"}}},
		},
		{
			name: "inline comment stripped",
			line: "pandas>=2.0 # data loading",
			want: Requirement{Name: "pandas", Specs: []Spec{{Op: ">=", Version: "2.0"}}},
		},
		{
			name: "environment marker ignored",
			line: `wmi==1.5.1; sys_platform == "win32"`,
			want: Requirement{Name: "wmi", Specs: []Spec{{Op: "==", Version: "1.5.1"}}},
		},
		{
			name:      "empty line",
			line:      "   ",
			wantError: true,
		},
		{
			name:      "operator without version",
			line:      "torch==",
			wantError: true,
		},
		{
			name:      "dangling comma",
			line:      "torch==2.0.1,",
			wantError: true,
		},
		{
			name:      "constraint without operator",
			line:      "torch 2.0.1",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantError {
				require.Error(t, err)
				assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"networkx", "networkx"},
		{"torch==2.0.1", "torch==2.0.1"},
		{"torch>=1.13.0, <=2.0.1", "torch>=1.13.0,<=2.0.1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MustParse(tt.line).String())
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		skipTorch bool
		wantTorch string
		wantOther []string
		wantCode  errors.ErrorCode
	}{
		{
			name:      "torch present",
			lines:     []string{"torch==2.0.1", "onnx>=1.8.1"},
			wantTorch: "torch==2.0.1",
			wantOther: []string{"onnx>=1.8.1"},
		},
		{
			name:     "torch missing",
			lines:    []string{"onnx>=1.8.1"},
			wantCode: errors.ErrCodeMissingDependency,
		},
		{
			name:      "torch missing but skipped",
			lines:     []string{"onnx>=1.8.1"},
			skipTorch: true,
			wantOther: []string{"onnx>=1.8.1"},
		},
		{
			name:      "duplicates dropped",
			lines:     []string{"torch==2.0.1", "onnx>=1.8.1", "onnx>=1.8.1", "scipy>=1.8"},
			wantTorch: "torch==2.0.1",
			wantOther: []string{"onnx>=1.8.1", "scipy>=1.8"},
		},
		{
			name:      "torchvision stays in task requirements",
			lines:     []string{"torch==2.0.1", "torchvision==0.15.2"},
			wantTorch: "torch==2.0.1",
			wantOther: []string{"torchvision==0.15.2"},
		},
		{
			name:      "range torch",
			lines:     []string{"torch>=1.13.0, <=2.0.1"},
			wantTorch: "torch>=1.13.0,<=2.0.1",
			wantOther: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs := make([]Requirement, 0, len(tt.lines))
			for _, line := range tt.lines {
				reqs = append(reqs, MustParse(line))
			}

			torch, others, err := Split(reqs, tt.skipTorch)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)

			if tt.wantTorch == "" {
				assert.Nil(t, torch)
			} else {
				require.NotNil(t, torch)
				assert.Equal(t, tt.wantTorch, torch.String())
			}

			got := make([]string, 0, len(others))
			for _, o := range others {
				got = append(got, o.String())
			}
			assert.Equal(t, tt.wantOther, got)
		})
	}
}
