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

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestStructuredErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeMissingDependency, "torch requirement not found"),
			want: "[MISSING_DEPENDENCY] torch requirement not found",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInternal, "failed to load matrix", fmt.Errorf("yaml: line 3")),
			want: "[INTERNAL] failed to load matrix: yaml: line 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ErrCodeUnsupportedPlatform, "no wheel channel", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is did not find wrapped cause")
	}

	var se *StructuredError
	if !stderrors.As(err, &se) {
		t.Fatal("errors.As did not match StructuredError")
	}
	if se.Code != ErrCodeUnsupportedPlatform {
		t.Errorf("Code = %s, want %s", se.Code, ErrCodeUnsupportedPlatform)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{
			name: "structured error",
			err:  New(ErrCodeUnsupportedSpecifierShape, "too many constraints"),
			want: ErrCodeUnsupportedSpecifierShape,
		},
		{
			name: "wrapped structured error",
			err:  fmt.Errorf("resolve: %w", New(ErrCodeMissingDependency, "no torch")),
			want: ErrCodeMissingDependency,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("boom"),
			want: ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestContextPreserved(t *testing.T) {
	err := NewWithContext(ErrCodeInvalidRequest, "bad specifier", map[string]any{
		"specifier": "torch===2.0.1",
	})
	if err.Context["specifier"] != "torch===2.0.1" {
		t.Errorf("Context not preserved: %+v", err.Context)
	}
}
