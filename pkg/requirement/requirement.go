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
	"strings"

	"github.com/NVIDIA/torchpin/pkg/errors"
)

// Comparison operators recognized in version constraints, longest first so
// that ">=" is not consumed as ">".
var operators = []string{"===", "==", "!=", ">=", "<=", "~=", ">", "<"}

// Spec is a single version constraint: an operator and a version literal.
// The version is kept verbatim (it may carry a local build tag like +cu118).
type Spec struct {
	Op      string `json:"op" yaml:"op"`
	Version string `json:"version" yaml:"version"`
}

// String renders the constraint in pip form, e.g. ">=1.13.0".
func (s Spec) String() string {
	return s.Op + s.Version
}

// Requirement is a parsed dependency declaration: a package name and its
// version constraints. Immutable once parsed.
type Requirement struct {
	Name  string `json:"name" yaml:"name"`
	Specs []Spec `json:"specs,omitempty" yaml:"specs,omitempty"`
}

// String renders the requirement in pip form, e.g. "torch>=1.13.0,<=2.0.1".
func (r Requirement) String() string {
	if len(r.Specs) == 0 {
		return r.Name
	}
	parts := make([]string, 0, len(r.Specs))
	for _, s := range r.Specs {
		parts = append(parts, s.String())
	}
	return r.Name + strings.Join(parts, ",")
}

// Parse parses a single declaration line into a Requirement.
// Accepted forms: "name", "name==1.2.3", "name>=1.0, <2.0",
// "name[extra]~=1.4". Inline comments are stripped.
func Parse(line string) (Requirement, error) {
	s := strings.TrimSpace(line)
	if i := strings.Index(s, " #"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return Requirement{}, errors.New(errors.ErrCodeInvalidRequest, "empty requirement")
	}

	// Environment markers (everything after ';') do not affect resolution.
	if i := strings.Index(s, ";"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	// The name ends at the first operator character or whitespace.
	nameEnd := len(s)
	for i, ch := range s {
		if strings.ContainsRune("<>=!~ \t", ch) {
			nameEnd = i
			break
		}
	}

	name := strings.TrimSpace(s[:nameEnd])
	if name == "" {
		return Requirement{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"requirement has no package name", map[string]any{"line": line})
	}

	rest := strings.TrimSpace(s[nameEnd:])
	if rest == "" {
		return Requirement{Name: name}, nil
	}

	specs := make([]Spec, 0, 2)
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Requirement{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"empty version constraint", map[string]any{"line": line})
		}

		spec, err := parseSpec(part)
		if err != nil {
			return Requirement{}, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
				"invalid version constraint", err, map[string]any{"line": line, "constraint": part})
		}
		specs = append(specs, spec)
	}

	return Requirement{Name: name, Specs: specs}, nil
}

func parseSpec(s string) (Spec, error) {
	for _, op := range operators {
		if !strings.HasPrefix(s, op) {
			continue
		}
		ver := strings.TrimSpace(strings.TrimPrefix(s, op))
		if ver == "" {
			return Spec{}, errors.New(errors.ErrCodeInvalidRequest, "constraint has no version")
		}
		return Spec{Op: op, Version: ver}, nil
	}
	return Spec{}, errors.New(errors.ErrCodeInvalidRequest, "constraint has no comparison operator")
}

// MustParse parses a declaration line and panics on failure.
// Only for hardcoded strings and tests.
func MustParse(line string) Requirement {
	r, err := Parse(line)
	if err != nil {
		panic("requirement.MustParse: " + err.Error())
	}
	return r
}
