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
	"log/slog"

	"github.com/NVIDIA/torchpin/pkg/errors"
)

// TorchPackage is the mandatory numeric framework package name.
const TorchPackage = "torch"

// Split separates the torch requirement from the remaining task
// requirements. Duplicate task requirements are dropped, first occurrence
// wins.
//
// When no torch entry is present and skipTorch is false, Split fails with
// the MISSING_DEPENDENCY condition.
func Split(reqs []Requirement, skipTorch bool) (*Requirement, []Requirement, error) {
	var torch *Requirement
	others := make([]Requirement, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))

	for _, req := range reqs {
		if req.Name == TorchPackage {
			if len(req.Specs) > 1 {
				slog.Warn("torch requirement carries multiple version constraints",
					"requirement", req.String(),
				)
			}
			if torch == nil {
				torch = &req
			}
			continue
		}

		if seen[req.String()] {
			continue
		}
		seen[req.String()] = true
		others = append(others, req)
	}

	if torch == nil && !skipTorch {
		return nil, nil, errors.New(errors.ErrCodeMissingDependency,
			"could not find torch requirement in declaration files")
	}

	return torch, others, nil
}
