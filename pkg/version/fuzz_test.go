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

package version

import (
	"testing"
)

// FuzzParseVersion performs fuzz testing on ParseVersion to find edge cases
func FuzzParseVersion(f *testing.F) {
	// Seed corpus with valid and edge case inputs
	f.Add("11.8")
	f.Add("12.1")
	f.Add("2.0.1")
	f.Add("v2.0.1")
	f.Add("2.0.1+cu118")
	f.Add("12.1.r12.1")
	f.Add("0")
	f.Add("0.0")
	f.Add("0.0.0")
	f.Add("999.999.999")
	f.Add("")
	f.Add(".")
	f.Add("..")
	f.Add("1.")
	f.Add(".1")
	f.Add("1..2")
	f.Add("v")
	f.Add("vv1")
	f.Add("-1")
	f.Add("1.-2")
	f.Add("a.b.c")
	f.Add("1.2.3.4")
	f.Add("+cpu")
	f.Add("1+")
	f.Add("1-")

	f.Fuzz(func(t *testing.T, input string) {
		// ParseVersion should never panic
		v, err := ParseVersion(input)

		if err == nil {
			if !v.IsValid() {
				t.Errorf("ParseVersion(%q) returned invalid version: %+v", input, v)
			}

			// String must round-trip to an equal version
			rt, rtErr := ParseVersion(v.String())
			if rtErr != nil {
				t.Errorf("ParseVersion(%q).String() = %q does not re-parse: %v", input, v.String(), rtErr)
			} else if rt.Compare(v) != 0 {
				t.Errorf("round trip of %q changed value: %+v != %+v", input, rt, v)
			}
		}
	})
}
