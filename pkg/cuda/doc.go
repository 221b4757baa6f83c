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

// Package cuda detects the CUDA toolkit version installed on the host.
//
// # Detection Chain
//
// The detector checks three sources in order and returns the first hit:
//
//  1. The toolkit installation root from the CUDA_HOME environment variable
//     (default /usr/local/cuda), reading <root>/version.json:
//
//     {"cuda": {"version": "12.1.105"}}
//
//  2. The nvcc compiler, by running "nvcc --version" and matching the
//     release tag in its output:
//
//     Cuda compilation tools, release 12.1, V12.1.105
//     Build cuda_12.1.r12.1/compiler.32688072_0
//
// Versions are truncated to major.minor since wheel build tags only encode
// two components (cu121, cu118).
//
// # Graceful Degradation
//
// Detection never fails hard: a missing toolkit, unreadable metadata file,
// or failing nvcc invocation produces a warning at most and reports the
// toolkit as absent, which callers translate into the CPU-only build.
//
//	detector := cuda.NewDetector()
//	if v, ok := detector.Detect(ctx); ok {
//	    fmt.Println(v) // 12.1
//	}
//
// # Testability
//
// The installation root and the nvcc runner are functional options, so
// tests can point the detector at temp directories and canned output.
package cuda
