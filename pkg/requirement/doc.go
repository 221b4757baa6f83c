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

// Package requirement parses pip-style dependency declarations.
//
// A declaration file is line oriented: blank lines, comments ("#") and pip
// directives ("-f", "--find-links", "-r", ...) are skipped, every other line
// is parsed into a package name plus zero or more version constraints:
//
//	torch>=1.13.0, <=2.0.1
//	onnx==1.16.1
//	networkx
//
// The package also splits a parsed set into the mandatory torch requirement
// and the remaining task requirements, which is the first step of install
// argument resolution.
package requirement
