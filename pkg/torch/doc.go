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

// Package torch resolves torch requirements into concrete pip install
// arguments.
//
// The resolver combines three inputs: the requested torch constraint, a
// static compatibility table of known releases (torch, torchvision, and
// the CUDA versions each publishes wheels for), and the CUDA toolkit
// detected on the host. The output is a Resolution holding the suffixed
// package specifiers, the wheel index URL, and the flat argument list to
// hand to an installer.
//
// Detection is best effort. A host without a usable toolkit resolves to
// the CPU wheel channel rather than failing.
package torch
