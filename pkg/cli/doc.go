/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the torchpin command line interface.
//
// Commands:
//   - resolve: resolve a torch requirement into pip install arguments
//   - detect:  report the CUDA toolkit found on the host
//   - matrix:  print the compatibility table used during resolution
//
// All commands support JSON, YAML, and table output via --format, written
// to stdout or to a file via --output.
package cli
