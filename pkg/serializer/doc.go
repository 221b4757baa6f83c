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

// Package serializer provides encoding and decoding of resolution data in
// multiple formats.
//
// # Supported Formats
//
// JSON:
//   - Machine-parseable, compact representation
//   - Suitable for API responses and programmatic consumption
//
// YAML:
//   - Human-readable with preserved structure
//   - Suitable for configuration files and version control
//
// Table:
//   - Flattened key/value output for terminal viewing
//   - Write-only (no deserialization support)
//
// # Usage
//
// Write to stdout:
//
//	w := serializer.NewStdoutWriter(serializer.FormatJSON)
//	defer w.Close()
//	if err := w.Serialize(ctx, data); err != nil {
//	    log.Fatal(err)
//	}
//
// Read from a file or URL with automatic format detection:
//
//	table, err := serializer.FromFile[MyType]("table.yaml")
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
//
// # Format Detection
//
// File extension-based detection:
//   - .json → JSON
//   - .yaml, .yml → YAML
//   - .table, .txt → Table
//   - Other → JSON (default)
//
// # Integration
//
// Used throughout torchpin for data I/O:
//   - pkg/cli - Command output formatting
//   - pkg/torch - Compatibility table overrides
//   - pkg/server - HTTP response encoding
package serializer
