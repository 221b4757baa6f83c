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

package torch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Resolution metrics
	resolveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "torchpin_resolve_duration_seconds",
			Help:    "Duration of install argument resolution in seconds",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 10},
		},
	)

	// Negotiation metrics
	cudaClampTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "torchpin_cuda_clamp_total",
			Help: "Total number of detected CUDA versions clamped into a supported range",
		},
	)
	cpuFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "torchpin_cpu_fallback_total",
			Help: "Total number of resolutions that fell back to the CPU-only build",
		},
	)
)
