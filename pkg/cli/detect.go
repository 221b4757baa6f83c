/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/torchpin/pkg/cuda"
	"github.com/NVIDIA/torchpin/pkg/serializer"
	"github.com/NVIDIA/torchpin/pkg/torch"
)

// detectOutput reports the CUDA toolkit found on the host, if any.
type detectOutput struct {
	Root     string `json:"root" yaml:"root"`
	Detected bool   `json:"detected" yaml:"detected"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
	Suffix   string `json:"suffix" yaml:"suffix"`
}

func detectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "detect",
		EnableShellCompletion: true,
		Usage:                 "Detect the CUDA toolkit installed on this host",
		Description: `Detect the CUDA toolkit version installed on this host. Detection checks,
in order:
  - the version metadata file under the toolkit root (CUDA_HOME or
    /usr/local/cuda)
  - the nvcc compiler on PATH

The reported suffix is the wheel build tag the resolve command would use
(cu118, cpu).`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "root",
				Usage: "CUDA toolkit root to inspect (overrides CUDA_HOME)",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			var opts []cuda.Option
			if root := cmd.String("root"); root != "" {
				opts = append(opts, cuda.WithRoot(root))
			}

			d := cuda.NewDetector(opts...)
			out := &detectOutput{
				Root:   d.Root(),
				Suffix: torch.CPUSuffix,
			}

			if v, ok := d.Detect(ctx); ok {
				out.Detected = true
				out.Version = v.String()
				out.Suffix = torch.Suffix(v)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)

			return ser.Serialize(ctx, out)
		},
	}
}
