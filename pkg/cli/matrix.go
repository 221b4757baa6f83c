/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/torchpin/pkg/serializer"
	"github.com/NVIDIA/torchpin/pkg/torch"
)

// matrixRelease is the string-rendered view of one compatibility table row.
type matrixRelease struct {
	Torch       string   `json:"torch" yaml:"torch"`
	Torchvision string   `json:"torchvision" yaml:"torchvision"`
	CUDA        []string `json:"cuda" yaml:"cuda"`
}

type matrixOutput struct {
	Releases []matrixRelease `json:"releases" yaml:"releases"`
}

func matrixCmd() *cli.Command {
	return &cli.Command{
		Name:                  "matrix",
		EnableShellCompletion: true,
		Usage:                 "Print the torch compatibility table",
		Description: `Print the compatibility table used during resolution: each known torch
release with its companion torchvision version and the CUDA toolkit
versions it publishes wheels for.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "Path/URL to a custom compatibility table (YAML)",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat := serializer.Format(cmd.String("format"))
			if outFormat.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", outFormat)
			}

			m := torch.DefaultMatrix()
			if path := cmd.String("file"); path != "" {
				var err error
				if m, err = torch.LoadMatrixFromFile(path); err != nil {
					return err
				}
			}

			out := &matrixOutput{}
			for _, rel := range m.Releases() {
				row := matrixRelease{
					Torch:       rel.Torch.String(),
					Torchvision: rel.Torchvision.String(),
				}
				for _, c := range rel.CUDA {
					row.CUDA = append(row.CUDA, c.String())
				}
				out.Releases = append(out.Releases, row)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)

			return ser.Serialize(ctx, out)
		},
	}
}
