/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/torchpin/pkg/requirement"
	"github.com/NVIDIA/torchpin/pkg/serializer"
	"github.com/NVIDIA/torchpin/pkg/torch"
	ver "github.com/NVIDIA/torchpin/pkg/version"
)

// resolveOutput is the document emitted by the resolve command: the torch
// resolution plus the remaining requirements from any parsed files.
type resolveOutput struct {
	Resolution   *torch.Resolution `json:"resolution" yaml:"resolution"`
	Requirements []string          `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "resolve",
		EnableShellCompletion: true,
		Usage:                 "Resolve a torch requirement into pip install arguments",
		ArgsUsage:             "[specifier]",
		Description: `Resolve a torch requirement into concrete pip install arguments for the
CUDA toolkit available on the host (or an explicitly pinned one):
  - the wheel index URL matching the hardware build (cu118, cpu)
  - the suffixed torch specifier
  - the matching torchvision specifier

The requirement comes from a positional specifier (e.g. "torch==2.0.1") or
from one or more pip requirements files. With requirements files, the
remaining entries are echoed back deduplicated so the output is a complete
install plan.

The resolution can be output in JSON, YAML, or table format.

# Examples

Resolve an explicit specifier against the detected toolkit:
  torchpin resolve "torch==2.0.1"

Resolve from requirements files, pinning the toolkit:
  torchpin resolve -r requirements.txt -r requirements-dev.txt --cuda 11.8

Resolve for another platform with a custom compatibility table:
  torchpin resolve "torch==2.1.2" --os windows --matrix ./table.yaml`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "requirements",
				Aliases: []string{"r"},
				Usage:   "Path/URL to a pip requirements file (can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "skip-torch",
				Usage: "Tolerate requirements files without a torch entry",
			},
			&cli.StringFlag{
				Name:  "cuda",
				Usage: "Pin the CUDA toolkit version instead of detecting it (e.g. 11.8)",
			},
			&cli.StringFlag{
				Name:  "os",
				Usage: "Target platform family (linux, windows, darwin; default: host)",
			},
			&cli.StringFlag{
				Name:  "matrix",
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

			torchReq, others, err := resolveInput(ctx, cmd)
			if err != nil {
				return err
			}

			opts := []torch.Option{
				torch.WithVersion(version),
			}

			if platform := cmd.String("os"); platform != "" {
				opts = append(opts, torch.WithPlatform(platform))
			}

			if cudaStr := cmd.String("cuda"); cudaStr != "" {
				cudaV, err := ver.ParseVersion(cudaStr)
				if err != nil {
					return fmt.Errorf("invalid cuda version %q: %w", cudaStr, err)
				}
				opts = append(opts, torch.WithCUDAVersion(cudaV))
			}

			if matrixPath := cmd.String("matrix"); matrixPath != "" {
				m, err := torch.LoadMatrixFromFile(matrixPath)
				if err != nil {
					return err
				}
				opts = append(opts, torch.WithMatrix(m))
			}

			res, err := torch.NewResolver(opts...).Resolve(ctx, *torchReq)
			if err != nil {
				return fmt.Errorf("error resolving %q: %w", torchReq.String(), err)
			}

			out := &resolveOutput{Resolution: res}
			for _, r := range others {
				out.Requirements = append(out.Requirements, r.String())
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer closeWriter(ser)

			return ser.Serialize(ctx, out)
		},
	}
}

// resolveInput derives the torch requirement (and any remaining
// requirements) from the command line: requirements files win over the
// positional specifier, and a bare "torch" is the fallback.
func resolveInput(ctx context.Context, cmd *cli.Command) (*requirement.Requirement, []requirement.Requirement, error) {
	paths := cmd.StringSlice("requirements")
	if len(paths) > 0 {
		local, cleanup, err := fetchRequirements(ctx, paths)
		defer cleanup()
		if err != nil {
			return nil, nil, err
		}

		reqs, err := requirement.NewLoader().LoadFiles(ctx, local...)
		if err != nil {
			return nil, nil, err
		}

		torchReq, others, err := requirement.Split(reqs, cmd.Bool("skip-torch"))
		if err != nil {
			return nil, nil, err
		}
		if torchReq == nil {
			bare := requirement.MustParse(requirement.TorchPackage)
			torchReq = &bare
		}
		return torchReq, others, nil
	}

	spec := cmd.Args().First()
	if spec == "" {
		spec = requirement.TorchPackage
	}

	req, err := requirement.Parse(spec)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid specifier %q: %w", spec, err)
	}
	if req.Name != requirement.TorchPackage {
		return nil, nil, fmt.Errorf("specifier must reference %q, got %q",
			requirement.TorchPackage, req.Name)
	}
	return &req, nil, nil
}

// fetchRequirements materializes any http(s) requirement paths into local
// temp files so they can be parsed like the rest. The returned cleanup
// removes the downloaded files once parsing is done and is safe to call
// even when fetching failed partway.
func fetchRequirements(ctx context.Context, paths []string) ([]string, func(), error) {
	var downloaded []string
	cleanup := func() {
		for _, f := range downloaded {
			if err := os.Remove(f); err != nil {
				slog.Warn("failed to remove temp requirements file", "path", f, "error", err)
			}
		}
	}

	local := make([]string, 0, len(paths))
	for _, p := range paths {
		if !strings.HasPrefix(p, "http://") && !strings.HasPrefix(p, "https://") {
			local = append(local, p)
			continue
		}

		f, err := os.CreateTemp("", "torchpin-req-*.txt")
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to create temp requirements file: %w", err)
		}
		tmp := f.Name()
		downloaded = append(downloaded, tmp)
		if err := f.Close(); err != nil {
			return nil, cleanup, fmt.Errorf("failed to close temp requirements file: %w", err)
		}

		if err := serializer.NewHttpReader().DownloadWithContext(ctx, p, tmp); err != nil {
			return nil, cleanup, fmt.Errorf("failed to fetch requirements from %q: %w", p, err)
		}
		local = append(local, tmp)
	}
	return local, cleanup, nil
}
