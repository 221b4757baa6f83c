package api

import (
	"fmt"
	"net/http"

	"github.com/NVIDIA/torchpin/pkg/errors"
	"github.com/NVIDIA/torchpin/pkg/requirement"
	"github.com/NVIDIA/torchpin/pkg/serializer"
	"github.com/NVIDIA/torchpin/pkg/server"
	"github.com/NVIDIA/torchpin/pkg/torch"
	ver "github.com/NVIDIA/torchpin/pkg/version"
)

// cacheMaxAgeSeconds applies to responses pinned to an explicit CUDA
// version. Detection-based responses depend on the serving host and are
// never cached.
const cacheMaxAgeSeconds = 300

// resolutionHandler serves GET /v1/resolutions.
type resolutionHandler struct {
	version string
	matrix  *torch.Matrix
}

func newResolutionHandler(version string) *resolutionHandler {
	return &resolutionHandler{
		version: version,
		matrix:  torch.DefaultMatrix(),
	}
}

// handleResolutions resolves a torch requirement into install arguments.
//
// Query parameters:
//   - torch: requirement specifier, e.g. torch==2.0.1 (required)
//   - cuda: CUDA toolkit version to pin, e.g. 11.8
//   - os: target platform family (default linux)
//   - detect: when true, detect the CUDA toolkit on the serving host
//
// Either cuda or detect=true must be provided so that responses are
// explicit about where the toolkit version came from.
func (h *resolutionHandler) handleResolutions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, server.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]interface{}{
				"method": r.Method,
			})
		return
	}

	q := r.URL.Query()

	torchParam := q.Get("torch")
	if torchParam == "" {
		server.WriteError(w, r, http.StatusBadRequest, server.ErrCodeInvalidRequest,
			"missing required parameter: torch", false, nil)
		return
	}

	req, err := requirement.Parse(torchParam)
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, server.ErrCodeInvalidRequest,
			"invalid torch requirement", false, map[string]interface{}{
				"torch": torchParam,
				"error": err.Error(),
			})
		return
	}

	platform := q.Get("os")
	if platform == "" {
		platform = "linux"
	}

	opts := []torch.Option{
		torch.WithMatrix(h.matrix),
		torch.WithPlatform(platform),
		torch.WithVersion(h.version),
	}

	cacheable := false
	switch {
	case q.Get("cuda") != "":
		cudaV, err := ver.ParseVersion(q.Get("cuda"))
		if err != nil {
			server.WriteError(w, r, http.StatusBadRequest, server.ErrCodeInvalidRequest,
				"invalid cuda version", false, map[string]interface{}{
					"cuda":  q.Get("cuda"),
					"error": err.Error(),
				})
			return
		}
		opts = append(opts, torch.WithCUDAVersion(cudaV))
		cacheable = true

	case q.Get("detect") == "true":
		// Detection runs on the serving host via the default detector.

	default:
		server.WriteError(w, r, http.StatusBadRequest, server.ErrCodeInvalidRequest,
			"provide an explicit cuda version or detect=true", false, nil)
		return
	}

	res, err := torch.NewResolver(opts...).Resolve(r.Context(), req)
	if err != nil {
		status, code := errorStatus(err)
		server.WriteError(w, r, status, code,
			"failed to resolve torch requirement", false, map[string]interface{}{
				"torch": torchParam,
				"error": err.Error(),
			})
		return
	}

	if cacheable {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", cacheMaxAgeSeconds))
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}

	serializer.RespondJSON(w, http.StatusOK, res)
}

// errorStatus maps resolution error codes to HTTP status and response code.
func errorStatus(err error) (int, string) {
	code := errors.CodeOf(err)
	switch code {
	case errors.ErrCodeInvalidRequest,
		errors.ErrCodeMissingDependency,
		errors.ErrCodeUnsupportedSpecifierShape,
		errors.ErrCodeUnsupportedPlatform:
		return http.StatusBadRequest, string(code)
	default:
		return http.StatusInternalServerError, server.ErrCodeInternalError
	}
}
