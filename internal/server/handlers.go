package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/buildinfo"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/errors"
	"github.com/Suomen-Palikkayhteiso-ry/brand/pkg/pipeline"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// handleRender renders the request body in the single format named by the
// format parameter.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := parseOptions(r.URL.Query(), s.base)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	src, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.writeStatus(w, r, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput,
				"source exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if len(src) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "request body is empty"))
		return
	}

	opts.Logger = s.logger
	result, err := s.runner.Execute(r.Context(), src, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := opts.Formats[0]
	data := result.Artifacts[format]
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseOptions overlays the query parameters on base. Exactly one format is
// rendered per request; it defaults to SVG.
func parseOptions(q url.Values, base pipeline.Options) (pipeline.Options, error) {
	opts := base
	opts.Formats = []string{pipeline.FormatSVG}
	if v := q.Get("format"); v != "" {
		if err := pipeline.ValidateFormat(v); err != nil {
			return opts, err
		}
		opts.Formats = []string{v}
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"pixel-width", &opts.PixelWidth},
		{"block-width", &opts.BlockWidth},
		{"block-height", &opts.BlockHeight},
		{"min-alpha", &opts.MinAlpha},
		{"tolerance", &opts.Tolerance},
		{"palette", &opts.Palette},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer (got %q)", p.name, v)
		}
		*p.dst = n
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"title-fraction", &opts.TitleFraction},
		{"scale", &opts.Scale},
	}
	for _, p := range floats {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a number (got %q)", p.name, v)
		}
		*p.dst = f
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"prune-studs", &opts.PruneStuds},
		{"full", &opts.Full},
		{"refresh", &opts.Refresh},
	}
	for _, p := range bools {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean (got %q)", p.name, v)
		}
		*p.dst = b
	}

	if v := q.Get("mode"); v != "" {
		opts.Mode = v
	}
	if v := q.Get("palette-method"); v != "" {
		opts.PaletteMethod = v
	}
	return opts, nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusUnprocessableEntity
	case errors.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("render failed", "id", RequestIDFrom(r.Context()), "error", err)
		msg = "internal error"
	}
	s.writeStatus(w, r, status, code, msg)
}

func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, status int, code errors.Code, msg string) {
	writeJSON(w, status, errorResponse{
		Code:      string(code),
		Message:   msg,
		RequestID: RequestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
