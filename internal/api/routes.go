package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"subburn/internal/batch"
	"subburn/internal/compile"
	"subburn/internal/logx"
	"subburn/internal/segment"
	"subburn/pkg/cuesheet"
)

// maxBodyBytes bounds a request body.
const maxBodyBytes = 4 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	cfg = cfg.withDefaults()
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/fonts", fontsHandler(cfg))
		r.Post("/compile", compileHandler(cfg))
		r.Post("/inspect", inspectHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func fontsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, FontsResponse{Fonts: cfg.Config.FontList().Names()})
	}
}

// compileHandler accepts a job document in the JSON cue-file shape. The
// format comes from ?format=, then the body, then the server config.
func compileHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := decodeJob(w, r, cfg)
		if !ok {
			return
		}

		format, err := batch.ResolveFormat(cfg.Config, job, r.URL.Query().Get("format"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_FORMAT")
			return
		}

		obs := logx.Observer{Logger: cfg.Logger, Source: "request:" + RequestIDFrom(r.Context())}
		res, err := batch.CompileJob(cfg.Config, job, format, obs)
		if err != nil {
			WriteError(w, http.StatusUnprocessableEntity, err.Error(), "COMPILE_FAILED")
			return
		}

		WriteJSON(w, http.StatusOK, CompileResponse{
			Format:   string(format),
			Document: res.Text,
			Fonts:    nonNil(res.Fonts),
			Styles:   res.Styles,
			Events:   res.Events,
		})
	}
}

func inspectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := decodeJob(w, r, cfg)
		if !ok {
			return
		}

		opts := batch.CompileOptions(cfg.Config, job, compile.FormatASS)
		opts.Observer = logx.Observer{Logger: cfg.Logger, Source: "request:" + RequestIDFrom(r.Context())}
		report, err := compile.Inspect(job.Segments, opts)
		if err != nil {
			WriteError(w, http.StatusUnprocessableEntity, err.Error(), "INSPECT_FAILED")
			return
		}
		WriteJSON(w, http.StatusOK, report)
	}
}

// decodeJob reads and validates the request body. Any rejected entry fails
// the whole request so clients never get a silently shortened document.
func decodeJob(w http.ResponseWriter, r *http.Request, cfg ServerConfig) (cuesheet.Job, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, "request body too large", "BODY_TOO_LARGE")
			return cuesheet.Job{}, false
		}
		WriteError(w, http.StatusBadRequest, "read request body: "+err.Error(), "BAD_REQUEST")
		return cuesheet.Job{}, false
	}

	job, err := cuesheet.ParseJSON(body, cuesheet.Options{Presets: cfg.Config.Presets, Kind: segment.KindSubtitle})
	if err != nil {
		var issues cuesheet.ValidationErrors
		if errors.As(err, &issues) {
			WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  "invalid segments",
				Code:   "INVALID_SEGMENTS",
				Issues: issueEntries(issues),
			})
			return cuesheet.Job{}, false
		}
		WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return cuesheet.Job{}, false
	}
	job.Name = "request"
	return job, true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
