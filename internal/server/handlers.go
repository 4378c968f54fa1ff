package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/feanorMV/qrpatch/internal/pipeline"
	"github.com/feanorMV/qrpatch/internal/raster"
	"github.com/feanorMV/qrpatch/internal/style"
	"github.com/feanorMV/qrpatch/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// extractHandler scans an uploaded document and returns its markers.
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	start := time.Now()
	session, err := s.pl.Extract(r.Context(), name, data)
	if err != nil {
		extractRequests.WithLabelValues("error").Inc()
		s.writeError(w, statusFor(err), fmt.Sprintf("extraction failed: %v", err))
		return
	}
	extractRequests.WithLabelValues("ok").Inc()
	extractDuration.Observe(time.Since(start).Seconds())
	markersDetected.Observe(float64(len(session.Markers)))

	s.writeJSON(w, http.StatusOK, toExtractResponse(session))
}

// replaceHandler re-encodes an uploaded document with new markers. The
// multipart form carries the file plus a "replacements" JSON array and
// an optional "settings" record in the settings-transport shape.
func (s *Server) replaceHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name, data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	var reps []pipeline.Replacement
	if err := json.Unmarshal([]byte(r.FormValue("replacements")), &reps); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid replacements: %v", err))
		return
	}

	st := s.defaultStyle
	if raw := r.FormValue("settings"); raw != "" {
		var err error
		st, err = style.Import([]byte(raw))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	start := time.Now()
	out, err := s.pl.Replace(r.Context(), name, data, reps, st)
	if err != nil {
		replaceRequests.WithLabelValues("error").Inc()
		s.writeError(w, statusFor(err), fmt.Sprintf("replacement failed: %v", err))
		return
	}
	replaceRequests.WithLabelValues("ok").Inc()
	replaceDuration.Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", contentTypeFor(raster.Sniff("", out)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// readUpload pulls the "file" part out of a multipart request,
// enforcing the configured size limit. On failure it writes the error
// response itself and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to parse form data")
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "no file provided")
		return "", nil, false
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	uploadSize.Observe(float64(header.Size))

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to read upload")
		return "", nil, false
	}
	return header.Filename, data, true
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var uie *raster.UnsupportedInputError
	var fe *style.FormatError
	switch {
	case errors.As(err, &uie), errors.As(err, &fe):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func contentTypeFor(f raster.Format) string {
	switch f {
	case raster.FormatPDF:
		return "application/pdf"
	case raster.FormatPNG:
		return "image/png"
	case raster.FormatJPEG:
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing to do but log.
		slog.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}
