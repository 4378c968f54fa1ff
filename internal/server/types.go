package server

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/feanorMV/qrpatch/internal/geometry"
	"github.com/feanorMV/qrpatch/internal/pipeline"
)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// ErrorResponse is the error payload for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MarkerDTO is the wire form of a detected marker. The preview crop is
// inlined as base64 PNG so browser clients can show it directly.
type MarkerDTO struct {
	ID         string        `json:"id"`
	Payload    string        `json:"payload"`
	Rect       geometry.Rect `json:"rect"`
	Page       int           `json:"page"`
	PageWidth  float64       `json:"pageWidth"`
	PageHeight float64       `json:"pageHeight"`
	PreviewPNG string        `json:"previewPng,omitempty"`
}

// ExtractResponse is the /extract payload.
type ExtractResponse struct {
	Filename     string                 `json:"filename"`
	Format       string                 `json:"format"`
	TotalPages   int                    `json:"totalPages"`
	Markers      []MarkerDTO            `json:"markers"`
	PartialPages []pipeline.PageFailure `json:"partialPages,omitempty"`
}

func toExtractResponse(s *pipeline.Session) ExtractResponse {
	resp := ExtractResponse{
		Filename:     s.Filename,
		Format:       s.Format,
		TotalPages:   s.TotalPages,
		Markers:      make([]MarkerDTO, 0, len(s.Markers)),
		PartialPages: s.PartialPages,
	}
	for _, m := range s.Markers {
		dto := MarkerDTO{
			ID:         m.ID,
			Payload:    m.Payload,
			Rect:       m.Rect,
			Page:       m.Page,
			PageWidth:  m.PageWidth,
			PageHeight: m.PageHeight,
		}
		if m.Preview != nil {
			var buf bytes.Buffer
			if err := png.Encode(&buf, m.Preview); err == nil {
				dto.PreviewPNG = base64.StdEncoding.EncodeToString(buf.Bytes())
			}
		}
		resp.Markers = append(resp.Markers, dto)
	}
	return resp
}
