package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feanorMV/qrpatch/internal/config"
	"github.com/feanorMV/qrpatch/internal/geometry"
	"github.com/feanorMV/qrpatch/internal/pipeline"
	"github.com/feanorMV/qrpatch/internal/style"
	"github.com/feanorMV/qrpatch/internal/testutil"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	pl, err := pipeline.NewBuilder().Build()
	require.NoError(t, err)
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 0, MaxUploadMB: 10, TimeoutSeconds: 30}
	return New(cfg, pl, style.Default())
}

// uploadRequest builds a multipart request with the file part plus any
// extra form fields.
func uploadRequest(t *testing.T, target, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestServer_HealthHandler(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name           string
		method         string
		expectedStatus int
		checkResponse  bool
	}{
		{
			name:           "GET request success",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			checkResponse:  true,
		},
		{
			name:           "POST request not allowed",
			method:         http.MethodPost,
			expectedStatus: http.StatusMethodNotAllowed,
			checkResponse:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			w := httptest.NewRecorder()

			server.healthHandler(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.checkResponse {
				var response HealthResponse
				err := json.Unmarshal(w.Body.Bytes(), &response)
				require.NoError(t, err)

				assert.Equal(t, "healthy", response.Status)
				assert.NotEmpty(t, response.Time)
				assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			}
		})
	}
}

func TestServer_ExtractHandler(t *testing.T) {
	server := newTestServer(t)

	data := testutil.QRPagePNG(t, 600, 800, testutil.QRSpec{
		Payload: "https://example.com",
		Rect:    geometry.Rect{X: 50, Y: 50, W: 120, H: 120},
	})

	req := uploadRequest(t, "/extract", "page.png", data, nil)
	w := httptest.NewRecorder()
	server.extractHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "page.png", resp.Filename)
	assert.Equal(t, "png", resp.Format)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Markers, 1)
	assert.Equal(t, "https://example.com", resp.Markers[0].Payload)
	assert.Equal(t, 1, resp.Markers[0].Page)
	assert.NotEmpty(t, resp.Markers[0].PreviewPNG)
}

func TestServer_ExtractHandler_NoFile(t *testing.T) {
	server := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/extract", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	server.extractHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ExtractHandler_UnsupportedInput(t *testing.T) {
	server := newTestServer(t)

	req := uploadRequest(t, "/extract", "notes.txt", []byte("plain text"), nil)
	w := httptest.NewRecorder()
	server.extractHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ExtractHandler_MethodNotAllowed(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/extract", nil)
	w := httptest.NewRecorder()
	server.extractHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_ReplaceHandler(t *testing.T) {
	server := newTestServer(t)

	data := testutil.QRPagePNG(t, 600, 800, testutil.QRSpec{
		Payload: "https://example.com",
		Rect:    geometry.Rect{X: 50, Y: 50, W: 120, H: 120},
	})

	reps := []pipeline.Replacement{
		{Page: 1, Rect: geometry.Rect{X: 50, Y: 50, W: 120, H: 120}, Payload: "https://new.example/target"},
	}
	repsJSON, err := json.Marshal(reps)
	require.NoError(t, err)

	req := uploadRequest(t, "/replace", "page.png", data, map[string]string{
		"replacements": string(repsJSON),
	})
	w := httptest.NewRecorder()
	server.replaceHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())
	assert.Equal(t, 800, img.Bounds().Dy())
}

func TestServer_ReplaceHandler_InvalidReplacements(t *testing.T) {
	server := newTestServer(t)

	data := testutil.QRPagePNG(t, 300, 300)
	req := uploadRequest(t, "/replace", "page.png", data, map[string]string{
		"replacements": "not json",
	})
	w := httptest.NewRecorder()
	server.replaceHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ReplaceHandler_BadSettings(t *testing.T) {
	server := newTestServer(t)

	data := testutil.QRPagePNG(t, 300, 300)
	req := uploadRequest(t, "/replace", "page.png", data, map[string]string{
		"replacements": `[{"page":1,"rect":{"x":10,"y":10,"width":50,"height":50},"payload":"x"}]`,
		"settings":     `{"color":"#000000"}`,
	})
	w := httptest.NewRecorder()
	server.replaceHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(&style.FormatError{Msg: "bad"}))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(assert.AnError))
}
