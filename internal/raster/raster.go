// Package raster opens source documents and renders their pages into
// pixel buffers at caller-chosen scales.
//
// Native units are PDF points for PDF sources and intrinsic pixels for
// standalone images. A render at scale s produces a buffer of
// nativeWidth*s x nativeHeight*s pixels.
package raster

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a supported source format.
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF
	FormatPNG
	FormatJPEG
)

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	default:
		return "unknown"
	}
}

// UnsupportedInputError reports input that is neither a PDF nor a
// supported raster image.
type UnsupportedInputError struct {
	Name string
}

func (e *UnsupportedInputError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unsupported input format: %s", e.Name)
	}
	return "unsupported input format"
}

// RenderError reports a page or image that could not be rasterized.
type RenderError struct {
	Page  int
	Msg   string
	Cause error
}

func (e *RenderError) Error() string {
	s := "render"
	if e.Page > 0 {
		s = fmt.Sprintf("render page %d", e.Page)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", s, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", s, e.Msg)
}

func (e *RenderError) Unwrap() error { return e.Cause }

var (
	pdfMagic  = []byte("%PDF-")
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
)

// Sniff determines the input format from the filename extension,
// confirmed by the content signature. The signature wins whenever the
// two disagree, so a mislabeled file is still accepted under its true
// format.
func Sniff(name string, data []byte) Format {
	byContent := sniffContent(data)
	if byContent != FormatUnknown {
		return byContent
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return FormatPDF
	case ".png":
		return FormatPNG
	case ".jpg", ".jpeg":
		return FormatJPEG
	}
	return FormatUnknown
}

func sniffContent(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pdfMagic):
		return FormatPDF
	case bytes.HasPrefix(data, pngMagic):
		return FormatPNG
	case bytes.HasPrefix(data, jpegMagic):
		return FormatJPEG
	}
	return FormatUnknown
}
