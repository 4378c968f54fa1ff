package pipeline

import (
	"context"
	"log/slog"

	"github.com/feanorMV/qrpatch/internal/geometry"
	"github.com/feanorMV/qrpatch/internal/raster"
	"github.com/feanorMV/qrpatch/internal/scan"
)

// ProgressFunc is called after each scanned page with the total pages
// and the number of markers found so far.
type ProgressFunc func(page, totalPages, found int)

// Extract scans every page of the input and returns the detected
// markers with native-unit geometry.
//
// A failure to open or size the document fails the whole call. A
// failure while rendering or scanning one page is recorded as a
// partial page and scanning continues with the next page, keeping any
// markers already found on the failed page.
func (p *Pipeline) Extract(ctx context.Context, filename string, data []byte) (*Session, error) {
	return p.ExtractWithProgress(ctx, filename, data, nil)
}

// ExtractWithProgress behaves like Extract and reports per-page
// progress, e.g. for streaming consumers.
func (p *Pipeline) ExtractWithProgress(ctx context.Context, filename string, data []byte, progress ProgressFunc) (*Session, error) {
	doc, format, err := raster.Open(filename, data)
	if err != nil {
		return nil, err
	}
	defer func() { _ = doc.Close() }()

	scale := scaleFor(format, p.cfg.DetectionScale)
	session := &Session{
		Filename:   filename,
		Format:     format.String(),
		TotalPages: doc.PageCount(),
	}

	for page := 1; page <= doc.PageCount(); page++ {
		markers, pageErr := p.extractPage(ctx, doc, page, scale)
		session.Markers = append(session.Markers, markers...)
		if pageErr != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("page scan incomplete",
				"file", filename, "page", page, "found", len(markers), "error", pageErr)
			session.PartialPages = append(session.PartialPages, PageFailure{
				Page: page,
				Err:  pageErr.Error(),
			})
		}
		if progress != nil {
			progress(page, session.TotalPages, len(session.Markers))
		}
	}
	return session, nil
}

func (p *Pipeline) extractPage(ctx context.Context, doc raster.Document, page int, scale float64) ([]Marker, error) {
	width, height, err := doc.PageSize(page)
	if err != nil {
		return nil, err
	}

	// The buffer is transient: scoped to this page's scan loop and
	// consumed by suppression.
	buf, err := doc.Render(ctx, page, scale)
	if err != nil {
		return nil, err
	}

	found, scanErr := scan.Page(ctx, p.det, buf, p.scanOptions())

	markers := make([]Marker, 0, len(found))
	for _, f := range found {
		markers = append(markers, Marker{
			ID:         markerID(page, f.Bounds),
			Payload:    f.Payload,
			Rect:       geometry.ToNative(f.Bounds, scale),
			Page:       page,
			PageWidth:  width,
			PageHeight: height,
			Preview:    f.Preview,
		})
	}
	return markers, scanErr
}
