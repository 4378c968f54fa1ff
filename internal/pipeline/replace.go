package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/feanorMV/qrpatch/internal/assemble"
	"github.com/feanorMV/qrpatch/internal/compose"
	"github.com/feanorMV/qrpatch/internal/qrgen"
	"github.com/feanorMV/qrpatch/internal/raster"
	"github.com/feanorMV/qrpatch/internal/style"
)

// Replace re-renders the source with each replacement's marker drawn
// over its target rectangle and returns the encoded output in the
// source's format. The input bytes and any extraction session are left
// untouched; a failure produces no output at all.
func (p *Pipeline) Replace(ctx context.Context, filename string, data []byte,
	reps []Replacement, st style.Style,
) ([]byte, error) {
	if len(reps) == 0 {
		return nil, fmt.Errorf("replace: no replacements given")
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	doc, format, err := raster.Open(filename, data)
	if err != nil {
		return nil, err
	}
	defer func() { _ = doc.Close() }()

	scale := scaleFor(format, p.cfg.OutputScale)

	patches, err := p.buildPatches(doc, reps, st, scale)
	if err != nil {
		return nil, err
	}

	pages := make([]assemble.Page, 0, doc.PageCount())
	for page := 1; page <= doc.PageCount(); page++ {
		width, height, err := doc.PageSize(page)
		if err != nil {
			return nil, err
		}
		buf, err := compose.Page(ctx, doc, page, scale, patches[page])
		if err != nil {
			return nil, err
		}
		pages = append(pages, assemble.Page{Image: buf, NativeWidth: width, NativeHeight: height})
	}

	return assemble.Output(format, pages)
}

// buildPatches synthesizes one marker image per replacement, grouped
// by page. Marker resolution follows the style size at the output
// scale; the compositor rescales to the exact target rectangle.
func (p *Pipeline) buildPatches(doc raster.Document, reps []Replacement,
	st style.Style, scale float64,
) (map[int][]compose.Patch, error) {
	patches := make(map[int][]compose.Patch, len(reps))
	for i, rep := range reps {
		if rep.Page < 1 || rep.Page > doc.PageCount() {
			return nil, fmt.Errorf("replace: replacement %d targets page %d of %d", i, rep.Page, doc.PageCount())
		}
		if rep.Rect.W <= 0 || rep.Rect.H <= 0 {
			return nil, fmt.Errorf("replace: replacement %d has empty target rect", i)
		}

		sizePx := int(math.Round(st.Size * scale))
		marker, err := qrgen.Synthesize(rep.Payload, st.Foreground(), st.Background(), sizePx)
		if err != nil {
			return nil, err
		}
		patches[rep.Page] = append(patches[rep.Page], compose.Patch{Rect: rep.Rect, Marker: marker})
	}
	return patches, nil
}
