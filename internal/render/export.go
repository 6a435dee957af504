package render

import (
	"bytes"
	"fmt"
	"image/png"

	"print-composer/internal/layout"
)

// ExportOversample is the fixed factor applied to the logical page size when
// rasterising for print, trading memory for print resolution.
const ExportOversample = 3

// Export renders the session at the print oversample and returns PNG bytes.
// The selection-handle overlay is never part of an export; callers clear the
// model selection and redraw the live canvas before invoking this so the
// on-screen state matches what is printed.
func Export(s *layout.Session) ([]byte, error) {
	img := Render(s, Options{Scale: ExportOversample, ShowSelection: false})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return buf.Bytes(), nil
}
