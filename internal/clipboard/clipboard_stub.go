//go:build !((linux && cgo) || windows || (darwin && cgo))

package clipboard

import (
	"fmt"
	"image"
)

// ReadImage is unavailable without a native clipboard backend.
func ReadImage() (image.Image, error) {
	return nil, fmt.Errorf("clipboard image operations are not supported on this platform")
}
