package icon

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for files that are not a supported raster image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// supportedMIME lists the content types the registered decoders understand.
//
//nolint:gochecknoglobals // Immutable lookup table.
var supportedMIME = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/bmp",
	"image/tiff",
	"image/webp",
}

// decodeFile sniffs and decodes the image at path.
func decodeFile(path string) (image.Image, string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	detected := mimetype.Detect(data)
	if !isSupported(detected) {
		return nil, detected.String(), fmt.Errorf("%s: %w", detected.String(), ErrUnsupportedFormat)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, detected.String(), fmt.Errorf("decode %s: %w", detected.String(), err)
	}

	return img, format, nil
}

func isSupported(detected *mimetype.MIME) bool {
	for _, m := range supportedMIME {
		if detected.Is(m) {
			return true
		}
	}

	return false
}
