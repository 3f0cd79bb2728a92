package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage        = errors.New("image data is empty")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrCorruptData       = errors.New("corrupt image data")
	ErrImageTooLarge     = errors.New("image dimensions too large")
)

// DecodeError reports why image bytes could not be turned into pixels. Kind
// is one of ErrEmptyImage, ErrUnsupportedFormat, ErrCorruptData or
// ErrImageTooLarge, so callers can use errors.Is against those values.
type DecodeError struct {
	Kind   error
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Err == nil:
		return e.Kind.Error()
	case e.Format != "":
		return fmt.Sprintf("%s (%s): %v", e.Kind, e.Format, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Decode turns encoded image bytes into an image and reports the detected
// format name. Images whose header declares more than maxPixels pixels are
// rejected before any pixel data is allocated; maxPixels <= 0 disables the cap.
func Decode(data []byte, maxPixels int) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", &DecodeError{Kind: ErrEmptyImage}
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if errors.Is(err, image.ErrFormat) {
		return nil, "", &DecodeError{Kind: ErrUnsupportedFormat, Err: err}
	}
	if err != nil {
		return nil, format, &DecodeError{Kind: ErrCorruptData, Format: format, Err: err}
	}
	if maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, format, &DecodeError{
			Kind:   ErrImageTooLarge,
			Format: format,
			Err:    fmt.Errorf("%dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxPixels),
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, format, &DecodeError{Kind: ErrCorruptData, Format: format, Err: err}
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, format, &DecodeError{Kind: ErrEmptyImage, Format: format}
	}
	return img, format, nil
}
