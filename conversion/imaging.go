package conversion

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

// ConversionUpload is the conversion applied to every uploaded image.
const ConversionUpload = "upload"

type ImagingTransformer struct {
	conversions map[string]Conversion
	mu          sync.RWMutex
}

func NewImagingTransformer() *ImagingTransformer {
	return &ImagingTransformer{
		conversions: make(map[string]Conversion),
	}
}

func (t *ImagingTransformer) RegisterConversion(name string, conversion Conversion) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.conversions[name] = conversion
}

func (t *ImagingTransformer) HasConversion(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.conversions[name]
	return ok
}

func (t *ImagingTransformer) Transform(ctx context.Context, img image.Image, conversionName string, options ...Option) (image.Image, error) {
	t.mu.RLock()
	conversion, exists := t.conversions[conversionName]
	t.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConversion, conversionName)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return conversion(img, NewOptions(options...))
}

// RegisterUploadConversion caps uploaded images at maxWidth pixels wide.
// Images already narrower pass through untouched.
func (t *ImagingTransformer) RegisterUploadConversion(maxWidth int) {
	t.RegisterConversion(ConversionUpload, func(img image.Image, opts *Options) (image.Image, error) {
		if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
			return img, nil
		}
		return ResizeImage(img, maxWidth, 0, opts)
	})
}

// ResizeImage resizes img according to opts.Fit. Zero height keeps the aspect ratio.
func ResizeImage(img image.Image, width, height int, opts *Options) (image.Image, error) {
	if opts.Width > 0 {
		width = opts.Width
	}
	if opts.Height > 0 {
		height = opts.Height
	}
	if width <= 0 && height <= 0 {
		return nil, fmt.Errorf("resize needs a width or a height")
	}

	var result image.Image

	switch opts.Fit {
	case FitContain:
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("contain needs both width and height")
		}
		result = imaging.Fit(img, width, height, imaging.Lanczos)
	case FitFill:
		if width <= 0 || height <= 0 {
			return nil, fmt.Errorf("fill needs both width and height")
		}
		result = imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	default:
		result = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	if opts.Sharpen > 0 {
		result = imaging.Sharpen(result, opts.Sharpen)
	}

	return result, nil
}

var _ Transformer = (*ImagingTransformer)(nil)
