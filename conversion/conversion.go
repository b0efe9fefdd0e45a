// Package conversion prepares uploaded images before they are stored.
package conversion

import (
	"context"
	"errors"
	"image"
)

var ErrUnknownConversion = errors.New("conversion not registered")

// Transformer applies named conversions to images.
type Transformer interface {
	Transform(ctx context.Context, img image.Image, conversionName string, options ...Option) (image.Image, error)
	RegisterConversion(name string, conversion Conversion)
	HasConversion(name string) bool
}

// Conversion turns a decoded image into the image to store.
type Conversion func(img image.Image, opts *Options) (image.Image, error)

// Fit decides how an image is mapped onto a target box.
type Fit string

const (
	// FitMax scales to the target keeping the aspect ratio when one side is zero.
	FitMax Fit = "max"
	// FitContain scales down to fit inside the box.
	FitContain Fit = "contain"
	// FitFill scales and center-crops to exactly the box.
	FitFill Fit = "fill"
)

type Option func(*Options)

// Options override the size a conversion would otherwise pick.
type Options struct {
	Width   int
	Height  int
	Fit     Fit
	Sharpen float64
}

func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

func WithFit(fit Fit) Option {
	return func(o *Options) {
		o.Fit = fit
	}
}

func WithSharpen(sigma float64) Option {
	return func(o *Options) {
		o.Sharpen = sigma
	}
}

func NewOptions(opts ...Option) *Options {
	o := &Options{Fit: FitMax}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
