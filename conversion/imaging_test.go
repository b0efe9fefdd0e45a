package conversion

import (
	"context"
	"image"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadConversionCapsWidth(t *testing.T) {
	tr := NewImagingTransformer()
	tr.RegisterUploadConversion(400)
	require.True(t, tr.HasConversion(ConversionUpload))

	wide := imaging.New(1200, 600, image.White.C)
	out, err := tr.Transform(context.Background(), wide, ConversionUpload)
	require.NoError(t, err)
	assert.Equal(t, 400, out.Bounds().Dx())
	assert.Equal(t, 200, out.Bounds().Dy())

	narrow := imaging.New(300, 300, image.White.C)
	out, err = tr.Transform(context.Background(), narrow, ConversionUpload)
	require.NoError(t, err)
	assert.Equal(t, 300, out.Bounds().Dx())
}

func TestTransformUnknownConversion(t *testing.T) {
	tr := NewImagingTransformer()
	_, err := tr.Transform(context.Background(), imaging.New(10, 10, image.Black.C), "thumbnail")
	assert.ErrorIs(t, err, ErrUnknownConversion)
}

func TestResizeImageFits(t *testing.T) {
	src := imaging.New(800, 400, image.Black.C)

	out, err := ResizeImage(src, 100, 100, NewOptions(WithFit(FitContain)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 50), out.Bounds())

	out, err = ResizeImage(src, 100, 100, NewOptions(WithFit(FitFill)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())

	_, err = ResizeImage(src, 0, 0, NewOptions())
	assert.Error(t, err)
}

func TestResizeImageOptionsOverride(t *testing.T) {
	src := imaging.New(800, 400, image.Black.C)
	out, err := ResizeImage(src, 100, 0, NewOptions(WithSize(200, 0), WithSharpen(0.5)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), out.Bounds())

	_, err = ResizeImage(src, 100, 0, NewOptions(WithFit(FitFill)))
	assert.Error(t, err, "fill needs both sides")
}

func TestTransformCancelled(t *testing.T) {
	tr := NewImagingTransformer()
	tr.RegisterUploadConversion(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := tr.Transform(ctx, imaging.New(20, 20, image.Black.C), ConversionUpload)
	assert.ErrorIs(t, err, context.Canceled)
}
