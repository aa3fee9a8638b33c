package main

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG writes a solid-color PNG of the given size.
func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestLoadAndPreprocessShapeAndValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "solid.png")
	writePNG(t, path, 320, 240, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	tensor, err := loadAndPreprocess(path)
	require.NoError(t, err)
	require.Len(t, tensor, 3*cropSize*cropSize)

	// A solid-color image stays solid through resize and crop, so every
	// plane holds its channel's normalized value.
	const plane = cropSize * cropSize
	values := [3]float32{200, 100, 50}
	for c := 0; c < 3; c++ {
		want := (values[c]/255.0 - channelMean[c]) / channelStd[c]
		assert.InDelta(t, want, tensor[c*plane], 0.02, "channel %d first pixel", c)
		assert.InDelta(t, want, tensor[c*plane+plane-1], 0.02, "channel %d last pixel", c)
		assert.InDelta(t, want, tensor[c*plane+plane/2], 0.02, "channel %d center pixel", c)
	}
}

func TestLoadAndPreprocessDeterministic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "solid.png")
	writePNG(t, path, 300, 500, color.RGBA{R: 30, G: 180, B: 240, A: 255})

	first, err := loadAndPreprocess(path)
	require.NoError(t, err)
	second, err := loadAndPreprocess(path)
	require.NoError(t, err)

	assert.Equal(t, first, second, "identical bytes must produce identical tensors")
}

func TestLoadAndPreprocessPortraitAndTinyImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Portrait: width becomes the shorter side.
	portrait := filepath.Join(dir, "portrait.png")
	writePNG(t, portrait, 100, 400, color.RGBA{R: 90, G: 90, B: 90, A: 255})
	tensor, err := loadAndPreprocess(portrait)
	require.NoError(t, err)
	assert.Len(t, tensor, 3*cropSize*cropSize)

	// Tiny: upscaled to the resize target before cropping.
	tiny := filepath.Join(dir, "tiny.png")
	writePNG(t, tiny, 5, 8, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	tensor, err = loadAndPreprocess(tiny)
	require.NoError(t, err)
	assert.Len(t, tensor, 3*cropSize*cropSize)
}

func TestLoadAndPreprocessCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "corrupt.jpg")
	require.NoError(t, os.WriteFile(path, []byte("these are not image bytes"), 0o644))

	_, err := loadAndPreprocess(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDecodeImage))
}

func TestLoadAndPreprocessMissingFile(t *testing.T) {
	t.Parallel()

	_, err := loadAndPreprocess(filepath.Join(t.TempDir(), "nope.jpg"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDecodeImage))
}
