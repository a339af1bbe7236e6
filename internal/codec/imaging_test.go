// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/jpg2png/pkg/types"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 90}))
}

func TestImagingConvert(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	dst := filepath.Join(dir, "photo.png")
	writeJPEG(t, src, 12, 8)

	c := NewImaging()
	require.NoError(t, c.Convert(context.Background(), src, dst, 80))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestImagingConvertOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	dst := filepath.Join(dir, "photo.png")
	writeJPEG(t, src, 4, 4)
	require.NoError(t, os.WriteFile(dst, []byte("stale"), 0o644))

	c := NewImaging()
	require.NoError(t, c.Convert(context.Background(), src, dst, 50))
	require.NoError(t, c.Convert(context.Background(), src, dst, 50))

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)
}

func TestImagingConvertFailedEncodeKeepsPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	dst := filepath.Join(dir, "photo.png")
	writeJPEG(t, src, 4, 4)
	require.NoError(t, os.WriteFile(dst, []byte("previous"), 0o644))

	orig := encodePNG
	t.Cleanup(func() { encodePNG = orig })
	encodePNG = func(w io.Writer, _ image.Image, _ png.CompressionLevel) error {
		if _, err := w.Write([]byte("\x89PNG partial")); err != nil {
			return err
		}
		return errors.New("no space left on device")
	}

	err := NewImaging().Convert(context.Background(), src, dst, 80)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no space left on device")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"photo.jpg", "photo.png"}, names)
}

func TestImagingConvertFailedEncodeLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	dst := filepath.Join(dir, "photo.png")
	writeJPEG(t, src, 4, 4)

	orig := encodePNG
	t.Cleanup(func() { encodePNG = orig })
	encodePNG = func(w io.Writer, _ image.Image, _ png.CompressionLevel) error {
		_, _ = w.Write([]byte("\x89PNG partial"))
		return errors.New("write interrupted")
	}

	require.Error(t, NewImaging().Convert(context.Background(), src, dst, 80))
	assert.NoFileExists(t, dst)
}

func TestImagingConvertErrors(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T, dir string) string
		errMsg string
	}{
		{
			name: "corrupt jpeg",
			setup: func(t *testing.T, dir string) string {
				p := filepath.Join(dir, "broken.jpg")
				require.NoError(t, os.WriteFile(p, []byte("this is not an image"), 0o644))
				return p
			},
			errMsg: "decoding",
		},
		{
			name: "png content with jpg extension",
			setup: func(t *testing.T, dir string) string {
				p := filepath.Join(dir, "fake.jpg")
				f, err := os.Create(p)
				require.NoError(t, err)
				defer f.Close()
				require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 2, 2))))
				return p
			},
			errMsg: "not a JPEG image",
		},
		{
			name: "missing source",
			setup: func(t *testing.T, dir string) string {
				return filepath.Join(dir, "gone.jpg")
			},
			errMsg: "opening",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := tt.setup(t, dir)
			err := NewImaging().Convert(context.Background(), src, filepath.Join(dir, "out.png"), 80)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestImagingConvertCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewImaging().Convert(ctx, "in.jpg", "out.png", 80)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompressionLevel(t *testing.T) {
	tests := []struct {
		quality int
		want    png.CompressionLevel
	}{
		{1, png.BestSpeed},
		{30, png.BestSpeed},
		{31, png.DefaultCompression},
		{70, png.DefaultCompression},
		{71, png.BestCompression},
		{80, png.BestCompression},
		{100, png.BestCompression},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompressionLevel(tt.quality), "quality %d", tt.quality)
	}
}

func TestNew(t *testing.T) {
	c, err := New(types.CodecImaging)
	require.NoError(t, err)
	assert.Equal(t, "imaging", c.Name())

	c, err = New("")
	require.NoError(t, err)
	assert.Equal(t, "imaging", c.Name())

	_, err = New("webp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown codec")
}
