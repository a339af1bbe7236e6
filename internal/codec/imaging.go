// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// ImagingCodec converts images in-process with the disintegration/imaging
// library. It needs no external binaries.
type ImagingCodec struct{}

// NewImaging creates the in-process codec.
func NewImaging() *ImagingCodec {
	return &ImagingCodec{}
}

func (c *ImagingCodec) Name() string { return "imaging" }

// Convert reads the JPEG at src and saves it as PNG at dst. Files whose
// content is not JPEG are rejected even when the extension says otherwise.
func (c *ImagingCodec) Convert(ctx context.Context, src, dst string, quality int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := decodeJPEG(src)
	if err != nil {
		return err
	}

	return writePNG(img, dst, CompressionLevel(quality))
}

var encodePNG = func(w io.Writer, img image.Image, level png.CompressionLevel) error {
	return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(level))
}

// writePNG encodes into a temp file beside dst and renames it into place,
// so dst is either the previous file or a complete PNG.
func writePNG(img image.Image, dst string, level png.CompressionLevel) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", dst, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = encodePNG(tmp, img, level); err != nil {
		return fmt.Errorf("encoding %s: %w", dst, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("replacing %s: %w", dst, err)
	}
	return nil
}

func decodeJPEG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if format != "jpeg" {
		return nil, fmt.Errorf("decoding %s: not a JPEG image (found %s)", path, format)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding %s: %w", path, err)
	}

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}
