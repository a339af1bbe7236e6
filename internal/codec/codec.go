// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package codec decodes JPEG files and encodes them as PNG. Backends
// implement the Codec interface: imaging runs in-process, magick shells out
// to an ImageMagick binary.
package codec

import (
	"context"
	"fmt"
	"image/png"

	"github.com/pdiddy/jpg2png/pkg/types"
)

// Codec converts a JPEG file at src into a PNG file at dst. Different
// backends (imaging, magick) implement this interface.
type Codec interface {
	// Name returns the backend name ("imaging" or "magick").
	Name() string

	// Convert decodes src as JPEG and writes a PNG to dst, replacing any
	// existing file. quality is in 1-100.
	Convert(ctx context.Context, src, dst string, quality int) error
}

// New returns the codec registered under name.
func New(name types.CodecName) (Codec, error) {
	switch name {
	case types.CodecImaging, "":
		return NewImaging(), nil
	case types.CodecMagick:
		m, err := DetectMagick()
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown codec %q: must be %q or %q", name, types.CodecImaging, types.CodecMagick)
	}
}

// CompressionLevel maps a 1-100 quality onto the zlib effort of the PNG
// encoder. Higher quality spends more effort for a smaller lossless file.
func CompressionLevel(quality int) png.CompressionLevel {
	switch {
	case quality <= 30:
		return png.BestSpeed
	case quality <= 70:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
