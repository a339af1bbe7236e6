// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CodecName identifies the image codec backend that performs decoding and
// encoding.
type CodecName string

const (
	CodecImaging CodecName = "imaging"
	CodecMagick  CodecName = "magick"
)

// DefaultQuality is the PNG quality used when none is configured.
const DefaultQuality = 80

// ConversionOptions holds the settings for one conversion run. The options
// are fixed for the duration of the run.
type ConversionOptions struct {
	// OutputDir overrides the destination directory for every PNG. When
	// empty, each PNG is written next to its source file.
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`

	// Recursive controls whether subdirectories are traversed.
	Recursive bool `json:"recursive" yaml:"recursive"`

	// Quality is the PNG quality/compression parameter, 1-100.
	Quality int `json:"quality" yaml:"quality"`

	// Codec selects the backend: imaging or magick.
	Codec CodecName `json:"codec" yaml:"codec"`
}
