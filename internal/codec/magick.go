// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	binMagick  = "magick"
	binConvert = "convert"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunCombined(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// MagickCodec converts images by running an ImageMagick binary. ImageMagick 7
// ships "magick"; ImageMagick 6 ships "convert". Both accept the same
// argument order for a plain format conversion.
type MagickCodec struct {
	bin  string
	exec executor
}

func (m *MagickCodec) Name() string { return "magick" }

// Binary returns the ImageMagick executable this codec runs.
func (m *MagickCodec) Binary() string { return m.bin }

func (m *MagickCodec) available() bool {
	if _, err := m.exec.LookPath(m.bin); err != nil {
		return false
	}
	return m.exec.RunSilent(m.bin, "-version") == nil
}

// Convert runs "<bin> JPEG:<src> -quality <q> PNG:<dst>". The JPEG: prefix
// forces the JPEG decoder and keeps a source named like "-rotate.jpg" out of
// option position. For PNG output ImageMagick reads the tens digit of
// quality as the zlib level and the ones digit as the row filter.
func (m *MagickCodec) Convert(ctx context.Context, src, dst string, quality int) error {
	args := []string{"JPEG:" + src, "-quality", strconv.Itoa(quality), "PNG:" + dst}
	out, err := m.exec.RunCombined(ctx, m.bin, args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("running %s on %s: %w", m.bin, src, err)
		}
		return fmt.Errorf("running %s on %s: %w: %s", m.bin, src, err, msg)
	}
	return nil
}

var defaultExec = &osExecutor{}

// DetectMagick tries "magick" first, falls back to "convert". Returns an
// error if neither binary is available.
func DetectMagick() (*MagickCodec, error) {
	return detectMagick(defaultExec)
}

func detectMagick(exec executor) (*MagickCodec, error) {
	for _, bin := range []string{binMagick, binConvert} {
		m := &MagickCodec{bin: bin, exec: exec}
		if m.available() {
			return m, nil
		}
	}
	return nil, fmt.Errorf(
		"no ImageMagick binary available: neither %s nor %s found or operational",
		binMagick, binConvert,
	)
}
