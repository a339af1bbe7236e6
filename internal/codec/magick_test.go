// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package codec

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	combinedFunc  func(name string, args []string) ([]byte, error)
	calls         [][]string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if m.combinedFunc != nil {
		return m.combinedFunc(name, args)
	}
	return nil, nil
}

func TestDetectMagick(t *testing.T) {
	tests := []struct {
		name    string
		exec    *mockExecutor
		wantBin string
		wantErr bool
	}{
		{
			name: "magick available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"magick": true},
				runnableCmds:  map[string]bool{"magick -version": true},
			},
			wantBin: "magick",
		},
		{
			name: "convert fallback when magick missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"convert": true},
				runnableCmds:  map[string]bool{"convert -version": true},
			},
			wantBin: "convert",
		},
		{
			name: "neither available",
			exec: &mockExecutor{
				availableBins: map[string]bool{},
				runnableCmds:  map[string]bool{},
			},
			wantErr: true,
		},
		{
			name: "magick on PATH but -version fails, convert works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"magick": true, "convert": true},
				runnableCmds:  map[string]bool{"convert -version": true},
			},
			wantBin: "convert",
		},
		{
			name: "both available, magick preferred",
			exec: &mockExecutor{
				availableBins: map[string]bool{"magick": true, "convert": true},
				runnableCmds:  map[string]bool{"magick -version": true, "convert -version": true},
			},
			wantBin: "magick",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := detectMagick(tt.exec)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "no ImageMagick binary available") {
					t.Errorf("error should mention no binary available, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Binary() != tt.wantBin {
				t.Errorf("got binary %q, want %q", m.Binary(), tt.wantBin)
			}
			if m.Name() != "magick" {
				t.Errorf("codec name = %q, want %q", m.Name(), "magick")
			}
		})
	}
}

func TestMagickConvert(t *testing.T) {
	tests := []struct {
		name     string
		bin      string
		src      string
		combined func(string, []string) ([]byte, error)
		wantArgs []string
		wantErr  string
	}{
		{
			name:     "magick passes quality and PNG prefix",
			bin:      "magick",
			wantArgs: []string{"magick", "JPEG:in.jpg", "-quality", "80", "PNG:out.png"},
		},
		{
			name:     "convert uses the same argument order",
			bin:      "convert",
			wantArgs: []string{"convert", "JPEG:in.jpg", "-quality", "80", "PNG:out.png"},
		},
		{
			name: "failure includes command output",
			bin:  "magick",
			combined: func(string, []string) ([]byte, error) {
				return []byte("magick: improper image header `in.jpg'\n"), errors.New("exit status 1")
			},
			wantArgs: []string{"magick", "JPEG:in.jpg", "-quality", "80", "PNG:out.png"},
			wantErr:  "improper image header",
		},
		{
			name: "failure without output still wraps error",
			bin:  "convert",
			combined: func(string, []string) ([]byte, error) {
				return nil, errors.New("signal: killed")
			},
			wantArgs: []string{"convert", "JPEG:in.jpg", "-quality", "80", "PNG:out.png"},
			wantErr:  "signal: killed",
		},
		{
			name:     "dash-prefixed source stays out of option position",
			bin:      "magick",
			src:      filepath.Join(".", "-rotate.jpg"),
			wantArgs: []string{"magick", "JPEG:-rotate.jpg", "-quality", "80", "PNG:out.png"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{combinedFunc: tt.combined}
			m := &MagickCodec{bin: tt.bin, exec: exec}
			src := tt.src
			if src == "" {
				src = "in.jpg"
			}

			err := m.Convert(context.Background(), src, "out.png", 80)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(exec.calls) != 1 {
				t.Fatalf("got %d calls, want 1", len(exec.calls))
			}
			if got := strings.Join(exec.calls[0], " "); got != strings.Join(tt.wantArgs, " ") {
				t.Errorf("command = %q, want %q", got, strings.Join(tt.wantArgs, " "))
			}
		})
	}
}
