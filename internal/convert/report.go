// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/jpg2png/pkg/types"
)

// Report is the YAML document written for a run by WriteReport.
type Report struct {
	Source      string                  `yaml:"source"`
	Options     types.ConversionOptions `yaml:"options"`
	GeneratedAt time.Time               `yaml:"generated_at"`

	Result `yaml:",inline"`
}

// WriteReport writes the outcome of a run to path as YAML, creating the
// parent directory when needed.
func WriteReport(path, source string, opts types.ConversionOptions, result Result) error {
	report := Report{
		Source:      source,
		Options:     opts,
		GeneratedAt: time.Now().UTC(),
		Result:      result,
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}
	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &report, nil
}
