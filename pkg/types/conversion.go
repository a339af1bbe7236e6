// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for jpg2png: conversion
// options, the transient source/output task, and the record kept for every
// conversion attempt.
package types

import "time"

// ConversionStatus indicates the outcome of a single conversion attempt.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// ConversionTask pairs a qualifying source file with its resolved PNG path.
type ConversionTask struct {
	Source string `json:"source" yaml:"source"`
	Output string `json:"output" yaml:"output"`
}

// ConversionRecord describes one conversion attempt and its outcome.
type ConversionRecord struct {
	ConversionTask `yaml:",inline"`

	// Status is converted, skipped, or failed.
	Status ConversionStatus `json:"status" yaml:"status"`

	// Error holds the failure message when Status is failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Quality is the quality value handed to the codec.
	Quality int `json:"quality" yaml:"quality"`

	// Codec names the backend that handled the file.
	Codec string `json:"codec" yaml:"codec"`

	// StartedAt is when the attempt began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// Duration is how long the attempt took, including directory creation.
	Duration time.Duration `json:"duration" yaml:"duration"`
}
