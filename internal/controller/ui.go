// Package controller provides output adapters for displaying mutation testing results.
package controller

import (
	"context"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeEstimate StartMode = iota
	ModeTest
	ModeView
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithEstimateMode sets the UI to estimation mode.
func WithEstimateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeEstimate
	}
}

// WithTestMode sets the UI to test execution mode.
func WithTestMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeTest
	}
}

// WithViewMode sets the UI to report viewing mode.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	config := StartConfig{mode: ModeEstimate}
	for _, option := range options {
		option(&config)
	}

	return config
}

// UI defines the interface for presenting a mutation session.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	// Close stops any live rendering. It is safe to call more than once.
	Close(ctx context.Context)
	DisplayEstimation(ctx context.Context, mutations []m.Mutation, err error) error
	DisplayWarning(ctx context.Context, message string)
	DisplayConcurrencyInfo(ctx context.Context, threads int, total int)
	DisplayCompletedTestInfo(ctx context.Context, mutation m.Mutation, result m.Result, completed int, total int)
	// DisplayReport prints the console summary: totals, score, and the top
	// hotspots and survivors.
	DisplayReport(ctx context.Context, report m.Report, top int) error
}
