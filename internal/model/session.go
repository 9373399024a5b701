package model

import "time"

// Session is the read-only configuration of one mutation testing run.
type Session struct {
	Root       Path           `yaml:"root" validate:"required"`
	Extensions []string       `yaml:"extensions" validate:"min=1,dive,required"`
	Exclude    []string       `yaml:"exclude,omitempty"`
	Operators  []OperatorKind `yaml:"operators" validate:"dive,operatorkind"`
	// Command is the test oracle as an argv list; its exit code is the only contract.
	Command     []string      `yaml:"command" validate:"min=1,dive,required"`
	Parallelism int           `yaml:"parallelism" validate:"gte=1"`
	Timeout     time.Duration `yaml:"timeout" validate:"gt=0"`
	RetryBudget int           `yaml:"retryBudget" validate:"gte=0"`

	TimeoutCountsAsKilled bool `yaml:"timeoutCountsAsKilled"`

	// WorkspaceDir is the parent directory for isolated workspaces; empty means the OS temp dir.
	WorkspaceDir Path `yaml:"workspaceDir,omitempty"`
	// WorkspaceIgnore lists directory base names never copied into workspaces.
	WorkspaceIgnore []string `yaml:"workspaceIgnore,omitempty"`
}
