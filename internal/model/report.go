package model

import (
	"fmt"
	"strings"
	"time"
)

// TestStatus represents the terminal verdict of a mutation test.
type TestStatus int

const (
	// Killed indicates the test command failed against the mutant.
	Killed TestStatus = iota
	// Survived indicates the test command passed against the mutant.
	Survived
	// Timeout indicates the test command exceeded the per-mutant timeout.
	Timeout
	// Errored indicates infrastructure kept failing for this mutant.
	Errored
)

func (s TestStatus) String() string {
	switch s {
	case Killed:
		return "killed"
	case Survived:
		return "survived"
	case Timeout:
		return "timeout"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s TestStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TestStatus) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "killed":
		*s = Killed
	case "survived":
		*s = Survived
	case "timeout":
		*s = Timeout
	case "errored":
		*s = Errored
	default:
		return fmt.Errorf("unknown test status %q", text)
	}

	return nil
}

// Result is the outcome of executing one Mutation.
type Result struct {
	MutationID    string
	Status        TestStatus
	ExitCode      int
	Duration      time.Duration
	StderrExcerpt string
	Attempts      int
}

// Summary holds the headline numbers of a report.
type Summary struct {
	TotalMutations int `json:"totalMutations"`
	Killed         int `json:"killed"`
	Survived       int `json:"survived"`
	Timeout        int `json:"timeout"`
	Errored        int `json:"errored"`
	// Detected is the score numerator: killed, plus timeouts when they count as kills.
	Detected int `json:"detected"`
	// Planned is the number of generated mutations, completed or not.
	Planned int `json:"planned"`
	// MutationScore is nil when no mutation produced a usable verdict.
	MutationScore        *float64 `json:"mutationScore"`
	ExecutionTimeSeconds float64  `json:"executionTimeSeconds"`
}

// Hotspot is a source location ranked by how many mutants survived there.
type Hotspot struct {
	File          string `json:"file"`
	Line          int    `json:"line"`
	SurvivedCount int    `json:"survivedCount"`
	TotalCount    int    `json:"totalCount"`
}

// MutationDetail describes one mutant for human review.
type MutationDetail struct {
	ID                   string       `json:"id"`
	File                 string       `json:"file"`
	Line                 int          `json:"line"`
	OperatorKind         OperatorKind `json:"operatorKind"`
	OriginalLine         string       `json:"originalLine"`
	MutatedLine          string       `json:"mutatedLine"`
	Diff                 string       `json:"diff,omitempty"`
	ExitCode             int          `json:"exitCode"`
	StderrExcerpt        string       `json:"stderrExcerpt,omitempty"`
	ExecutionTimeSeconds float64      `json:"executionTimeSeconds"`
}

// ResultEntry is the per-mutation line of the full results listing.
type ResultEntry struct {
	ID           string       `json:"id"`
	File         string       `json:"file"`
	Line         int          `json:"line"`
	OperatorKind OperatorKind `json:"operatorKind"`
	Status       TestStatus   `json:"status"`
	ExitCode     int          `json:"exitCode"`
	DurationMs   int64        `json:"durationMs"`
	Attempts     int          `json:"attempts"`
}

// Report is the aggregate view of a session.
type Report struct {
	SessionID         string             `json:"sessionId"`
	Complete          bool               `json:"complete"`
	AbortReason       string             `json:"abortReason,omitempty"`
	Summary           Summary            `json:"summary"`
	CoverageByFile    map[string]float64 `json:"coverageByFile"`
	Hotspots          []Hotspot          `json:"hotspots"`
	SurvivedMutations []MutationDetail   `json:"survivedMutations"`
	TimedOutMutations []MutationDetail   `json:"timedOutMutations"`
	ErroredMutations  []MutationDetail   `json:"erroredMutations"`
	Results           []ResultEntry      `json:"results"`
}
