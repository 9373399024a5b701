package domain

import (
	"math"

	m "mutiny.dev/pkg/mutiny/internal/model"
	pkg "mutiny.dev/pkg/mutiny/pkg"
)

// scoreTally accumulates verdict counts for one scope (session or file).
type scoreTally struct {
	killed   int
	survived int
	timeout  int
	errored  int
}

func (t *scoreTally) add(status m.TestStatus) {
	switch status {
	case m.Killed:
		t.killed++
	case m.Survived:
		t.survived++
	case m.Timeout:
		t.timeout++
	case m.Errored:
		t.errored++
	}
}

func (t scoreTally) total() int {
	return t.killed + t.survived + t.timeout + t.errored
}

func (t scoreTally) detected(timeoutCountsAsKilled bool) int {
	if timeoutCountsAsKilled {
		return t.killed + t.timeout
	}

	return t.killed
}

// score returns detected / (total - errored) * 100 rounded to two decimals, or
// nil when no mutant produced a usable verdict.
func (t scoreTally) score(timeoutCountsAsKilled bool) *float64 {
	usable := t.total() - t.errored
	if usable == 0 {
		return nil
	}

	value := float64(t.detected(timeoutCountsAsKilled)) / float64(usable) * 100
	value = math.Round(value*100) / 100

	return &value
}

// resultsFromSpill drains the result journal of a session.
func resultsFromSpill(results pkg.FileSpill[m.Result]) ([]m.Result, error) {
	collected := make([]m.Result, 0, results.Len())

	err := results.Range(func(_ uint64, result m.Result) error {
		collected = append(collected, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return collected, nil
}
