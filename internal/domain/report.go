package domain

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// DefaultHotspotLimit caps the hotspot list persisted in a report.
const DefaultHotspotLimit = 20

// ReportInput is everything the aggregator needs to build a report.
type ReportInput struct {
	SessionID string
	// Mutations is the full generated set in generation order.
	Mutations []m.Mutation
	// Results holds one terminal result per completed mutation, in any order.
	Results               []m.Result
	TimeoutCountsAsKilled bool
	Elapsed               time.Duration
	// AbortReason is set when the session stopped early.
	AbortReason  string
	HotspotLimit int
}

type location struct {
	file string
	line int
}

// BuildReport aggregates a session's results. The output does not depend on
// the order in which results completed.
func BuildReport(in ReportInput) m.Report {
	position := make(map[string]int, len(in.Mutations))
	for i, mutation := range in.Mutations {
		position[mutation.ID] = i
	}

	results := make([]m.Result, 0, len(in.Results))
	seen := make(map[string]bool, len(in.Results))

	for _, result := range in.Results {
		if _, ok := position[result.MutationID]; !ok || seen[result.MutationID] {
			slog.Warn("Ignoring result without a matching mutation", "mutation", result.MutationID)
			continue
		}

		seen[result.MutationID] = true
		results = append(results, result)
	}

	slices.SortFunc(results, func(a, b m.Result) int {
		return cmp.Compare(position[a.MutationID], position[b.MutationID])
	})

	var (
		session   scoreTally
		byFile    = map[string]*scoreTally{}
		locations = map[location]*m.Hotspot{}
	)

	report := m.Report{
		SessionID:         in.SessionID,
		AbortReason:       in.AbortReason,
		CoverageByFile:    map[string]float64{},
		Hotspots:          []m.Hotspot{},
		SurvivedMutations: []m.MutationDetail{},
		TimedOutMutations: []m.MutationDetail{},
		ErroredMutations:  []m.MutationDetail{},
		Results:           make([]m.ResultEntry, 0, len(results)),
	}

	for _, result := range results {
		mutation := in.Mutations[position[result.MutationID]]
		file := string(mutation.Source.ShortPath)

		session.add(result.Status)

		tally, ok := byFile[file]
		if !ok {
			tally = &scoreTally{}
			byFile[file] = tally
		}

		tally.add(result.Status)

		at := location{file: file, line: mutation.Line}

		spot, ok := locations[at]
		if !ok {
			spot = &m.Hotspot{File: file, Line: mutation.Line}
			locations[at] = spot
		}

		spot.TotalCount++

		switch result.Status {
		case m.Survived:
			spot.SurvivedCount++

			detail := newMutationDetail(mutation, result)
			detail.Diff = lineDiff(mutation)
			report.SurvivedMutations = append(report.SurvivedMutations, detail)
		case m.Timeout:
			report.TimedOutMutations = append(report.TimedOutMutations, newMutationDetail(mutation, result))
		case m.Errored:
			report.ErroredMutations = append(report.ErroredMutations, newMutationDetail(mutation, result))
		case m.Killed:
		}

		report.Results = append(report.Results, m.ResultEntry{
			ID:           mutation.ID,
			File:         file,
			Line:         mutation.Line,
			OperatorKind: mutation.Kind,
			Status:       result.Status,
			ExitCode:     result.ExitCode,
			DurationMs:   result.Duration.Milliseconds(),
			Attempts:     result.Attempts,
		})
	}

	for file, tally := range byFile {
		if score := tally.score(in.TimeoutCountsAsKilled); score != nil {
			report.CoverageByFile[file] = *score
		}
	}

	report.Hotspots = rankHotspots(locations, in.HotspotLimit)

	report.Summary = m.Summary{
		TotalMutations:       session.total(),
		Killed:               session.killed,
		Survived:             session.survived,
		Timeout:              session.timeout,
		Errored:              session.errored,
		Detected:             session.detected(in.TimeoutCountsAsKilled),
		Planned:              len(in.Mutations),
		MutationScore:        session.score(in.TimeoutCountsAsKilled),
		ExecutionTimeSeconds: roundSeconds(in.Elapsed),
	}

	report.Complete = in.AbortReason == "" && len(results) == len(in.Mutations)

	return report
}

// rankHotspots orders locations with at least one survivor by survived count,
// then total count, then file and line. A limit <= 0 keeps every location.
func rankHotspots(locations map[location]*m.Hotspot, limit int) []m.Hotspot {
	hotspots := make([]m.Hotspot, 0, len(locations))

	for _, spot := range locations {
		if spot.SurvivedCount > 0 {
			hotspots = append(hotspots, *spot)
		}
	}

	slices.SortFunc(hotspots, func(a, b m.Hotspot) int {
		return cmp.Or(
			cmp.Compare(b.SurvivedCount, a.SurvivedCount),
			cmp.Compare(b.TotalCount, a.TotalCount),
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
		)
	})

	if limit > 0 && len(hotspots) > limit {
		hotspots = hotspots[:limit]
	}

	return hotspots
}

func newMutationDetail(mutation m.Mutation, result m.Result) m.MutationDetail {
	return m.MutationDetail{
		ID:                   mutation.ID,
		File:                 string(mutation.Source.ShortPath),
		Line:                 mutation.Line,
		OperatorKind:         mutation.Kind,
		OriginalLine:         mutation.OriginalLine,
		MutatedLine:          mutation.MutatedLine,
		ExitCode:             result.ExitCode,
		StderrExcerpt:        result.StderrExcerpt,
		ExecutionTimeSeconds: roundSeconds(result.Duration),
	}
}

// lineDiff renders the mutation as a one-line unified diff.
func lineDiff(mutation m.Mutation) string {
	diff := difflib.UnifiedDiff{
		A:        []string{mutation.OriginalLine + "\n"},
		B:        []string{mutation.MutatedLine + "\n"},
		FromFile: fmt.Sprintf("a/%s:%d", mutation.Source.ShortPath, mutation.Line),
		ToFile:   fmt.Sprintf("b/%s:%d", mutation.Source.ShortPath, mutation.Line),
		Context:  0,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		slog.Warn("Failed to render diff", "mutation", mutation.ID, "error", err)
		return ""
	}

	return text
}

func roundSeconds(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 1000
}
