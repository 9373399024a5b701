package domain

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

func reportMutation(id, file string, line int) m.Mutation {
	return m.Mutation{
		ID:           id,
		Source:       m.File{FullPath: m.Path("/src/" + file), ShortPath: m.Path(file)},
		Line:         line,
		Kind:         m.OperatorRelational,
		OriginalLine: "\tif (x == 5)",
		MutatedLine:  "\tif (x != 5)",
	}
}

func resultFor(id string, status m.TestStatus) m.Result {
	return m.Result{MutationID: id, Status: status, Duration: 1500 * time.Millisecond, Attempts: 1}
}

// hotspotFixture has two survivors on each of a.c:10 and a.c:20 and a killed
// mutant in b.c.
func hotspotFixture() ([]m.Mutation, []m.Result) {
	mutations := []m.Mutation{
		reportMutation("a10-0", "a.c", 10),
		reportMutation("a10-1", "a.c", 10),
		reportMutation("a10-2", "a.c", 10),
		reportMutation("a20-0", "a.c", 20),
		reportMutation("a20-1", "a.c", 20),
		reportMutation("b5-0", "b.c", 5),
	}

	results := []m.Result{
		resultFor("a10-0", m.Survived),
		resultFor("a10-1", m.Survived),
		resultFor("a10-2", m.Killed),
		resultFor("a20-0", m.Survived),
		resultFor("a20-1", m.Survived),
		resultFor("b5-0", m.Killed),
	}

	return mutations, results
}

func TestBuildReport_Summary(t *testing.T) {
	mutations, results := hotspotFixture()

	report := BuildReport(ReportInput{
		SessionID:             "s1",
		Mutations:             mutations,
		Results:               results,
		TimeoutCountsAsKilled: true,
		Elapsed:               2500 * time.Millisecond,
	})

	assert.Equal(t, "s1", report.SessionID)
	assert.True(t, report.Complete)
	assert.Empty(t, report.AbortReason)

	summary := report.Summary
	assert.Equal(t, 6, summary.TotalMutations)
	assert.Equal(t, 6, summary.Planned)
	assert.Equal(t, 2, summary.Killed)
	assert.Equal(t, 4, summary.Survived)
	assert.Equal(t, 2, summary.Detected)
	assert.Equal(t, summary.TotalMutations, summary.Killed+summary.Survived+summary.Timeout+summary.Errored)
	require.NotNil(t, summary.MutationScore)
	assert.InDelta(t, 33.33, *summary.MutationScore, 0.001)
	assert.InDelta(t, 2.5, summary.ExecutionTimeSeconds, 0.001)

	assert.Equal(t, map[string]float64{"a.c": 20, "b.c": 100}, report.CoverageByFile)
	assert.Len(t, report.Results, 6)
	assert.Equal(t, "a10-0", report.Results[0].ID)
	assert.Equal(t, int64(1500), report.Results[0].DurationMs)
}

func TestBuildReport_Hotspots(t *testing.T) {
	mutations, results := hotspotFixture()

	report := BuildReport(ReportInput{Mutations: mutations, Results: results})

	assert.Equal(t, []m.Hotspot{
		{File: "a.c", Line: 10, SurvivedCount: 2, TotalCount: 3},
		{File: "a.c", Line: 20, SurvivedCount: 2, TotalCount: 2},
	}, report.Hotspots)
}

func TestBuildReport_HotspotLimit(t *testing.T) {
	var (
		mutations []m.Mutation
		results   []m.Result
	)

	for line := 1; line <= 25; line++ {
		id := fmt.Sprintf("m%d", line)
		mutations = append(mutations, reportMutation(id, "a.c", line))
		results = append(results, resultFor(id, m.Survived))
	}

	report := BuildReport(ReportInput{Mutations: mutations, Results: results, HotspotLimit: DefaultHotspotLimit})
	require.Len(t, report.Hotspots, DefaultHotspotLimit)
	assert.Equal(t, 1, report.Hotspots[0].Line)
	assert.Equal(t, 20, report.Hotspots[19].Line)

	unlimited := BuildReport(ReportInput{Mutations: mutations, Results: results})
	assert.Len(t, unlimited.Hotspots, 25)
}

func TestBuildReport_OrderIndependent(t *testing.T) {
	mutations, results := hotspotFixture()

	expected := BuildReport(ReportInput{Mutations: mutations, Results: results})

	shuffled := append([]m.Result(nil), results...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	assert.Equal(t, expected, BuildReport(ReportInput{Mutations: mutations, Results: shuffled}))
}

func TestBuildReport_TimeoutPolicy(t *testing.T) {
	mutations := []m.Mutation{
		reportMutation("k", "a.c", 1),
		reportMutation("s", "a.c", 2),
		reportMutation("t", "a.c", 3),
	}
	results := []m.Result{resultFor("k", m.Killed), resultFor("s", m.Survived), resultFor("t", m.Timeout)}

	counted := BuildReport(ReportInput{Mutations: mutations, Results: results, TimeoutCountsAsKilled: true})
	require.NotNil(t, counted.Summary.MutationScore)
	assert.InDelta(t, 66.67, *counted.Summary.MutationScore, 0.001)
	assert.Equal(t, 2, counted.Summary.Detected)

	strict := BuildReport(ReportInput{Mutations: mutations, Results: results})
	require.NotNil(t, strict.Summary.MutationScore)
	assert.InDelta(t, 33.33, *strict.Summary.MutationScore, 0.001)

	require.Len(t, strict.TimedOutMutations, 1)
	assert.Equal(t, "t", strict.TimedOutMutations[0].ID)
}

func TestBuildReport_ErroredExcludedFromScore(t *testing.T) {
	mutations := []m.Mutation{reportMutation("k", "a.c", 1), reportMutation("e", "a.c", 2)}

	report := BuildReport(ReportInput{
		Mutations: mutations,
		Results:   []m.Result{resultFor("k", m.Killed), resultFor("e", m.Errored)},
	})

	require.NotNil(t, report.Summary.MutationScore)
	assert.InDelta(t, 100.0, *report.Summary.MutationScore, 0.001)
	assert.Len(t, report.ErroredMutations, 1)

	allErrored := BuildReport(ReportInput{
		Mutations: mutations,
		Results:   []m.Result{resultFor("k", m.Errored), resultFor("e", m.Errored)},
	})
	assert.Nil(t, allErrored.Summary.MutationScore)
	assert.Empty(t, allErrored.CoverageByFile)
}

func TestBuildReport_Empty(t *testing.T) {
	report := BuildReport(ReportInput{SessionID: "empty"})

	assert.Nil(t, report.Summary.MutationScore)
	assert.True(t, report.Complete)
	assert.NotNil(t, report.Hotspots)
	assert.NotNil(t, report.SurvivedMutations)
	assert.NotNil(t, report.Results)
}

func TestBuildReport_Incomplete(t *testing.T) {
	mutations, results := hotspotFixture()

	report := BuildReport(ReportInput{
		Mutations:   mutations,
		Results:     results[:2],
		AbortReason: "interrupted",
	})

	assert.False(t, report.Complete)
	assert.Equal(t, "interrupted", report.AbortReason)
	assert.Equal(t, 6, report.Summary.Planned)
	assert.Equal(t, 2, report.Summary.TotalMutations)

	partial := BuildReport(ReportInput{Mutations: mutations, Results: results[:5]})
	assert.False(t, partial.Complete)
}

func TestBuildReport_IgnoresUnknownAndDuplicateResults(t *testing.T) {
	mutations, results := hotspotFixture()

	noisy := append([]m.Result(nil), results...)
	noisy = append(noisy, resultFor("ghost", m.Killed), resultFor("a10-0", m.Killed))

	report := BuildReport(ReportInput{Mutations: mutations, Results: noisy})
	assert.Equal(t, 6, report.Summary.TotalMutations)
	assert.Equal(t, 4, report.Summary.Survived)
}

func TestBuildReport_SurvivorDetails(t *testing.T) {
	mutations, results := hotspotFixture()

	report := BuildReport(ReportInput{Mutations: mutations, Results: results})
	require.Len(t, report.SurvivedMutations, 4)

	detail := report.SurvivedMutations[0]
	assert.Equal(t, "a10-0", detail.ID)
	assert.Equal(t, "a.c", detail.File)
	assert.Equal(t, 10, detail.Line)
	assert.Equal(t, "\tif (x == 5)", detail.OriginalLine)
	assert.Equal(t, "\tif (x != 5)", detail.MutatedLine)
	assert.InDelta(t, 1.5, detail.ExecutionTimeSeconds, 0.001)

	assert.Contains(t, detail.Diff, "--- a/a.c:10")
	assert.Contains(t, detail.Diff, "+++ b/a.c:10")
	assert.Contains(t, detail.Diff, "-\tif (x == 5)")
	assert.Contains(t, detail.Diff, "+\tif (x != 5)")
}
