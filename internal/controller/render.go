package controller

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

const notApplicable = "N/A"

type fileStat struct {
	path   string
	counts map[m.OperatorKind]int
	total  int
}

func buildFileStats(mutations []m.Mutation) ([]fileStat, []m.OperatorKind) {
	info := make(map[string]*fileStat)
	kindSeen := make(map[m.OperatorKind]bool)

	var kinds []m.OperatorKind

	for _, mutation := range mutations {
		path := string(mutation.Source.ShortPath)

		stat, ok := info[path]
		if !ok {
			stat = &fileStat{path: path, counts: map[m.OperatorKind]int{}}
			info[path] = stat
		}

		stat.counts[mutation.Kind]++
		stat.total++

		if !kindSeen[mutation.Kind] {
			kindSeen[mutation.Kind] = true
			kinds = append(kinds, mutation.Kind)
		}
	}

	statsList := make([]fileStat, 0, len(info))
	for _, stat := range info {
		statsList = append(statsList, *stat)
	}

	sort.Slice(statsList, func(i, j int) bool {
		return statsList[i].path < statsList[j].path
	})

	return statsList, kinds
}

func renderEstimationTable(mutations []m.Mutation) string {
	statsList, kinds := buildFileStats(mutations)

	var tableBuffer bytes.Buffer

	header := []string{"Path"}
	alignment := []int{tablewriter.ALIGN_LEFT}

	for _, kind := range kinds {
		header = append(header, string(kind))
		alignment = append(alignment, tablewriter.ALIGN_CENTER)
	}

	header = append(header, "Mutations")
	alignment = append(alignment, tablewriter.ALIGN_CENTER)

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment(alignment)

	totals := make(map[m.OperatorKind]int, len(kinds))

	for _, stat := range statsList {
		row := []string{stat.path}
		for _, kind := range kinds {
			row = append(row, fmt.Sprintf("%d", stat.counts[kind]))
			totals[kind] += stat.counts[kind]
		}

		table.Append(append(row, fmt.Sprintf("%d", stat.total)))
	}

	footer := []string{fmt.Sprintf("Total Files %d", len(statsList))}
	for _, kind := range kinds {
		footer = append(footer, fmt.Sprintf("%d", totals[kind]))
	}

	table.SetFooter(append(footer, fmt.Sprintf("%d", len(mutations))))
	table.Render()

	return tableBuffer.String()
}

func formatScore(score *float64) string {
	if score == nil {
		return notApplicable
	}

	return fmt.Sprintf("%.2f%%", *score)
}

func renderSummaryTable(report m.Report) string {
	var tableBuffer bytes.Buffer

	summary := report.Summary

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Total", "Killed", "Survived", "Timeout", "Errored", "Score", "Time"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.Append([]string{
		fmt.Sprintf("%d", summary.TotalMutations),
		fmt.Sprintf("%d", summary.Killed),
		fmt.Sprintf("%d", summary.Survived),
		fmt.Sprintf("%d", summary.Timeout),
		fmt.Sprintf("%d", summary.Errored),
		formatScore(summary.MutationScore),
		fmt.Sprintf("%.1fs", summary.ExecutionTimeSeconds),
	})
	table.Render()

	return tableBuffer.String()
}

func renderHotspotTable(hotspots []m.Hotspot, top int) string {
	if top > 0 && len(hotspots) > top {
		hotspots = hotspots[:top]
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Location", "Survived", "Total"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER})

	for _, spot := range hotspots {
		table.Append([]string{
			fmt.Sprintf("%s:%d", spot.File, spot.Line),
			fmt.Sprintf("%d", spot.SurvivedCount),
			fmt.Sprintf("%d", spot.TotalCount),
		})
	}

	table.Render()

	return tableBuffer.String()
}

func renderSurvivors(survivors []m.MutationDetail, top int) string {
	if top > 0 && len(survivors) > top {
		survivors = survivors[:top]
	}

	var b strings.Builder

	for _, detail := range survivors {
		fmt.Fprintf(&b, "%s  %s:%d  [%s]\n", shortID(detail.ID), detail.File, detail.Line, detail.OperatorKind)
		fmt.Fprintf(&b, "  - %s\n", strings.TrimSpace(detail.OriginalLine))
		fmt.Fprintf(&b, "  + %s\n", strings.TrimSpace(detail.MutatedLine))
	}

	return b.String()
}

// renderReport builds the plain-text console summary shared by every UI.
func renderReport(report m.Report, top int) string {
	var b strings.Builder

	status := "complete"
	if !report.Complete {
		status = "INCOMPLETE"
	}

	fmt.Fprintf(&b, "Session %s (%s)\n", report.SessionID, status)

	if report.AbortReason != "" {
		fmt.Fprintf(&b, "Aborted: %s\n", report.AbortReason)
	}

	if !report.Complete {
		fmt.Fprintf(&b, "Completed %d of %d planned mutations\n", report.Summary.TotalMutations, report.Summary.Planned)
	}

	b.WriteString("\n")
	b.WriteString(renderSummaryTable(report))

	if len(report.Hotspots) > 0 {
		b.WriteString("\nHotspots\n")
		b.WriteString(renderHotspotTable(report.Hotspots, top))
	}

	if len(report.SurvivedMutations) > 0 {
		fmt.Fprintf(&b, "\nSurvivors (%d)\n", len(report.SurvivedMutations))
		b.WriteString(renderSurvivors(report.SurvivedMutations, top))
	}

	fmt.Fprintf(&b, "\nMutation score: %s\n", formatScore(report.Summary.MutationScore))

	return b.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

func formatTestStatus(status m.TestStatus) string {
	return status.String()
}
