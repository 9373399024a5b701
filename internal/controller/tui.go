package controller

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

var (
	accentColor = lipgloss.Color("6")
	titleStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(1, 0, 0, 2)
	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 0, 1, 2)
	accentStyle = lipgloss.NewStyle().Foreground(accentColor)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

var statusColors = map[m.TestStatus]lipgloss.Color{
	m.Killed:   lipgloss.Color("2"),
	m.Survived: lipgloss.Color("1"),
	m.Timeout:  lipgloss.Color("3"),
	m.Errored:  lipgloss.Color("5"),
}

func statusStyle(status m.TestStatus) lipgloss.Style {
	color, ok := statusColors[status]
	if !ok {
		color = lipgloss.Color("8")
	}

	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

// TUI implements UI using Bubble Tea for live progress while mutants run.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
	started bool
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI. Only test mode runs a live program; the other
// modes print once and return.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := newStartConfig(options...)
	if config.mode != ModeTest {
		t.mu.Lock()
		t.started = true
		t.mu.Unlock()

		return nil
	}

	return t.startWithModel(newExecutionModel())
}

func (t *TUI) startWithModel(model tea.Model) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return nil
	}

	// Input and signals stay with the CLI so Ctrl-C cancels the session.
	program := tea.NewProgram(model,
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil {
			slog.Error("TUI program stopped", "error", err)
		}
	}()

	t.program = program
	t.done = done
	t.started = true

	return nil
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

// Close stops the live program and waits for its last frame.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Quit()
	<-done
}

// DisplayEstimation prints the estimation results or error.
func (t *TUI) DisplayEstimation(ctx context.Context, mutations []m.Mutation, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if err != nil {
		_, _ = fmt.Fprintf(t.output, "estimation error: %v\n", err)
		return err
	}

	statsList, _ := buildFileStats(mutations)

	title := titleStyle.Render("Mutiny Mutation Estimate")
	summary := summaryStyle.Render(fmt.Sprintf("%s mutations across %s file(s)",
		accentStyle.Render(fmt.Sprintf("%d", len(mutations))),
		accentStyle.Render(fmt.Sprintf("%d", len(statsList)))))

	_, _ = fmt.Fprintf(t.output, "%s\n%s\n%s", title, summary, renderEstimationTable(mutations))

	return nil
}

// DisplayWarning shows a non-fatal problem.
func (t *TUI) DisplayWarning(ctx context.Context, message string) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.mu.Lock()
	live := t.program != nil
	t.mu.Unlock()

	if live {
		t.send(warningMsg{message: message})
		return
	}

	_, _ = fmt.Fprintln(t.output, warnStyle.Render("warning: "+message))
}

// DisplayConcurrencyInfo shows concurrency settings.
func (t *TUI) DisplayConcurrencyInfo(ctx context.Context, threads int, total int) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(concurrencyMsg{threads: threads, total: total})
}

// DisplayCompletedTestInfo advances the progress bar.
func (t *TUI) DisplayCompletedTestInfo(ctx context.Context, mutation m.Mutation, result m.Result, completed int, total int) {
	if err := ctx.Err(); err != nil {
		return
	}

	t.send(completedMutationMsg{
		id:        shortID(mutation.ID),
		location:  fmt.Sprintf("%s:%d", mutation.Source.ShortPath, mutation.Line),
		kind:      mutation.Kind,
		status:    result.Status,
		completed: completed,
		total:     total,
	})
}

// DisplayReport prints the final console summary below the progress view.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report, top int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	title := titleStyle.Render("Mutiny Test Results")

	_, err := fmt.Fprintf(t.output, "%s\n\n%s", title, renderReport(report, top))

	return err
}

type concurrencyMsg struct {
	threads int
	total   int
}

type completedMutationMsg struct {
	id        string
	location  string
	kind      m.OperatorKind
	status    m.TestStatus
	completed int
	total     int
}

type warningMsg struct {
	message string
}

const maxProgressWidth = 60

// executionModel renders live progress while mutants run.
type executionModel struct {
	progressBar progress.Model
	width       int
	threads     int
	total       int
	completed   int
	counts      map[m.TestStatus]int
	last        *completedMutationMsg
	warnings    []string
}

func newExecutionModel() executionModel {
	return executionModel{
		progressBar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
		),
		counts: make(map[m.TestStatus]int),
	}
}

func (em executionModel) Init() tea.Cmd {
	return nil
}

func (em executionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		em.width = msg.Width
		em.progressBar.Width = max(min(msg.Width-4, maxProgressWidth), 10)
	case concurrencyMsg:
		em.threads = msg.threads
		em.total = msg.total
	case completedMutationMsg:
		em.completed = msg.completed
		em.total = msg.total
		em.counts[msg.status]++
		em.last = &msg
	case warningMsg:
		em.warnings = append(em.warnings, msg.message)
	}

	return em, nil
}

func (em executionModel) percent() float64 {
	if em.total == 0 {
		return 0
	}

	return float64(em.completed) / float64(em.total)
}

func (em executionModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Mutiny Mutation Testing"))
	b.WriteString("\n")

	b.WriteString(summaryStyle.Render(fmt.Sprintf(
		"Progress: %s / %s  •  Threads: %s",
		accentStyle.Render(fmt.Sprintf("%d", em.completed)),
		accentStyle.Render(fmt.Sprintf("%d", em.total)),
		accentStyle.Render(fmt.Sprintf("%d", em.threads)),
	)))
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(em.progressBar.ViewAs(em.percent()))
	b.WriteString("\n\n")

	counts := make([]string, 0, len(statusColors))
	for _, status := range []m.TestStatus{m.Killed, m.Survived, m.Timeout, m.Errored} {
		counts = append(counts, statusStyle(status).Render(fmt.Sprintf("%s %d", status, em.counts[status])))
	}

	b.WriteString("  " + strings.Join(counts, "  ") + "\n")

	if em.last != nil {
		fmt.Fprintf(&b, "  %s %s %s %s\n",
			mutedStyle.Render(em.last.id),
			em.last.location,
			mutedStyle.Render(string(em.last.kind)),
			statusStyle(em.last.status).Render(em.last.status.String()))
	}

	for _, warning := range em.warnings {
		b.WriteString("  " + warnStyle.Render("warning: "+warning) + "\n")
	}

	return b.String()
}
