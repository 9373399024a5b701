package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

const (
	reportFileName  = "report.json"
	sessionFileName = "session.yaml"
)

// ReportStore persists the final report of a session.
type ReportStore interface {
	// SaveReport writes report.json and a session.yaml snapshot of the
	// configuration that produced it into dir.
	SaveReport(ctx context.Context, dir m.Path, session m.Session, report m.Report) (m.Path, error)
	// LoadReport reads report.json from dir.
	LoadReport(ctx context.Context, dir m.Path) (m.Report, error)
}

type reportStore struct{}

// NewReportStore creates a file-backed ReportStore.
func NewReportStore() ReportStore {
	return &reportStore{}
}

func (rs *reportStore) SaveReport(_ context.Context, dir m.Path, session m.Session, report m.Report) (m.Path, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		slog.Error("Failed to create reports directory", "dir", dir, "error", err)
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	reportData, err := encodeReport(report)
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	reportPath := filepath.Join(string(dir), reportFileName)
	if err := writeFileAtomic(reportPath, reportData); err != nil {
		slog.Error("Failed to write report", "path", reportPath, "error", err)
		return "", fmt.Errorf("write report: %w", err)
	}

	sessionData, err := yaml.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	sessionPath := filepath.Join(string(dir), sessionFileName)
	if err := writeFileAtomic(sessionPath, sessionData); err != nil {
		slog.Error("Failed to write session snapshot", "path", sessionPath, "error", err)
		return "", fmt.Errorf("write session: %w", err)
	}

	slog.Debug("Saved report", "path", reportPath, "results", len(report.Results))

	return m.Path(reportPath), nil
}

func (rs *reportStore) LoadReport(_ context.Context, dir m.Path) (m.Report, error) {
	reportPath := filepath.Join(string(dir), reportFileName)

	// #nosec G304 - reports directory is operator-provided
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return m.Report{}, fmt.Errorf("read report: %w", err)
	}

	var report m.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return m.Report{}, fmt.Errorf("decode report %s: %w", reportPath, err)
	}

	return report, nil
}

// encodeReport renders the report as indented JSON. C source lines are kept
// verbatim, so <, > and & are not escaped.
func encodeReport(report m.Report) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(report); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// writeFileAtomic writes through a temp file in the same directory so a
// reader never sees a half-written report.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
