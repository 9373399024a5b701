// Package adapter contains infrastructure adapters for the mutiny CLI.
package adapter

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// SourceFSAdapter abstracts filesystem-specific operations that the domain layer
// relies on when scanning projects and building workspaces. It intentionally
// hides direct `os` access so the workflow logic can be tested in isolation.
//
//nolint:interfacebloat // A richer interface keeps workflow logic decoupled from os/fs.
type SourceFSAdapter interface {
	// Get discovers files under root whose extension is listed, skipping any
	// path that matches one of the exclude regular expressions. The result is
	// sorted by ShortPath.
	Get(ctx context.Context, root m.Path, extensions []string, exclude ...string) ([]m.File, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(ctx context.Context, path m.Path) ([]byte, error)

	// CreateTempDir creates a fresh directory under dir (OS temp dir when empty).
	CreateTempDir(ctx context.Context, dir m.Path, pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(ctx context.Context, path m.Path) error

	// CopyDir recursively copies a directory tree, skipping directories whose
	// base name is listed in ignore.
	CopyDir(ctx context.Context, src, dst m.Path, ignore []string) error

	// WriteFile writes content to a file with the given permissions.
	WriteFile(ctx context.Context, path m.Path, content []byte, perm os.FileMode) error

	// FileInfo returns metadata for a path.
	FileInfo(ctx context.Context, path m.Path) (os.FileInfo, error)

	// JoinPath joins path elements into a single path.
	JoinPath(ctx context.Context, elem ...string) m.Path
}

// LocalSourceFSAdapter is the concrete SourceFSAdapter backed by the local disk.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter instance ready to
// be wired into the workflow.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Get walks root and returns matching files sorted by their relative path.
func (a *LocalSourceFSAdapter) Get(ctx context.Context, root m.Path, extensions []string, exclude ...string) ([]m.File, error) {
	rootStr := string(root)

	info, err := os.Stat(rootStr)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("root path %s is not a directory", root)
	}

	patterns, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		wanted[normalizeExtension(ext)] = true
	}

	var files []m.File

	err = filepath.WalkDir(rootStr, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(rootStr, path)
		if err != nil {
			return err
		}

		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && matchesAny(patterns, rel) {
				return filepath.SkipDir
			}

			return nil
		}

		if !d.Type().IsRegular() || !wanted[filepath.Ext(path)] || matchesAny(patterns, rel) {
			return nil
		}

		files = append(files, m.File{FullPath: m.Path(path), ShortPath: m.Path(rel)})

		return nil
	})
	if err != nil {
		slog.Error("Failed to walk source tree", "root", root, "error", err)
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ShortPath < files[j].ShortPath
	})

	return files, nil
}

func normalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return ext
}

func compileExcludes(exclude []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, expr := range exclude {
		if strings.TrimSpace(expr) == "" {
			continue
		}

		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		patterns = append(patterns, re)
	}

	return patterns, nil
}

func matchesAny(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(_ context.Context, path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// CreateTempDir creates a temporary directory for one workspace.
func (a *LocalSourceFSAdapter) CreateTempDir(_ context.Context, dir m.Path, pattern string) (m.Path, error) {
	if dir != "" {
		if err := os.MkdirAll(string(dir), 0o750); err != nil {
			return "", err
		}
	}

	tmpDir, err := os.MkdirTemp(string(dir), pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents. Read-only directories
// copied from the source tree are made writable first.
func (a *LocalSourceFSAdapter) RemoveAll(_ context.Context, path m.Path) error {
	err := os.RemoveAll(string(path))
	if err == nil {
		return nil
	}

	_ = filepath.WalkDir(string(path), func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr == nil && d.IsDir() {
			_ = os.Chmod(p, 0o700) // #nosec G302 - owner-only, workspace teardown
		}

		return nil
	})

	return os.RemoveAll(string(path))
}

// CopyDir recursively copies a directory tree. Symlinks are recreated, not
// followed, so a workspace never writes through a link into the pristine tree.
func (a *LocalSourceFSAdapter) CopyDir(ctx context.Context, src, dst m.Path, ignore []string) error {
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	return filepath.WalkDir(string(src), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(string(src), path)
		if err != nil {
			return err
		}

		if d.IsDir() && relPath != "." && skip[d.Name()] {
			return filepath.SkipDir
		}

		targetPath := filepath.Join(string(dst), relPath)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(targetPath, info.Mode().Perm()|0o700)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}

			return os.Symlink(link, targetPath)
		case d.Type().IsRegular():
			return a.copyFile(path, targetPath, info.Mode())
		default:
			// Sockets, devices and pipes are not part of a build tree.
			return nil
		}
	})
}

// copyFile copies a single file.
func (a *LocalSourceFSAdapter) copyFile(src, dst string, mode os.FileMode) error {
	// #nosec G304 - src is internal project file path, not user input
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	// #nosec G304 - dst is internal destination path, not user input
	destFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		_ = destFile.Close()
		return err
	}

	if err := destFile.Close(); err != nil {
		return err
	}

	return os.Chmod(dst, mode.Perm()|0o200)
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(_ context.Context, path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) FileInfo(_ context.Context, path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(_ context.Context, elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
