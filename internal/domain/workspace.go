package domain

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"mutiny.dev/pkg/mutiny/internal/adapter"
	m "mutiny.dev/pkg/mutiny/internal/model"
)

// Handle is an acquired workspace: a private copy of the project root with at
// most one mutation applied.
type Handle struct {
	Dir m.Path
	// Mutation is nil for a baseline workspace.
	Mutation *m.Mutation
}

// Workspace hands out isolated copies of the project so concurrent mutants
// never observe each other's edits or touch the original tree.
type Workspace interface {
	Acquire(ctx context.Context, mutation *m.Mutation) (*Handle, error)
	Release(ctx context.Context, handle *Handle) error
	// With acquires a workspace, runs fn in it, and releases it on every exit
	// path, panics included.
	With(ctx context.Context, mutation *m.Mutation, fn func(handle *Handle) error) error
}

type workspace struct {
	adapter.SourceFSAdapter

	root    m.Path
	baseDir m.Path
	pattern string
	ignore  []string
}

// NewWorkspace creates a Workspace that copies session.Root into fresh
// directories under session.WorkspaceDir (the OS temp dir when empty).
func NewWorkspace(fsAdapter adapter.SourceFSAdapter, session m.Session, sessionID string) Workspace {
	ignore := append([]string(nil), session.WorkspaceIgnore...)

	// A workspace dir nested inside the root must not be copied into itself.
	if nested := nestedDirName(session.Root, session.WorkspaceDir); nested != "" {
		ignore = append(ignore, nested)
	}

	pattern := "mutiny-*"
	if sessionID != "" {
		pattern = "mutiny-" + sessionID + "-*"
	}

	return &workspace{
		SourceFSAdapter: fsAdapter,
		root:            session.Root,
		baseDir:         session.WorkspaceDir,
		pattern:         pattern,
		ignore:          ignore,
	}
}

func nestedDirName(root, dir m.Path) string {
	if root == "" || dir == "" {
		return ""
	}

	absRoot, err := filepath.Abs(string(root))
	if err != nil {
		return ""
	}

	absDir, err := filepath.Abs(string(dir))
	if err != nil {
		return ""
	}

	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}

	return strings.Split(filepath.ToSlash(rel), "/")[0]
}

func (w *workspace) Acquire(ctx context.Context, mutation *m.Mutation) (*Handle, error) {
	dir, err := w.CreateTempDir(ctx, w.baseDir, w.pattern)
	if err != nil {
		return nil, &WorkspaceError{Op: "create", Err: err}
	}

	handle := &Handle{Dir: dir, Mutation: mutation}

	if err := w.CopyDir(ctx, w.root, dir, w.ignore); err != nil {
		w.discard(ctx, handle)
		return nil, &WorkspaceError{Op: "copy", Err: err}
	}

	if mutation == nil {
		return handle, nil
	}

	if err := w.apply(ctx, handle, *mutation); err != nil {
		w.discard(ctx, handle)
		return nil, &WorkspaceError{Op: "apply", Err: err}
	}

	return handle, nil
}

func (w *workspace) apply(ctx context.Context, handle *Handle, mutation m.Mutation) error {
	target := w.JoinPath(ctx, string(handle.Dir), filepath.FromSlash(string(mutation.Source.ShortPath)))

	info, err := w.FileInfo(ctx, target)
	if err != nil {
		return err
	}

	content, err := w.ReadFile(ctx, target)
	if err != nil {
		return err
	}

	mutated, err := ApplyMutation(content, mutation)
	if err != nil {
		return err
	}

	return w.WriteFile(ctx, target, mutated, info.Mode().Perm())
}

func (w *workspace) discard(ctx context.Context, handle *Handle) {
	if err := w.Release(ctx, handle); err != nil {
		slog.Error("Failed to discard workspace", "dir", handle.Dir, "error", err)
	}
}

// Release deletes the workspace. It runs even when ctx is already cancelled.
func (w *workspace) Release(ctx context.Context, handle *Handle) error {
	if handle == nil || handle.Dir == "" {
		return nil
	}

	if err := w.RemoveAll(context.WithoutCancel(ctx), handle.Dir); err != nil {
		return &WorkspaceError{Op: "remove", Err: err}
	}

	return nil
}

func (w *workspace) With(ctx context.Context, mutation *m.Mutation, fn func(handle *Handle) error) error {
	handle, err := w.Acquire(ctx, mutation)
	if err != nil {
		return err
	}

	defer w.discard(ctx, handle)

	return fn(handle)
}
