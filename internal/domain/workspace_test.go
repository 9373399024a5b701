package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mutiny.dev/pkg/mutiny/internal/adapter"
	m "mutiny.dev/pkg/mutiny/internal/model"
)

const addSource = "int add(int a, int b)\n{\n\treturn a + b;\n}\n"

func newTestWorkspace(t *testing.T) (Workspace, string, string) {
	t.Helper()

	root := t.TempDir()
	writeSourceFile(t, root, "src/add.c", []byte(addSource))
	writeSourceFile(t, root, ".git/HEAD", []byte("ref: refs/heads/main\n"))

	base := t.TempDir()
	session := m.Session{
		Root:            m.Path(root),
		WorkspaceDir:    m.Path(base),
		WorkspaceIgnore: []string{".git"},
	}

	return NewWorkspace(adapter.NewLocalSourceFSAdapter(), session, "test"), root, base
}

func addMutation() m.Mutation {
	return m.Mutation{
		ID:           "m1",
		Source:       m.File{ShortPath: "src/add.c"},
		Line:         3,
		Kind:         m.OperatorArithmetic,
		OriginalLine: "\treturn a + b;",
		MutatedLine:  "\treturn a - b;",
	}
}

func TestWorkspace_AcquireRelease(t *testing.T) {
	ctx := context.Background()
	ws, root, base := newTestWorkspace(t)
	mutation := addMutation()

	handle, err := ws.Acquire(ctx, &mutation)
	require.NoError(t, err)
	assert.Equal(t, base, filepath.Dir(string(handle.Dir)))
	assert.Contains(t, filepath.Base(string(handle.Dir)), "mutiny-test-")

	mutated, err := os.ReadFile(filepath.Join(string(handle.Dir), "src", "add.c"))
	require.NoError(t, err)
	assert.Equal(t, "int add(int a, int b)\n{\n\treturn a - b;\n}\n", string(mutated))
	assert.NoDirExists(t, filepath.Join(string(handle.Dir), ".git"))

	original, err := os.ReadFile(filepath.Join(root, "src", "add.c"))
	require.NoError(t, err)
	assert.Equal(t, addSource, string(original))

	require.NoError(t, ws.Release(ctx, handle))
	assert.NoDirExists(t, string(handle.Dir))
}

func TestWorkspace_Baseline(t *testing.T) {
	ctx := context.Background()
	ws, _, _ := newTestWorkspace(t)

	handle, err := ws.Acquire(ctx, nil)
	require.NoError(t, err)

	defer func() { _ = ws.Release(ctx, handle) }()

	content, err := os.ReadFile(filepath.Join(string(handle.Dir), "src", "add.c"))
	require.NoError(t, err)
	assert.Equal(t, addSource, string(content))
	assert.Nil(t, handle.Mutation)
}

func TestWorkspace_IsolatedCopies(t *testing.T) {
	ctx := context.Background()
	ws, _, _ := newTestWorkspace(t)
	mutation := addMutation()

	first, err := ws.Acquire(ctx, &mutation)
	require.NoError(t, err)

	second, err := ws.Acquire(ctx, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.Dir, second.Dir)

	content, err := os.ReadFile(filepath.Join(string(second.Dir), "src", "add.c"))
	require.NoError(t, err)
	assert.Equal(t, addSource, string(content))

	require.NoError(t, ws.Release(ctx, first))
	require.NoError(t, ws.Release(ctx, second))
}

func TestWorkspace_StaleMutation(t *testing.T) {
	ctx := context.Background()
	ws, _, base := newTestWorkspace(t)

	mutation := addMutation()
	mutation.OriginalLine = "\treturn a * b;"

	_, err := ws.Acquire(ctx, &mutation)
	require.Error(t, err)

	var workspaceErr *WorkspaceError
	require.True(t, errors.As(err, &workspaceErr))
	assert.Equal(t, "apply", workspaceErr.Op)
	assert.True(t, isInfrastructureError(err))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed acquisitions must not leak directories")
}

func TestWorkspace_With(t *testing.T) {
	ws, _, base := newTestWorkspace(t)
	mutation := addMutation()
	boom := errors.New("boom")

	var seen m.Path

	err := ws.With(context.Background(), &mutation, func(handle *Handle) error {
		seen = handle.Dir
		assert.DirExists(t, string(handle.Dir))

		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.NoDirExists(t, string(seen))

	assert.Panics(t, func() {
		_ = ws.With(context.Background(), nil, func(*Handle) error {
			panic("test command adapter exploded")
		})
	})

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWorkspace_ReleaseAfterCancel(t *testing.T) {
	ws, _, _ := newTestWorkspace(t)

	ctx, cancel := context.WithCancel(context.Background())

	handle, err := ws.Acquire(ctx, nil)
	require.NoError(t, err)

	cancel()

	require.NoError(t, ws.Release(ctx, handle))
	assert.NoDirExists(t, string(handle.Dir))
}

func TestWorkspace_NestedWorkspaceDir(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	writeSourceFile(t, root, "add.c", []byte(addSource))

	session := m.Session{Root: m.Path(root), WorkspaceDir: m.Path(filepath.Join(root, ".mutiny-work"))}
	ws := NewWorkspace(adapter.NewLocalSourceFSAdapter(), session, "")

	first, err := ws.Acquire(ctx, nil)
	require.NoError(t, err)

	second, err := ws.Acquire(ctx, nil)
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(string(second.Dir), ".mutiny-work"))

	require.NoError(t, ws.Release(ctx, first))
	require.NoError(t, ws.Release(ctx, second))
}

func TestNestedDirName(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name     string
		dir      m.Path
		expected string
	}{
		{name: "empty", dir: "", expected: ""},
		{name: "outside", dir: m.Path(t.TempDir()), expected: ""},
		{name: "direct child", dir: m.Path(filepath.Join(root, "work")), expected: "work"},
		{name: "deep child", dir: m.Path(filepath.Join(root, "build", "work")), expected: "build"},
		{name: "root itself", dir: m.Path(root), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, nestedDirName(m.Path(root), tt.dir))
		})
	}
}
