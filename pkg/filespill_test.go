package pkg

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type journalEntry struct {
	ID       string
	Status   string
	ExitCode int
	Stderr   string
}

func collect[T any](t *testing.T, spill FileSpill[T]) []T {
	t.Helper()

	var items []T

	require.NoError(t, spill.Range(func(_ uint64, item T) error {
		items = append(items, item)
		return nil
	}))

	return items
}

func TestFileSpill(t *testing.T) {
	t.Run("NewFileSpill defaults to the OS temp dir", func(t *testing.T) {
		spill, err := NewFileSpill[int]("")
		require.NoError(t, err)
		require.NotNil(t, spill)
		require.Equal(t, filepath.Join(os.TempDir(), "filespill"), filepath.Dir(spill.Path()))
		require.NoError(t, spill.Remove())
	})

	t.Run("NewFileSpill in explicit dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "journal")

		spill, err := NewFileSpill[int](dir)
		require.NoError(t, err)
		defer spill.Close()

		require.Equal(t, dir, filepath.Dir(spill.Path()))
		require.FileExists(t, spill.Path())
		require.Zero(t, spill.Len())
	})

	t.Run("Range returns items in append order", func(t *testing.T) {
		spill, err := NewFileSpill[journalEntry](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		entries := []journalEntry{
			{ID: "c", Status: "killed", ExitCode: 2},
			{ID: "a", Status: "survived"},
			{ID: "b", Status: "timeout", ExitCode: -1},
		}

		for _, entry := range entries {
			require.NoError(t, spill.Append(entry))
		}

		require.Equal(t, uint64(3), spill.Len())

		var indexes []uint64

		require.NoError(t, spill.Range(func(index uint64, _ journalEntry) error {
			indexes = append(indexes, index)
			return nil
		}))

		require.Equal(t, []uint64{0, 1, 2}, indexes)
		require.Equal(t, entries, collect(t, spill))
	})

	t.Run("Range resets zero-valued fields between items", func(t *testing.T) {
		spill, err := NewFileSpill[journalEntry](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.Append(journalEntry{ID: "a", Status: "killed", ExitCode: 1, Stderr: "assert failed"}))
		require.NoError(t, spill.Append(journalEntry{ID: "b", Status: "survived"}))

		require.Equal(t, []journalEntry{
			{ID: "a", Status: "killed", ExitCode: 1, Stderr: "assert failed"},
			{ID: "b", Status: "survived"},
		}, collect(t, spill))
	})

	t.Run("Range on empty spill calls nothing", func(t *testing.T) {
		spill, err := NewFileSpill[journalEntry](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		require.Empty(t, collect(t, spill))
	})

	t.Run("Range callback error stops iteration", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		for i := range 5 {
			require.NoError(t, spill.Append(i))
		}

		stop := errors.New("stop")
		visited := 0

		err = spill.Range(func(index uint64, _ int) error {
			visited++
			if index == 1 {
				return stop
			}

			return nil
		})

		require.ErrorIs(t, err, stop)
		require.Equal(t, 2, visited)
	})

	t.Run("Range still reads after Close", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)

		require.NoError(t, spill.Append(1))
		require.NoError(t, spill.Close())

		require.Equal(t, []int{1}, collect(t, spill))
	})

	t.Run("Append after Close fails", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)

		require.NoError(t, spill.Close())
		require.NoError(t, spill.Close())
		require.Error(t, spill.Append(1))
		require.Zero(t, spill.Len())
	})

	t.Run("concurrent appends are all recorded", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		var wg sync.WaitGroup

		for i := range 32 {
			wg.Add(1)

			go func() {
				defer wg.Done()

				if err := spill.Append(i); err != nil {
					t.Error(err)
				}
			}()
		}

		wg.Wait()

		items := collect(t, spill)
		require.Len(t, items, 32)
		require.ElementsMatch(t, func() []int {
			want := make([]int, 32)
			for i := range want {
				want[i] = i
			}

			return want
		}(), items)
	})

	t.Run("Remove deletes the backing file", func(t *testing.T) {
		spill, err := NewFileSpill[int](t.TempDir())
		require.NoError(t, err)

		require.NoError(t, spill.Append(7))
		require.NoError(t, spill.Remove())
		require.NoFileExists(t, spill.Path())
		require.NoError(t, spill.Remove())
		require.Error(t, spill.Append(8))
	})
}

// BenchmarkAppendRange measures journaling and draining a session worth of results.
func BenchmarkAppendRange(b *testing.B) {
	for b.Loop() {
		spill, err := NewFileSpill[journalEntry](b.TempDir())
		if err != nil {
			b.Fatal(err)
		}

		for i := range 1000 {
			if err := spill.Append(journalEntry{ID: "m", Status: "killed", ExitCode: i % 3}); err != nil {
				b.Fatal(err)
			}
		}

		if err := spill.Range(func(uint64, journalEntry) error { return nil }); err != nil {
			b.Fatal(err)
		}

		if err := spill.Remove(); err != nil {
			b.Fatal(err)
		}
	}
}

func FuzzAppendRange(f *testing.F) {
	f.Add("a1b2c3d4", "killed", 1, "")
	f.Add("", "", 0, "segfault\n")
	f.Add("ffffffffffffffff", "survived", -1, "日本語")

	f.Fuzz(func(t *testing.T, id, status string, exitCode int, stderr string) {
		spill, err := NewFileSpill[journalEntry](t.TempDir())
		require.NoError(t, err)
		defer spill.Close()

		entries := []journalEntry{
			{ID: id, Status: status, ExitCode: exitCode, Stderr: stderr},
			{ID: "next"},
		}

		for _, entry := range entries {
			require.NoError(t, spill.Append(entry))
		}

		require.Equal(t, entries, collect(t, spill))
	})
}
