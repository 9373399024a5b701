package domain

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/minio/highwayhash"

	m "mutiny.dev/pkg/mutiny/internal/model"
)

// idKey is fixed so ids are identical across runs, workers and machines.
var idKey = []byte("mutiny/mutation-id/v1/0123456789")

// mutationID derives a stable id from where and how a mutant was produced.
func mutationID(path m.Path, line int, kind m.OperatorKind, index int) string {
	hash, err := highwayhash.New64(idKey)
	if err != nil {
		// Only possible with a key that is not 32 bytes long.
		panic(fmt.Sprintf("mutation id key: %v", err))
	}

	_, _ = fmt.Fprintf(hash, "%s\x00%d\x00%s\x00%d", path, line, kind, index)

	return fmt.Sprintf("%016x", hash.Sum64())
}

// ApplyMutation returns content with the mutation's line swapped in. It fails
// when the line no longer holds the text the mutation was generated from.
func ApplyMutation(content []byte, mutation m.Mutation) ([]byte, error) {
	lines := bytes.Split(content, []byte("\n"))
	if mutation.Line < 1 || mutation.Line > len(lines) {
		return nil, fmt.Errorf("line %d out of range (%d lines)", mutation.Line, len(lines))
	}

	raw := string(lines[mutation.Line-1])
	body := strings.TrimSuffix(raw, "\r")

	if body != mutation.OriginalLine {
		return nil, fmt.Errorf("line %d of %s no longer matches the generated mutation", mutation.Line, mutation.Source.ShortPath)
	}

	lines[mutation.Line-1] = []byte(mutation.MutatedLine + raw[len(body):])

	return bytes.Join(lines, []byte("\n")), nil
}
