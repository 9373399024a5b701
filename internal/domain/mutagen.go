// Package domain contains the core mutation testing workflow and logic.
package domain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"mutiny.dev/pkg/mutiny/internal/adapter"
	"mutiny.dev/pkg/mutiny/internal/domain/mutagens"
	m "mutiny.dev/pkg/mutiny/internal/model"
)

// Mutagen defines the interface for mutation generation.
type Mutagen interface {
	// GenerateMutation returns the mutations of one file ordered by line, then
	// operator registration order, then replacement-table order. A file that
	// cannot be read as text yields a *GenerationWarning.
	GenerateMutation(ctx context.Context, source m.File, kinds ...m.OperatorKind) ([]m.Mutation, error)
	// GenerateAll generates mutations for every source, concatenated in source
	// order. Skipped files are returned as warnings, not errors.
	GenerateAll(ctx context.Context, sources []m.File, threads int, kinds ...m.OperatorKind) ([]m.Mutation, []*GenerationWarning, error)
}

// mutagen handles pure mutation generation logic.
type mutagen struct {
	adapter.SourceFSAdapter
}

// NewMutagen creates a new Mutagen instance.
func NewMutagen(sourceFSAdapter adapter.SourceFSAdapter) Mutagen {
	return &mutagen{
		SourceFSAdapter: sourceFSAdapter,
	}
}

func (mg *mutagen) GenerateMutation(ctx context.Context, source m.File, kinds ...m.OperatorKind) ([]m.Mutation, error) {
	if err := validateSource(source); err != nil {
		return nil, err
	}

	if mg.SourceFSAdapter == nil {
		return nil, fmt.Errorf("missing adapters")
	}

	operators, err := mutagens.ForKinds(kinds...)
	if err != nil {
		return nil, err
	}

	content, err := mg.loadSource(ctx, source)
	if err != nil {
		return nil, err
	}

	return generate(source, content, operators), nil
}

func validateSource(source m.File) error {
	if source.FullPath == "" {
		return fmt.Errorf("missing source path")
	}

	if source.ShortPath == "" {
		return fmt.Errorf("missing short path for %s", source.FullPath)
	}

	return nil
}

func (mg *mutagen) loadSource(ctx context.Context, source m.File) (string, error) {
	content, err := mg.ReadFile(ctx, source.FullPath)
	if err != nil {
		return "", &GenerationWarning{Path: source.ShortPath, Reason: "unreadable", Err: err}
	}

	if bytes.IndexByte(content, 0) >= 0 {
		return "", &GenerationWarning{Path: source.ShortPath, Reason: "binary content"}
	}

	if !utf8.Valid(content) {
		return "", &GenerationWarning{Path: source.ShortPath, Reason: "not valid UTF-8"}
	}

	return string(content), nil
}

// generate is the pure core of generation: same content and operators, same
// output, byte for byte.
func generate(source m.File, content string, operators []mutagens.Operator) []m.Mutation {
	var (
		scanner   mutagens.Scanner
		mutations []m.Mutation
	)

	for i, raw := range strings.Split(content, "\n") {
		text := strings.TrimSuffix(raw, "\r")
		line := mutagens.Line{Number: i + 1, Text: text, Code: scanner.Mask(text)}

		for _, op := range operators {
			if !op.Applies(line) {
				continue
			}

			for index, variant := range op.Mutate(line) {
				mutations = append(mutations, m.Mutation{
					ID:           mutationID(source.ShortPath, line.Number, op.Kind(), index),
					Source:       source,
					Line:         line.Number,
					Kind:         op.Kind(),
					Index:        index,
					OriginalLine: line.Text,
					MutatedLine:  variant,
				})
			}
		}
	}

	return mutations
}

func (mg *mutagen) GenerateAll(ctx context.Context, sources []m.File, threads int, kinds ...m.OperatorKind) ([]m.Mutation, []*GenerationWarning, error) {
	if threads <= 0 {
		threads = 1
	}

	if _, err := mutagens.ForKinds(kinds...); err != nil {
		return nil, nil, err
	}

	perSource := make([][]m.Mutation, len(sources))
	warnings := make([]*GenerationWarning, len(sources))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(threads)

	for i, source := range sources {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			mutations, err := mg.GenerateMutation(groupCtx, source, kinds...)
			if err != nil {
				var warning *GenerationWarning
				if errors.As(err, &warning) {
					slog.Warn("Skipping source file", "path", source.ShortPath, "reason", warning.Reason, "error", warning.Err)
					warnings[i] = warning

					return nil
				}

				return fmt.Errorf("generate mutations for source %s: %w", source.ShortPath, err)
			}

			slog.Debug("Generated mutations for source", "source", source.ShortPath, "count", len(mutations))
			perSource[i] = mutations

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	var (
		all     []m.Mutation
		skipped []*GenerationWarning
	)

	for i := range sources {
		all = append(all, perSource[i]...)

		if warnings[i] != nil {
			skipped = append(skipped, warnings[i])
		}
	}

	return all, skipped, nil
}
