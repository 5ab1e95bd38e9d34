package fuzzy_ner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// ExtractConcurrent runs Extract over texts with at most workers extractions
// in flight. Results keep the order of texts. The first failure cancels the
// remaining work and is returned with the index of its text.
//
// With a SequenceGenerator the numbering across texts depends on scheduling;
// use FindEntityBatch when ids must be reproducible.
func (e *Extractor) ExtractConcurrent(ctx context.Context, texts []string, dict ner.Dictionary, workers int) ([]*ner.EntitySet, error) {
	if workers < 1 {
		return nil, errors.InvalidParam("workers must be at least 1").
			WithDetail(fmt.Sprintf("workers=%d", workers))
	}
	if workers == 1 {
		return e.FindEntityBatch(ctx, texts, dict)
	}
	// Fail once on a bad dictionary rather than once per text.
	if err := dict.Validate(); err != nil {
		return nil, err
	}

	results := make([]*ner.EntitySet, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			set, err := e.Extract(gctx, text, dict)
			if err != nil {
				return errors.Wrap(err, errors.CodeUnknown, fmt.Sprintf("text %d", i))
			}
			results[i] = set
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug("concurrent batch complete",
		logging.Int("texts", len(texts)),
		logging.Int("workers", workers))
	return results, nil
}
