package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pharmadex/labelseed/internal/core/domain"
	"github.com/pharmadex/labelseed/internal/core/ports/driven"
	"github.com/pharmadex/labelseed/internal/core/ports/driving"
	"github.com/pharmadex/labelseed/internal/logger"
)

// Ensure SeedService implements the interface.
var _ driving.Seeder = (*SeedService)(nil)

// DefaultBatchSize is the number of records per load transaction when
// no size is configured.
const DefaultBatchSize = 100

// SeedOptions tunes an ingestion run.
type SeedOptions struct {
	// BatchSize is the number of records per load transaction.
	// Non-positive means DefaultBatchSize.
	BatchSize int

	// ResumeFrom skips this many source documents before transforming.
	// Skipped documents still count as consumed.
	ResumeFrom int

	// CreateIndexes builds the query indexes after a complete run.
	CreateIndexes bool

	// CountTotal makes a counting pass over the source before streaming,
	// so progress can be reported against a known total.
	CountTotal bool
}

// SeedService drives the full ingestion pipeline: it streams documents
// from the label source, transforms them into canonical records, and
// loads them into the drug store in batches.
type SeedService struct {
	source      driven.LabelSource
	transformer driven.Transformer
	store       driven.DrugStore
	opts        SeedOptions

	mu       sync.RWMutex
	running  bool
	consumed int
	total    int
}

// NewSeedService creates a seed service over the given source,
// transformer, and store.
func NewSeedService(source driven.LabelSource, transformer driven.Transformer, store driven.DrugStore, opts SeedOptions) *SeedService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &SeedService{
		source:      source,
		transformer: transformer,
		store:       store,
		opts:        opts,
	}
}

// Run ingests the whole source collection. Cancellation is honoured
// between documents: the partially accumulated batch is still flushed,
// so every consumed document is either loaded or reported via the
// returned offset. A fatal source error also flushes before returning,
// alongside the partial report.
func (s *SeedService) Run(ctx context.Context) (*domain.RunReport, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, errors.New("ingestion already in progress")
	}
	s.running = true
	s.consumed = 0
	s.total = 0
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	start := time.Now()

	if s.opts.CountTotal {
		total, err := s.source.Count(ctx)
		if err != nil {
			logger.Warn("Counting source documents failed: %v", err)
		} else {
			s.mu.Lock()
			s.total = total
			s.mu.Unlock()
			logger.Info("Source holds %d documents", total)
		}
	}

	if s.opts.ResumeFrom > 0 {
		logger.Info("Resuming after %d documents", s.opts.ResumeFrom)
	}

	docs, errs := s.source.Documents(ctx)
	batch := make([]domain.DrugRecord, 0, s.opts.BatchSize)
	interrupted := false

consume:
	for {
		select {
		case <-ctx.Done():
			interrupted = true
			break consume
		case raw, ok := <-docs:
			if !ok {
				break consume
			}

			consumed := s.bumpConsumed()
			if consumed <= s.opts.ResumeFrom {
				continue
			}

			result, err := s.transformer.Transform(raw)
			if err != nil {
				if errors.Is(err, domain.ErrRecordRejected) {
					logger.Debug("Rejected document at offset %d: %v", consumed, err)
					continue
				}
				logger.Warn("Transforming document at offset %d: %v", consumed, err)
				continue
			}

			for _, issue := range result.Issues {
				logger.Debug("Quality issue for %q: %s", result.Record.Name, issue)
			}

			batch = append(batch, result.Record)
			if len(batch) >= s.opts.BatchSize {
				if err := s.flush(ctx, batch); err != nil {
					return s.report(start, interrupted), err
				}
				batch = batch[:0]
			}
		}
	}

	// The in-flight batch still lands after cancellation, so the
	// reported offset covers every consumed document.
	flushCtx := ctx
	if interrupted {
		flushCtx = context.WithoutCancel(ctx)
	}
	if err := s.flush(flushCtx, batch); err != nil {
		return s.report(start, interrupted), err
	}

	if !interrupted {
		if err := <-errs; err != nil {
			return s.report(start, interrupted), fmt.Errorf("reading source: %w", err)
		}
	}

	if s.opts.CreateIndexes && !interrupted {
		if err := s.store.CreateIndexes(ctx); err != nil {
			return s.report(start, interrupted), fmt.Errorf("creating indexes: %w", err)
		}
	}

	report := s.report(start, interrupted)
	logger.Info("Ingestion finished: %d processed, %d inserted, %d updated, %d errors",
		report.Stats.Processed, report.Stats.Inserted, report.Stats.Updated, report.Stats.Errors)
	return report, nil
}

// Status returns a read-only snapshot of the run in progress.
func (s *SeedService) Status() driving.SeedStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return driving.SeedStatus{
		Running:  s.running,
		Consumed: s.consumed,
		Total:    s.total,
		Stats:    s.store.Stats(),
	}
}

func (s *SeedService) bumpConsumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumed++
	return s.consumed
}

func (s *SeedService) flush(ctx context.Context, batch []domain.DrugRecord) error {
	if len(batch) == 0 {
		return nil
	}
	committed, err := s.store.LoadBatch(ctx, batch)
	if err != nil {
		return fmt.Errorf("loading batch: %w", err)
	}
	if !committed {
		logger.Warn("Batch of %d records rolled back, continuing", len(batch))
	}
	return nil
}

func (s *SeedService) report(start time.Time, interrupted bool) *domain.RunReport {
	s.mu.RLock()
	consumed, total := s.consumed, s.total
	s.mu.RUnlock()

	return &domain.RunReport{
		Stats:        s.store.Stats(),
		TotalRecords: total,
		LastOffset:   consumed,
		Interrupted:  interrupted,
		Elapsed:      time.Since(start),
	}
}
