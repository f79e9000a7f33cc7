// Package memory provides an in-memory drug store used by dry runs and
// tests. It mirrors the PostgreSQL store's matching and counting
// semantics without touching a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pharmadex/labelseed/internal/core/domain"
	"github.com/pharmadex/labelseed/internal/core/ports/driven"
)

var (
	_ driven.DrugStore  = (*DrugStore)(nil)
	_ driven.DrugReader = (*DrugStore)(nil)
)

// DrugStore is an in-memory implementation of driven.DrugStore and
// driven.DrugReader.
type DrugStore struct {
	mu     sync.RWMutex
	drugs  map[string]domain.StoredDrug
	labels map[string]domain.StoredLabel // keyed by drug ID
	stats  domain.LoadStats
	closed bool
}

// NewDrugStore creates a new in-memory drug store.
func NewDrugStore() *DrugStore {
	return &DrugStore{
		drugs:  make(map[string]domain.StoredDrug),
		labels: make(map[string]domain.StoredLabel),
	}
}

// LoadBatch applies the same per-record semantics as the database store:
// invalid records are skipped, a record matching an existing identity
// overwrites it, and the batch reports failure only when nothing landed.
func (s *DrugStore) LoadBatch(_ context.Context, records []domain.DrugRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, domain.ErrStoreClosed
	}
	if len(records) == 0 {
		return true, nil
	}

	succeeded := 0
	for i := range records {
		rec := &records[i]
		if err := rec.Validate(); err != nil {
			s.stats.Skipped++
			continue
		}

		now := time.Now()
		if id, ok := s.match(rec); ok {
			drug := s.toStored(rec, id)
			drug.CreatedAt = s.drugs[id].CreatedAt
			drug.UpdatedAt = now
			s.drugs[id] = drug
			s.setLabel(id, rec, now)
			s.stats.Updated++
		} else {
			id := uuid.NewString()
			drug := s.toStored(rec, id)
			drug.CreatedAt = now
			drug.UpdatedAt = now
			s.drugs[id] = drug
			s.setLabel(id, rec, now)
			s.stats.Inserted++
		}
		s.stats.Processed++
		succeeded++
	}

	return succeeded > 0, nil
}

func (s *DrugStore) match(rec *domain.DrugRecord) (string, bool) {
	if rec.SetID != "" {
		for id, d := range s.drugs {
			if d.SetID == rec.SetID {
				return id, true
			}
		}
	}
	for id, d := range s.drugs {
		if strings.EqualFold(d.Name, rec.Name) && strings.EqualFold(d.Manufacturer, rec.Manufacturer) {
			return id, true
		}
	}
	return "", false
}

func (s *DrugStore) toStored(rec *domain.DrugRecord, id string) domain.StoredDrug {
	return domain.StoredDrug{
		ID:                   id,
		Name:                 rec.Name,
		GenericName:          rec.GenericName,
		BrandName:            rec.BrandName,
		Manufacturer:         rec.Manufacturer,
		DosageForm:           rec.DosageForm,
		Strength:             rec.Strength,
		Route:                rec.Route,
		NDC:                  rec.NDC,
		FDAApplicationNumber: rec.FDAApplicationNumber,
		ApprovalDate:         rec.ApprovalDate,
		SetID:                rec.SetID,
		Slug:                 rec.Slug,
	}
}

func (s *DrugStore) setLabel(drugID string, rec *domain.DrugRecord, now time.Time) {
	label, ok := s.labels[drugID]
	if !ok {
		label = domain.StoredLabel{
			ID:        uuid.NewString(),
			DrugID:    drugID,
			CreatedAt: now,
		}
	}
	label.GenericName = rec.GenericName
	label.LabelerName = rec.Manufacturer
	label.ProductType = "HUMAN PRESCRIPTION DRUG LABEL"
	label.Title = rec.Title()
	label.Indications = rec.Indications
	label.Contraindications = rec.Contraindications
	label.Warnings = rec.Warnings
	label.Precautions = rec.Precautions
	label.AdverseReactions = rec.AdverseReactions
	label.DosageAndAdministration = rec.DosageAndAdministration
	label.HowSupplied = rec.HowSupplied
	label.ClinicalPharmacology = rec.ClinicalPharmacology
	label.MechanismOfAction = rec.MechanismOfAction
	label.Pharmacokinetics = rec.Pharmacokinetics
	label.UpdatedAt = now
	s.labels[drugID] = label
}

// CreateIndexes is a no-op for the in-memory store.
func (s *DrugStore) CreateIndexes(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	return nil
}

// Stats returns a snapshot of the cumulative load counters.
func (s *DrugStore) Stats() domain.LoadStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Close marks the store closed. Further calls fail with
// domain.ErrStoreClosed.
func (s *DrugStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// GetDrug retrieves a drug and its label by identity key.
func (s *DrugStore) GetDrug(_ context.Context, id string) (*domain.DrugDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}

	drug, ok := s.drugs[id]
	if !ok {
		return nil, fmt.Errorf("%w: drug %s", domain.ErrNotFound, id)
	}
	detail := &domain.DrugDetail{Drug: drug}
	if label, ok := s.labels[id]; ok {
		detail.Label = &label
	}
	return detail, nil
}

// Search filters the stored drugs with case-insensitive substring
// matches, ordered by name.
func (s *DrugStore) Search(_ context.Context, q domain.SearchQuery) ([]domain.StoredDrug, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}

	limit := q.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	var matched []domain.StoredDrug
	for id, d := range s.drugs {
		if q.Query != "" && !containsFold(d.Name, q.Query) && !containsFold(d.GenericName, q.Query) {
			continue
		}
		if q.Manufacturer != "" && !containsFold(d.Manufacturer, q.Manufacturer) {
			continue
		}
		if q.Indication != "" {
			label, ok := s.labels[id]
			if !ok || !containsFold(label.Indications, q.Indication) {
				continue
			}
		}
		matched = append(matched, d)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// FindSimilar returns other drugs from the target's manufacturer. The
// in-memory store has no text similarity ranking.
func (s *DrugStore) FindSimilar(_ context.Context, id string, limit int) ([]domain.StoredDrug, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}

	target, ok := s.drugs[id]
	if !ok {
		return nil, fmt.Errorf("%w: drug %s", domain.ErrNotFound, id)
	}
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	var matched []domain.StoredDrug
	for otherID, d := range s.drugs {
		if otherID == id {
			continue
		}
		if strings.EqualFold(d.Manufacturer, target.Manufacturer) {
			matched = append(matched, d)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// CountDrugs returns the number of stored drugs.
func (s *DrugStore) CountDrugs(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, domain.ErrStoreClosed
	}
	return len(s.drugs), nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
