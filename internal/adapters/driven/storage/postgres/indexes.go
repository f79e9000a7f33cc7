package postgres

import (
	"context"

	"github.com/pharmadex/labelseed/internal/core/domain"
	"github.com/pharmadex/labelseed/internal/logger"
)

// indexStatements are applied after loading so bulk inserts do not pay
// for index maintenance. Every statement is IF NOT EXISTS, so repeated
// runs are harmless.
var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_drugs_name_fts
		ON drugs USING gin (to_tsvector('english', name))`,
	`CREATE INDEX IF NOT EXISTS idx_drug_labels_indications_fts
		ON drug_labels USING gin (to_tsvector('english', COALESCE(indications, '')))`,
	`CREATE INDEX IF NOT EXISTS idx_drug_labels_indications_trgm
		ON drug_labels USING gin (indications gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_drugs_manufacturer
		ON drugs (manufacturer)`,
	`CREATE INDEX IF NOT EXISTS idx_drugs_generic_name
		ON drugs (generic_name)`,
	`CREATE INDEX IF NOT EXISTS idx_drugs_set_id
		ON drugs (set_id)`,
	`CREATE INDEX IF NOT EXISTS idx_drugs_ndc
		ON drugs (ndc)`,
}

// CreateIndexes builds the query indexes outside any transaction. A
// statement that fails is logged and skipped, never fatal: a partially
// indexed database still serves queries, just slower.
func (s *Store) CreateIndexes(ctx context.Context) error {
	if s.isClosed() {
		return domain.ErrStoreClosed
	}

	logger.Info("Creating database indexes")
	for _, stmt := range indexStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			logger.Warn("Skipping index statement: %v", err)
		}
	}
	return nil
}
