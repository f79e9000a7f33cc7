package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmadex/labelseed/internal/adapters/driven/storage/postgres/migrations"
	"github.com/pharmadex/labelseed/internal/core/domain"
	"github.com/pharmadex/labelseed/internal/core/ports/driven"
	"github.com/pharmadex/labelseed/internal/logger"
)

// productType is recorded on every label row. The source corpus only
// carries human prescription labels.
const productType = "HUMAN PRESCRIPTION DRUG LABEL"

// Config holds the PostgreSQL connection parameters.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

// DSN returns the connection string for the configured database.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Database,
	}
	return u.String()
}

// db is the subset of pgxpool.Pool the store uses. Tests substitute a
// fake that hands out scripted transactions.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Store is the PostgreSQL-backed drug store.
type Store struct {
	pool db

	mu     sync.Mutex
	stats  domain.LoadStats
	closed bool
}

var _ driven.DrugStore = (*Store)(nil)

// NewStore connects to the configured database, verifies the connection
// and applies any pending schema migrations.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{pool: pool}

	if err := s.migrate(ctx, migrations.FS); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases the connection pool. The store rejects further calls
// with domain.ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.pool.Close()
	return nil
}

// Stats returns a snapshot of the cumulative load counters.
func (s *Store) Stats() domain.LoadStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// loadAction reports how a record landed in the database.
type loadAction int

const (
	actionInserted loadAction = iota
	actionUpdated
)

// LoadBatch writes a batch of records inside one transaction. Each
// record runs under its own savepoint, so a failing record is discarded
// without aborting the rest. The transaction commits when at least one
// record succeeded; otherwise it rolls back and committed is false.
// Record-level failures update the counters but are not returned as
// errors.
func (s *Store) LoadBatch(ctx context.Context, records []domain.DrugRecord) (bool, error) {
	if s.isClosed() {
		return false, domain.ErrStoreClosed
	}
	if len(records) == 0 {
		return true, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning batch transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	succeeded := 0
	for i := range records {
		rec := &records[i]

		if err := rec.Validate(); err != nil {
			s.bump(func(st *domain.LoadStats) { st.Skipped++ })
			logger.Warn("Skipping record %q: %v", rec.Name, err)
			continue
		}

		action, err := s.upsertRecord(ctx, tx, rec)
		if err != nil {
			s.bump(func(st *domain.LoadStats) { st.Errors++ })
			logger.Warn("Failed to load record %q: %v", rec.Name, err)
			continue
		}

		s.bump(func(st *domain.LoadStats) {
			st.Processed++
			if action == actionInserted {
				st.Inserted++
			} else {
				st.Updated++
			}
		})
		succeeded++
	}

	if succeeded == 0 {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			return false, fmt.Errorf("rolling back batch: %w", err)
		}
		return false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing batch: %w", err)
	}
	return true, nil
}

func (s *Store) bump(fn func(*domain.LoadStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.stats)
}

// upsertRecord writes one record under a savepoint. pgx implements
// nested Begin as SAVEPOINT, which keeps a statement error local to
// this record instead of poisoning the batch transaction.
func (s *Store) upsertRecord(ctx context.Context, tx pgx.Tx, rec *domain.DrugRecord) (loadAction, error) {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("starting savepoint: %w", err)
	}

	action, err := s.applyRecord(ctx, sp, rec)
	if err != nil {
		_ = sp.Rollback(ctx)
		return 0, err
	}

	if err := sp.Commit(ctx); err != nil {
		return 0, fmt.Errorf("releasing savepoint: %w", err)
	}
	return action, nil
}

func (s *Store) applyRecord(ctx context.Context, q pgx.Tx, rec *domain.DrugRecord) (loadAction, error) {
	id, err := s.findExisting(ctx, q, rec)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if err := s.insertRecord(ctx, q, rec); err != nil {
			return 0, err
		}
		return actionInserted, nil
	case err != nil:
		return 0, fmt.Errorf("matching record: %w", err)
	default:
		if err := s.updateRecord(ctx, q, id, rec); err != nil {
			return 0, err
		}
		return actionUpdated, nil
	}
}

// findExisting locates a previously loaded drug. The label set ID is
// the strongest identity and wins when present; otherwise the record
// matches on case-insensitive name plus manufacturer.
func (s *Store) findExisting(ctx context.Context, q pgx.Tx, rec *domain.DrugRecord) (string, error) {
	var id string
	if rec.SetID != "" {
		err := q.QueryRow(ctx, `SELECT id FROM drugs WHERE set_id = $1 LIMIT 1`, rec.SetID).Scan(&id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
	}
	err := q.QueryRow(ctx,
		`SELECT id FROM drugs WHERE LOWER(name) = LOWER($1) AND LOWER(manufacturer) = LOWER($2) LIMIT 1`,
		rec.Name, rec.Manufacturer,
	).Scan(&id)
	return id, err
}

const insertDrugSQL = `
	INSERT INTO drugs (
		id, name, generic_name, brand_name, manufacturer, set_id, slug,
		dosage_form, strength, route, ndc, fda_application_number, approval_date
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const insertLabelSQL = `
	INSERT INTO drug_labels (
		id, drug_id, generic_name, labeler_name, product_type, title,
		indications, contraindications, warnings, precautions, adverse_reactions,
		dosage_and_administration, how_supplied, clinical_pharmacology,
		mechanism_of_action, pharmacokinetics
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

func (s *Store) insertRecord(ctx context.Context, q pgx.Tx, rec *domain.DrugRecord) error {
	drugID := uuid.NewString()

	_, err := q.Exec(ctx, insertDrugSQL,
		drugID, rec.Name, nullable(rec.GenericName), nullable(rec.BrandName),
		rec.Manufacturer, nullable(rec.SetID), nullable(rec.Slug),
		nullable(rec.DosageForm), nullable(rec.Strength), nullable(rec.Route),
		nullable(rec.NDC), nullable(rec.FDAApplicationNumber), nullDate(rec.ApprovalDate),
	)
	if err != nil {
		return fmt.Errorf("inserting drug: %w", err)
	}

	if err := s.insertLabel(ctx, q, drugID, rec); err != nil {
		return err
	}
	return nil
}

func (s *Store) insertLabel(ctx context.Context, q pgx.Tx, drugID string, rec *domain.DrugRecord) error {
	_, err := q.Exec(ctx, insertLabelSQL,
		uuid.NewString(), drugID, nullable(rec.GenericName), rec.Manufacturer,
		productType, rec.Title(),
		nullable(rec.Indications), nullable(rec.Contraindications),
		nullable(rec.Warnings), nullable(rec.Precautions), nullable(rec.AdverseReactions),
		nullable(rec.DosageAndAdministration), nullable(rec.HowSupplied),
		nullable(rec.ClinicalPharmacology), nullable(rec.MechanismOfAction),
		nullable(rec.Pharmacokinetics),
	)
	if err != nil {
		return fmt.Errorf("inserting label: %w", err)
	}
	return nil
}

const updateDrugSQL = `
	UPDATE drugs SET
		name = $2, generic_name = $3, brand_name = $4, manufacturer = $5,
		set_id = $6, slug = $7, dosage_form = $8, strength = $9, route = $10,
		ndc = $11, fda_application_number = $12, approval_date = $13,
		updated_at = NOW()
	WHERE id = $1`

const updateLabelSQL = `
	UPDATE drug_labels SET
		generic_name = $2, labeler_name = $3, title = $4,
		indications = $5, contraindications = $6, warnings = $7, precautions = $8,
		adverse_reactions = $9, dosage_and_administration = $10, how_supplied = $11,
		clinical_pharmacology = $12, mechanism_of_action = $13, pharmacokinetics = $14,
		updated_at = NOW()
	WHERE drug_id = $1`

// updateRecord replaces the stored drug and its label with the incoming
// record. Reloads are full replacements, not merges.
func (s *Store) updateRecord(ctx context.Context, q pgx.Tx, drugID string, rec *domain.DrugRecord) error {
	_, err := q.Exec(ctx, updateDrugSQL,
		drugID, rec.Name, nullable(rec.GenericName), nullable(rec.BrandName),
		rec.Manufacturer, nullable(rec.SetID), nullable(rec.Slug),
		nullable(rec.DosageForm), nullable(rec.Strength), nullable(rec.Route),
		nullable(rec.NDC), nullable(rec.FDAApplicationNumber), nullDate(rec.ApprovalDate),
	)
	if err != nil {
		return fmt.Errorf("updating drug: %w", err)
	}

	tag, err := q.Exec(ctx, updateLabelSQL,
		drugID, nullable(rec.GenericName), rec.Manufacturer, rec.Title(),
		nullable(rec.Indications), nullable(rec.Contraindications),
		nullable(rec.Warnings), nullable(rec.Precautions), nullable(rec.AdverseReactions),
		nullable(rec.DosageAndAdministration), nullable(rec.HowSupplied),
		nullable(rec.ClinicalPharmacology), nullable(rec.MechanismOfAction),
		nullable(rec.Pharmacokinetics),
	)
	if err != nil {
		return fmt.Errorf("updating label: %w", err)
	}

	// Older rows loaded before label capture may have no label yet.
	if tag.RowsAffected() == 0 {
		return s.insertLabel(ctx, q, drugID, rec)
	}
	return nil
}

// migrate applies all pending embedded migrations in filename order.
func (s *Store) migrate(ctx context.Context, fsys embed.FS) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nullDate maps an ISO 8601 date string to a date value, or NULL when
// absent or unparseable.
func nullDate(s string) any {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return t
}
