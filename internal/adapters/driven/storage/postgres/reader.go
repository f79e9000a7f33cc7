package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pharmadex/labelseed/internal/core/domain"
	"github.com/pharmadex/labelseed/internal/core/ports/driven"
)

var _ driven.DrugReader = (*Store)(nil)

const drugColumns = `
	d.id, d.name, d.generic_name, d.brand_name, d.manufacturer,
	d.set_id, d.slug, d.dosage_form, d.strength, d.route,
	d.ndc, d.fda_application_number, d.approval_date,
	d.created_at, d.updated_at`

const labelColumns = `
	l.id, l.drug_id, l.generic_name, l.labeler_name, l.product_type, l.title,
	l.indications, l.contraindications, l.warnings, l.precautions,
	l.adverse_reactions, l.dosage_and_administration, l.how_supplied,
	l.clinical_pharmacology, l.mechanism_of_action, l.pharmacokinetics,
	l.created_at, l.updated_at`

// GetDrug returns a drug and its label by identity key.
func (s *Store) GetDrug(ctx context.Context, id string) (*domain.DrugDetail, error) {
	if s.isClosed() {
		return nil, domain.ErrStoreClosed
	}

	row := s.pool.QueryRow(ctx,
		`SELECT`+drugColumns+` FROM drugs d WHERE d.id = $1`, id)
	drug, err := scanDrug(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: drug %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("getting drug: %w", err)
	}

	detail := &domain.DrugDetail{Drug: drug}

	row = s.pool.QueryRow(ctx,
		`SELECT`+labelColumns+` FROM drug_labels l WHERE l.drug_id = $1`, id)
	label, err := scanLabel(row)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// Drug without a label row still resolves.
	case err != nil:
		return nil, fmt.Errorf("getting label: %w", err)
	default:
		detail.Label = &label
	}

	return detail, nil
}

// Search filters the catalogue with case-insensitive substring matches.
func (s *Store) Search(ctx context.Context, q domain.SearchQuery) ([]domain.StoredDrug, error) {
	if s.isClosed() {
		return nil, domain.ErrStoreClosed
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT` + drugColumns + `
		FROM drugs d
		LEFT JOIN drug_labels dl ON d.id = dl.drug_id
		WHERE 1=1`)

	if q.Query != "" {
		args = append(args, "%"+q.Query+"%")
		fmt.Fprintf(&sb, " AND (d.name ILIKE $%d OR d.generic_name ILIKE $%d)", len(args), len(args))
	}
	if q.Indication != "" {
		args = append(args, "%"+q.Indication+"%")
		fmt.Fprintf(&sb, " AND dl.indications ILIKE $%d", len(args))
	}
	if q.Manufacturer != "" {
		args = append(args, "%"+q.Manufacturer+"%")
		fmt.Fprintf(&sb, " AND d.manufacturer ILIKE $%d", len(args))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, " ORDER BY d.name LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching drugs: %w", err)
	}
	defer rows.Close()

	return collectDrugs(rows)
}

// FindSimilar returns drugs related to the given one, ranked by trigram
// similarity of the indications text. When the target has no label
// indications it falls back to drugs from the same manufacturer.
func (s *Store) FindSimilar(ctx context.Context, id string, limit int) ([]domain.StoredDrug, error) {
	if s.isClosed() {
		return nil, domain.ErrStoreClosed
	}
	if limit <= 0 {
		limit = domain.DefaultSearchLimit
	}

	var (
		manufacturer string
		indications  *string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT d.manufacturer, dl.indications
		FROM drugs d
		LEFT JOIN drug_labels dl ON d.id = dl.drug_id
		WHERE d.id = $1`, id,
	).Scan(&manufacturer, &indications)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: drug %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("resolving drug: %w", err)
	}

	var rows pgx.Rows
	if indications != nil && *indications != "" {
		rows, err = s.pool.Query(ctx, `
			SELECT`+drugColumns+`
			FROM drugs d
			JOIN drug_labels dl ON d.id = dl.drug_id
			WHERE d.id != $1 AND dl.indications IS NOT NULL
			ORDER BY similarity(dl.indications, $2) DESC
			LIMIT $3`, id, *indications, limit)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT`+drugColumns+`
			FROM drugs d
			WHERE d.id != $1 AND d.manufacturer = $2
			ORDER BY d.name
			LIMIT $3`, id, manufacturer, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("finding similar drugs: %w", err)
	}
	defer rows.Close()

	return collectDrugs(rows)
}

// CountDrugs returns the number of loaded drug rows.
func (s *Store) CountDrugs(ctx context.Context) (int, error) {
	if s.isClosed() {
		return 0, domain.ErrStoreClosed
	}

	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM drugs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting drugs: %w", err)
	}
	return count, nil
}

func collectDrugs(rows pgx.Rows) ([]domain.StoredDrug, error) {
	var drugs []domain.StoredDrug
	for rows.Next() {
		drug, err := scanDrug(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning drug row: %w", err)
		}
		drugs = append(drugs, drug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drug rows: %w", err)
	}
	return drugs, nil
}

// scanner covers both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDrug(row scanner) (domain.StoredDrug, error) {
	var (
		d            domain.StoredDrug
		genericName  *string
		brandName    *string
		setID        *string
		slug         *string
		dosageForm   *string
		strength     *string
		route        *string
		ndc          *string
		appNumber    *string
		approvalDate *time.Time
	)
	err := row.Scan(
		&d.ID, &d.Name, &genericName, &brandName, &d.Manufacturer,
		&setID, &slug, &dosageForm, &strength, &route,
		&ndc, &appNumber, &approvalDate,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return domain.StoredDrug{}, err
	}

	d.GenericName = deref(genericName)
	d.BrandName = deref(brandName)
	d.SetID = deref(setID)
	d.Slug = deref(slug)
	d.DosageForm = deref(dosageForm)
	d.Strength = deref(strength)
	d.Route = deref(route)
	d.NDC = deref(ndc)
	d.FDAApplicationNumber = deref(appNumber)
	if approvalDate != nil {
		d.ApprovalDate = approvalDate.Format("2006-01-02")
	}
	return d, nil
}

func scanLabel(row scanner) (domain.StoredLabel, error) {
	var (
		l      domain.StoredLabel
		fields [14]*string
	)
	err := row.Scan(
		&l.ID, &l.DrugID, &fields[0], &fields[1], &fields[2], &fields[3],
		&fields[4], &fields[5], &fields[6], &fields[7],
		&fields[8], &fields[9], &fields[10],
		&fields[11], &fields[12], &fields[13],
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return domain.StoredLabel{}, err
	}

	l.GenericName = deref(fields[0])
	l.LabelerName = deref(fields[1])
	l.ProductType = deref(fields[2])
	l.Title = deref(fields[3])
	l.Indications = deref(fields[4])
	l.Contraindications = deref(fields[5])
	l.Warnings = deref(fields[6])
	l.Precautions = deref(fields[7])
	l.AdverseReactions = deref(fields[8])
	l.DosageAndAdministration = deref(fields[9])
	l.HowSupplied = deref(fields[10])
	l.ClinicalPharmacology = deref(fields[11])
	l.MechanismOfAction = deref(fields[12])
	l.Pharmacokinetics = deref(fields[13])
	return l, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
