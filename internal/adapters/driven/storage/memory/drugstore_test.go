package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadex/labelseed/internal/core/domain"
)

func record(name, manufacturer, setID string) domain.DrugRecord {
	return domain.DrugRecord{
		Name:         name,
		Manufacturer: manufacturer,
		SetID:        setID,
		DosageForm:   domain.DefaultDosageForm,
		Strength:     domain.DefaultStrength,
		Route:        domain.DefaultRoute,
		Indications:  "For testing.",
	}
}

func TestLoadBatch_InsertAndReload(t *testing.T) {
	store := NewDrugStore()
	ctx := context.Background()

	batch := []domain.DrugRecord{
		record("Aspirin", "Bayer", "set-1"),
		record("Ibuprofen", "Advil Co", ""),
	}

	committed, err := store.LoadBatch(ctx, batch)
	require.NoError(t, err)
	assert.True(t, committed)

	count, err := store.CountDrugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Reloading the same batch must not create new rows.
	committed, err = store.LoadBatch(ctx, batch)
	require.NoError(t, err)
	assert.True(t, committed)

	count, err = store.CountDrugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stats := store.Stats()
	assert.Equal(t, 4, stats.Processed)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 2, stats.Updated)
}

func TestLoadBatch_SetIDWinsOverName(t *testing.T) {
	store := NewDrugStore()
	ctx := context.Background()

	_, err := store.LoadBatch(ctx, []domain.DrugRecord{record("Aspirin", "Bayer", "set-1")})
	require.NoError(t, err)

	// Renamed label, same set ID: matches the existing row.
	renamed := record("Aspirin Extra", "Bayer", "set-1")
	_, err = store.LoadBatch(ctx, []domain.DrugRecord{renamed})
	require.NoError(t, err)

	count, err := store.CountDrugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Search(ctx, domain.SearchQuery{Query: "aspirin"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Aspirin Extra", results[0].Name)
}

func TestLoadBatch_NameMatchIsCaseInsensitive(t *testing.T) {
	store := NewDrugStore()
	ctx := context.Background()

	_, err := store.LoadBatch(ctx, []domain.DrugRecord{record("Aspirin", "Bayer", "")})
	require.NoError(t, err)
	_, err = store.LoadBatch(ctx, []domain.DrugRecord{record("ASPIRIN", "BAYER", "")})
	require.NoError(t, err)

	count, err := store.CountDrugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoadBatch_SkipsInvalid(t *testing.T) {
	store := NewDrugStore()

	committed, err := store.LoadBatch(context.Background(), []domain.DrugRecord{
		record("", "Bayer", ""),
		record("Aspirin", "Bayer", ""),
	})
	require.NoError(t, err)
	assert.True(t, committed)

	stats := store.Stats()
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, stats.Inserted)
}

func TestLoadBatch_NothingLandedReportsFailure(t *testing.T) {
	store := NewDrugStore()

	committed, err := store.LoadBatch(context.Background(), []domain.DrugRecord{
		record("", "Bayer", ""),
	})
	require.NoError(t, err)
	assert.False(t, committed)
}

func TestGetDrug(t *testing.T) {
	store := NewDrugStore()
	ctx := context.Background()

	rec := record("Aspirin", "Bayer", "set-1")
	rec.BrandName = "Aspirin Forte"
	_, err := store.LoadBatch(ctx, []domain.DrugRecord{rec})
	require.NoError(t, err)

	results, err := store.Search(ctx, domain.SearchQuery{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	detail, err := store.GetDrug(ctx, results[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Aspirin", detail.Drug.Name)
	require.NotNil(t, detail.Label)
	assert.Equal(t, "Aspirin Forte", detail.Label.Title)
	assert.Equal(t, "For testing.", detail.Label.Indications)

	_, err = store.GetDrug(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch_Filters(t *testing.T) {
	store := NewDrugStore()
	ctx := context.Background()

	a := record("Aspirin", "Bayer", "")
	a.GenericName = "acetylsalicylic acid"
	b := record("Ibuprofen", "Advil Co", "")
	b.Indications = "For pain relief."
	_, err := store.LoadBatch(ctx, []domain.DrugRecord{a, b})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query domain.SearchQuery
		want  []string
	}{
		{"all", domain.SearchQuery{}, []string{"Aspirin", "Ibuprofen"}},
		{"by name", domain.SearchQuery{Query: "aspir"}, []string{"Aspirin"}},
		{"by generic name", domain.SearchQuery{Query: "salicylic"}, []string{"Aspirin"}},
		{"by manufacturer", domain.SearchQuery{Manufacturer: "advil"}, []string{"Ibuprofen"}},
		{"by indication", domain.SearchQuery{Indication: "pain"}, []string{"Ibuprofen"}},
		{"no match", domain.SearchQuery{Query: "zzz"}, nil},
		{"limit", domain.SearchQuery{Limit: 1}, []string{"Aspirin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Search(ctx, tt.query)
			require.NoError(t, err)
			var names []string
			for _, d := range results {
				names = append(names, d.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestFindSimilar_SameManufacturer(t *testing.T) {
	store := NewDrugStore()
	ctx := context.Background()

	_, err := store.LoadBatch(ctx, []domain.DrugRecord{
		record("Aspirin", "Bayer", ""),
		record("Aleve", "Bayer", ""),
		record("Ibuprofen", "Advil Co", ""),
	})
	require.NoError(t, err)

	results, err := store.Search(ctx, domain.SearchQuery{Query: "Aspirin"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	similar, err := store.FindSimilar(ctx, results[0].ID, 5)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, "Aleve", similar[0].Name)

	_, err = store.FindSimilar(ctx, "missing", 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClose(t *testing.T) {
	store := NewDrugStore()
	require.NoError(t, store.Close())

	_, err := store.LoadBatch(context.Background(), []domain.DrugRecord{record("A", "B", "")})
	assert.ErrorIs(t, err, domain.ErrStoreClosed)

	_, err = store.CountDrugs(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}
