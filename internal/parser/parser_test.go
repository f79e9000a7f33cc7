package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadex/labelseed/internal/core/domain"
)

const sampleLabels = `[
	{
		"drugName": "Emgality",
		"setId": "33a147be-233a-40e8-a55e-e40936e28db0",
		"labeler": "Eli Lilly and Company",
		"label": {
			"genericName": "galcanezumab-gnlm",
			"indicationsAndUsage": "<p>EMGALITY is indicated for the preventive treatment of migraine in adults.</p>"
		}
	},
	{
		"drugName": "",
		"labeler": "No Name Pharma",
		"label": {"indicationsAndUsage": "<p>something</p>"}
	},
	{
		"drugName": "No Labeler Drug",
		"label": {"indicationsAndUsage": "<p>something</p>"}
	},
	{
		"drugName": "Empty Label Drug",
		"labeler": "Some Labeler",
		"label": {"genericName": "nothing clinical here"}
	},
	{
		"drugName": "Aspirin",
		"labeler": "Bayer",
		"label": {"dosageAndAdministration": "<p>Take orally.</p>"}
	}
]`

func writeLabels(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "labels.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func collect(t *testing.T, p *Parser) ([]domain.RawLabel, error) {
	t.Helper()
	docsCh, errsCh := p.Documents(context.Background())

	var docs []domain.RawLabel
	for doc := range docsCh {
		docs = append(docs, doc)
	}
	return docs, <-errsCh
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputNotFound)
}

func TestOpen_Directory(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInputNotFound)
}

func TestDocuments_AdmissionFilter(t *testing.T) {
	p, err := Open(writeLabels(t, sampleLabels))
	require.NoError(t, err)

	docs, err := collect(t, p)
	require.NoError(t, err)

	// Only Emgality and Aspirin pass: the others lack a name, a labeler,
	// or clinical label content.
	require.Len(t, docs, 2)
	assert.Equal(t, "Emgality", docs[0]["drugName"])
	assert.Equal(t, "Aspirin", docs[1]["drugName"])

	label := docs[0].Label()
	require.NotNil(t, label)
	assert.Equal(t, "galcanezumab-gnlm", label["genericName"])
}

func TestDocuments_EmptyArray(t *testing.T) {
	p, err := Open(writeLabels(t, "[]"))
	require.NoError(t, err)

	docs, err := collect(t, p)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocuments_MalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "this is not json"},
		{"not an array", `{"drugName": "X"}`},
		{"truncated mid-document", `[{"drugName": "A", "labeler": "B", "label": {"indicationsAndUsage": "x"}}, {"drugName":`},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Open(writeLabels(t, tt.content))
			require.NoError(t, err)

			_, err = collect(t, p)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedInput)
		})
	}
}

func TestDocuments_MalformedAbortsMidStream(t *testing.T) {
	content := `[
		{"drugName": "First", "labeler": "L", "label": {"indicationsAndUsage": "x"}},
		"not an object at all"`
	p, err := Open(writeLabels(t, content))
	require.NoError(t, err)

	docsCh, errsCh := p.Documents(context.Background())

	first := <-docsCh
	assert.Equal(t, "First", first["drugName"])

	// The string element cannot decode into a mapping, aborting the stream.
	for range docsCh {
	}
	err = <-errsCh
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}

func TestDocuments_Cancellation(t *testing.T) {
	p, err := Open(writeLabels(t, sampleLabels))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	docsCh, errsCh := p.Documents(ctx)

	<-docsCh
	cancel()

	// The stream terminates without error once the consumer is gone.
	for range docsCh {
	}
	assert.NoError(t, <-errsCh)
}

func TestCount(t *testing.T) {
	p, err := Open(writeLabels(t, sampleLabels))
	require.NoError(t, err)

	// Count includes inadmissible documents.
	count, err := p.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCount_Malformed(t *testing.T) {
	p, err := Open(writeLabels(t, `{"not": "an array"}`))
	require.NoError(t, err)

	_, err = p.Count(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedInput)
}
