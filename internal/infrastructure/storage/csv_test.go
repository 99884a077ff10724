package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/carefinder/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *CSVStore {
	t.Helper()
	dir := t.TempDir()
	return NewCSVStore(
		filepath.Join(dir, "raw.csv"),
		filepath.Join(dir, "processed.csv"),
		filepath.Join(dir, "recommendations.csv"),
	)
}

func testProviders() []domain.Provider {
	rating := 4.8
	lat, lng := 42.5001, -70.8578

	return []domain.Provider{
		{
			PlaceID:        "p1",
			Name:           "Little Learners",
			Address:        "123 Main St",
			Phone:          "555-0001",
			Website:        "https://example.com",
			Rating:         &rating,
			ReviewCount:    45,
			Latitude:       &lat,
			Longitude:      &lng,
			BusinessStatus: "OPERATIONAL",
			Reviews: []domain.Review{
				{Author: "Pat", Rating: 5, Text: "Clean, caring, has a \"great\" vibe"},
			},
			Features: domain.Features{
				DistanceMiles:   1.5,
				MentionsClean:   1,
				MentionsCaring:  1,
				AvgReviewLength: 34,
				EstimatedPrice:  1395,
				QualityScore:    0.7,
			},
		},
		{
			// Rating and coordinates absent; must round-trip as nil.
			PlaceID:        "p2",
			Name:           "No Geo Daycare",
			BusinessStatus: "UNKNOWN",
			Features: domain.Features{
				DistanceMiles:  domain.MissingDistance,
				EstimatedPrice: 1200,
			},
		},
	}
}

func TestCSVStore_ProcessedRoundTrip(t *testing.T) {
	store := newTestStore(t)
	want := testProviders()

	require.NoError(t, store.SaveProcessed(want))

	got, err := store.LoadProcessed()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, want[0].PlaceID, got[0].PlaceID)
	assert.Equal(t, want[0].Name, got[0].Name)
	require.NotNil(t, got[0].Rating)
	assert.Equal(t, 4.8, *got[0].Rating)
	require.True(t, got[0].HasCoordinates())
	assert.Equal(t, 42.5001, *got[0].Latitude)
	require.Len(t, got[0].Reviews, 1)
	assert.Equal(t, want[0].Reviews[0].Text, got[0].Reviews[0].Text)
	assert.Equal(t, want[0].Features, got[0].Features)

	assert.Nil(t, got[1].Rating)
	assert.False(t, got[1].HasCoordinates())
	assert.Equal(t, domain.MissingDistance, got[1].Features.DistanceMiles)
}

func TestCSVStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadProcessed()
	assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
}

func TestCSVStore_SaveRawColumns(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveRaw(testProviders()))

	f, err := os.Open(store.rawPath)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, rawColumns, records[0])
}

func TestCSVStore_SaveRecommendations(t *testing.T) {
	store := newTestStore(t)
	providers := testProviders()

	recs := []domain.Recommendation{
		{Provider: providers[0], MatchScore: 52.5},
	}
	require.NoError(t, store.SaveRecommendations(recs))

	f, err := os.Open(store.recommendationsPath)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "match_score", records[0][len(records[0])-1])
	assert.Equal(t, "52.5", records[1][len(records[1])-1])
}

func TestCSVStore_EmptyDataset(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SaveProcessed(nil))

	got, err := store.LoadProcessed()
	require.NoError(t, err)
	assert.Empty(t, got)
}
