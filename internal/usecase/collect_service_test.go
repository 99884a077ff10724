package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/carefinder/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlacesClient is a scripted PlacesClient for collect tests.
type fakePlacesClient struct {
	hits      []domain.SearchHit
	searchErr error
	details   map[string]*domain.Provider
	detailErr map[string]error
	fetched   []string
}

func (f *fakePlacesClient) SearchNearby(ctx context.Context, lat, lng, radiusMiles float64, keyword string) ([]domain.SearchHit, error) {
	return f.hits, f.searchErr
}

func (f *fakePlacesClient) GetDetails(ctx context.Context, placeID string) (*domain.Provider, error) {
	f.fetched = append(f.fetched, placeID)
	if err, ok := f.detailErr[placeID]; ok {
		return nil, err
	}
	return f.details[placeID], nil
}

func TestCollect(t *testing.T) {
	ctx := context.Background()

	t.Run("merges detail records for every hit", func(t *testing.T) {
		client := &fakePlacesClient{
			hits: []domain.SearchHit{
				{PlaceID: "a", Name: "A Search Name"},
				{PlaceID: "b", Name: "B Search Name"},
			},
			details: map[string]*domain.Provider{
				"a": {PlaceID: "a", Name: "A Detail Name", Address: "1 Main St"},
				"b": {PlaceID: "b", Name: "B Detail Name"},
			},
		}

		providers, err := NewCollectService(client).Collect(ctx, 42.5, -70.8, 10, "childcare")
		require.NoError(t, err)
		require.Len(t, providers, 2)
		// Detail fields take precedence over the search hit.
		assert.Equal(t, "A Detail Name", providers[0].Name)
		assert.Equal(t, "1 Main St", providers[0].Address)
	})

	t.Run("falls back to the search hit name", func(t *testing.T) {
		client := &fakePlacesClient{
			hits: []domain.SearchHit{{PlaceID: "a", Name: "Only Search Name"}},
			details: map[string]*domain.Provider{
				"a": {PlaceID: "a"},
			},
		}

		providers, err := NewCollectService(client).Collect(ctx, 42.5, -70.8, 10, "childcare")
		require.NoError(t, err)
		require.Len(t, providers, 1)
		assert.Equal(t, "Only Search Name", providers[0].Name)
	})

	t.Run("skips hits without an identifier", func(t *testing.T) {
		client := &fakePlacesClient{
			hits: []domain.SearchHit{
				{PlaceID: "", Name: "No ID"},
				{PlaceID: "a", Name: "Has ID"},
			},
			details: map[string]*domain.Provider{
				"a": {PlaceID: "a", Name: "Has ID"},
			},
		}

		providers, err := NewCollectService(client).Collect(ctx, 42.5, -70.8, 10, "childcare")
		require.NoError(t, err)
		assert.Len(t, providers, 1)
		assert.Equal(t, []string{"a"}, client.fetched)
	})

	t.Run("drops hits whose detail lookup fails", func(t *testing.T) {
		client := &fakePlacesClient{
			hits: []domain.SearchHit{
				{PlaceID: "bad", Name: "Broken"},
				{PlaceID: "good", Name: "Works"},
			},
			details: map[string]*domain.Provider{
				"good": {PlaceID: "good", Name: "Works"},
			},
			detailErr: map[string]error{
				"bad": errors.New("boom"),
			},
		}

		providers, err := NewCollectService(client).Collect(ctx, 42.5, -70.8, 10, "childcare")
		require.NoError(t, err)
		require.Len(t, providers, 1)
		assert.Equal(t, "good", providers[0].PlaceID)
	})

	t.Run("drops hits with empty detail records", func(t *testing.T) {
		client := &fakePlacesClient{
			hits:    []domain.SearchHit{{PlaceID: "gone", Name: "Closed"}},
			details: map[string]*domain.Provider{},
		}

		providers, err := NewCollectService(client).Collect(ctx, 42.5, -70.8, 10, "childcare")
		require.NoError(t, err)
		assert.Empty(t, providers)
	})

	t.Run("empty search yields empty result without error", func(t *testing.T) {
		client := &fakePlacesClient{}

		providers, err := NewCollectService(client).Collect(ctx, 42.5, -70.8, 10, "childcare")
		require.NoError(t, err)
		assert.Empty(t, providers)
	})

	t.Run("search failure aborts the collection", func(t *testing.T) {
		client := &fakePlacesClient{searchErr: domain.ErrPlacesAPIFailure}

		_, err := NewCollectService(client).Collect(ctx, 42.5, -70.8, 10, "childcare")
		assert.ErrorIs(t, err, domain.ErrPlacesAPIFailure)
	})
}
