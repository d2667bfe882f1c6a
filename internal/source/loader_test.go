package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/logger"
)

const testDocument = `{
	"data": [
		{
			"issue_number": 42,
			"status": "approved",
			"team_name": "Payments API",
			"business_area": "Crime",
			"start_date": "2024-03-17",
			"end_date": "2024-03-19"
		}
	],
	"last_updated": "2024-03-20T12:00:00Z"
}`

func TestLoader_SnapshotFileIsPrimaryWhenNothingConfigured(t *testing.T) {
	store := newTestStore(t, 50)
	writeSnapshotFile(t, store, testDocument)
	loader := NewLoader(nil, "", store, time.Minute, logger.Noop())

	col, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "snapshot-file", col.Source)
	require.Len(t, col.Records, 1)
	assert.Equal(t, 42, col.Records[0].ID)
}

func TestLoader_CachesCollection(t *testing.T) {
	store := newTestStore(t, 50)
	writeSnapshotFile(t, store, testDocument)
	loader := NewLoader(nil, "", store, time.Minute, logger.Noop())

	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	// the file changing underneath does not affect a fresh cache
	require.NoError(t, os.Remove(store.Path()))
	second, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoader_InvalidateForcesReload(t *testing.T) {
	store := newTestStore(t, 50)
	writeSnapshotFile(t, store, testDocument)
	loader := NewLoader(nil, "", store, time.Minute, logger.Noop())

	_, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(store.Path()))
	loader.Invalidate()

	_, err = loader.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestLoader_SnapshotURLPrimary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testDocument)
	}))
	defer srv.Close()

	store := newTestStore(t, 50)
	loader := NewLoader(nil, srv.URL, store, time.Minute, logger.Noop())

	col, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "snapshot-url", col.Source)
	require.Len(t, col.Records, 1)
	assert.Equal(t, "Payments API", col.Records[0].TeamName)
	// last_updated taken from the document itself, day precision
	assert.Equal(t, time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC), col.LastUpdated.UTC())
}

func TestLoader_FallsBackToSnapshotFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := newTestStore(t, 50)
	writeSnapshotFile(t, store, testDocument)
	loader := NewLoader(nil, srv.URL, store, time.Minute, logger.Noop())

	col, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "snapshot-file", col.Source)
	require.Len(t, col.Records, 1)
}

func TestLoader_BothSourcesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	store := newTestStore(t, 50) // file never written
	loader := NewLoader(nil, srv.URL, store, time.Minute, logger.Noop())

	_, err := loader.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.ErrorContains(t, err, "primary")
	assert.ErrorContains(t, err, "fallback")
}

func TestLoader_GithubPrimaryRefreshesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{
				"number": 7,
				"title": "Auto shutdown exclusion request",
				"body": "Business area: Crime\nTeam/Application Name: Payments API\nSkip shutdown start date: 17-03-2024",
				"created_at": "2024-03-17T09:00:00Z"
			}
		]`)
	}))
	defer srv.Close()

	client, err := NewGithubClient(testGithubConfig(srv.URL), logger.Noop())
	require.NoError(t, err)

	store := newTestStore(t, 50)
	loader := NewLoader(client, "", store, time.Minute, logger.Noop())

	col, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "github", col.Source)
	require.Len(t, col.Records, 1)

	// the local snapshot now carries the fetched records for the fallback path
	records, err := store.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].ID)
	assert.Equal(t, "Payments API", records[0].TeamName)
}
