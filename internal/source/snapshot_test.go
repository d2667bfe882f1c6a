package source

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/normalize"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/logger"
)

func newTestStore(t *testing.T, limit int) *SnapshotStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "issues_list.json")
	return NewSnapshotStore(path, limit, logger.Noop())
}

func writeSnapshotFile(t *testing.T, store *SnapshotStore, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))
}

func TestSnapshotStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t, 50)

	_, err := store.Load()

	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestSnapshotStore_LoadDocument(t *testing.T) {
	store := newTestStore(t, 50)
	writeSnapshotFile(t, store, `{
		"data": [
			{
				"issue_number": 42,
				"title": "Auto shutdown exclusion request",
				"status": "approved",
				"team_name": "Payments API",
				"business_area": "Crime",
				"environment": "staging",
				"start_date": "2024-03-17",
				"end_date": "2024-03-19"
			}
		],
		"last_updated": "2024-03-20T12:00:00Z"
	}`)

	records, err := store.Load()

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 42, records[0].ID)
	assert.Equal(t, domain.StatusApproved, records[0].Status)
	assert.Equal(t, "Payments API", records[0].TeamName)
	require.NotNil(t, records[0].StartDate)
	assert.Equal(t, 17, records[0].StartDate.Day())
}

func TestSnapshotStore_LoadSimplifiedList(t *testing.T) {
	store := newTestStore(t, 50)
	writeSnapshotFile(t, store, `[
		{"team_name": "Payments API", "start_date": "17-03-2024", "end_date": "19-03-2024"},
		{"team_name": "Divorce", "environment": ["staging", "aat"]}
	]`)

	records, err := store.Load()

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].ID)
	assert.Equal(t, 2, records[1].ID)
	assert.Equal(t, domain.StatusApproved, records[0].Status)
	assert.Equal(t, "staging, aat", records[1].Environment)
}

func TestSnapshotStore_LoadRejectsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", "   "},
		{"not json", "garbage"},
		{"object without data", `{"last_updated": "2024-03-20T12:00:00Z"}`},
		{"broken array", `[{"team_name":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, 50)
			writeSnapshotFile(t, store, tt.content)

			_, err := store.Load()
			assert.Error(t, err)
		})
	}
}

func TestMergeRecords(t *testing.T) {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	rec := func(num int, team string, created time.Time) normalize.Record {
		return normalize.Record{
			IssueNumber:  num,
			TeamName:     team,
			StartDate:    "2024-03-17",
			BusinessArea: "Crime",
			CreatedAt:    created,
		}
	}

	fresh := []normalize.Record{
		rec(1, "Fresh One", base.AddDate(0, 0, 3)),
		rec(2, "Fresh Two", base.AddDate(0, 0, 1)),
	}
	existing := []normalize.Record{
		rec(1, "Stale One", base),                  // superseded by fresh #1
		rec(3, "Local Only", base.AddDate(0, 0, 2)), // survives
		{IssueNumber: 4, TeamName: "No Dates"},      // incomplete, dropped
	}

	merged := MergeRecords(fresh, existing, 50)

	require.Len(t, merged, 3)
	// newest first
	assert.Equal(t, 1, merged[0].IssueNumber)
	assert.Equal(t, "Fresh One", merged[0].TeamName)
	assert.Equal(t, 3, merged[1].IssueNumber)
	assert.Equal(t, 2, merged[2].IssueNumber)
}

func TestMergeRecords_DropsIncompleteFresh(t *testing.T) {
	fresh := []normalize.Record{
		{IssueNumber: 1, TeamName: "Team", StartDate: "2024-03-17"}, // no business area
	}
	assert.Empty(t, MergeRecords(fresh, nil, 50))
}

func TestMergeRecords_Cap(t *testing.T) {
	var fresh []normalize.Record
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 5; i++ {
		fresh = append(fresh, normalize.Record{
			IssueNumber:  i,
			TeamName:     "Team",
			StartDate:    "2024-03-17",
			BusinessArea: "Crime",
			CreatedAt:    base.AddDate(0, 0, i),
		})
	}

	merged := MergeRecords(fresh, nil, 3)

	require.Len(t, merged, 3)
	assert.Equal(t, 5, merged[0].IssueNumber)
	assert.Equal(t, 3, merged[2].IssueNumber)
}

func TestSnapshotStore_WriteMergesExisting(t *testing.T) {
	store := newTestStore(t, 50)
	writeSnapshotFile(t, store, `{
		"data": [
			{
				"issue_number": 3,
				"team_name": "Local Only",
				"business_area": "Civil",
				"start_date": "2024-03-10",
				"created_at": "2024-03-10T00:00:00Z"
			}
		]
	}`)

	generatedAt := time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
	fresh := []normalize.Record{
		{
			IssueNumber:  1,
			TeamName:     "Payments API",
			BusinessArea: "Crime",
			StartDate:    "2024-03-17",
			CreatedAt:    time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, store.Write(fresh, generatedAt))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Data, 2)
	assert.Equal(t, 1, doc.Data[0].IssueNumber)
	assert.Equal(t, 3, doc.Data[1].IssueNumber)
	assert.Equal(t, "2024-03-20T12:00:00Z", doc.LastUpdated)
}
