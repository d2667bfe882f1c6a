package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
)

func TestWriteCSV(t *testing.T) {
	start := time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	records := []domain.ExclusionRequest{
		{
			ID:            42,
			Title:         "Auto shutdown exclusion request",
			Status:        domain.StatusApproved,
			User:          "jdoe",
			BusinessArea:  "Crime",
			TeamName:      "Payments API",
			Environment:   "staging",
			StartDate:     &start,
			EndDate:       &end,
			Cost:          "£12.50",
			Justification: "release weekend, extended hours",
			ChangeJiraID:  "CHG-1234",
			StayOnLate:    "no",
			CreatedAt:     time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC),
			HTMLURL:       "https://github.com/org/repo/issues/42",
		},
		{ID: 7, Status: domain.StatusPending}, // missing dates render empty
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])

	assert.Equal(t, "42", rows[1][0])
	assert.Equal(t, "approved", rows[1][2])
	assert.Equal(t, "17/03/2024", rows[1][7])
	assert.Equal(t, "19/03/2024", rows[1][8])
	// the comma inside the justification survived quoting
	assert.Equal(t, "release weekend, extended hours", rows[1][10])

	assert.Equal(t, "7", rows[2][0])
	assert.Empty(t, rows[2][7])
	assert.Empty(t, rows[2][8])
}

func TestWriteCSV_EmptyCollection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
