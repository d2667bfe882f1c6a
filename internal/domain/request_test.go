package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		title  string
		want   Status
	}{
		{"auto-approved label", []string{"auto-approved"}, "request", StatusAutoApproved},
		{"approved label", []string{"approved"}, "request", StatusApproved},
		{"denied label", []string{"denied"}, "request", StatusDenied},
		{"cancel label", []string{"cancel"}, "request", StatusCancelled},
		{"cancel in title", nil, "Please CANCEL this request", StatusCancelled},
		{"no signals", nil, "request", StatusPending},
		// priority: an issue can carry several labels at once
		{"auto-approved beats approved", []string{"approved", "auto-approved"}, "request", StatusAutoApproved},
		{"approved beats denied", []string{"denied", "approved"}, "request", StatusApproved},
		{"denied beats cancel", []string{"cancel", "denied"}, "request", StatusDenied},
		{"approved beats cancel title", []string{"approved"}, "cancel me", StatusApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.labels, tt.title))
		})
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusApproved, ParseStatus("approved"))
	assert.Equal(t, StatusAutoApproved, ParseStatus(" Auto-Approved "))
	assert.Equal(t, StatusCancelled, ParseStatus("cancelled"))
	assert.Equal(t, StatusPending, ParseStatus(""))
	assert.Equal(t, StatusPending, ParseStatus("nonsense"))
}

func TestActive(t *testing.T) {
	now := time.Date(2024, time.March, 18, 12, 0, 0, 0, time.UTC)
	tomorrow := now.AddDate(0, 0, 1)
	yesterday := now.AddDate(0, 0, -1)

	tests := []struct {
		name string
		req  ExclusionRequest
		want bool
	}{
		{"approved and not expired", ExclusionRequest{Status: StatusApproved, EndDate: &tomorrow}, true},
		{"auto-approved and not expired", ExclusionRequest{Status: StatusAutoApproved, EndDate: &tomorrow}, true},
		{"approved but expired", ExclusionRequest{Status: StatusApproved, EndDate: &yesterday}, false},
		{"approved without end date", ExclusionRequest{Status: StatusApproved}, false},
		{"pending with future end date", ExclusionRequest{Status: StatusPending, EndDate: &tomorrow}, false},
		{"cancelled with future end date", ExclusionRequest{Status: StatusCancelled, EndDate: &tomorrow}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Active(now))
		})
	}
}

func TestCoversDay(t *testing.T) {
	start := time.Date(2024, time.March, 17, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 19, 0, 0, 0, 0, time.UTC)
	req := ExclusionRequest{StartDate: &start, EndDate: &end}

	assert.True(t, req.CoversDay(time.Date(2024, time.March, 17, 23, 0, 0, 0, time.UTC)))
	assert.True(t, req.CoversDay(time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC)))
	assert.True(t, req.CoversDay(time.Date(2024, time.March, 19, 1, 0, 0, 0, time.UTC)))
	assert.False(t, req.CoversDay(time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)))
	assert.False(t, req.CoversDay(time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)))

	// missing either date never places on a calendar
	assert.False(t, (&ExclusionRequest{StartDate: &start}).CoversDay(start))
	assert.False(t, (&ExclusionRequest{EndDate: &end}).CoversDay(end))
}

func TestFilterCriteriaValidate(t *testing.T) {
	assert.NoError(t, FilterCriteria{}.Validate())
	assert.NoError(t, FilterCriteria{Status: StatusApproved}.Validate())
	assert.Error(t, FilterCriteria{Status: Status("bogus")}.Validate())
}
