package service

import (
	"strings"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
)

// ApplyFilters produces the filtered view of a collection. Pure function:
// the input slice is never mutated and order is preserved. All set criteria
// combine with AND semantics; a record missing a field an active criterion
// needs is excluded, not treated as a wildcard match.
func ApplyFilters(records []domain.ExclusionRequest, c domain.FilterCriteria) []domain.ExclusionRequest {
	if c.IsZero() {
		out := make([]domain.ExclusionRequest, len(records))
		copy(out, records)
		return out
	}

	out := make([]domain.ExclusionRequest, 0, len(records))
	for _, r := range records {
		if matches(r, c) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r domain.ExclusionRequest, c domain.FilterCriteria) bool {
	if c.BusinessArea != "" {
		if !strings.Contains(strings.ToLower(r.BusinessArea), strings.ToLower(c.BusinessArea)) {
			return false
		}
	}

	// exact match: team names come from a closed dropdown
	if c.TeamName != "" && r.TeamName != c.TeamName {
		return false
	}

	// case-sensitive substring, unlike business area
	if c.Environment != "" && !strings.Contains(r.Environment, c.Environment) {
		return false
	}

	if c.Status != "" && r.Status != c.Status {
		return false
	}

	if c.StartDateFrom != nil {
		if r.StartDate == nil || r.StartDate.Before(*c.StartDateFrom) {
			return false
		}
	}

	if c.EndDateTo != nil {
		if r.EndDate == nil || r.EndDate.After(*c.EndDateTo) {
			return false
		}
	}

	return true
}
