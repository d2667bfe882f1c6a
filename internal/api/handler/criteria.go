package handler

import (
	"fmt"
	"net/url"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/normalize"
)

// criteriaFromQuery maps filter query parameters onto FilterCriteria.
// Date bounds go through the same tolerant date parser the records do; a
// non-empty value that still fails to parse is rejected rather than
// silently ignored, since the caller clearly meant to filter.
func criteriaFromQuery(q url.Values) (domain.FilterCriteria, error) {
	c := domain.FilterCriteria{
		BusinessArea: q.Get("business_area"),
		TeamName:     q.Get("team_name"),
		Environment:  q.Get("environment"),
		Status:       domain.Status(q.Get("status")),
	}

	if raw := q.Get("start_date_from"); raw != "" {
		t := normalize.ParseDate(raw)
		if t == nil {
			return c, fmt.Errorf("%w: unparseable start_date_from %q", domain.ErrInvalidCriteria, raw)
		}
		c.StartDateFrom = t
	}
	if raw := q.Get("end_date_to"); raw != "" {
		t := normalize.ParseDate(raw)
		if t == nil {
			return c, fmt.Errorf("%w: unparseable end_date_to %q", domain.ErrInvalidCriteria, raw)
		}
		c.EndDateTo = t
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%w: %v", domain.ErrInvalidCriteria, err)
	}
	return c, nil
}
