package domain

import (
	"time"

	. "github.com/go-ozzo/ozzo-validation"
)

// FilterCriteria is the multi-field predicate configuration supplied by UI
// controls. Zero values impose no constraint on their field; all set
// criteria combine with AND semantics.
type FilterCriteria struct {
	// BusinessArea matches as a case-insensitive substring.
	BusinessArea string
	// TeamName matches exactly: team names come from a closed dropdown of
	// known values, so a stricter rule than business area is intentional.
	TeamName string
	// Environment matches as a case-sensitive substring.
	Environment string
	// Status matches exactly against the status enum.
	Status Status
	// StartDateFrom keeps only records whose start date is present and on
	// or after this bound.
	StartDateFrom *time.Time
	// EndDateTo keeps only records whose end date is present and on or
	// before this bound.
	EndDateTo *time.Time
}

// IsZero reports whether no criterion is set.
func (c FilterCriteria) IsZero() bool {
	return c.BusinessArea == "" &&
		c.TeamName == "" &&
		c.Environment == "" &&
		c.Status == "" &&
		c.StartDateFrom == nil &&
		c.EndDateTo == nil
}

func (c FilterCriteria) Validate() error {
	return ValidateStruct(&c,
		Field(&c.Status, In(
			StatusPending,
			StatusApproved,
			StatusAutoApproved,
			StatusDenied,
			StatusCancelled,
		)),
	)
}
