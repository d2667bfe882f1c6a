package domain

import (
	"strings"
	"time"
)

// ExclusionRequest is the canonical record the whole dashboard works on.
// Both source shapes (tracker issues and cached snapshots) normalize into it;
// the filter engine and aggregator never see raw source data.
type ExclusionRequest struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	BusinessArea  string     `json:"business_area"`
	TeamName      string     `json:"team_name"`
	Environment   string     `json:"environment"`
	Cost          string     `json:"cost"` // raw currency text, e.g. "£123.45"; empty = no cost recorded
	Justification string     `json:"justification"`
	ChangeJiraID  string     `json:"change_jira_id"`
	StayOnLate    string     `json:"stay_on_late"`
	User          string     `json:"user"`
	HTMLURL       string     `json:"html_url"`
	Labels        []string   `json:"labels,omitempty"`
}

type Status string

const (
	StatusPending      Status = "pending"
	StatusApproved     Status = "approved"
	StatusAutoApproved Status = "auto-approved"
	StatusDenied       Status = "denied"
	StatusCancelled    Status = "cancelled"
)

// Statuses lists every valid status value.
func Statuses() []Status {
	return []Status{
		StatusPending,
		StatusApproved,
		StatusAutoApproved,
		StatusDenied,
		StatusCancelled,
	}
}

// ParseStatus maps recorded status text onto the enum. Unknown values
// degrade to pending rather than failing the record.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusApproved:
		return StatusApproved
	case StatusAutoApproved:
		return StatusAutoApproved
	case StatusDenied:
		return StatusDenied
	case StatusCancelled:
		return StatusCancelled
	default:
		return StatusPending
	}
}

// statusRule is one entry of the ordered derivation table. Rules are
// evaluated top to bottom and the first match wins; an issue can carry
// several status labels at once, so the order is load-bearing.
type statusRule struct {
	status Status
	match  func(labels map[string]bool, title string) bool
}

var statusRules = []statusRule{
	{StatusAutoApproved, func(l map[string]bool, _ string) bool { return l["auto-approved"] }},
	{StatusApproved, func(l map[string]bool, _ string) bool { return l["approved"] }},
	{StatusDenied, func(l map[string]bool, _ string) bool { return l["denied"] }},
	{StatusCancelled, func(l map[string]bool, title string) bool {
		return l["cancel"] || strings.Contains(strings.ToLower(title), "cancel")
	}},
}

// DeriveStatus resolves a tracker issue's status from its label set and
// title. Anything the rule table does not claim is pending.
func DeriveStatus(labels []string, title string) Status {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	for _, rule := range statusRules {
		if rule.match(set, title) {
			return rule.status
		}
	}
	return StatusPending
}

// Active reports whether the request is approved (either flavour) and its
// end date has not yet passed. Approved-but-expired requests are not active,
// and a request without an end date can never be active.
func (r *ExclusionRequest) Active(now time.Time) bool {
	if r.Status != StatusApproved && r.Status != StatusAutoApproved {
		return false
	}
	return r.EndDate != nil && !r.EndDate.Before(now)
}

// CoversDay reports whether the request's exclusion window includes the
// given calendar day. Requests missing either date never place on a calendar.
func (r *ExclusionRequest) CoversDay(day time.Time) bool {
	if r.StartDate == nil || r.EndDate == nil {
		return false
	}
	d := truncateToDay(day)
	return !d.Before(truncateToDay(*r.StartDate)) && !d.After(truncateToDay(*r.EndDate))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
