package normalize

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
)

// Issue is the subset of a tracker issue object the normalizer consumes.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Labels    []Label   `json:"labels"`
	User      IssueUser `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	HTMLURL   string    `json:"html_url"`
}

type Label struct {
	Name string `json:"name"`
}

type IssueUser struct {
	Login string `json:"login"`
}

// Record is one entry of the cached snapshot document. Dates are kept as
// the raw strings they were serialized with and re-parsed on normalization.
type Record struct {
	IssueNumber   int         `json:"issue_number"`
	Title         string      `json:"title"`
	Status        string      `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	IssueLink     string      `json:"issue_link"`
	Requester     string      `json:"requester"`
	Labels        []string    `json:"labels,omitempty"`
	BusinessArea  string      `json:"business_area"`
	TeamName      string      `json:"team_name"`
	Environment   Environment `json:"environment"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
	Justification string      `json:"justification"`
	ChangeJiraID  string      `json:"change_jira_id"`
	StayOnLate    string      `json:"stay_on_late"`
	Cost          string      `json:"cost,omitempty"`
}

// Entry is one element of the simplified local issues list: no identifier,
// no status, no timestamps beyond the exclusion window itself.
type Entry struct {
	TeamName      string      `json:"team_name"`
	BusinessArea  string      `json:"business_area"`
	Environment   Environment `json:"environment"`
	StartDate     string      `json:"start_date"`
	EndDate       string      `json:"end_date"`
	Justification string      `json:"justification"`
	ChangeJiraID  string      `json:"change_jira_id"`
	StayOnLate    string      `json:"stay_on_late"`
	IssueLink     string      `json:"issue_link"`
}

// Environment decodes a JSON string or a JSON array of strings; arrays are
// joined into a single comma-separated value.
type Environment string

func (e *Environment) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = Environment(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*e = Environment(strings.Join(many, ", "))
		return nil
	}
	// Tolerate anything else (null, number) as unspecified.
	*e = ""
	return nil
}

// Alias labels per logical field, tried in order. The first set is the
// issue-form wording, the second the snake_case key of older templates.
var (
	businessAreaLabels = []string{"Business area", "business_area"}
	teamNameLabels     = []string{"Team/Application Name", "team_name"}
	environmentLabels  = []string{"Environment", "environment"}
	startDateLabels    = []string{"Skip shutdown start date", "start_date"}
	endDateLabels      = []string{"Skip shutdown end date", "end_date"}
	justificationLabel = []string{"Justification for exclusion", "justification"}
	changeJiraLabels   = []string{"Change or Jira reference", "change_jira_id"}
	stayOnLateLabels   = []string{"Do you need this exclusion past 11pm", "stay_on_late"}
)

var inclusionLabelHints = []string{"auto-approved", "approved", "pending"}

// IsExclusionRequest reports whether a raw tracker issue is an exclusion
// request at all. The tracker holds unrelated issues too, so only titles
// mentioning the shutdown process or issues carrying a status-ish label
// are considered.
func IsExclusionRequest(issue Issue) bool {
	title := strings.ToLower(issue.Title)
	if strings.Contains(title, "auto shutdown") ||
		strings.Contains(title, "autoshutdown") ||
		strings.Contains(title, "exclusion") {
		return true
	}
	for _, label := range issue.Labels {
		for _, hint := range inclusionLabelHints {
			if strings.Contains(label.Name, hint) {
				return true
			}
		}
	}
	return false
}

// FromIssue maps a tracker issue into the canonical entity. Malformed body
// fields degrade to empty strings and unparseable dates stay nil; a bad
// record never fails the collection.
func FromIssue(issue Issue) domain.ExclusionRequest {
	labels := make([]string, 0, len(issue.Labels))
	for _, l := range issue.Labels {
		labels = append(labels, l.Name)
	}

	body := issue.Body
	return domain.ExclusionRequest{
		ID:            issue.Number,
		Title:         issue.Title,
		Status:        domain.DeriveStatus(labels, issue.Title),
		CreatedAt:     issue.CreatedAt,
		UpdatedAt:     issue.UpdatedAt,
		StartDate:     ParseDate(ExtractFirst(body, startDateLabels...)),
		EndDate:       ParseDate(ExtractFirst(body, endDateLabels...)),
		BusinessArea:  ExtractFirst(body, businessAreaLabels...),
		TeamName:      ExtractFirst(body, teamNameLabels...),
		Environment:   ExtractFirst(body, environmentLabels...),
		Justification: ExtractFirst(body, justificationLabel...),
		ChangeJiraID:  ExtractFirst(body, changeJiraLabels...),
		StayOnLate:    ExtractFirst(body, stayOnLateLabels...),
		User:          issue.User.Login,
		HTMLURL:       issue.HTMLURL,
		Labels:        labels,
	}
}

// FromRecord maps one cached snapshot record. Snapshot records carry a
// recorded status; unknown values fall back to pending.
func FromRecord(rec Record) domain.ExclusionRequest {
	return domain.ExclusionRequest{
		ID:            rec.IssueNumber,
		Title:         rec.Title,
		Status:        domain.ParseStatus(rec.Status),
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
		StartDate:     ParseDate(rec.StartDate),
		EndDate:       ParseDate(rec.EndDate),
		BusinessArea:  strings.TrimSpace(rec.BusinessArea),
		TeamName:      strings.TrimSpace(rec.TeamName),
		Environment:   strings.TrimSpace(string(rec.Environment)),
		Cost:          strings.TrimSpace(rec.Cost),
		Justification: rec.Justification,
		ChangeJiraID:  rec.ChangeJiraID,
		StayOnLate:    rec.StayOnLate,
		User:          rec.Requester,
		HTMLURL:       rec.IssueLink,
		Labels:        rec.Labels,
	}
}

// FromEntries maps the simplified local list. The list has no label data,
// so every entry is assumed approved, and no native identifier, so ids are
// assigned sequentially from 1.
func FromEntries(entries []Entry, loadedAt time.Time) []domain.ExclusionRequest {
	records := make([]domain.ExclusionRequest, 0, len(entries))
	for i, e := range entries {
		records = append(records, domain.ExclusionRequest{
			ID:            i + 1,
			Title:         entryTitle(e),
			Status:        domain.StatusApproved,
			CreatedAt:     loadedAt,
			UpdatedAt:     loadedAt,
			StartDate:     ParseDate(e.StartDate),
			EndDate:       ParseDate(e.EndDate),
			BusinessArea:  strings.TrimSpace(e.BusinessArea),
			TeamName:      strings.TrimSpace(e.TeamName),
			Environment:   strings.TrimSpace(string(e.Environment)),
			Justification: e.Justification,
			ChangeJiraID:  e.ChangeJiraID,
			StayOnLate:    e.StayOnLate,
			HTMLURL:       e.IssueLink,
		})
	}
	return records
}

// ToRecord is the inverse of FromRecord, used when writing a refreshed
// snapshot back out. Dates serialize as YYYY-MM-DD so they round-trip
// through ParseDate's second pattern.
func ToRecord(r domain.ExclusionRequest) Record {
	return Record{
		IssueNumber:   r.ID,
		Title:         r.Title,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		IssueLink:     r.HTMLURL,
		Requester:     r.User,
		Labels:        r.Labels,
		BusinessArea:  r.BusinessArea,
		TeamName:      r.TeamName,
		Environment:   Environment(r.Environment),
		StartDate:     formatDate(r.StartDate),
		EndDate:       formatDate(r.EndDate),
		Justification: r.Justification,
		ChangeJiraID:  r.ChangeJiraID,
		StayOnLate:    r.StayOnLate,
		Cost:          r.Cost,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func entryTitle(e Entry) string {
	team := strings.TrimSpace(e.TeamName)
	if team == "" {
		team = "Unknown team"
	}
	return "Auto shutdown exclusion - " + team
}
