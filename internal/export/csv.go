package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
)

var csvHeader = []string{
	"Issue Number", "Title", "Status", "Requester", "Business Area",
	"Team/Application", "Environment", "Start Date", "End Date", "Cost",
	"Justification", "Change/Jira ID", "Stay On Late", "Created Date",
	"Source URL",
}

// WriteCSV writes the collection as CSV. encoding/csv quotes any field
// that needs it, so free-text justifications with commas survive.
func WriteCSV(w io.Writer, records []domain.ExclusionRequest) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			r.Title,
			string(r.Status),
			r.User,
			r.BusinessArea,
			r.TeamName,
			r.Environment,
			formatDate(r.StartDate),
			formatDate(r.EndDate),
			r.Cost,
			r.Justification,
			r.ChangeJiraID,
			r.StayOnLate,
			r.CreatedAt.Format(dateLayout),
			r.HTMLURL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// UK-style display format, matching the dashboard's date rendering.
const dateLayout = "02/01/2006"

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
