package service

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
)

// Everything in this file is a pure function of (records, now): no state,
// no side effects, safe to recompute on every filter change.

const trendWindowDays = 30

// costRangeBounds mirrors the cost-distribution chart buckets. A cost
// lands in a bucket when min < cost <= max; the last bucket is open-ended.
var costRangeBounds = []struct {
	label string
	min   float64
	max   float64
}{
	{"£0-50", 0, 50},
	{"£50-100", 50, 100},
	{"£100-250", 100, 250},
	{"£250+", 250, math.Inf(1)},
}

var costPattern = regexp.MustCompile(`£?([\d,]+\.?\d*)`)

// ParseCost extracts a decimal amount from a cost string such as
// "£1,234.56". The second return is false when nothing parseable is there.
// Only a leading pound sign and comma thousand separators are recognized;
// other locales are out of scope.
func ParseCost(cost string) (decimal.Decimal, bool) {
	m := costPattern.FindStringSubmatch(cost)
	if m == nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ComputeStats produces the full view-ready statistics document over a
// collection, typically the filtered view.
func ComputeStats(records []domain.ExclusionRequest, now time.Time) domain.Stats {
	return domain.Stats{
		Summary:       Summarize(records, now),
		CostAnalysis:  AnalyzeCosts(records),
		TimeAnalysis:  AnalyzeDurations(records),
		ApprovalRate:  ApprovalRate(records),
		TopTeam:       TopTeam(records),
		ByStatus:      countBy(records, func(r domain.ExclusionRequest) string { return string(r.Status) }),
		ByEnvironment: countBy(records, unknownIfEmpty(func(r domain.ExclusionRequest) string { return r.Environment })),
		ByTeam:        countBy(records, unknownIfEmpty(func(r domain.ExclusionRequest) string { return r.TeamName })),
		CostByTeam:    CostByTeam(records),
		CostRanges:    CostRanges(records),
		Trend:         Trend(records, now),
	}
}

// Summarize computes the headline tile counts. Active requires both an
// approved status and an end date that has not passed: approved-but-expired
// requests do not count.
func Summarize(records []domain.ExclusionRequest, now time.Time) domain.Summary {
	s := domain.Summary{Total: len(records)}
	for i := range records {
		switch records[i].Status {
		case domain.StatusCancelled:
			s.Cancelled++
		case domain.StatusPending:
			s.Pending++
		case domain.StatusApproved, domain.StatusAutoApproved:
			if records[i].Active(now) {
				s.Active++
			}
		}
	}
	return s
}

// AnalyzeCosts totals the parseable cost strings as decimals. Records with
// no cost or an unparseable cost contribute zero and are excluded from the
// costed-record count.
func AnalyzeCosts(records []domain.ExclusionRequest) domain.CostAnalysis {
	total := decimal.Zero
	counted := 0
	for _, r := range records {
		if r.Cost == "" {
			continue
		}
		if d, ok := ParseCost(r.Cost); ok {
			total = total.Add(d)
			counted++
		}
	}

	out := domain.CostAnalysis{
		Total:            total.InexactFloat64(),
		RequestsWithCost: counted,
	}
	if counted > 0 {
		out.Average = total.Div(decimal.NewFromInt(int64(counted))).InexactFloat64()
	}
	return out
}

// AnalyzeDurations averages whole-day ceiling durations over records that
// carry both dates. A reversed date range yields a negative duration and is
// tolerated; nothing validates endDate >= startDate upstream either.
func AnalyzeDurations(records []domain.ExclusionRequest) domain.TimeAnalysis {
	totalDays := 0
	counted := 0
	for _, r := range records {
		if r.StartDate == nil || r.EndDate == nil {
			continue
		}
		totalDays += durationDays(*r.StartDate, *r.EndDate)
		counted++
	}

	out := domain.TimeAnalysis{RequestsWithDates: counted}
	if counted > 0 {
		out.AvgDurationDays = float64(totalDays) / float64(counted)
	}
	return out
}

func durationDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

// ApprovalRate is the whole-percent share of approved and auto-approved
// records. Empty collections rate 0, not NaN.
func ApprovalRate(records []domain.ExclusionRequest) int {
	if len(records) == 0 {
		return 0
	}
	approved := 0
	for _, r := range records {
		if r.Status == domain.StatusApproved || r.Status == domain.StatusAutoApproved {
			approved++
		}
	}
	return int(math.Round(float64(approved) / float64(len(records)) * 100))
}

// TopTeam returns the team with the most records among non-empty team
// names. Ties resolve to the team encountered first in collection order;
// "None" when no record names a team.
func TopTeam(records []domain.ExclusionRequest) string {
	counts := make(map[string]int)
	for _, r := range records {
		if strings.TrimSpace(r.TeamName) != "" {
			counts[r.TeamName]++
		}
	}
	if len(counts) == 0 {
		return "None"
	}

	top := ""
	best := 0
	seen := make(map[string]bool, len(counts))
	for _, r := range records {
		team := r.TeamName
		if strings.TrimSpace(team) == "" || seen[team] {
			continue
		}
		seen[team] = true
		if counts[team] > best {
			best = counts[team]
			top = team
		}
	}
	return top
}

// CostByTeam totals parseable costs per team; records without a team land
// in the "Unknown" bucket.
func CostByTeam(records []domain.ExclusionRequest) map[string]float64 {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records {
		if r.Cost == "" {
			continue
		}
		d, ok := ParseCost(r.Cost)
		if !ok {
			continue
		}
		team := r.TeamName
		if strings.TrimSpace(team) == "" {
			team = "Unknown"
		}
		totals[team] = totals[team].Add(d)
	}

	out := make(map[string]float64, len(totals))
	for team, d := range totals {
		out[team] = d.InexactFloat64()
	}
	return out
}

// CostRanges buckets positive parsed costs into the distribution ranges.
func CostRanges(records []domain.ExclusionRequest) []domain.CostRange {
	ranges := make([]domain.CostRange, len(costRangeBounds))
	for i, b := range costRangeBounds {
		ranges[i].Label = b.label
	}
	for _, r := range records {
		d, ok := ParseCost(r.Cost)
		if !ok || !d.IsPositive() {
			continue
		}
		cost := d.InexactFloat64()
		for i, b := range costRangeBounds {
			if cost > b.min && cost <= b.max {
				ranges[i].Count++
				break
			}
		}
	}
	return ranges
}

// Trend counts record creations per calendar day over the trailing window,
// today included, oldest first. Always exactly trendWindowDays entries.
func Trend(records []domain.ExclusionRequest, now time.Time) []domain.TrendPoint {
	points := make([]domain.TrendPoint, trendWindowDays)
	index := make(map[string]int, trendWindowDays)
	for i := 0; i < trendWindowDays; i++ {
		day := now.AddDate(0, 0, i-trendWindowDays+1)
		key := day.Format("2006-01-02")
		points[i] = domain.TrendPoint{Date: key}
		index[key] = i
	}

	for _, r := range records {
		if i, ok := index[r.CreatedAt.Format("2006-01-02")]; ok {
			points[i].Count++
		}
	}
	return points
}

// RecentRequests returns up to n records ordered newest-created first,
// without mutating the input.
func RecentRequests(records []domain.ExclusionRequest, n int) []domain.ExclusionRequest {
	out := make([]domain.ExclusionRequest, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TeamNames lists the distinct non-empty team names, sorted. Feeds the
// closed team dropdown the exact-match filter relies on.
func TeamNames(records []domain.ExclusionRequest) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		team := strings.TrimSpace(r.TeamName)
		if team == "" || seen[team] {
			continue
		}
		seen[team] = true
		names = append(names, team)
	}
	sort.Strings(names)
	return names
}

// MonthCalendar places records on the calendar days of the given month: a
// record appears on every day its exclusion window covers. Records missing
// either date never place.
func MonthCalendar(records []domain.ExclusionRequest, year int, month time.Month) []domain.CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	days := make([]domain.CalendarDay, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		entry := domain.CalendarDay{Date: day.Format("2006-01-02")}
		for i := range records {
			if records[i].CoversDay(day) {
				entry.Requests = append(entry.Requests, records[i])
			}
		}
		days = append(days, entry)
	}
	return days
}

func countBy(records []domain.ExclusionRequest, key func(domain.ExclusionRequest) string) map[string]int {
	out := make(map[string]int)
	for _, r := range records {
		out[key(r)]++
	}
	return out
}

func unknownIfEmpty(key func(domain.ExclusionRequest) string) func(domain.ExclusionRequest) string {
	return func(r domain.ExclusionRequest) string {
		if v := strings.TrimSpace(key(r)); v != "" {
			return v
		}
		return "Unknown"
	}
}
