package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	. "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ajwhitelaw/exclusion-dashboard/internal/domain"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/normalize"
	"github.com/ajwhitelaw/exclusion-dashboard/internal/pkg/logger"
)

type GithubConfig struct {
	BaseURL       string
	Owner         string
	Repo          string
	Token         string
	Timeout       time.Duration
	PerPage       int
	FetchWindow   time.Duration
	FetchComments bool
}

func (c *GithubConfig) Validate() error {
	return ValidateStruct(c,
		Field(&c.BaseURL, Required, is.URL),
		Field(&c.Owner, Required, Length(1, 100)),
		Field(&c.Repo, Required, Length(1, 100)),
		Field(&c.PerPage, Required, Min(1), Max(100)),
		Field(&c.FetchWindow, Required, Min(time.Hour), Max(365*24*time.Hour)),
		Field(&c.Timeout, Min(time.Duration(0)), Max(5*time.Minute)),
	)
}

// GithubClient pulls exclusion requests out of the tracker's issue list.
// It is deliberately thin: one paginated listing per load, no retries, no
// backoff; resilience is the loader's single fallback to the local file.
type GithubClient struct {
	config *GithubConfig
	http   *http.Client
	logger *logger.Logger
	now    func() time.Time
}

func NewGithubClient(cfg *GithubConfig, log *logger.Logger) (*GithubClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid github config: %w", err)
	}
	return &GithubClient{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: log.Component("source/github"),
		now:    time.Now,
	}, nil
}

// Matches "Total estimated cost ... £1,234.56" in a review comment. The
// approval workflow posts the computed cost there rather than in the body.
var commentCostPattern = regexp.MustCompile(`(?i)Total estimated cost.*?£([\d,]+\.?\d*)`)

// Requests fetches, filters, and normalizes the recent issue window.
func (c *GithubClient) Requests(ctx context.Context) ([]domain.ExclusionRequest, error) {
	issues, err := c.listIssues(ctx)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	records := make([]domain.ExclusionRequest, 0, len(issues))
	for _, issue := range issues {
		if !normalize.IsExclusionRequest(issue) {
			continue
		}
		rec := normalize.FromIssue(issue)
		if c.config.FetchComments {
			// best effort: a failed comment lookup leaves the cost empty
			cost, err := c.commentCost(ctx, issue.Number)
			if err != nil {
				c.logger.Warn("cost lookup failed",
					"issue", issue.Number,
					"error", err,
				)
			} else {
				rec.Cost = cost
			}
		}
		records = append(records, rec)
	}

	c.logger.Info("fetched exclusion requests",
		"issues", len(issues),
		"requests", len(records),
	)
	return records, nil
}

func (c *GithubClient) listIssues(ctx context.Context) ([]normalize.Issue, error) {
	since := c.now().Add(-c.config.FetchWindow)

	var all []normalize.Issue
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("state", "all")
		q.Set("since", since.UTC().Format(time.RFC3339))
		q.Set("per_page", strconv.Itoa(c.config.PerPage))
		q.Set("sort", "created")
		q.Set("direction", "desc")
		q.Set("page", strconv.Itoa(page))

		endpoint := fmt.Sprintf("%s/repos/%s/%s/issues?%s",
			c.config.BaseURL, c.config.Owner, c.config.Repo, q.Encode())

		var batch []normalize.Issue
		if err := c.getJSON(ctx, endpoint, &batch); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		all = append(all, batch...)
		if len(batch) < c.config.PerPage {
			return all, nil
		}
	}
}

func (c *GithubClient) commentCost(ctx context.Context, issueNumber int) (string, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments",
		c.config.BaseURL, c.config.Owner, c.config.Repo, issueNumber)

	var comments []struct {
		Body string `json:"body"`
	}
	if err := c.getJSON(ctx, endpoint, &comments); err != nil {
		return "", err
	}

	for _, comment := range comments {
		if m := commentCostPattern.FindStringSubmatch(comment.Body); m != nil {
			return "£" + m[1], nil
		}
	}
	return "", nil
}

func (c *GithubClient) getJSON(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "exclusion-dashboard")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "token "+c.config.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
