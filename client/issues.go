package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	ierrors "github.com/veridata/dataquality-go/internal/errors"
	"github.com/veridata/dataquality-go/internal/utils"
)

// Issue is one detected data-quality violation.
type Issue struct {
	ID          string       `json:"id"`
	RuleID      string       `json:"rule_id"`
	DatasetID   string       `json:"dataset_id"`
	ExecutionID string       `json:"execution_id"`
	Severity    SeverityType `json:"severity"`
	Description string       `json:"description,omitempty"`
	RowRef      string       `json:"row_ref,omitempty"`
	Column      string       `json:"column,omitempty"`
	Value       *string      `json:"value,omitempty"`
	Resolved    bool         `json:"resolved"`
	ResolvedAt  *time.Time   `json:"resolved_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// IssueFilter narrows an issue listing. Zero values are omitted from the
// request.
type IssueFilter struct {
	Severity    SeverityType
	Resolved    *bool
	RuleID      string
	DatasetID   string
	ExecutionID string
	Limit       int
	Offset      int
}

// Values encodes the filter as query parameters. Also used by the dashboard
// store as cache-key material, so the encoding must be deterministic.
func (f IssueFilter) Values() url.Values {
	q := url.Values{}
	if f.Severity != "" {
		q.Set("severity", string(f.Severity))
	}
	if f.Resolved != nil {
		q.Set("resolved", strconv.FormatBool(*f.Resolved))
	}
	if f.RuleID != "" {
		q.Set("rule_id", f.RuleID)
	}
	if f.DatasetID != "" {
		q.Set("dataset_id", f.DatasetID)
	}
	if f.ExecutionID != "" {
		q.Set("execution_id", f.ExecutionID)
	}
	if s := utils.Itoa(f.Limit); s != "" {
		q.Set("limit", s)
	}
	if s := utils.Itoa(f.Offset); s != "" {
		q.Set("offset", s)
	}
	return q
}

// IssueStatistics is the aggregate issue summary over a trailing window.
type IssueStatistics struct {
	Days       int            `json:"days"`
	Total      int            `json:"total"`
	Resolved   int            `json:"resolved"`
	Unresolved int            `json:"unresolved"`
	BySeverity map[string]int `json:"by_severity,omitempty"`
	ByDataset  map[string]int `json:"by_dataset,omitempty"`
}

// FixInput carries the corrected value applied to the offending row.
type FixInput struct {
	Value   any    `json:"value"`
	Comment string `json:"comment,omitempty"`
}

func (c *Client) ListIssues(ctx context.Context, filter IssueFilter) (Page[Issue], error) {
	var issues []Issue
	if err := c.json(ctx, http.MethodGet, "/issues", filter.Values(), nil, &issues); err != nil {
		return Page[Issue]{}, err
	}
	return NewPage(issues), nil
}

func (c *Client) GetIssue(ctx context.Context, id string) (*Issue, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var issue Issue
	if err := c.json(ctx, http.MethodGet, "/issues/"+id, nil, nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) ResolveIssue(ctx context.Context, id string) (*Issue, error) {
	return c.patchIssueState(ctx, id, "resolve")
}

func (c *Client) UnresolveIssue(ctx context.Context, id string) (*Issue, error) {
	return c.patchIssueState(ctx, id, "unresolve")
}

func (c *Client) patchIssueState(ctx context.Context, id, action string) (*Issue, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var issue Issue
	if err := c.json(ctx, http.MethodPatch, "/issues/"+id+"/"+action, nil, nil, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

// FixIssue applies a corrected value server-side and marks the issue fixed.
func (c *Client) FixIssue(ctx context.Context, id string, in FixInput) (*Issue, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var issue Issue
	if err := c.json(ctx, http.MethodPost, "/issues/"+id+"/fix", nil, in, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) IssueStatistics(ctx context.Context, days int) (*IssueStatistics, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	var stats IssueStatistics
	if err := c.json(ctx, http.MethodGet, "/issues/statistics/summary", q, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
