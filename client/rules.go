package client

import (
	"context"
	"net/http"
	"time"

	ierrors "github.com/veridata/dataquality-go/internal/errors"
	"github.com/veridata/dataquality-go/internal/utils"
)

// SeverityType ranks how serious a detected issue is.
type SeverityType string

const (
	SeverityCritical SeverityType = "critical"
	SeverityHigh     SeverityType = "high"
	SeverityMedium   SeverityType = "medium"
	SeverityLow      SeverityType = "low"
)

// Rule is a server-evaluated validation rule bound to a dataset column.
type Rule struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Kind        string         `json:"kind"`
	DatasetID   string         `json:"dataset_id"`
	Column      string         `json:"column,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
	Severity    SeverityType   `json:"severity"`
	Active      bool           `json:"active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type RuleInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Kind        string         `json:"kind"`
	DatasetID   string         `json:"dataset_id"`
	Column      string         `json:"column,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
	Severity    SeverityType   `json:"severity,omitempty"`
}

// RuleKind describes an available rule kind and its expected parameters.
type RuleKind struct {
	Kind        string   `json:"kind"`
	Description string   `json:"description,omitempty"`
	ParamNames  []string `json:"param_names,omitempty"`
}

// RuleTestResult is the outcome of a dry-run evaluation against current data.
type RuleTestResult struct {
	RuleID      string  `json:"rule_id"`
	Passed      bool    `json:"passed"`
	RowsChecked int64   `json:"rows_checked"`
	RowsFailed  int64   `json:"rows_failed"`
	SampleRows  []any   `json:"sample_rows,omitempty"`
	DurationMS  float64 `json:"duration_ms,omitempty"`
}

// SampleRowStrings returns the string-typed sample rows, dropping anything
// the backend sent in another shape.
func (r RuleTestResult) SampleRowStrings() []string {
	return utils.ToStringSlice(r.SampleRows)
}

func (c *Client) ListRules(ctx context.Context) (Page[Rule], error) {
	var rules []Rule
	if err := c.json(ctx, http.MethodGet, "/rules", nil, nil, &rules); err != nil {
		return Page[Rule]{}, err
	}
	return NewPage(rules), nil
}

func (c *Client) CreateRule(ctx context.Context, in RuleInput) (*Rule, error) {
	var rule Rule
	if err := c.json(ctx, http.MethodPost, "/rules", nil, in, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (c *Client) GetRule(ctx context.Context, id string) (*Rule, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var rule Rule
	if err := c.json(ctx, http.MethodGet, "/rules/"+id, nil, nil, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (c *Client) UpdateRule(ctx context.Context, id string, in RuleInput) (*Rule, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var rule Rule
	if err := c.json(ctx, http.MethodPut, "/rules/"+id, nil, in, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (c *Client) DeleteRule(ctx context.Context, id string) error {
	if id == "" {
		return ierrors.ErrEmptyID
	}
	return c.json(ctx, http.MethodDelete, "/rules/"+id, nil, nil, nil)
}

// TestRule runs a rule against current data without recording issues.
func (c *Client) TestRule(ctx context.Context, id string) (*RuleTestResult, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var result RuleTestResult
	if err := c.json(ctx, http.MethodPost, "/rules/"+id+"/test", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) RuleKinds(ctx context.Context) ([]RuleKind, error) {
	var kinds []RuleKind
	if err := c.json(ctx, http.MethodGet, "/rules/kinds/available", nil, nil, &kinds); err != nil {
		return nil, err
	}
	return kinds, nil
}

func (c *Client) ActivateRule(ctx context.Context, id string) (*Rule, error) {
	return c.patchRuleState(ctx, id, "activate")
}

func (c *Client) DeactivateRule(ctx context.Context, id string) (*Rule, error) {
	return c.patchRuleState(ctx, id, "deactivate")
}

func (c *Client) patchRuleState(ctx context.Context, id, action string) (*Rule, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var rule Rule
	if err := c.json(ctx, http.MethodPatch, "/rules/"+id+"/"+action, nil, nil, &rule); err != nil {
		return nil, err
	}
	return &rule, nil
}
