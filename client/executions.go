package client

import (
	"context"
	"net/http"
	"time"

	ierrors "github.com/veridata/dataquality-go/internal/errors"
)

// Execution is one run of the active rules against a dataset.
type Execution struct {
	ID          string     `json:"id"`
	DatasetID   string     `json:"dataset_id"`
	Status      string     `json:"status"`
	TriggeredBy string     `json:"triggered_by,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

type ExecutionInput struct {
	DatasetID string   `json:"dataset_id"`
	RuleIDs   []string `json:"rule_ids,omitempty"`
}

type ExecutionSummary struct {
	ExecutionID string  `json:"execution_id"`
	RulesRun    int     `json:"rules_run"`
	RulesPassed int     `json:"rules_passed"`
	RulesFailed int     `json:"rules_failed"`
	IssuesFound int     `json:"issues_found"`
	DurationMS  float64 `json:"duration_ms,omitempty"`
}

func (c *Client) ListExecutions(ctx context.Context) (Page[Execution], error) {
	var executions []Execution
	if err := c.json(ctx, http.MethodGet, "/executions", nil, nil, &executions); err != nil {
		return Page[Execution]{}, err
	}
	return NewPage(executions), nil
}

// StartExecution asks the backend to run rules against a dataset. The run is
// asynchronous; poll GetExecution for completion.
func (c *Client) StartExecution(ctx context.Context, in ExecutionInput) (*Execution, error) {
	var execution Execution
	if err := c.json(ctx, http.MethodPost, "/executions", nil, in, &execution); err != nil {
		return nil, err
	}
	return &execution, nil
}

func (c *Client) GetExecution(ctx context.Context, id string) (*Execution, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var execution Execution
	if err := c.json(ctx, http.MethodGet, "/executions/"+id, nil, nil, &execution); err != nil {
		return nil, err
	}
	return &execution, nil
}

func (c *Client) ExecutionSummary(ctx context.Context, id string) (*ExecutionSummary, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	var summary ExecutionSummary
	if err := c.json(ctx, http.MethodGet, "/executions/"+id+"/summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
