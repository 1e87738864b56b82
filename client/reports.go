package client

import (
	"context"
	"net/http"
	"time"
)

// QualitySummary is the headline data-quality report.
type QualitySummary struct {
	OverallScore    float64            `json:"overall_score"`
	DatasetCount    int                `json:"dataset_count"`
	RuleCount       int                `json:"rule_count"`
	OpenIssueCount  int                `json:"open_issue_count"`
	ScoreByDataset  map[string]float64 `json:"score_by_dataset,omitempty"`
	ScoreBySeverity map[string]int     `json:"score_by_severity,omitempty"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// ExecutionsReport aggregates execution outcomes over time.
type ExecutionsReport struct {
	TotalExecutions int                 `json:"total_executions"`
	SuccessRate     float64             `json:"success_rate"`
	Recent          []Execution         `json:"recent,omitempty"`
	DailyCounts     []ExecutionDayCount `json:"daily_counts,omitempty"`
	ByDataset       map[string]int      `json:"by_dataset,omitempty"`
	Summaries       []ExecutionSummary  `json:"summaries,omitempty"`
}

type ExecutionDayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// DashboardOverview feeds the main dashboard: the fast-moving rollup the
// store polls every ten seconds.
type DashboardOverview struct {
	DatasetCount    int        `json:"dataset_count"`
	ActiveRuleCount int        `json:"active_rule_count"`
	RunningCount    int        `json:"running_count"`
	OpenIssueCount  int        `json:"open_issue_count"`
	CriticalCount   int        `json:"critical_count"`
	LastExecutionAt *time.Time `json:"last_execution_at,omitempty"`
	QualityScore    float64    `json:"quality_score"`
	RecentIssues    []Issue    `json:"recent_issues,omitempty"`
}

func (c *Client) QualitySummaryReport(ctx context.Context) (*QualitySummary, error) {
	var summary QualitySummary
	if err := c.json(ctx, http.MethodGet, "/reports/data-quality-summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) ExecutionsReport(ctx context.Context) (*ExecutionsReport, error) {
	var report ExecutionsReport
	if err := c.json(ctx, http.MethodGet, "/reports/executions", nil, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *Client) DashboardOverview(ctx context.Context) (*DashboardOverview, error) {
	var overview DashboardOverview
	if err := c.json(ctx, http.MethodGet, "/reports/dashboard/overview", nil, nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}
