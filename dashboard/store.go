// Package dashboard is the typed read/write surface presentation code talks
// to. Every read goes through the query cache gated on session readiness;
// every write invalidates the cache state it may have changed.
package dashboard

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/veridata/dataquality-go/client"
	ierrors "github.com/veridata/dataquality-go/internal/errors"
	"github.com/veridata/dataquality-go/query"
	"github.com/veridata/dataquality-go/session"
)

// Staleness windows per resource class. Fast-moving rollups refresh every
// few seconds, configuration-like resources far less often.
const (
	staleFast   = 5 * time.Second
	staleMedium = 30 * time.Second
	staleSlow   = time.Minute

	// PollInterval is how often pollers re-fetch, regardless of staleness.
	PollInterval = 10 * time.Second
)

// Cache resource names. Item entries share their listing's resource name
// (with the id as key parameter) so one resource-level invalidation covers
// both.
const (
	resourceDatasets         = "datasets"
	resourceDatasetProfiles  = "dataset-profiles"
	resourceDatasetColumns   = "dataset-columns"
	resourceDatasetVersions  = "dataset-versions"
	resourceRules            = "rules"
	resourceRuleKinds        = "rule-kinds"
	resourceExecutions       = "executions"
	resourceExecutionSummary = "execution-summaries"
	resourceIssues           = "issues"
	resourceIssueStatistics  = "issue-statistics"
	resourceExports          = "exports"
	resourceReports          = "reports"
	resourceDashboard        = "dashboard"
	resourceSearch           = "search"
	resourceUsers            = "users"
	resourceMe               = "me"
)

// Store wires the session bridge, the query manager, and the client source
// together. Constructing one registers the cache reset on sign-out.
type Store struct {
	source *client.Source
	bridge *session.Bridge
	mgr    *query.Manager
	log    zerolog.Logger
}

type StoreOption func(*Store, *[]query.ManagerOption)

func WithStoreLogger(log zerolog.Logger) StoreOption {
	return func(s *Store, opts *[]query.ManagerOption) {
		s.log = log
		*opts = append(*opts, query.WithManagerLogger(log))
	}
}

func WithRetry(retry query.RetryConfig) StoreOption {
	return func(_ *Store, opts *[]query.ManagerOption) {
		*opts = append(*opts, query.WithRetry(retry))
	}
}

func NewStore(source *client.Source, bridge *session.Bridge, options ...StoreOption) *Store {
	s := &Store{source: source, bridge: bridge}

	mgrOpts := []query.ManagerOption{query.WithGate(bridge.Ready)}
	for _, opt := range options {
		opt(s, &mgrOpts)
	}
	s.mgr = query.NewManager(mgrOpts...)

	// A pending response must never be applied after sign-out.
	bridge.OnCleared(s.mgr.Reset)

	return s
}

// Manager exposes the underlying query manager, mainly for tests and
// advanced invalidation.
func (s *Store) Manager() *query.Manager {
	return s.mgr
}

// withClient defers the client lookup to fetch time so a rebuilt client
// (changed base URL) is always the one used.
func withClient[T any](s *Store, fn func(ctx context.Context, c *client.Client) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		c, err := s.source.Get()
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(ctx, c)
	}
}

// ---- Session / users ----

func (s *Store) Me(ctx context.Context) (*client.User, error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceMe), staleSlow,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.User, error) {
			return c.Me(ctx)
		}))
}

func (s *Store) Users(ctx context.Context) (client.Page[client.User], error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceUsers), staleSlow,
		withClient(s, func(ctx context.Context, c *client.Client) (client.Page[client.User], error) {
			return c.Users(ctx)
		}))
}

// ---- Datasets ----

func (s *Store) Datasets(ctx context.Context) (client.Page[client.Dataset], error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceDatasets), staleSlow,
		withClient(s, func(ctx context.Context, c *client.Client) (client.Page[client.Dataset], error) {
			return c.ListDatasets(ctx)
		}))
}

func (s *Store) Dataset(ctx context.Context, id string) (*client.Dataset, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceDatasets, id), staleSlow,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Dataset, error) {
			return c.GetDataset(ctx, id)
		}))
}

func (s *Store) DatasetProfile(ctx context.Context, id string) (*client.DatasetProfile, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceDatasetProfiles, id), staleSlow,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.DatasetProfile, error) {
			return c.DatasetProfile(ctx, id)
		}))
}

func (s *Store) DatasetColumns(ctx context.Context, id string) ([]client.ColumnInfo, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceDatasetColumns, id), staleSlow,
		withClient(s, func(ctx context.Context, c *client.Client) ([]client.ColumnInfo, error) {
			return c.DatasetColumns(ctx, id)
		}))
}

func (s *Store) DatasetVersions(ctx context.Context, id string) (client.Page[client.DatasetVersion], error) {
	if id == "" {
		return client.Page[client.DatasetVersion]{}, ierrors.ErrEmptyID
	}
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceDatasetVersions, id), staleSlow,
		withClient(s, func(ctx context.Context, c *client.Client) (client.Page[client.DatasetVersion], error) {
			return c.DatasetVersions(ctx, id)
		}))
}

// ---- Rules ----

func (s *Store) Rules(ctx context.Context) (client.Page[client.Rule], error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceRules), staleMedium,
		withClient(s, func(ctx context.Context, c *client.Client) (client.Page[client.Rule], error) {
			return c.ListRules(ctx)
		}))
}

func (s *Store) Rule(ctx context.Context, id string) (*client.Rule, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceRules, id), staleMedium,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Rule, error) {
			return c.GetRule(ctx, id)
		}))
}

func (s *Store) RuleKinds(ctx context.Context) ([]client.RuleKind, error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceRuleKinds), staleSlow,
		withClient(s, func(ctx context.Context, c *client.Client) ([]client.RuleKind, error) {
			return c.RuleKinds(ctx)
		}))
}

// ---- Executions ----

func (s *Store) Executions(ctx context.Context) (client.Page[client.Execution], error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceExecutions), staleMedium,
		withClient(s, func(ctx context.Context, c *client.Client) (client.Page[client.Execution], error) {
			return c.ListExecutions(ctx)
		}))
}

func (s *Store) Execution(ctx context.Context, id string) (*client.Execution, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceExecutions, id), staleMedium,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Execution, error) {
			return c.GetExecution(ctx, id)
		}))
}

func (s *Store) ExecutionSummary(ctx context.Context, id string) (*client.ExecutionSummary, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceExecutionSummary, id), staleMedium,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.ExecutionSummary, error) {
			return c.ExecutionSummary(ctx, id)
		}))
}

// ---- Issues ----

func (s *Store) Issues(ctx context.Context, filter client.IssueFilter) (client.Page[client.Issue], error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceIssues, filter.Values().Encode()), staleFast,
		withClient(s, func(ctx context.Context, c *client.Client) (client.Page[client.Issue], error) {
			return c.ListIssues(ctx, filter)
		}))
}

func (s *Store) Issue(ctx context.Context, id string) (*client.Issue, error) {
	if id == "" {
		return nil, ierrors.ErrEmptyID
	}
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceIssues, "id", id), staleFast,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Issue, error) {
			return c.GetIssue(ctx, id)
		}))
}

func (s *Store) IssueStatistics(ctx context.Context, days int) (*client.IssueStatistics, error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceIssueStatistics, strconv.Itoa(days)), staleFast,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.IssueStatistics, error) {
			return c.IssueStatistics(ctx, days)
		}))
}

// ---- Exports / reports / search ----

func (s *Store) Exports(ctx context.Context) (client.Page[client.Export], error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceExports), staleMedium,
		withClient(s, func(ctx context.Context, c *client.Client) (client.Page[client.Export], error) {
			return c.ListExports(ctx)
		}))
}

func (s *Store) QualitySummary(ctx context.Context) (*client.QualitySummary, error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceReports, "quality-summary"), staleFast,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.QualitySummary, error) {
			return c.QualitySummaryReport(ctx)
		}))
}

func (s *Store) ExecutionsReport(ctx context.Context) (*client.ExecutionsReport, error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceReports, "executions"), staleMedium,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.ExecutionsReport, error) {
			return c.ExecutionsReport(ctx)
		}))
}

func (s *Store) DashboardOverview(ctx context.Context) (*client.DashboardOverview, error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceDashboard, "overview"), staleFast,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.DashboardOverview, error) {
			return c.DashboardOverview(ctx)
		}))
}

func (s *Store) Search(ctx context.Context, q string, limit int) (*client.SearchResults, error) {
	return query.GetAs(ctx, s.mgr, query.NewKey(resourceSearch, q, strconv.Itoa(limit)), staleFast,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.SearchResults, error) {
			return c.Search(ctx, q, limit)
		}))
}

// ---- Pollers ----

// PollDashboard re-fetches the dashboard overview every PollInterval and
// delivers each settled result. Blocks until ctx is done.
func (s *Store) PollDashboard(ctx context.Context, deliver func(*client.DashboardOverview, error)) {
	s.mgr.Poll(ctx, query.NewKey(resourceDashboard, "overview"), PollInterval,
		func(ctx context.Context) (any, error) {
			return withClient(s, func(ctx context.Context, c *client.Client) (*client.DashboardOverview, error) {
				return c.DashboardOverview(ctx)
			})(ctx)
		},
		func(value any, err error) {
			overview, _ := value.(*client.DashboardOverview)
			deliver(overview, err)
		})
}

// PollIssueStatistics re-fetches the trailing issue summary every
// PollInterval. Blocks until ctx is done.
func (s *Store) PollIssueStatistics(ctx context.Context, days int, deliver func(*client.IssueStatistics, error)) {
	s.mgr.Poll(ctx, query.NewKey(resourceIssueStatistics, strconv.Itoa(days)), PollInterval,
		func(ctx context.Context) (any, error) {
			return withClient(s, func(ctx context.Context, c *client.Client) (*client.IssueStatistics, error) {
				return c.IssueStatistics(ctx, days)
			})(ctx)
		},
		func(value any, err error) {
			stats, _ := value.(*client.IssueStatistics)
			deliver(stats, err)
		})
}
