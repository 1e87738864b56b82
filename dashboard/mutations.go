package dashboard

import (
	"context"

	"github.com/veridata/dataquality-go/client"
	"github.com/veridata/dataquality-go/query"
)

// Invalidation sets are deliberately conservative supersets: a mutation
// invalidates every resource whose data could have changed, at the cost of
// some extra refetches.

func (s *Store) CreateDataset(ctx context.Context, in client.DatasetInput) (*client.Dataset, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Dataset, error) {
			return c.CreateDataset(ctx, in)
		}),
		query.Invalidation{Resources: []string{resourceDatasets, resourceDashboard, resourceReports}})
}

func (s *Store) UpdateDataset(ctx context.Context, id string, in client.DatasetInput) (*client.Dataset, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Dataset, error) {
			return c.UpdateDataset(ctx, id, in)
		}),
		query.Invalidation{Resources: []string{
			resourceDatasets, resourceDatasetProfiles, resourceDatasetColumns, resourceDashboard, resourceReports,
		}})
}

func (s *Store) DeleteDataset(ctx context.Context, id string) error {
	_, err := s.mgr.Mutate(ctx, func(ctx context.Context) (any, error) {
		c, err := s.source.Get()
		if err != nil {
			return nil, err
		}
		return nil, c.DeleteDataset(ctx, id)
	}, query.Invalidation{Resources: []string{
		resourceDatasets, resourceDatasetProfiles, resourceDatasetColumns, resourceDatasetVersions,
		resourceRules, resourceIssues, resourceDashboard, resourceReports,
	}})
	return err
}

// Upload creates a dataset from a file. Invalidates the same superset as a
// dataset create plus versions, since re-uploading an existing name may add
// a version.
func (s *Store) Upload(ctx context.Context, in client.UploadInput) (*client.Dataset, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Dataset, error) {
			return c.UploadFile(ctx, in)
		}),
		query.Invalidation{Resources: []string{
			resourceDatasets, resourceDatasetVersions, resourceDashboard, resourceReports,
		}})
}

func (s *Store) CreateRule(ctx context.Context, in client.RuleInput) (*client.Rule, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Rule, error) {
			return c.CreateRule(ctx, in)
		}),
		query.Invalidation{Resources: []string{resourceRules, resourceDashboard}})
}

func (s *Store) UpdateRule(ctx context.Context, id string, in client.RuleInput) (*client.Rule, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Rule, error) {
			return c.UpdateRule(ctx, id, in)
		}),
		query.Invalidation{Resources: []string{resourceRules, resourceDashboard}})
}

func (s *Store) DeleteRule(ctx context.Context, id string) error {
	_, err := s.mgr.Mutate(ctx, func(ctx context.Context) (any, error) {
		c, err := s.source.Get()
		if err != nil {
			return nil, err
		}
		return nil, c.DeleteRule(ctx, id)
	}, query.Invalidation{Resources: []string{resourceRules, resourceIssues, resourceDashboard}})
	return err
}

func (s *Store) ActivateRule(ctx context.Context, id string) (*client.Rule, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Rule, error) {
			return c.ActivateRule(ctx, id)
		}),
		query.Invalidation{Resources: []string{resourceRules, resourceDashboard}})
}

func (s *Store) DeactivateRule(ctx context.Context, id string) (*client.Rule, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Rule, error) {
			return c.DeactivateRule(ctx, id)
		}),
		query.Invalidation{Resources: []string{resourceRules, resourceDashboard}})
}

// TestRule is a dry run; it changes no server state and invalidates nothing.
func (s *Store) TestRule(ctx context.Context, id string) (*client.RuleTestResult, error) {
	c, err := s.source.Get()
	if err != nil {
		return nil, err
	}
	return c.TestRule(ctx, id)
}

func (s *Store) StartExecution(ctx context.Context, in client.ExecutionInput) (*client.Execution, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Execution, error) {
			return c.StartExecution(ctx, in)
		}),
		query.Invalidation{Resources: []string{
			resourceExecutions, resourceExecutionSummary, resourceIssues, resourceIssueStatistics,
			resourceDashboard, resourceReports,
		}})
}

func (s *Store) ResolveIssue(ctx context.Context, id string) (*client.Issue, error) {
	return s.mutateIssue(ctx, id, (*client.Client).ResolveIssue)
}

func (s *Store) UnresolveIssue(ctx context.Context, id string) (*client.Issue, error) {
	return s.mutateIssue(ctx, id, (*client.Client).UnresolveIssue)
}

func (s *Store) mutateIssue(ctx context.Context, id string, fn func(*client.Client, context.Context, string) (*client.Issue, error)) (*client.Issue, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Issue, error) {
			return fn(c, ctx, id)
		}),
		query.Invalidation{Resources: []string{
			resourceIssues, resourceIssueStatistics, resourceDashboard, resourceReports,
		}})
}

func (s *Store) FixIssue(ctx context.Context, id string, in client.FixInput) (*client.Issue, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Issue, error) {
			return c.FixIssue(ctx, id, in)
		}),
		query.Invalidation{Resources: []string{
			resourceIssues, resourceIssueStatistics, resourceDatasetProfiles, resourceDashboard, resourceReports,
		}})
}

func (s *Store) CreateExport(ctx context.Context, in client.ExportInput) (*client.Export, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.Export, error) {
			return c.CreateExport(ctx, in)
		}),
		query.Invalidation{Resources: []string{resourceExports}})
}

// DownloadExport streams the artifact; a read with side-effect-free
// semantics, fetched directly rather than cached.
func (s *Store) DownloadExport(ctx context.Context, id string) ([]byte, error) {
	c, err := s.source.Get()
	if err != nil {
		return nil, err
	}
	return c.DownloadExport(ctx, id)
}

func (s *Store) UpdateUserRole(ctx context.Context, userID string, role client.RoleType) (*client.User, error) {
	return query.MutateAs(ctx, s.mgr,
		withClient(s, func(ctx context.Context, c *client.Client) (*client.User, error) {
			return c.UpdateUserRole(ctx, userID, role)
		}),
		query.Invalidation{Resources: []string{resourceUsers, resourceMe}})
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	_, err := s.mgr.Mutate(ctx, func(ctx context.Context) (any, error) {
		c, err := s.source.Get()
		if err != nil {
			return nil, err
		}
		return nil, c.DeleteUser(ctx, userID)
	}, query.Invalidation{Resources: []string{resourceUsers}})
	return err
}
