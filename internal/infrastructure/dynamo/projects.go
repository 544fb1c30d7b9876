package dynamo

import (
	"context"

	"github.com/portfolio-api/internal/domain"
)

const projectKey = "project_id"

// ProjectRepo provides typed DynamoDB operations for the projects table.
// Filtering by category and ordering happen in the service; the table is small.
type ProjectRepo struct {
	client    API
	tableName string
}

func NewProjectRepo(client API, tableName string) *ProjectRepo {
	return &ProjectRepo{client: client, tableName: tableName}
}

func (r *ProjectRepo) Put(ctx context.Context, p *domain.Project) error {
	return putItem(ctx, r.client, r.tableName, p)
}

func (r *ProjectRepo) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return getItem[domain.Project](ctx, r.client, r.tableName, projectKey, projectID)
}

func (r *ProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	return scanAll[domain.Project](ctx, r.client, r.tableName, nil)
}

func (r *ProjectRepo) Update(ctx context.Context, projectID string, updates map[string]interface{}) (*domain.Project, error) {
	return updateItem[domain.Project](ctx, r.client, r.tableName, projectKey, projectID, updates)
}

func (r *ProjectRepo) Delete(ctx context.Context, projectID string) error {
	return deleteItem(ctx, r.client, r.tableName, projectKey, projectID)
}
