package project

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/portfolio-api/internal/domain"
	"github.com/portfolio-api/internal/pkg/id"
	"github.com/portfolio-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTitle            = "title"
	fieldDescription      = "description"
	fieldShortDescription = "short_description"
	fieldTechnologies     = "technologies"
	fieldResults          = "results"
	fieldLiveLink         = "live_link"
	fieldGithubLink       = "github_link"
	fieldImageURL         = "image_url"
	fieldFeatured         = "featured"
	fieldCategory         = "category"
	fieldOrder            = "order"
)

type Service interface {
	// List returns projects featured first, then by order ascending, then newest.
	List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error)
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	Create(ctx context.Context, input domain.ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, projectID string, req domain.UpdateProjectRequest) (*domain.Project, error)
	Delete(ctx context.Context, projectID string) error
}

type projectStore interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, projectID string) (*domain.Project, error)
	Put(ctx context.Context, p *domain.Project) error
	Update(ctx context.Context, projectID string, updates map[string]interface{}) (*domain.Project, error)
	Delete(ctx context.Context, projectID string) error
}

type service struct {
	repo projectStore
	now  func() time.Time
}

func NewService(repo projectStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) List(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if filter.FeaturedOnly && !p.Featured {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		out = append(out, p)
	}
	sortProjects(out)
	return out, nil
}

func sortProjects(ps []domain.Project) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (s *service) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	return s.repo.Get(ctx, projectID)
}

func (s *service) Create(ctx context.Context, input domain.ProjectInput) (*domain.Project, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	category := input.Category
	if category == "" {
		category = domain.DefaultProjectCategory
	}
	if !domain.ValidProjectCategory(category) {
		return nil, fmt.Errorf("category must be one of %s: %w", strings.Join(domain.ProjectCategories, ", "), domain.ErrBadRequest)
	}
	now := s.now().UTC()
	p := &domain.Project{
		ProjectID:        id.New(),
		Title:            input.Title,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Technologies:     orEmpty(input.Technologies),
		Results:          orEmpty(input.Results),
		LiveLink:         orDefault(input.LiveLink, domain.DefaultProjectLink),
		GithubLink:       orDefault(input.GithubLink, domain.DefaultProjectLink),
		ImageURL:         orDefault(input.ImageURL, domain.DefaultProjectImage),
		Featured:         input.Featured,
		Category:         category,
		Order:            input.Order,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Put(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, projectID string, req domain.UpdateProjectRequest) (*domain.Project, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), domain.ErrBadRequest)
	}
	if req.Category != nil && !domain.ValidProjectCategory(*req.Category) {
		return nil, fmt.Errorf("category must be one of %s: %w", strings.Join(domain.ProjectCategories, ", "), domain.ErrBadRequest)
	}
	updates := map[string]interface{}{}
	setString(updates, fieldTitle, req.Title)
	setString(updates, fieldDescription, req.Description)
	setString(updates, fieldShortDescription, req.ShortDescription)
	setString(updates, fieldLiveLink, req.LiveLink)
	setString(updates, fieldGithubLink, req.GithubLink)
	setString(updates, fieldImageURL, req.ImageURL)
	setString(updates, fieldCategory, req.Category)
	if req.Technologies != nil {
		updates[fieldTechnologies] = *req.Technologies
	}
	if req.Results != nil {
		updates[fieldResults] = *req.Results
	}
	if req.Featured != nil {
		updates[fieldFeatured] = *req.Featured
	}
	if req.Order != nil {
		updates[fieldOrder] = *req.Order
	}
	return s.repo.Update(ctx, projectID, updates)
}

func (s *service) Delete(ctx context.Context, projectID string) error {
	return s.repo.Delete(ctx, projectID)
}

func setString(updates map[string]interface{}, field string, v *string) {
	if v != nil {
		updates[field] = *v
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
