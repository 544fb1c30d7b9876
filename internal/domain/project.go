package domain

import "time"

// ProjectCategories is the closed set of project categories.
var ProjectCategories = []string{
	"Dashboard",
	"Data Quality",
	"Machine Learning",
	"Optimization",
	"Visualization",
	"Analytics",
}

const (
	DefaultProjectCategory = "Analytics"
	DefaultProjectLink     = "#"
	DefaultProjectImage    = "/api/placeholder/600/400"
)

type Project struct {
	ProjectID        string    `json:"id" dynamodbav:"project_id"`
	Title            string    `json:"title" dynamodbav:"title"`
	Description      string    `json:"description" dynamodbav:"description"`
	ShortDescription string    `json:"shortDescription" dynamodbav:"short_description"`
	Technologies     []string  `json:"technologies" dynamodbav:"technologies"`
	Results          []string  `json:"results" dynamodbav:"results"`
	LiveLink         string    `json:"liveLink" dynamodbav:"live_link"`
	GithubLink       string    `json:"githubLink" dynamodbav:"github_link"`
	ImageURL         string    `json:"imageUrl" dynamodbav:"image_url"`
	Featured         bool      `json:"featured" dynamodbav:"featured"`
	Category         string    `json:"category" dynamodbav:"category"`
	Order            int       `json:"order" dynamodbav:"order"`
	CreatedAt        time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type ProjectInput struct {
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	ShortDescription string   `json:"shortDescription"`
	Technologies     []string `json:"technologies"`
	Results          []string `json:"results"`
	LiveLink         string   `json:"liveLink"`
	GithubLink       string   `json:"githubLink"`
	ImageURL         string   `json:"imageUrl"`
	Featured         bool     `json:"featured"`
	Category         string   `json:"category"`
	Order            int      `json:"order"`
}

type UpdateProjectRequest struct {
	Title            *string   `json:"title" validate:"omitempty,min=1"`
	Description      *string   `json:"description" validate:"omitempty,min=1"`
	ShortDescription *string   `json:"shortDescription"`
	Technologies     *[]string `json:"technologies"`
	Results          *[]string `json:"results"`
	LiveLink         *string   `json:"liveLink"`
	GithubLink       *string   `json:"githubLink"`
	ImageURL         *string   `json:"imageUrl"`
	Featured         *bool     `json:"featured"`
	Category         *string   `json:"category"`
	Order            *int      `json:"order"`
}

// ProjectFilter narrows a project listing.
type ProjectFilter struct {
	FeaturedOnly bool
	Category     string
}

// ValidProjectCategory reports whether c is one of ProjectCategories.
func ValidProjectCategory(c string) bool {
	for _, pc := range ProjectCategories {
		if pc == c {
			return true
		}
	}
	return false
}
