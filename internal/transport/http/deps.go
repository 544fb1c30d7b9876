package http

import (
	"github.com/portfolio-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/portfolio-api/internal/infrastructure/jwt"
	s3infra "github.com/portfolio-api/internal/infrastructure/s3"
	"github.com/portfolio-api/internal/infrastructure/smtp"
	"github.com/portfolio-api/internal/infrastructure/sns"
	"github.com/portfolio-api/internal/pkg/emails"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepo     *dynamo.AccountRepo
	BlogRepo        *dynamo.BlogRepo
	ProjectRepo     *dynamo.ProjectRepo
	TestimonialRepo *dynamo.TestimonialRepo
	ContactRepo     *dynamo.ContactRepo
	SubscriberRepo  *dynamo.SubscriberRepo
	S3Store         *s3infra.Store
	Mailer          smtp.Mailer
	Alerter         sns.Alerter
	Templates       *emails.Renderer
	JWTProvider     *jwtinfra.Provider
}
