package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/infrastructure/awscfg"
	"github.com/portfolio-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/portfolio-api/internal/infrastructure/jwt"
	s3infra "github.com/portfolio-api/internal/infrastructure/s3"
	"github.com/portfolio-api/internal/infrastructure/smtp"
	"github.com/portfolio-api/internal/infrastructure/sns"
	"github.com/portfolio-api/internal/pkg/emails"
	transporthttp "github.com/portfolio-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Sessions cannot be minted or checked without a signing secret.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("session provider: %v", err)
	}

	awsCfg, err := awscfg.Load(context.Background(), cfg)
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(awsCfg, cfg.AWSEndpointURL)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	templates, err := emails.New(emails.Site{Name: cfg.SiteName, URL: cfg.AppURL, Author: cfg.BlogAuthor})
	if err != nil {
		log.Fatalf("email templates: %v", err)
	}

	// SNS admin alerts are optional; without a topic they are dropped.
	var alerter sns.Alerter = sns.NopAlerter{}
	if a, err := sns.NewAlerter(awsCfg, cfg); err == nil {
		alerter = a
	} else {
		log.Printf("WARN: SNS alerts disabled: %v", err)
	}

	deps := &transporthttp.Deps{
		AccountRepo:     dynamo.NewAccountRepo(dynamoClient, cfg.DynamoTables.Accounts),
		BlogRepo:        dynamo.NewBlogRepo(dynamoClient, cfg.DynamoTables.Blogs),
		ProjectRepo:     dynamo.NewProjectRepo(dynamoClient, cfg.DynamoTables.Projects),
		TestimonialRepo: dynamo.NewTestimonialRepo(dynamoClient, cfg.DynamoTables.Testimonials),
		ContactRepo:     dynamo.NewContactRepo(dynamoClient, cfg.DynamoTables.Contacts),
		SubscriberRepo:  dynamo.NewSubscriberRepo(dynamoClient, cfg.DynamoTables.Subscribers),
		S3Store:         s3infra.NewStore(s3infra.NewClient(awsCfg, cfg.AWSEndpointURL), cfg.S3BucketName, cfg.S3PublicBaseURL),
		Mailer:          smtp.NewMailer(cfg),
		Alerter:         alerter,
		Templates:       templates,
		JWTProvider:     jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // newsletter sends are synchronous
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
