package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/portfolio-api/internal/config"
)

// Alerter publishes short admin alerts (new contact message, new subscriber)
// to an SNS topic the site owner is subscribed to.
type Alerter interface {
	Alert(ctx context.Context, subject, message string) error
}

type publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type alerter struct {
	client   publisher
	topicARN string
}

// NewAlerter returns an error when no topic is configured so callers can fall
// back to a no-op alerter.
func NewAlerter(awsCfg aws.Config, cfg *config.Config) (Alerter, error) {
	if cfg.SNSTopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN not set")
	}
	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if cfg.AWSEndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		}
	})
	return &alerter{client: client, topicARN: cfg.SNSTopicARN}, nil
}

func (a *alerter) Alert(ctx context.Context, subject, message string) error {
	// SNS rejects subjects longer than 100 characters.
	if len(subject) > 100 {
		subject = subject[:100]
	}
	_, err := a.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(a.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

// NopAlerter drops alerts; used when no topic is configured.
type NopAlerter struct{}

func (NopAlerter) Alert(context.Context, string, string) error { return nil }
