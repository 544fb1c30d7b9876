package domain

import "time"

type Subscriber struct {
	SubscriberID     string    `json:"id" dynamodbav:"subscriber_id"`
	Email            string    `json:"email" dynamodbav:"email"`
	Name             string    `json:"name,omitempty" dynamodbav:"name"`
	Active           bool      `json:"active" dynamodbav:"active"`
	SubscribedAt     time.Time `json:"subscribedAt" dynamodbav:"subscribed_at"`
	UnsubscribeToken string    `json:"-" dynamodbav:"unsubscribe_token"`
	CreatedAt        time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type UnsubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required"`
}

// SubscriberStats feeds the admin notification email.
type SubscriberStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	ThisMonth  int `json:"thisMonth"`
	LastMonth  int `json:"lastMonth"`
	GrowthRate int `json:"growthRate"` // percent
}
