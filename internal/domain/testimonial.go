package domain

import "time"

type Testimonial struct {
	TestimonialID string    `json:"id" dynamodbav:"testimonial_id"`
	Name          string    `json:"name" dynamodbav:"name"`
	Position      string    `json:"position" dynamodbav:"position"`
	Company       string    `json:"company" dynamodbav:"company"`
	Content       string    `json:"content" dynamodbav:"content"`
	Rating        int       `json:"rating" dynamodbav:"rating"`
	Image         *string   `json:"image,omitempty" dynamodbav:"image"`
	Featured      bool      `json:"featured" dynamodbav:"featured"`
	Approved      bool      `json:"approved" dynamodbav:"approved"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type TestimonialInput struct {
	Name     string  `json:"name" validate:"required"`
	Position string  `json:"position" validate:"required"`
	Company  string  `json:"company" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	Image    *string `json:"image"`
	Featured bool    `json:"featured"`
	Approved bool    `json:"approved"`
}

type UpdateTestimonialRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Position *string `json:"position" validate:"omitempty,min=1"`
	Company  *string `json:"company" validate:"omitempty,min=1"`
	Content  *string `json:"content" validate:"omitempty,min=1"`
	Rating   *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Image    *string `json:"image"`
	Featured *bool   `json:"featured"`
	Approved *bool   `json:"approved"`
}
