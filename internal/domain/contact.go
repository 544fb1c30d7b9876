package domain

import "time"

type ContactMessage struct {
	ContactID string    `json:"id" dynamodbav:"contact_id"`
	Name      string    `json:"name" dynamodbav:"name"`
	Email     string    `json:"email" dynamodbav:"email"`
	Message   string    `json:"message" dynamodbav:"message"`
	Read      bool      `json:"read" dynamodbav:"read"`
	Responded bool      `json:"responded" dynamodbav:"responded"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message"`
}

type UpdateContactRequest struct {
	Read      *bool `json:"read"`
	Responded *bool `json:"responded"`
}

// ReferenceID is the short code quoted back to the sender.
func (c *ContactMessage) ReferenceID() string {
	id := c.ContactID
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return id
}
