package domain

import "time"

type Blog struct {
	BlogID     string    `json:"id" dynamodbav:"blog_id"`
	Title      string    `json:"title" dynamodbav:"title"`
	Excerpt    string    `json:"excerpt" dynamodbav:"excerpt"`
	Content    string    `json:"content" dynamodbav:"content"`
	Author     string    `json:"author" dynamodbav:"author"`
	Date       string    `json:"date" dynamodbav:"date"` // YYYY-MM-DD
	ReadTime   string    `json:"readTime" dynamodbav:"read_time"`
	Category   string    `json:"category" dynamodbav:"category"`
	Tags       []string  `json:"tags" dynamodbav:"tags"`
	Views      int       `json:"views" dynamodbav:"views"`
	Comments   int       `json:"comments" dynamodbav:"comments"`
	Featured   bool      `json:"featured" dynamodbav:"featured"`
	CoverImage *string   `json:"coverImage,omitempty" dynamodbav:"cover_image"`
	Published  bool      `json:"published" dynamodbav:"published"`
	CreatedAt  time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

type CreateBlogRequest struct {
	Title      string   `json:"title" validate:"required"`
	Excerpt    string   `json:"excerpt" validate:"required"`
	Content    string   `json:"content" validate:"required"`
	ReadTime   string   `json:"readTime" validate:"required"`
	Category   string   `json:"category" validate:"required"`
	Tags       []string `json:"tags"`
	CoverImage *string  `json:"coverImage"`
	Featured   bool     `json:"featured"`
	Published  bool     `json:"published"`
}

type UpdateBlogRequest struct {
	Title      *string   `json:"title" validate:"omitempty,min=1"`
	Excerpt    *string   `json:"excerpt" validate:"omitempty,min=1"`
	Content    *string   `json:"content" validate:"omitempty,min=1"`
	ReadTime   *string   `json:"readTime"`
	Category   *string   `json:"category"`
	Tags       *[]string `json:"tags"`
	CoverImage *string   `json:"coverImage"`
	Featured   *bool     `json:"featured"`
	Published  *bool     `json:"published"`
}
