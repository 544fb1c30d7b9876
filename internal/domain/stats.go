package domain

type DashboardStats struct {
	Blogs        BlogStats        `json:"blogs"`
	Testimonials TestimonialStats `json:"testimonials"`
	Messages     MessageStats     `json:"messages"`
	Subscribers  SubscriberCounts `json:"subscribers"`
}

type BlogStats struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Draft     int `json:"draft"`
}

type TestimonialStats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
}

type MessageStats struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	Read   int `json:"read"`
}

type SubscriberCounts struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}
