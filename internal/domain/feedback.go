package domain

import "time"

type Feedback struct {
	Id         int64
	UserId     UserId
	AuthorName string // joined from users for display
	Rating     int    // 1..5
	Comment    string
	IsApproved bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type RatingsSummary struct {
	AverageRating float64 `json:"averageRating"`
	CountApproved int     `json:"countApproved"`
}
