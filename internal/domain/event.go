package domain

import "time"

type Event struct {
	Id          int64
	Title       string
	Description string
	Date        *time.Time // nil for undated announcements
	Location    string
	IsPublished bool
	CreatedBy   UserId
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
