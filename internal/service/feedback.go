package service

import (
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/maycoffee/maycoffee-api/internal/domain"
	"github.com/maycoffee/maycoffee-api/internal/errors"
)

type FeedbackService interface {
	Create(user domain.User, rating int, comment string) (domain.Feedback, error)
	ListPublic() ([]domain.Feedback, error)
	ListForAdmin(status string) ([]domain.Feedback, error)
	SetApproval(adminId domain.UserId, feedbackId int64, approved bool) (domain.Feedback, error)
	Delete(feedbackId int64) error
	RatingsSummary() (domain.RatingsSummary, error)
	UserHistory(userId domain.UserId) ([]domain.Feedback, error)
}

type FeedbackStorage interface {
	CreateFeedback(fb domain.Feedback) (domain.Feedback, error)
	CountFeedbackSince(userId domain.UserId, since time.Time) (int, error)
	ListFeedback(approved *bool) ([]domain.Feedback, error)
	ListApprovedFeedback() ([]domain.Feedback, error)
	ListUserFeedback(userId domain.UserId) ([]domain.Feedback, error)
	SetFeedbackApproval(id int64, approved bool) (domain.Feedback, error)
	DeleteFeedback(id int64) error
	RatingsSummary() (domain.RatingsSummary, error)
}

type FeedbackNotifier interface {
	SendFeedbackThankYou(email, name string)
}

type Feedback struct {
	storage    FeedbackStorage
	notifier   FeedbackNotifier
	audit      *Audit
	dailyLimit int
	sanitizer  *bluemonday.Policy
}

func NewFeedback(storage FeedbackStorage, notifier FeedbackNotifier, audit *Audit, dailyLimit int) *Feedback {
	return &Feedback{
		storage:    storage,
		notifier:   notifier,
		audit:      audit,
		dailyLimit: dailyLimit,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

func (f *Feedback) Create(user domain.User, rating int, comment string) (domain.Feedback, error) {
	if rating < 1 || rating > 5 {
		return domain.Feedback{}, errors.BadRequest("Rating must be between 1 and 5")
	}

	comment = strings.TrimSpace(html.UnescapeString(f.sanitizer.Sanitize(comment)))
	if comment == "" {
		return domain.Feedback{}, errors.BadRequest("Comment must not be empty")
	}

	now := time.Now()
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	countToday, err := f.storage.CountFeedbackSince(user.Id, startOfDay)
	if err != nil {
		return domain.Feedback{}, err
	}
	if countToday >= f.dailyLimit {
		return domain.Feedback{}, errors.TooManyRequests("Daily feedback limit reached")
	}

	created, err := f.storage.CreateFeedback(domain.Feedback{
		UserId:  user.Id,
		Rating:  rating,
		Comment: comment,
	})
	if err != nil {
		return domain.Feedback{}, err
	}

	f.notifier.SendFeedbackThankYou(user.Email, user.Name)

	return created, nil
}

func (f *Feedback) ListPublic() ([]domain.Feedback, error) {
	return f.storage.ListApprovedFeedback()
}

// ListForAdmin filters by "approved", "pending", or returns everything.
func (f *Feedback) ListForAdmin(status string) ([]domain.Feedback, error) {
	var approved *bool
	switch status {
	case "approved":
		v := true
		approved = &v
	case "pending":
		v := false
		approved = &v
	}
	return f.storage.ListFeedback(approved)
}

func (f *Feedback) SetApproval(adminId domain.UserId, feedbackId int64, approved bool) (domain.Feedback, error) {
	updated, err := f.storage.SetFeedbackApproval(feedbackId, approved)
	if err != nil {
		return domain.Feedback{}, err
	}

	action := domain.ActionFeedbackReject
	if approved {
		action = domain.ActionFeedbackApprove
	}
	if err := f.audit.Log(adminId, action, strconv.FormatInt(feedbackId, 10)); err != nil {
		return domain.Feedback{}, err
	}
	return updated, nil
}

func (f *Feedback) Delete(feedbackId int64) error {
	return f.storage.DeleteFeedback(feedbackId)
}

func (f *Feedback) RatingsSummary() (domain.RatingsSummary, error) {
	return f.storage.RatingsSummary()
}

func (f *Feedback) UserHistory(userId domain.UserId) ([]domain.Feedback, error) {
	return f.storage.ListUserFeedback(userId)
}
