package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maycoffee/maycoffee-api/internal/domain"
	"github.com/maycoffee/maycoffee-api/internal/errors"
)

// --- Mocks ---

type MockFeedbackStorage struct {
	CreateFeedbackFunc      func(fb domain.Feedback) (domain.Feedback, error)
	CountFeedbackSinceFunc  func(userId domain.UserId, since time.Time) (int, error)
	ListFeedbackFunc        func(approved *bool) ([]domain.Feedback, error)
	ListApprovedFunc        func() ([]domain.Feedback, error)
	ListUserFeedbackFunc    func(userId domain.UserId) ([]domain.Feedback, error)
	SetFeedbackApprovalFunc func(id int64, approved bool) (domain.Feedback, error)
	DeleteFeedbackFunc      func(id int64) error
	RatingsSummaryFunc      func() (domain.RatingsSummary, error)
}

func (m *MockFeedbackStorage) CreateFeedback(fb domain.Feedback) (domain.Feedback, error) {
	if m.CreateFeedbackFunc != nil {
		return m.CreateFeedbackFunc(fb)
	}
	fb.Id = 1
	return fb, nil
}

func (m *MockFeedbackStorage) CountFeedbackSince(userId domain.UserId, since time.Time) (int, error) {
	if m.CountFeedbackSinceFunc != nil {
		return m.CountFeedbackSinceFunc(userId, since)
	}
	return 0, nil
}

func (m *MockFeedbackStorage) ListFeedback(approved *bool) ([]domain.Feedback, error) {
	if m.ListFeedbackFunc != nil {
		return m.ListFeedbackFunc(approved)
	}
	return nil, nil
}

func (m *MockFeedbackStorage) ListApprovedFeedback() ([]domain.Feedback, error) {
	if m.ListApprovedFunc != nil {
		return m.ListApprovedFunc()
	}
	return nil, nil
}

func (m *MockFeedbackStorage) ListUserFeedback(userId domain.UserId) ([]domain.Feedback, error) {
	if m.ListUserFeedbackFunc != nil {
		return m.ListUserFeedbackFunc(userId)
	}
	return nil, nil
}

func (m *MockFeedbackStorage) SetFeedbackApproval(id int64, approved bool) (domain.Feedback, error) {
	if m.SetFeedbackApprovalFunc != nil {
		return m.SetFeedbackApprovalFunc(id, approved)
	}
	return domain.Feedback{Id: id, IsApproved: approved}, nil
}

func (m *MockFeedbackStorage) DeleteFeedback(id int64) error {
	if m.DeleteFeedbackFunc != nil {
		return m.DeleteFeedbackFunc(id)
	}
	return nil
}

func (m *MockFeedbackStorage) RatingsSummary() (domain.RatingsSummary, error) {
	if m.RatingsSummaryFunc != nil {
		return m.RatingsSummaryFunc()
	}
	return domain.RatingsSummary{}, nil
}

type MockFeedbackNotifier struct {
	SendFeedbackThankYouFunc func(email, name string)
}

func (m *MockFeedbackNotifier) SendFeedbackThankYou(email, name string) {
	if m.SendFeedbackThankYouFunc != nil {
		m.SendFeedbackThankYouFunc(email, name)
	}
}

// --- Tests ---

func TestCreateFeedback(t *testing.T) {
	author := domain.User{Id: 1, Email: "a@b.com", Name: "An"}

	t.Run("rating out of range is a 400", func(t *testing.T) {
		service := NewFeedback(&MockFeedbackStorage{}, &MockFeedbackNotifier{}, NewAudit(&MockAuditStorage{}), 3)

		_, err := service.Create(author, 0, "good coffee")
		assertStatus(t, err, http.StatusBadRequest)
		_, err = service.Create(author, 6, "good coffee")
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("comment that sanitizes to nothing is a 400", func(t *testing.T) {
		service := NewFeedback(&MockFeedbackStorage{}, &MockFeedbackNotifier{}, NewAudit(&MockAuditStorage{}), 3)

		_, err := service.Create(author, 5, "<b></b>  ")
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("markup is stripped from the stored comment", func(t *testing.T) {
		storage := &MockFeedbackStorage{}
		var created domain.Feedback
		storage.CreateFeedbackFunc = func(fb domain.Feedback) (domain.Feedback, error) {
			created = fb
			fb.Id = 1
			return fb, nil
		}
		service := NewFeedback(storage, &MockFeedbackNotifier{}, NewAudit(&MockAuditStorage{}), 3)

		_, err := service.Create(author, 5, "<b>great</b> latte")
		require.NoError(t, err)
		assert.Equal(t, "great latte", created.Comment)
		assert.False(t, created.IsApproved, "new feedback must wait for moderation")
	})

	t.Run("daily limit is a 429", func(t *testing.T) {
		storage := &MockFeedbackStorage{
			CountFeedbackSinceFunc: func(userId domain.UserId, since time.Time) (int, error) {
				return 3, nil
			},
		}
		service := NewFeedback(storage, &MockFeedbackNotifier{}, NewAudit(&MockAuditStorage{}), 3)

		_, err := service.Create(author, 4, "again")
		assertStatus(t, err, http.StatusTooManyRequests)
	})

	t.Run("successful creation thanks the author", func(t *testing.T) {
		notifier := &MockFeedbackNotifier{}
		thanked := ""
		notifier.SendFeedbackThankYouFunc = func(email, name string) { thanked = email }
		service := NewFeedback(&MockFeedbackStorage{}, notifier, NewAudit(&MockAuditStorage{}), 3)

		created, err := service.Create(author, 5, "best bánh mì in town")
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.Id)
		assert.Equal(t, "a@b.com", thanked)
	})
}

func TestSetApproval(t *testing.T) {
	t.Run("approval and rejection audit separately", func(t *testing.T) {
		audit := &MockAuditStorage{}
		service := NewFeedback(&MockFeedbackStorage{}, &MockFeedbackNotifier{}, NewAudit(audit), 3)

		updated, err := service.SetApproval(9, 5, true)
		require.NoError(t, err)
		assert.True(t, updated.IsApproved)

		_, err = service.SetApproval(9, 5, false)
		require.NoError(t, err)

		require.Len(t, audit.Actions, 2)
		assert.Equal(t, domain.ActionFeedbackApprove, audit.Actions[0].Action)
		assert.Equal(t, domain.ActionFeedbackReject, audit.Actions[1].Action)
	})

	t.Run("unknown feedback is a 404", func(t *testing.T) {
		storage := &MockFeedbackStorage{
			SetFeedbackApprovalFunc: func(id int64, approved bool) (domain.Feedback, error) {
				return domain.Feedback{}, errors.NotFound("Feedback not found")
			},
		}
		service := NewFeedback(storage, &MockFeedbackNotifier{}, NewAudit(&MockAuditStorage{}), 3)

		_, err := service.SetApproval(9, 404, true)
		assertStatus(t, err, http.StatusNotFound)
	})
}

func TestListForAdmin(t *testing.T) {
	var captured *bool
	storage := &MockFeedbackStorage{
		ListFeedbackFunc: func(approved *bool) ([]domain.Feedback, error) {
			captured = approved
			return nil, nil
		},
	}
	service := NewFeedback(storage, &MockFeedbackNotifier{}, NewAudit(&MockAuditStorage{}), 3)

	_, err := service.ListForAdmin("approved")
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.True(t, *captured)

	_, err = service.ListForAdmin("pending")
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.False(t, *captured)

	_, err = service.ListForAdmin("")
	require.NoError(t, err)
	assert.Nil(t, captured)
}
