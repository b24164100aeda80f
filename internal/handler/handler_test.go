package handler

import (
	"time"

	"github.com/maycoffee/maycoffee-api/internal/config"
	"github.com/maycoffee/maycoffee-api/internal/domain"
	"github.com/maycoffee/maycoffee-api/internal/errors"
	"github.com/maycoffee/maycoffee-api/internal/service"
	"github.com/maycoffee/maycoffee-api/internal/token"
)

// --- Mocks ---

type MockAuthService struct {
	RegisterFunc    func(name, email, pass string) (domain.User, string, error)
	VerifyEmailFunc func(email, code string) (domain.User, error)
	LoginFunc       func(email, pass string) (domain.User, error)
	ResendCodeFunc  func(email, locale string) (string, error)
}

func (m *MockAuthService) Register(name, email, pass string) (domain.User, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(name, email, pass)
	}
	return domain.User{Id: 1, Name: name, Email: email}, "", nil
}

func (m *MockAuthService) VerifyEmail(email, code string) (domain.User, error) {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(email, code)
	}
	return domain.User{Id: 1, Email: email, IsEmailVerified: true}, nil
}

func (m *MockAuthService) Login(email, pass string) (domain.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(email, pass)
	}
	return domain.User{Id: 1, Email: email, IsEmailVerified: true}, nil
}

func (m *MockAuthService) ResendCode(email, locale string) (string, error) {
	if m.ResendCodeFunc != nil {
		return m.ResendCodeFunc(email, locale)
	}
	return "", nil
}

type MockAdminService struct {
	PromoteFunc    func(actingAdminId domain.UserId, targetEmail string) (service.PromoteResult, error)
	RevokeFunc     func(actingAdminId, targetUserId domain.UserId) (domain.User, error)
	DeleteUserFunc func(actingAdminId, targetUserId domain.UserId, reason string) error
	ListUsersFunc  func() ([]domain.User, error)
}

func (m *MockAdminService) Promote(actingAdminId domain.UserId, targetEmail string) (service.PromoteResult, error) {
	if m.PromoteFunc != nil {
		return m.PromoteFunc(actingAdminId, targetEmail)
	}
	return service.PromoteResult{}, errors.NotFound("User not found")
}

func (m *MockAdminService) Revoke(actingAdminId, targetUserId domain.UserId) (domain.User, error) {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(actingAdminId, targetUserId)
	}
	return domain.User{Id: targetUserId, Role: domain.RoleUser}, nil
}

func (m *MockAdminService) DeleteUser(actingAdminId, targetUserId domain.UserId, reason string) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(actingAdminId, targetUserId, reason)
	}
	return nil
}

func (m *MockAdminService) ListUsers() ([]domain.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc()
	}
	return nil, nil
}

type MockFeedbackService struct {
	CreateFunc         func(user domain.User, rating int, comment string) (domain.Feedback, error)
	ListPublicFunc     func() ([]domain.Feedback, error)
	ListForAdminFunc   func(status string) ([]domain.Feedback, error)
	SetApprovalFunc    func(adminId domain.UserId, feedbackId int64, approved bool) (domain.Feedback, error)
	DeleteFunc         func(feedbackId int64) error
	RatingsSummaryFunc func() (domain.RatingsSummary, error)
	UserHistoryFunc    func(userId domain.UserId) ([]domain.Feedback, error)
}

func (m *MockFeedbackService) Create(user domain.User, rating int, comment string) (domain.Feedback, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(user, rating, comment)
	}
	return domain.Feedback{Id: 1, UserId: user.Id, Rating: rating, Comment: comment}, nil
}

func (m *MockFeedbackService) ListPublic() ([]domain.Feedback, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc()
	}
	return nil, nil
}

func (m *MockFeedbackService) ListForAdmin(status string) ([]domain.Feedback, error) {
	if m.ListForAdminFunc != nil {
		return m.ListForAdminFunc(status)
	}
	return nil, nil
}

func (m *MockFeedbackService) SetApproval(adminId domain.UserId, feedbackId int64, approved bool) (domain.Feedback, error) {
	if m.SetApprovalFunc != nil {
		return m.SetApprovalFunc(adminId, feedbackId, approved)
	}
	return domain.Feedback{Id: feedbackId, IsApproved: approved}, nil
}

func (m *MockFeedbackService) Delete(feedbackId int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(feedbackId)
	}
	return nil
}

func (m *MockFeedbackService) RatingsSummary() (domain.RatingsSummary, error) {
	if m.RatingsSummaryFunc != nil {
		return m.RatingsSummaryFunc()
	}
	return domain.RatingsSummary{}, nil
}

func (m *MockFeedbackService) UserHistory(userId domain.UserId) ([]domain.Feedback, error) {
	if m.UserHistoryFunc != nil {
		return m.UserHistoryFunc(userId)
	}
	return nil, nil
}

type MockEventService struct {
	CreateFunc     func(adminId domain.UserId, input service.EventInput) (domain.Event, error)
	UpdateFunc     func(adminId domain.UserId, eventId int64, input service.EventUpdate) (domain.Event, error)
	DeleteFunc     func(adminId domain.UserId, eventId int64) error
	ListPublicFunc func() ([]domain.Event, error)
	ListAllFunc    func() ([]domain.Event, error)
}

func (m *MockEventService) Create(adminId domain.UserId, input service.EventInput) (domain.Event, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(adminId, input)
	}
	return domain.Event{Id: 1, Title: input.Title}, nil
}

func (m *MockEventService) Update(adminId domain.UserId, eventId int64, input service.EventUpdate) (domain.Event, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(adminId, eventId, input)
	}
	return domain.Event{Id: eventId}, nil
}

func (m *MockEventService) Delete(adminId domain.UserId, eventId int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(adminId, eventId)
	}
	return nil
}

func (m *MockEventService) ListPublic() ([]domain.Event, error) {
	if m.ListPublicFunc != nil {
		return m.ListPublicFunc()
	}
	return nil, nil
}

func (m *MockEventService) ListAll() ([]domain.Event, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc()
	}
	return nil, nil
}

type MockPinger struct {
	PingFunc func() error
}

func (m *MockPinger) Ping() error {
	if m.PingFunc != nil {
		return m.PingFunc()
	}
	return nil
}

// --- Helpers ---

type testDeps struct {
	auth     *MockAuthService
	admin    *MockAdminService
	feedback *MockFeedbackService
	events   *MockEventService
	pinger   *MockPinger
	cfg      *config.Config
}

func newTestHandler(env string) (*Handler, *testDeps) {
	deps := &testDeps{
		auth:     &MockAuthService{},
		admin:    &MockAdminService{},
		feedback: &MockFeedbackService{},
		events:   &MockEventService{},
		pinger:   &MockPinger{},
		cfg:      config.New(config.Public{Env: env}, config.Private{JwtKey: "test-secret"}),
	}
	codec := token.New("test-secret", time.Hour)
	h := New(deps.auth, deps.admin, deps.feedback, deps.events, codec, deps.cfg, deps.pinger)
	return h, deps
}
