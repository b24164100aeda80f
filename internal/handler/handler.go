package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maycoffee/maycoffee-api/internal/config"
	"github.com/maycoffee/maycoffee-api/internal/domain"
	"github.com/maycoffee/maycoffee-api/internal/errors"
	"github.com/maycoffee/maycoffee-api/internal/service"
	"github.com/maycoffee/maycoffee-api/internal/token"
)

type Pinger interface {
	Ping() error
}

type Handler struct {
	auth     service.AuthService
	admin    service.AdminService
	feedback service.FeedbackService
	events   service.EventService
	codec    *token.Codec
	cfg      *config.Config
	pinger   Pinger
}

func New(
	auth service.AuthService,
	admin service.AdminService,
	feedback service.FeedbackService,
	events service.EventService,
	codec *token.Codec,
	cfg *config.Config,
	pinger Pinger,
) *Handler {
	return &Handler{
		auth:     auth,
		admin:    admin,
		feedback: feedback,
		events:   events,
		codec:    codec,
		cfg:      cfg,
		pinger:   pinger,
	}
}

// sessionCookie builds the session cookie. Production runs the frontend on a
// different origin, so the cookie must be SameSite=None and Secure there;
// local development gets Lax over plain http.
func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Path:     "/",
		Name:     h.cfg.Public.CookieName,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if h.cfg.IsProduction() {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	}
	return cookie
}

func (h *Handler) setSession(w http.ResponseWriter, user domain.User) error {
	signed, err := h.codec.Sign(user.Id, user.Role)
	if err != nil {
		return err
	}
	http.SetCookie(w, h.sessionCookie(signed, int(h.cfg.Public.CookieMaxAge.Seconds())))
	return nil
}

func (h *Handler) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, h.sessionCookie("", -1))
}

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, errors.BadRequest("Invalid id")
	}
	return id, nil
}

// requestLocale picks the email locale from Accept-Language. Anything that
// is not English falls back to Vietnamese, the shop's default.
func requestLocale(r *http.Request) string {
	accept := r.Header.Get("Accept-Language")
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(accept)), "en") {
		return "en"
	}
	return "vi"
}

// response views; domain structs stay tag-free

type userView struct {
	Id              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

func viewUser(u domain.User) userView {
	return userView{
		Id:              u.Id,
		Name:            u.Name,
		Email:           u.Email,
		Role:            string(u.Role),
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}

func viewUsers(users []domain.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, viewUser(u))
	}
	return views
}

type feedbackView struct {
	Id         int64     `json:"id"`
	UserId     int64     `json:"userId"`
	AuthorName string    `json:"authorName"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	IsApproved bool      `json:"isApproved"`
	CreatedAt  time.Time `json:"createdAt"`
}

func viewFeedback(f domain.Feedback) feedbackView {
	return feedbackView{
		Id:         f.Id,
		UserId:     f.UserId,
		AuthorName: f.AuthorName,
		Rating:     f.Rating,
		Comment:    f.Comment,
		IsApproved: f.IsApproved,
		CreatedAt:  f.CreatedAt,
	}
}

func viewFeedbackList(items []domain.Feedback) []feedbackView {
	views := make([]feedbackView, 0, len(items))
	for _, f := range items {
		views = append(views, viewFeedback(f))
	}
	return views
}

type eventView struct {
	Id          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *time.Time `json:"date"`
	Location    string     `json:"location"`
	IsPublished bool       `json:"isPublished"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func viewEvent(e domain.Event) eventView {
	return eventView{
		Id:          e.Id,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		IsPublished: e.IsPublished,
		CreatedAt:   e.CreatedAt,
	}
}

func viewEvents(items []domain.Event) []eventView {
	views := make([]eventView, 0, len(items))
	for _, e := range items {
		views = append(views, viewEvent(e))
	}
	return views
}
