// Package mailer owns every outbound notification: templating, the SMTP
// sender, and the in-process delivery queue. Dispatch is best-effort; no
// caller ever fails because an email did not go out.
package mailer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/maycoffee/maycoffee-api/internal/domain"
	"github.com/maycoffee/maycoffee-api/internal/logger"
)

type Mailer struct {
	sender      Sender
	queue       *Queue
	frontendURL string
	batchSize   int
}

func New(sender Sender, queue *Queue, frontendURL string, batchSize int) *Mailer {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &Mailer{
		sender:      sender,
		queue:       queue,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		batchSize:   batchSize,
	}
}

func normalizeLocale(locale string) string {
	if strings.ToLower(strings.TrimSpace(locale)) == "en" {
		return "en"
	}
	return "vi"
}

// FrontendURL builds a locale-prefixed frontend link, e.g.
// https://maycoffee.vn/vi/auth/verify?email=x.
func (m *Mailer) FrontendURL(path, locale string, query url.Values) string {
	u := fmt.Sprintf("%s/%s/%s", m.frontendURL, normalizeLocale(locale), strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (m *Mailer) enqueue(recipient, subject, body string) {
	m.queue.Enqueue(func() error {
		return m.sender.Send(recipient, subject, body)
	})
}

func (m *Mailer) SendVerificationCode(email, name, code, locale string) {
	locale = normalizeLocale(locale)
	verifyURL := m.FrontendURL("/auth/verify", locale, url.Values{"email": {email}})
	subject := "May Coffee • Xác nhận email"
	if locale == "en" {
		subject = "May Coffee • Verify your email"
	}
	m.enqueue(email, subject, verifyEmailBody(name, code, verifyURL, locale))
}

func (m *Mailer) SendAdminInvitation(email string) {
	registerURL := m.FrontendURL("/auth/register", "vi", nil)
	m.enqueue(email, "May Coffee • Lời mời làm Admin", adminInvitationBody(email, registerURL))
}

func (m *Mailer) SendAdminPromotionNotification(email, name string) {
	adminURL := m.FrontendURL("/admin", "vi", nil)
	m.enqueue(email, "May Coffee • Bạn đã trở thành Admin", adminPromotionBody(name, adminURL))
}

func (m *Mailer) SendAccountDeleted(email, name, reason string) {
	m.enqueue(email, "May Coffee • Thông báo tài khoản", accountDeletedBody(name, reason))
}

func (m *Mailer) SendFeedbackThankYou(email, name string) {
	m.enqueue(email, "May Coffee • Cảm ơn vì feedback", feedbackThanksBody(name))
}

// AnnounceEvent fans an announcement out to every recipient, a batch per
// queue job so one published event cannot monopolize the queue buffer.
// Individual delivery failures are logged and do not stop the batch.
func (m *Mailer) AnnounceEvent(recipients []domain.User, title, descriptionMarkdown, schedule string) {
	eventsURL := m.FrontendURL("/events", "vi", nil)
	subject := "May Coffee • " + title
	body := eventAnnouncementBody(title, descriptionMarkdown, schedule, eventsURL)

	for start := 0; start < len(recipients); start += m.batchSize {
		end := min(start+m.batchSize, len(recipients))
		batch := recipients[start:end]
		m.queue.Enqueue(func() error {
			for _, u := range batch {
				if err := m.sender.Send(u.Email, subject, body); err != nil {
					logger.Log.Error("failed to send event announcement", "recipient", u.Email, "error", err)
				}
			}
			return nil
		})
	}
}
