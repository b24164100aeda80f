package mailer

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maycoffee/maycoffee-api/internal/domain"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string // recipient emails in delivery order
}

func (s *recordingSender) Send(recipientEmail, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, recipientEmail)
	return nil
}

func drained(t *testing.T, q *Queue) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, q.Shutdown(ctx))
}

func TestFrontendURL(t *testing.T) {
	m := New(&recordingSender{}, NewQueue(1), "https://maycoffee.vn/", 25)

	assert.Equal(t, "https://maycoffee.vn/vi/events", m.FrontendURL("/events", "vi", nil))
	assert.Equal(t, "https://maycoffee.vn/en/auth/register", m.FrontendURL("auth/register", "en", nil))
	// unknown locales fall back to Vietnamese
	assert.Equal(t, "https://maycoffee.vn/vi/events", m.FrontendURL("/events", "fr", nil))

	withQuery := m.FrontendURL("/auth/verify", "vi", url.Values{"email": {"a@b.com"}})
	assert.Equal(t, "https://maycoffee.vn/vi/auth/verify?email=a%40b.com", withQuery)
}

func TestSendVerificationCode(t *testing.T) {
	sender := &recordingSender{}
	queue := NewQueue(4)
	m := New(sender, queue, "https://maycoffee.vn", 25)

	m.SendVerificationCode("a@b.com", "An", "123456", "vi")
	drained(t, queue)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@b.com", sender.sent[0])
}

func TestAnnounceEventBatching(t *testing.T) {
	sender := &recordingSender{}
	queue := NewQueue(16)
	m := New(sender, queue, "https://maycoffee.vn", 2)

	recipients := make([]domain.User, 5)
	for i := range recipients {
		recipients[i] = domain.User{Id: int64(i + 1), Email: fmt.Sprintf("u%d@example.com", i+1)}
	}

	m.AnnounceEvent(recipients, "Tasting", "notes on **beans**", "01/06/2026 • 18:00")
	drained(t, queue)

	// 5 recipients at batch size 2 means 3 jobs but all 5 deliveries
	require.Len(t, sender.sent, 5)
	assert.Equal(t, "u1@example.com", sender.sent[0])
	assert.Equal(t, "u5@example.com", sender.sent[4])
}

func TestAnnounceEventNoRecipients(t *testing.T) {
	sender := &recordingSender{}
	queue := NewQueue(1)
	m := New(sender, queue, "https://maycoffee.vn", 25)

	m.AnnounceEvent(nil, "Quiet", "nobody to tell", "")
	drained(t, queue)

	assert.Empty(t, sender.sent)
}
