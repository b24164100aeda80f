package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/maycoffee/maycoffee-api/internal/domain"
)

type EventService interface {
	Create(adminId domain.UserId, input EventInput) (domain.Event, error)
	Update(adminId domain.UserId, eventId int64, input EventUpdate) (domain.Event, error)
	Delete(adminId domain.UserId, eventId int64) error
	ListPublic() ([]domain.Event, error)
	ListAll() ([]domain.Event, error)
}

type EventStorage interface {
	CreateEvent(ev domain.Event) (domain.Event, error)
	EventById(id int64) (domain.Event, error)
	UpdateEvent(ev domain.Event) (domain.Event, error)
	DeleteEvent(id int64) error
	ListEvents(publishedOnly bool) ([]domain.Event, error)
	ListVerifiedUserEmails() ([]domain.User, error)
}

type EventNotifier interface {
	AnnounceEvent(recipients []domain.User, title, descriptionMarkdown, schedule string)
}

type EventInput struct {
	Title       string
	Description string
	Date        *time.Time
	Location    string
	IsPublished bool
}

// EventUpdate is a partial update; nil fields keep their current value.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	IsPublished *bool
}

type Event struct {
	storage  EventStorage
	notifier EventNotifier
	audit    *Audit
}

func NewEvent(storage EventStorage, notifier EventNotifier, audit *Audit) *Event {
	return &Event{storage: storage, notifier: notifier, audit: audit}
}

func formatSchedule(date *time.Time, location string) string {
	if date != nil {
		s := date.Format("02/01/2006 • 15:04")
		if location != "" {
			return s + " • " + location
		}
		return s
	}
	// undated announcements may still carry a venue
	return location
}

func (e *Event) announce(ev domain.Event) error {
	recipients, err := e.storage.ListVerifiedUserEmails()
	if err != nil {
		return fmt.Errorf("failed to collect announcement recipients: %w", err)
	}
	e.notifier.AnnounceEvent(recipients, ev.Title, ev.Description, formatSchedule(ev.Date, ev.Location))
	return nil
}

func (e *Event) Create(adminId domain.UserId, input EventInput) (domain.Event, error) {
	created, err := e.storage.CreateEvent(domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date,
		Location:    input.Location,
		IsPublished: input.IsPublished,
		CreatedBy:   adminId,
	})
	if err != nil {
		return domain.Event{}, err
	}

	if err := e.audit.Log(adminId, domain.ActionEventCreate, strconv.FormatInt(created.Id, 10)); err != nil {
		return domain.Event{}, err
	}

	if created.IsPublished {
		if err := e.announce(created); err != nil {
			return domain.Event{}, err
		}
	}

	return created, nil
}

func (e *Event) Update(adminId domain.UserId, eventId int64, input EventUpdate) (domain.Event, error) {
	ev, err := e.storage.EventById(eventId)
	if err != nil {
		return domain.Event{}, err
	}

	if input.Title != nil {
		ev.Title = *input.Title
	}
	if input.Description != nil {
		ev.Description = *input.Description
	}
	if input.Date != nil {
		ev.Date = input.Date
	}
	if input.Location != nil {
		ev.Location = *input.Location
	}
	if input.IsPublished != nil {
		ev.IsPublished = *input.IsPublished
	}

	updated, err := e.storage.UpdateEvent(ev)
	if err != nil {
		return domain.Event{}, err
	}

	if err := e.audit.Log(adminId, domain.ActionEventUpdate, strconv.FormatInt(eventId, 10)); err != nil {
		return domain.Event{}, err
	}

	// announce both first-time publishes and updates to already-published
	// events, so attendees hear about changes
	if updated.IsPublished {
		if err := e.announce(updated); err != nil {
			return domain.Event{}, err
		}
	}

	return updated, nil
}

func (e *Event) Delete(adminId domain.UserId, eventId int64) error {
	if _, err := e.storage.EventById(eventId); err != nil {
		return err
	}
	if err := e.storage.DeleteEvent(eventId); err != nil {
		return err
	}
	return e.audit.Log(adminId, domain.ActionEventDelete, strconv.FormatInt(eventId, 10))
}

func (e *Event) ListPublic() ([]domain.Event, error) {
	return e.storage.ListEvents(true)
}

func (e *Event) ListAll() ([]domain.Event, error) {
	return e.storage.ListEvents(false)
}
