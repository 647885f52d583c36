// Package services holds the business rules between the Gin controllers and
// the store layer. Services return apperr values; they never touch HTTP.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/youssefhany/go-eventbook/apperr"
	"github.com/youssefhany/go-eventbook/models"
	"github.com/youssefhany/go-eventbook/pagination"
	"github.com/youssefhany/go-eventbook/store"
)

// Viewer identifies the authenticated caller. Handlers build it from the
// token claims attached by the auth middleware and pass it down explicitly.
type Viewer struct {
	UserID primitive.ObjectID
	Role   string
}

// EventService implements event CRUD and the viewer-aware listing.
type EventService struct {
	events   store.EventStore
	bookings store.BookingStore
	now      func() time.Time
}

func NewEventService(events store.EventStore, bookings store.BookingStore) *EventService {
	return &EventService{events: events, bookings: bookings, now: time.Now}
}

// EventListQuery narrows the public event listing.
type EventListQuery struct {
	Category string
	Search   string
	Page     pagination.Params
}

// List returns a page of future events, each annotated with whether the
// viewer already booked it. viewer may be nil for anonymous callers; they
// see every event as not booked.
func (s *EventService) List(ctx context.Context, viewer *Viewer, q EventListQuery) ([]models.EventWithBooking, pagination.Meta, error) {
	if q.Category != "" && !models.ValidCategory(q.Category) {
		return nil, pagination.Meta{}, apperr.Validation([]string{"invalid event category"})
	}

	filter := store.EventFilter{
		Category: q.Category,
		Search:   q.Search,
		From:     s.now(),
	}
	events, meta, err := s.events.List(ctx, filter, q.Page)
	if err != nil {
		return nil, pagination.Meta{}, apperr.Internal(err, "could not fetch events")
	}

	booked := map[primitive.ObjectID]bool{}
	if viewer != nil {
		// One query for the whole page, not one per event. The listing
		// succeeds even if the enrichment lookup fails.
		ids, err := s.bookings.EventIDsForUser(ctx, viewer.UserID)
		if err != nil {
			logrus.WithError(err).Warn("event listing: booking enrichment lookup failed")
		}
		for _, id := range ids {
			booked[id] = true
		}
	}

	out := make([]models.EventWithBooking, 0, len(events))
	for _, ev := range events {
		out = append(out, models.EventWithBooking{Event: ev, UserHasBooked: booked[ev.ID]})
	}
	return out, meta, nil
}

// Get returns a single event annotated for the viewer.
func (s *EventService) Get(ctx context.Context, viewer *Viewer, id primitive.ObjectID) (*models.EventWithBooking, error) {
	ev, err := s.events.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("event not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "could not fetch event")
	}

	hasBooked := false
	if viewer != nil {
		_, err := s.bookings.FindByUserAndEvent(ctx, viewer.UserID, id)
		switch {
		case err == nil:
			hasBooked = true
		case errors.Is(err, store.ErrNotFound):
		default:
			logrus.WithError(err).Warn("event get: booking enrichment lookup failed")
		}
	}
	return &models.EventWithBooking{Event: *ev, UserHasBooked: hasBooked}, nil
}

// CreateEventInput is the validated payload for creating an event.
type CreateEventInput struct {
	Name        string
	Description string
	Category    string
	Date        time.Time
	Venue       string
	Price       float64
	Image       string
	Capacity    int
}

// Create inserts a new event. Past dates are rejected, as is an event with
// the same name, date and venue as an existing one.
func (s *EventService) Create(ctx context.Context, in CreateEventInput) (*models.Event, error) {
	if in.Date.Before(s.now()) {
		return nil, apperr.InvalidState("event date cannot be in the past")
	}

	exists, err := s.events.Exists(ctx, in.Name, in.Date, in.Venue)
	if err != nil {
		return nil, apperr.Internal(err, "could not check for duplicate event")
	}
	if exists {
		return nil, apperr.Conflict("event already exists")
	}

	ev := &models.Event{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Date:        in.Date,
		Venue:       in.Venue,
		Price:       in.Price,
		Image:       in.Image,
		Capacity:    in.Capacity,
		CreatedAt:   s.now().UTC(),
	}
	if ev.Image == "" {
		ev.Image = models.DefaultEventImage
	}
	if ev.Capacity == 0 {
		ev.Capacity = models.DefaultEventCapacity
	}

	if err := s.events.Create(ctx, ev); err != nil {
		return nil, apperr.Internal(err, "could not create event")
	}
	return ev, nil
}

// UpdateEventInput allows partial updates; nil fields are untouched.
type UpdateEventInput struct {
	Name        *string
	Description *string
	Category    *string
	Date        *time.Time
	Venue       *string
	Price       *float64
	Image       *string
	Capacity    *int
}

// Update applies a partial update to an event and returns the fresh state.
func (s *EventService) Update(ctx context.Context, id primitive.ObjectID, in UpdateEventInput) (*models.Event, error) {
	if in.Date != nil && in.Date.Before(s.now()) {
		return nil, apperr.InvalidState("event date cannot be in the past")
	}

	upd := store.EventUpdate{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Date:        in.Date,
		Venue:       in.Venue,
		Price:       in.Price,
		Image:       in.Image,
		Capacity:    in.Capacity,
	}
	err := s.events.Update(ctx, id, upd)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("event not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "could not update event")
	}

	ev, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "could not fetch event")
	}
	return ev, nil
}

// Delete removes an event. Existing bookings are left in place; the booking
// listings silently drop entries whose event is gone.
func (s *EventService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.events.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("event not found")
	}
	if err != nil {
		return apperr.Internal(err, "could not delete event")
	}
	return nil
}
