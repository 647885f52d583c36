package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/youssefhany/go-eventbook/apperr"
	"github.com/youssefhany/go-eventbook/models"
	"github.com/youssefhany/go-eventbook/pagination"
	"github.com/youssefhany/go-eventbook/store"
)

// BookingService implements the booking admission check and the flattened
// booking listings.
type BookingService struct {
	events   store.EventStore
	bookings store.BookingStore
	now      func() time.Time
}

func NewBookingService(events store.EventStore, bookings store.BookingStore) *BookingService {
	return &BookingService{events: events, bookings: bookings, now: time.Now}
}

// Book runs the admission sequence and creates the booking. The check order
// is fixed: existence, then date, then capacity, then duplicate — a sold-out
// past event must report "past", not "sold out".
//
// This is a read-then-write sequence with no atomicity across requests: two
// concurrent attempts at the last capacity slot can both pass the count
// check before either insert lands. Known limitation, kept deliberately.
func (s *BookingService) Book(ctx context.Context, userID, eventID primitive.ObjectID) (*models.Booking, error) {
	ev, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("event not found")
	}
	if err != nil {
		return nil, apperr.Internal(err, "could not fetch event")
	}

	if ev.Date.Before(s.now()) {
		return nil, apperr.InvalidState("cannot book past events")
	}

	count, err := s.bookings.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, apperr.Internal(err, "could not count bookings")
	}
	if count >= int64(ev.Capacity) {
		return nil, apperr.CapacityExceeded("event is sold out")
	}

	_, err = s.bookings.FindByUserAndEvent(ctx, userID, eventID)
	if err == nil {
		return nil, apperr.Conflict("you already booked this event")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal(err, "could not check existing booking")
	}

	b := &models.Booking{
		EventID:  eventID,
		UserID:   userID,
		Status:   models.BookingConfirmed,
		BookedAt: s.now().UTC(),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, apperr.Internal(err, "could not create booking")
	}
	return b, nil
}

// ListForUser returns a page of the user's bookings, newest first, each
// flattened with its event's display fields. Bookings whose event has been
// deleted are dropped from the page — never surfaced as errors or nulls —
// so a page may carry fewer rows than the meta suggests.
func (s *BookingService) ListForUser(ctx context.Context, userID primitive.ObjectID, p pagination.Params) ([]models.BookingDetail, pagination.Meta, error) {
	bookings, meta, err := s.bookings.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, pagination.Meta{}, apperr.Internal(err, "could not fetch bookings")
	}

	ids := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.EventID)
	}
	events, err := s.events.GetByIDs(ctx, ids)
	if err != nil {
		return nil, pagination.Meta{}, apperr.Internal(err, "could not fetch booked events")
	}

	out := make([]models.BookingDetail, 0, len(bookings))
	for _, b := range bookings {
		ev, ok := events[b.EventID]
		if !ok {
			continue // dangling reference, event was deleted
		}
		out = append(out, flatten(b, ev))
	}
	return out, meta, nil
}

// GetForUser returns one of the user's bookings, flattened. A booking owned
// by someone else reads the same as a missing one.
func (s *BookingService) GetForUser(ctx context.Context, userID, bookingID primitive.ObjectID) (*models.BookingDetail, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("booking not found or unauthorized")
	}
	if err != nil {
		return nil, apperr.Internal(err, "could not fetch booking")
	}
	if b.UserID != userID {
		return nil, apperr.NotFound("booking not found or unauthorized")
	}

	ev, err := s.events.GetByID(ctx, b.EventID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("booking not found or unauthorized")
	}
	if err != nil {
		return nil, apperr.Internal(err, "could not fetch booked event")
	}

	detail := flatten(*b, *ev)
	return &detail, nil
}

// Cancel deletes one of the user's bookings.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID primitive.ObjectID) error {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("booking not found or unauthorized")
	}
	if err != nil {
		return apperr.Internal(err, "could not fetch booking")
	}
	if b.UserID != userID {
		return apperr.NotFound("booking not found or unauthorized")
	}

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		return apperr.Internal(err, "could not delete booking")
	}
	return nil
}

func flatten(b models.Booking, ev models.Event) models.BookingDetail {
	return models.BookingDetail{
		ID:            b.ID,
		Status:        b.Status,
		BookedAt:      b.BookedAt,
		EventID:       ev.ID,
		EventName:     ev.Name,
		EventCategory: ev.Category,
		EventDate:     ev.Date,
		EventVenue:    ev.Venue,
		EventPrice:    ev.Price,
		EventImage:    ev.Image,
	}
}
