// Package store abstracts persistence for users, events and bookings. The
// Mongo implementations live in mongo.go; services depend only on the
// interfaces here so business rules can be tested without a database.
package store

import (
	"context"
	"errors"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/youssefhany/go-eventbook/models"
	"github.com/youssefhany/go-eventbook/pagination"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("not found")

// EventFilter narrows an event listing. Zero values mean "no constraint".
type EventFilter struct {
	Category string
	Search   string    // case-insensitive match over name and venue
	From     time.Time // only events dated at or after this instant
}

// EventUpdate is a partial update; nil fields are left untouched.
type EventUpdate struct {
	Name        *string
	Description *string
	Category    *string
	Date        *time.Time
	Venue       *string
	Price       *float64
	Image       *string
	Capacity    *int
}

type EventStore interface {
	Create(ctx context.Context, ev *models.Event) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	// GetByIDs batch-fetches events keyed by id; missing ids are simply
	// absent from the map.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Event, error)
	// Exists reports whether an event with the same name, date and venue
	// is already present.
	Exists(ctx context.Context, name string, date time.Time, venue string) (bool, error)
	List(ctx context.Context, f EventFilter, p pagination.Params) ([]models.Event, pagination.Meta, error)
	Update(ctx context.Context, id primitive.ObjectID, upd EventUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type BookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID primitive.ObjectID) (*models.Booking, error)
	CountByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
	// EventIDsForUser returns the ids of every event the user has booked,
	// for the listing enrichment pass.
	EventIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	// ListByUser returns the user's bookings, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID, p pagination.Params) ([]models.Booking, pagination.Meta, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	// MarkVerified flips the verified flag and clears the single-use token.
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetProfilePicture(ctx context.Context, id primitive.ObjectID, uri string) error
}

// ImageStore stores uploaded images and serves them back by URI. Delete is
// best effort; callers log failures instead of surfacing them.
type ImageStore interface {
	Store(r io.Reader, ext string) (string, error)
	Delete(uri string) error
}
