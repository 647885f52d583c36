package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingConfirmed is the status every booking is created with. Cancellation
// deletes the document rather than flipping the status.
const BookingConfirmed = "confirmed"

type Booking struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID  primitive.ObjectID `bson:"event_id" json:"event_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status   string             `bson:"status" json:"status"`
	BookedAt time.Time          `bson:"booked_at" json:"booked_at"`
}

// BookingDetail is a booking flattened together with the display fields of
// the event it references. Returned by the booking listing endpoints.
type BookingDetail struct {
	ID            primitive.ObjectID `json:"id"`
	Status        string             `json:"status"`
	BookedAt      time.Time          `json:"booked_at"`
	EventID       primitive.ObjectID `json:"event_id"`
	EventName     string             `json:"event_name"`
	EventCategory string             `json:"event_category"`
	EventDate     time.Time          `json:"event_date"`
	EventVenue    string             `json:"event_venue"`
	EventPrice    float64            `json:"event_price"`
	EventImage    string             `json:"event_image"`
}
