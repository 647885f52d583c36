package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event categories accepted by create/update validation.
const (
	CategoryConcert    = "concert"
	CategoryConference = "conference"
	CategoryWorkshop   = "workshop"
	CategoryExhibition = "exhibition"
	CategorySports     = "sports"
)

// DefaultEventImage is used when an event is created without an image.
const DefaultEventImage = "https://res.cloudinary.com/dgbtuclc2/image/upload/w_300,h_200,c_fill,g_auto,f_auto,q_auto/v1747320741/event/Blog-banner-5-C-of-event-management_dx7qsb.png"

// DefaultEventCapacity applies when capacity is omitted on create.
const DefaultEventCapacity = 100

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Date        time.Time          `bson:"date" json:"date"`
	Venue       string             `bson:"venue" json:"venue"`
	Price       float64            `bson:"price" json:"price"`
	Image       string             `bson:"image" json:"image"`
	Capacity    int                `bson:"capacity" json:"capacity"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ValidCategory reports whether c is one of the accepted event categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryConcert, CategoryConference, CategoryWorkshop, CategoryExhibition, CategorySports:
		return true
	}
	return false
}

// EventWithBooking is an event as seen by a particular viewer: the listing
// endpoints annotate each event with whether that viewer already booked it.
type EventWithBooking struct {
	Event
	UserHasBooked bool `json:"userHasBooked"`
}
