package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/youssefhany/go-eventbook/middleware"
	"github.com/youssefhany/go-eventbook/pagination"
	"github.com/youssefhany/go-eventbook/services"
)

// EventController exposes the event CRUD and listing endpoints.
type EventController struct {
	events *services.EventService
}

func NewEventController(events *services.EventService) *EventController {
	return &EventController{events: events}
}

// CreateEventInput is the request body for creating an event
type CreateEventInput struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Category    string    `json:"category" binding:"required,oneof=concert conference workshop exhibition sports"`
	Date        time.Time `json:"date" binding:"required"`
	Venue       string    `json:"venue" binding:"required"`
	Price       *float64  `json:"price" binding:"required,gte=0"`
	Image       string    `json:"image,omitempty"`
	Capacity    int       `json:"capacity,omitempty" binding:"omitempty,gte=1"`
}

// UpdateEventInput allows partial updates
type UpdateEventInput struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty" binding:"omitempty,oneof=concert conference workshop exhibition sports"`
	Date        *time.Time `json:"date,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	Price       *float64   `json:"price,omitempty" binding:"omitempty,gte=0"`
	Image       *string    `json:"image,omitempty"`
	Capacity    *int       `json:"capacity,omitempty" binding:"omitempty,gte=1"`
}

// List returns a page of future events with the viewer's booked flag.
// Anonymous requests are fine; every event then reads as not booked.
func (ec *EventController) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	q := services.EventListQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Page:     pagination.ParseQuery(c.Query("page"), c.Query("limit")),
	}

	events, meta, err := ec.events.List(ctx, middleware.Viewer(c), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": events, "pagination": meta})
}

// Get fetches a single event by its hex id, with the viewer's booked flag.
func (ec *EventController) Get(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev, svcErr := ec.events.Get(ctx, middleware.Viewer(c), eventID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ev})
}

// Create creates a new event. Admin only (enforced by route middleware).
func (ec *EventController) Create(c *gin.Context) {
	var input CreateEventInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev, err := ec.events.Create(ctx, services.CreateEventInput{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Date:        input.Date,
		Venue:       input.Venue,
		Price:       *input.Price,
		Image:       input.Image,
		Capacity:    input.Capacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": ev})
}

// Update applies a partial update to an event. Admin only.
func (ec *EventController) Update(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var input UpdateEventInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev, svcErr := ec.events.Update(ctx, eventID, services.UpdateEventInput{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Date:        input.Date,
		Venue:       input.Venue,
		Price:       input.Price,
		Image:       input.Image,
		Capacity:    input.Capacity,
	})
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": ev})
}

// Delete removes an event. Admin only. Bookings referencing it are left
// behind and dropped from listings.
func (ec *EventController) Delete(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ec.events.Delete(ctx, eventID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted successfully"})
}
