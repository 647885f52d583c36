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
	"github.com/youssefhany/go-eventbook/utils"
)

// BookingController exposes the booking endpoints. All of them require an
// authenticated viewer.
type BookingController struct {
	bookings *services.BookingService
	auth     *services.AuthService
}

func NewBookingController(bookings *services.BookingService, auth *services.AuthService) *BookingController {
	return &BookingController{bookings: bookings, auth: auth}
}

// Create books the event in the path for the viewer.
func (bc *BookingController) Create(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	viewer := middleware.Viewer(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	booking, svcErr := bc.bookings.Book(ctx, viewer.UserID, eventID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": booking, "message": "event booked successfully"})
}

// List returns a page of the viewer's bookings, newest first, flattened
// with event display fields.
func (bc *BookingController) List(c *gin.Context) {
	viewer := middleware.Viewer(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p := pagination.ParseQuery(c.Query("page"), c.Query("limit"))
	details, meta, err := bc.bookings.ListForUser(ctx, viewer.UserID, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": details, "pagination": meta})
}

// Get returns one of the viewer's bookings, flattened.
func (bc *BookingController) Get(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	viewer := middleware.Viewer(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	detail, svcErr := bc.bookings.GetForUser(ctx, viewer.UserID, bookingID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

// Ticket renders the PDF eTicket for one of the viewer's bookings.
func (bc *BookingController) Ticket(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	viewer := middleware.Viewer(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	detail, svcErr := bc.bookings.GetForUser(ctx, viewer.UserID, bookingID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	user, svcErr := bc.auth.Profile(ctx, viewer.UserID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	pdf, err := utils.TicketPDF(*detail, user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not render ticket"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="ticket-`+detail.ID.Hex()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Delete cancels one of the viewer's bookings.
func (bc *BookingController) Delete(c *gin.Context) {
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	viewer := middleware.Viewer(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := bc.bookings.Cancel(ctx, viewer.UserID, bookingID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking deleted successfully"})
}
