package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/youssefhany/go-eventbook/apperr"
)

// respondError maps a service error onto the wire. Internal causes are
// logged, never leaked to the client.
func respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		logrus.WithError(err).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if ae.Kind == apperr.KindInternal {
		logrus.WithError(ae.Err).Error(ae.Message)
	}

	payload := gin.H{"error": ae.Message}
	if len(ae.Fields) > 0 {
		payload["details"] = ae.Fields
	}
	c.JSON(ae.Status(), payload)
}

// bindJSON binds and validates the request body. Validator failures are
// aggregated into one Validation error listing every violated field, not
// just the first.
func bindJSON(c *gin.Context, obj interface{}) error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldMessage(fe))
		}
		return apperr.Validation(fields)
	}
	return apperr.Validation([]string{err.Error()})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
