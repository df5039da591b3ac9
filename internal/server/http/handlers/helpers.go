package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/foodcourt/internal/domain/errors"
	"github.com/polkiloo/foodcourt/internal/domain/model"
	"github.com/polkiloo/foodcourt/internal/metrics"
	"github.com/polkiloo/foodcourt/internal/server/http/middleware"
)

// CurrentAdminID extracts authenticated admin identifier from context.
func CurrentAdminID(c *gin.Context) (int64, bool) {
	val, ok := c.Get(middleware.AdminIDContextKey)
	if !ok {
		return 0, false
	}
	id, ok := val.(int64)
	return id, ok
}

// CurrentViewer returns the admin viewer when authenticated, otherwise the
// customer identity from headers with query parameters as fallback.
func CurrentViewer(c *gin.Context) model.Viewer {
	if _, ok := CurrentAdminID(c); ok {
		return model.Viewer{Role: model.RoleAdmin}
	}
	userID := strings.TrimSpace(c.GetHeader(middleware.HeaderUserID))
	if userID == "" {
		userID = strings.TrimSpace(c.Query("userId"))
	}
	email := strings.TrimSpace(c.GetHeader(middleware.HeaderUserEmail))
	if email == "" {
		email = strings.TrimSpace(c.Query("email"))
	}
	return model.Viewer{Role: model.RoleUser, UserID: userID, UserEmail: email}
}

func respond(c *gin.Context, status int, message string, data gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// failWith maps domain errors to statuses; unexpected errors are counted per operation and hidden.
func failWith(c *gin.Context, operation string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		metrics.OperationErrorsTotal.WithLabelValues(operation).Inc()
		_ = c.Error(err)
		fail(c, status, "internal server error")
		return
	}
	fail(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrInvalidCredentials),
		errors.Is(err, domainErrors.ErrInvalidOrder),
		errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrInvalidPaymentStatus),
		errors.Is(err, domainErrors.ErrInvalidPaymentMethod),
		errors.Is(err, domainErrors.ErrEmptyUpdate),
		errors.Is(err, domainErrors.ErrInvalidFood):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
