package server

import (
	"errors"
	"net/http"

	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	resourcedomain "github.com/agrihub/fieldbill/internal/resource/domain"
	signaldomain "github.com/agrihub/fieldbill/internal/signal/domain"
	"github.com/gin-gonic/gin"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

const (
	typeValidation = "validation_error"
	typeConflict   = "conflict_error"
	typeNotFound   = "not_found_error"
	typeInternal   = "internal_error"
	typeRateLimit  = "rate_limited"
)

var errRateLimited = errors.New("rate_limited")

// ErrorHandlingMiddleware renders the last recorded error once the
// handler chain finishes without writing a response.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{typeInternal, "internal server error"}

	// Validation family: malformed or contradictory input.
	case errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest, errorPayload{typeValidation, "invalid request body"}
	case errors.Is(err, resourcedomain.ErrInvalidName):
		return http.StatusBadRequest, errorPayload{typeValidation, "resource name is required"}
	case errors.Is(err, resourcedomain.ErrInvalidRate):
		return http.StatusBadRequest, errorPayload{typeValidation, "hourly rate must be a valid non-negative number"}
	case errors.Is(err, resourcedomain.ErrInvalidID),
		errors.Is(err, billdomain.ErrInvalidID),
		errors.Is(err, signaldomain.ErrInvalidBillID):
		return http.StatusBadRequest, errorPayload{typeValidation, "invalid id"}
	case errors.Is(err, billdomain.ErrInvalidOwner):
		return http.StatusBadRequest, errorPayload{typeValidation, "owner id is required"}
	case errors.Is(err, billdomain.ErrInvalidResource):
		return http.StatusBadRequest, errorPayload{typeValidation, "resource name is required"}
	case errors.Is(err, billdomain.ErrResourceNotFound):
		return http.StatusBadRequest, errorPayload{typeValidation, "resource does not exist"}
	case errors.Is(err, billdomain.ErrInvalidPrice):
		return http.StatusBadRequest, errorPayload{typeValidation, "price per count must be a valid non-negative number"}
	case errors.Is(err, billdomain.ErrInvalidCost):
		return http.StatusBadRequest, errorPayload{typeValidation, "cost must be a valid non-negative number"}
	case errors.Is(err, billdomain.ErrInvalidMonth):
		return http.StatusBadRequest, errorPayload{typeValidation, "month must be formatted as YYYY-MM"}
	case errors.Is(err, billdomain.ErrNotRunning):
		return http.StatusBadRequest, errorPayload{typeValidation, "bill not found, already stopped, or not running"}
	case errors.Is(err, billdomain.ErrCountRequired):
		return http.StatusBadRequest, errorPayload{typeValidation, "count is required for count-billed resources"}
	case errors.Is(err, billdomain.ErrInvalidCount):
		return http.StatusBadRequest, errorPayload{typeValidation, "count must be a non-negative number"}
	case errors.Is(err, billdomain.ErrPriceNotConfigured):
		return http.StatusBadRequest, errorPayload{typeValidation, "price per count must be set to calculate cost"}
	case errors.Is(err, billdomain.ErrNoFields):
		return http.StatusBadRequest, errorPayload{typeValidation, "at least one field to edit is required"}
	case errors.Is(err, billdomain.ErrAlreadyPaid):
		return http.StatusBadRequest, errorPayload{typeValidation, "bill not found or already paid"}
	case errors.Is(err, billdomain.ErrInvalidPaymentMethod):
		return http.StatusBadRequest, errorPayload{typeValidation, "payment method is required"}
	case errors.Is(err, signaldomain.ErrInvalidAction):
		return http.StatusBadRequest, errorPayload{typeValidation, "action must be start or stop"}

	// Conflict: uniqueness violations.
	case errors.Is(err, resourcedomain.ErrNameTaken):
		return http.StatusBadRequest, errorPayload{typeConflict, "resource name already exists"}

	// Not found: absent entity or wrong state for the operation.
	case errors.Is(err, resourcedomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{typeNotFound, "resource not found"}
	case errors.Is(err, billdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{typeNotFound, "bill not found"}
	case errors.Is(err, billdomain.ErrNotPending):
		return http.StatusNotFound, errorPayload{typeNotFound, "bill not found or not pending"}

	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, errorPayload{typeRateLimit, "too many signal requests"}

	default:
		return http.StatusInternalServerError, errorPayload{typeInternal, "internal server error"}
	}
}

var errInvalidRequest = errors.New("invalid_request")

func invalidRequestError() error {
	return errInvalidRequest
}

// classifyErrorForLog feeds the request logger's error fields.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := ""
	if err != nil {
		code = err.Error()
	}
	return payload.Type, code
}
