package errors

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/bma/api/internal/domain"
	"github.com/stwalsh4118/bma/api/internal/middleware"
)

// Error code constants for standardized error responses
const (
	ErrNotFound       = "NOT_FOUND"
	ErrBadRequest     = "BAD_REQUEST"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
	ErrValidation     = "VALIDATION_ERROR"
	ErrConflict       = "CONFLICT"
	ErrForbidden      = "FORBIDDEN"
	ErrUnauthorized   = "UNAUTHORIZED"
	ErrCapacity       = "CAPACITY_EXCEEDED"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
// Details maps request fields to their messages for validation failures.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// FromError writes the response matching a service error: validation,
// schema and capacity failures are 400, missing entities 404, lost races
// 409, permission failures 403. Anything else is a 500.
func FromError(c *gin.Context, err error) {
	var (
		verr     *domain.ValidationError
		schema   *domain.SchemaError
		capacity *domain.CapacityError
		notFound *domain.NotFoundError
		conflict *domain.ConflictError
		perm     *domain.PermissionError
	)

	switch {
	case stderrors.As(err, &verr):
		details := make(map[string]interface{}, len(verr.Fields))
		for field, msgs := range verr.Fields {
			details[field] = msgs
		}
		respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
	case stderrors.As(err, &schema):
		respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields",
			map[string]interface{}{schema.Field: schema.Messages()})
	case stderrors.As(err, &capacity):
		respond(c, http.StatusBadRequest, ErrCapacity, capacity.Message,
			map[string]interface{}{capacity.Field: []string{capacity.Message}, "limit": capacity.Limit})
	case stderrors.As(err, &notFound):
		NotFound(c, notFound.Error())
	case stderrors.As(err, &conflict):
		Conflict(c, conflict.Error())
	case stderrors.As(err, &perm):
		Forbidden(c, perm.Message)
	default:
		InternalServerError(c, "An unexpected error occurred", err)
	}
}

// NotFound returns a 404 Not Found error response.
func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, ErrNotFound, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// Conflict returns a 409 response for writes that lost a race against a
// concurrent request. Clients may retry.
func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, ErrConflict, message, nil)
}

// Forbidden returns a 403 response.
func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, ErrForbidden, message, nil)
}

// Unauthorized returns a 401 response.
func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, ErrUnauthorized, message, nil)
}

// InternalServerError returns a 500 Internal Server Error response.
// The error is logged with full context; only message reaches the client.
func InternalServerError(c *gin.Context, message string, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{
			Code:      ErrInternalServer,
			Message:   message,
			RequestID: requestID,
		},
	})
}

// ValidationError returns a 400 Bad Request error response with field-specific validation errors.
// It parses the validation errors from the validator library and formats them for the client.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{})
	for _, err := range validationErrors {
		details[err.Field()] = []string{formatValidationError(err)}
	}
	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

// ValidationErrorAt is ValidationError for one item of a batch request.
// Fields are prefixed with the item index.
func ValidationErrorAt(c *gin.Context, index int, validationErrors validator.ValidationErrors) {
	details := make(map[string]interface{})
	for _, err := range validationErrors {
		details[strconv.Itoa(index)+"."+err.Field()] = []string{formatValidationError(err)}
	}
	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

// respond logs a client error as a warning and writes the envelope.
func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		fields := map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
		}
		if details != nil {
			fields["details"] = details
		}
		log.Warn("Request rejected", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	})
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "datetime":
		return "Must be a date in the format YYYY-MM-DD"
	case "building_number":
		return "Must be a positive integer of at least two digits"
	case "zip_code":
		return "Must be a valid zip code"
	case "uuid":
		return "Must be a valid UUID"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
