package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
)

// ErrorBody is the JSON shape of every error response except send failures.
type ErrorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// SuccessResponse writes data as the bare response body.
func SuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// CreatedResponse writes data with status 201.
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// MessageResponse writes {"message": message}.
func MessageResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// ErrorResponse sends an error response with custom status code and message
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Message: message})
}

// ErrorResponseWithError sends an error response based on error type.
// Errors that are not AppErrors never leak their text to the client.
func ErrorResponseWithError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		c.JSON(http.StatusInternalServerError, ErrorBody{Message: constants.ErrMsgInternalServerError})
		return
	}

	if appErr.Type == errors.ErrorTypeInternal {
		c.JSON(appErr.Code, ErrorBody{Message: constants.ErrMsgInternalServerError})
		return
	}

	c.JSON(appErr.Code, ErrorBody{Message: appErr.Message, Errors: appErr.Fields})
}

// CauseErrorResponse writes {"error": "<message>: <cause>"} for internal errors
// whose cause is surfaced to the caller. Other errors fall back to ErrorResponseWithError.
func CauseErrorResponse(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil || appErr.Type != errors.ErrorTypeInternal {
		ErrorResponseWithError(c, err)
		return
	}

	msg := appErr.Message
	if appErr.Details != "" {
		msg += ": " + appErr.Details
	}
	c.JSON(appErr.Code, gin.H{"error": msg})
}

// NoContentResponse sends a no content response
func NoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
