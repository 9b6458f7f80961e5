package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/mediconsult-api/pkg/errors"
	"github.com/jwalitptl/mediconsult-api/pkg/validator"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondWithSuccess sends a 200 success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, NewSuccessResponse(data))
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, NewSuccessResponse(data))
}

// RespondWithError translates err into a status code and an error envelope.
// Errors that are not an *errors.AppError are logged and hidden behind a 500.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		log.Error().
			Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
		return
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Error().
			Err(appErr).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Int("status", status).
			Msg("request failed")
	}
	c.JSON(status, NewErrorResponse(appErr.Message))
}

// RespondWithBindError reports a request body that failed to bind or validate.
func RespondWithBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, NewErrorResponse(validator.Describe(err)))
}
