package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pos-billing-api/pkg/apperror"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string                `json:"error"`
	Kind   apperror.Kind         `json:"kind,omitempty"`
	Errors []apperror.FieldError `json:"errors,omitempty"`
}

// MessageResponse is the body of requests that return no resource.
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON sends data as the response body
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// OK sends a 200 OK response
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Message sends a 200 response carrying only a message
func Message(c *gin.Context, message string) {
	JSON(c, http.StatusOK, MessageResponse{Message: message})
}

// NoContent sends a 204 No Content response
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response
func Error(c *gin.Context, err error) {
	appErr := apperror.GetAppError(err)
	c.JSON(appErr.Code, ErrorResponse{
		Error:  appErr.Message,
		Kind:   appErr.Kind,
		Errors: appErr.Errors,
	})
}

// ErrorWithCode sends an error response with a specific status code
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// AbortWithError writes the error and stops the handler chain
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// NotFound sends a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusNotFound, message)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusUnauthorized, message)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, message)
}

// InternalServerError sends a 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusInternalServerError, message)
}
