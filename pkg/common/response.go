package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/cardlink/pkg/pagination"
)

// Response is the standard API response envelope
type Response struct {
	Success bool             `json:"success"`
	Data    interface{}      `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
	Meta    *pagination.Meta `json:"meta,omitempty"`
}

// SuccessResponse sends a 200 response with data
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// CreatedResponse sends a 201 response with data
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// SuccessResponseWithMeta sends a 200 response with data and pagination metadata
func SuccessResponseWithMeta(c *gin.Context, data interface{}, meta *pagination.Meta) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data, Meta: meta})
}

// ErrorResponse sends an error response with the given status code
func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, Response{Success: false, Error: message})
}

// AppErrorResponse sends an error response from an AppError
func AppErrorResponse(c *gin.Context, err *AppError) {
	ErrorResponse(c, err.Code, err.Message)
}
