package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelbooking/internal/pkg/apperror"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError renders err with the status and code of its apperror kind.
// Unclassified errors become a 500 with a generic message; the cause is
// attached to the gin context for ErrorLogger.
func FromError(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok {
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	switch {
	case len(appErr.Fields) > 0:
		ErrorWithDetails(c, status, string(appErr.Kind), appErr.Message, appErr.Fields)
	case len(appErr.Rooms) > 0:
		ErrorWithDetails(c, status, string(appErr.Kind), appErr.Message, gin.H{"rooms": appErr.Rooms})
	case errors.Is(err, apperror.ErrConcurrency):
		Error(c, status, string(appErr.Kind), appErr.Message+", please try again")
	default:
		Error(c, status, string(appErr.Kind), appErr.Message)
	}
}

// BindError answers a request whose body or query could not be bound.
func BindError(c *gin.Context, err error) {
	ErrorWithDetails(c, http.StatusBadRequest, string(apperror.KindValidation), "Invalid request body", err.Error())
}
