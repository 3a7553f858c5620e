package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the uniform envelope for every endpoint: ok tells the
// client whether the operation applied, reason carries the failure cause.
type APIResponse struct {
	OK      bool        `json:"ok"`
	Reason  string      `json:"reason,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{OK: true, Data: data})
}

func SuccessMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, APIResponse{OK: true, Message: message})
}

func Fail(c *gin.Context, httpStatus int, reason, message string) {
	c.JSON(httpStatus, APIResponse{OK: false, Reason: reason, Message: message})
}

func BadRequest(c *gin.Context, reason, message string) {
	Fail(c, http.StatusBadRequest, reason, message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, "unauthorized", message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, "forbidden", message)
}

func NotFound(c *gin.Context, reason, message string) {
	Fail(c, http.StatusNotFound, reason, message)
}

func Conflict(c *gin.Context, reason, message string) {
	Fail(c, http.StatusConflict, reason, message)
}

func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, "internal_error", message)
}
