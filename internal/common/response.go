package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "ok", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "ok", Data: data})
}

func Fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, Response{Code: code, Message: msg, Data: nil})
}

// FailErr maps a domain error onto the envelope. Unknown errors become a
// generic 500 so internals never leak to the client.
func FailErr(c *gin.Context, err error) {
	switch KindOf(err) {
	case KindNotFound:
		Fail(c, http.StatusNotFound, 40400, err.Error())
	case KindConflict:
		Fail(c, http.StatusConflict, 40900, err.Error())
	case KindInvalidReference:
		Fail(c, http.StatusUnprocessableEntity, 42200, err.Error())
	case KindInvalidArgument:
		Fail(c, http.StatusBadRequest, 40000, err.Error())
	case KindForbidden:
		Fail(c, http.StatusForbidden, 40300, err.Error())
	case KindUnauthorized:
		Fail(c, http.StatusUnauthorized, 40100, err.Error())
	case KindUnavailable:
		Fail(c, http.StatusServiceUnavailable, 50300, "storage temporarily unavailable")
	default:
		Fail(c, http.StatusInternalServerError, 50000, "internal error")
	}
}
