package response

import (
	"net/http"

	"student-data-system/config"
	"student-data-system/internal/global/logger"

	"github.com/gin-gonic/gin"
)

// Error taxonomy. Codes are stable, statuses follow spec'd HTTP
// semantics (401 unauthenticated, 403 forbidden, 404 missing row,
// 409 uniqueness conflict, 400 malformed input).
var (
	ErrInvalidRequest     = newError(40000, http.StatusBadRequest, "invalid request")
	ErrMalformedFile      = newError(40001, http.StatusBadRequest, "unreadable spreadsheet file")
	ErrInvalidCredentials = newError(40100, http.StatusUnauthorized, "invalid credentials")
	ErrTokenInvalid       = newError(40101, http.StatusUnauthorized, "missing or invalid token")
	ErrForbidden          = newError(40300, http.StatusForbidden, "forbidden")
	ErrNotFound           = newError(40400, http.StatusNotFound, "record not found")
	ErrAlreadyExists      = newError(40900, http.StatusConflict, "record already exists")
	ErrTooManyAttempts    = newError(42900, http.StatusTooManyRequests, "too many login attempts")
	ErrDatabase           = newError(50000, http.StatusInternalServerError, "database error")
	ErrServerInternal     = newError(50001, http.StatusInternalServerError, "internal server error")
)

const codeSuccess int32 = 200

// ResponseBody is the uniform JSON envelope of every endpoint.
type ResponseBody struct {
	Code int32  `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// Success writes the 200 envelope, with at most one data payload.
func Success(c *gin.Context, data ...any) {
	body := ResponseBody{
		Code: codeSuccess,
		Msg:  "success",
	}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusOK, body)
}

// Created writes the 201 envelope for successful resource creation.
func Created(c *gin.Context, data ...any) {
	body := ResponseBody{
		Code: codeSuccess,
		Msg:  "success",
	}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusCreated, body)
}

// Fail writes the error envelope. Non-*Error values are wrapped as an
// internal error so the client never sees a raw Go error string.
func Fail(c *gin.Context, err error) {
	e, ok := err.(*Error)
	if !ok {
		e = ErrServerInternal.WithOrigin(err)
	}

	body := ResponseBody{
		Code: e.Code,
		Msg:  e.Message,
	}
	// origin detail is debug-only
	if config.Get().Mode == config.ModeDebug && e.Origin != "" {
		body.Data = gin.H{"origin": e.Origin}
	}
	c.JSON(e.Status(), body)
}

// Recovery is installed via middleware.Recovery and turns panics into a
// logged 500 response.
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		logger.New("Recovery").Error("panic recovered",
			"panic", r,
			"path", c.Request.URL.Path,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ResponseBody{
			Code: ErrServerInternal.Code,
			Msg:  ErrServerInternal.Message,
		})
	}
}
