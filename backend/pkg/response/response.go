package response

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// Landing pages a denied request is sent back to
const (
	LoginPage     = "/admin/login"
	DashboardPage = "/admin/dashboard"
)

// Error codes carried in Response.Code
const (
	CodeValidation      = 10001
	CodeUnauthenticated = 10002
	CodeDenied          = 10003
	CodeRateLimited     = 10004
	CodeBodyTooLarge    = 10005
	CodeNotFound        = 10006
	CodeConflict        = 10007
	CodeTokenExpired    = 10008
	CodeTokenInvalid    = 10009
	CodeInternal        = 50000
)

// Response common envelope
type Response struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data,omitempty"`
	Redirect string      `json:"redirect,omitempty"`
}

// ── success ──

// OK 200
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// OKMessage 200 with a user-facing message and an optional next page
func OKMessage(c *gin.Context, message, redirect string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:     0,
		Message:  message,
		Data:     data,
		Redirect: redirect,
	})
}

// Created 201
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Attachment streams a generated file as a download
func Attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, body)
}

// ── errors ──

// Error generic error envelope
func Error(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// ErrorRedirect error envelope pointing the client to a safe landing page
func ErrorRedirect(c *gin.Context, httpStatus int, code int, message, redirect string) {
	c.JSON(httpStatus, Response{
		Code:     code,
		Message:  message,
		Redirect: redirect,
	})
}

// BadRequest 400
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401, always back to the login page
func Unauthorized(c *gin.Context, code int, message string) {
	ErrorRedirect(c, http.StatusUnauthorized, code, message, LoginPage)
}

// Forbidden 403, back to the dashboard
func Forbidden(c *gin.Context, code int, message string) {
	ErrorRedirect(c, http.StatusForbidden, code, message, DashboardPage)
}

// NotFound 404
func NotFound(c *gin.Context, code int, message string) {
	Error(c, http.StatusNotFound, code, message)
}

// Conflict 409
func Conflict(c *gin.Context, code int, message string) {
	Error(c, http.StatusConflict, code, message)
}

// InternalError 500. Never carries the underlying cause.
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "Erro interno. Tente novamente mais tarde.")
}
