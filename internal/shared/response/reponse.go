package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const resultKey = "response.result"

// Envelope is the body of every API response.
type Envelope struct {
	StatusCode    int         `json:"statusCode"`
	IsSuccess     bool        `json:"isSuccess"`
	Result        interface{} `json:"result"`
	ErrorMessages []string    `json:"errorMessages"`
}

// Result is what a handler produces. It is turned into an Envelope once,
// by Render, after every post-processing middleware has seen it.
type Result struct {
	StatusCode int
	Data       interface{}
	Errors     []string
	Location   string
}

func (r Result) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Envelope builds the response body.
func (r Result) Envelope() Envelope {
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	return Envelope{
		StatusCode:    r.StatusCode,
		IsSuccess:     r.IsSuccess(),
		Result:        r.Data,
		ErrorMessages: errs,
	}
}

// TransportStatus is 201 for Created and 200 for every other logical status.
func (r Result) TransportStatus() int {
	if r.StatusCode == http.StatusCreated {
		return http.StatusCreated
	}
	return http.StatusOK
}

// =====================================================
// CONSTRUCTORS
// =====================================================

func OK(data interface{}) Result {
	return Result{StatusCode: http.StatusOK, Data: data}
}

// Created carries the URL of the new resource in the Location header.
func Created(location string, data interface{}) Result {
	return Result{StatusCode: http.StatusCreated, Data: data, Location: location}
}

func NoContent() Result {
	return Result{StatusCode: http.StatusNoContent}
}

func BadRequest(messages ...string) Result {
	return Result{StatusCode: http.StatusBadRequest, Errors: messages}
}

func Unauthorized(messages ...string) Result {
	return Result{StatusCode: http.StatusUnauthorized, Errors: messages}
}

func Forbidden(messages ...string) Result {
	return Result{StatusCode: http.StatusForbidden, Errors: messages}
}

func NotFound(messages ...string) Result {
	return Result{StatusCode: http.StatusNotFound, Errors: messages}
}

func InternalError(err error) Result {
	return Result{StatusCode: http.StatusInternalServerError, Errors: []string{err.Error()}}
}

// Error builds a failure result with an explicit logical status.
func Error(status int, messages ...string) Result {
	return Result{StatusCode: status, Errors: messages}
}

// =====================================================
// GIN INTEGRATION
// =====================================================

// HandlerFunc is a gin handler that returns its outcome.
type HandlerFunc func(c *gin.Context) Result

// Handle adapts fn to gin, storing its Result for Render.
func Handle(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		Set(c, fn(c))
	}
}

func Set(c *gin.Context, r Result) {
	c.Set(resultKey, r)
}

// From returns the Result stored by the handler, if any.
func From(c *gin.Context) (Result, bool) {
	v, ok := c.Get(resultKey)
	if !ok {
		return Result{}, false
	}
	r, ok := v.(Result)
	return r, ok
}

// Render writes the envelope once the rest of the chain has returned.
// Requests that already wrote a body (rejections, file downloads) are left
// alone.
func Render() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		r, ok := From(c)
		if !ok {
			return
		}
		if r.Location != "" {
			c.Header("Location", r.Location)
		}
		c.JSON(r.TransportStatus(), r.Envelope())
	}
}

// Abort stops the chain and writes r with its logical status as the
// transport status. Used by middleware that rejects before a handler runs.
func Abort(c *gin.Context, r Result) {
	c.AbortWithStatusJSON(r.StatusCode, r.Envelope())
}
