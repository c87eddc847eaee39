package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"restaurant_reviews/internal/apperr"
	"restaurant_reviews/internal/logging"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Count   *int                `json:"count,omitempty"`
	Message string              `json:"message,omitempty"`
	Token   string              `json:"token,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Stack   string              `json:"stack,omitempty"`
}

// ErrorOptions controls how much of an error leaks to the client.
type ErrorOptions struct {
	ExposeStack bool
}

const errorOptionsKey = "errorOptions"

func errorOptionsFrom(c *gin.Context) ErrorOptions {
	if opts, ok := c.Get(errorOptionsKey); ok {
		return opts.(ErrorOptions)
	}
	return ErrorOptions{}
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func respondList(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Success: true, Message: message})
}

// respondError is the single exit for failed requests.
func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	status := appErr.Kind.Status()

	logger := logging.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	} else {
		logger.Debug().Err(err).Str("kind", appErr.Kind.String()).Int("status", status).Msg("Request rejected")
	}

	body := Envelope{Success: false, Message: appErr.Message, Errors: appErr.Fields}
	if errorOptionsFrom(c).ExposeStack {
		body.Stack = appErr.Stack()
	}
	c.AbortWithStatusJSON(status, body)
}

// ErrorResponder makes opts available to every later error response, and
// renders errors attached by middleware via c.Error when nothing has been
// written yet.
func ErrorResponder(opts ErrorOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(errorOptionsKey, opts)
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		respondError(c, c.Errors.Last().Err)
	}
}

// parseID treats a non-numeric id like an id that matches nothing.
func parseID(c *gin.Context, entity string) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		respondError(c, apperr.NotFound(entity, raw))
		return 0, false
	}
	return id, true
}

// bindBody decodes a JSON object body. An empty body is an empty object.
func bindBody(c *gin.Context) (map[string]any, bool) {
	input := map[string]any{}
	if err := c.ShouldBindJSON(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, true
		}
		respondError(c, apperr.Invalid("Request body must be a JSON object"))
		return nil, false
	}
	if input == nil {
		input = map[string]any{}
	}
	return input, true
}
