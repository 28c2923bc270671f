package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/eclatdining/eclat-api/internal/schema"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/eclatdining/eclat-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// bindEntity reads the request body through the schema gate. On failure it
// writes the 422 response and returns false.
func bindEntity[T any](c *gin.Context) (T, bool) {
	var zero T
	raw, err := c.GetRawData()
	if err != nil {
		validationFailed(c, []schema.FieldError{{Field: "body", Message: "could not read request body"}})
		return zero, false
	}
	res := schema.Decode[T](raw)
	if !res.OK() {
		validationFailed(c, res.Errors)
		return zero, false
	}
	return res.Value, true
}

func validationFailed(c *gin.Context, details []schema.FieldError) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": details})
}

// writeFailed maps a store write error to a response. what names the record
// in the 500 body.
func writeFailed(c *gin.Context, err error, what string) {
	if errors.Is(err, store.ErrStoreUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not available"})
		return
	}
	logger.Errorf("store %s: %v", what, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store " + what})
}

// queryBool parses an optional boolean query parameter. The second result
// is false when the value was present but not a boolean; the 422 response
// has then been written.
func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw, present := c.GetQuery(name)
	if !present {
		return nil, true
	}
	var v bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "on", "t":
		v = true
	case "false", "0", "no", "n", "off", "f":
		v = false
	default:
		validationFailed(c, []schema.FieldError{{Field: name, Message: "value could not be parsed to a boolean"}})
		return nil, false
	}
	return &v, true
}

// queryInt parses an optional integer query parameter, falling back to def.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw, present := c.GetQuery(name)
	if !present {
		return def, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		validationFailed(c, []schema.FieldError{{Field: name, Message: "value is not a valid integer"}})
		return 0, false
	}
	return n, true
}

// chain returns a fresh handler slice so guards passed to Register are never
// shared between routes.
func chain(guards []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}
