package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/eclatdining/eclat-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/api/specials", func(c *gin.Context) { c.JSON(http.StatusUnprocessableEntity, gin.H{}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/specials?active=maybe", nil))

	out := buf.String()
	require.Contains(t, out, "status=422")
	require.Contains(t, out, `path="/api/specials?active=maybe"`)
	require.Contains(t, out, "level=warning")
}
