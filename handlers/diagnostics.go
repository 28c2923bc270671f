package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/eclatdining/eclat-api/internal/config"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// errorPreviewLen bounds error text echoed by /test.
const errorPreviewLen = 50

// Diagnostics is the snapshot returned by GET /test. All fields are
// human-readable strings.
type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// DiagnosticsHandler serves the liveness, readiness and connectivity routes.
type DiagnosticsHandler struct {
	store store.Store
	db    config.DatabaseConfig
}

func NewDiagnosticsHandler(s store.Store, db config.DatabaseConfig) *DiagnosticsHandler {
	return &DiagnosticsHandler{store: s, db: db}
}

func (h *DiagnosticsHandler) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/test", h.Test)
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", h.Ready)
}

func (h *DiagnosticsHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Éclat Dining API running"})
}

// Test reports store connectivity and whether the database settings are
// present. It always answers 200.
func (h *DiagnosticsHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, h.Snapshot(c.Request.Context()))
}

func (h *DiagnosticsHandler) Snapshot(ctx context.Context) Diagnostics {
	d := Diagnostics{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		DatabaseURL:      presence(h.db.URL),
		DatabaseName:     presence(h.db.Name),
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}
	if h.store == nil || !h.store.Available() {
		return d
	}
	d.Database = "✅ Available"
	d.ConnectionStatus = "Connected"
	names, err := h.store.Collections(ctx)
	if err != nil {
		d.Database = "⚠️  Connected but Error: " + preview(err.Error(), errorPreviewLen)
		return d
	}
	if len(names) > 10 {
		names = names[:10]
	}
	d.Collections = append(d.Collections, names...)
	d.Database = "✅ Connected & Working"
	return d
}

// Ready answers 200 only when the document store is reachable.
func (h *DiagnosticsHandler) Ready(c *gin.Context) {
	deps := map[string]bool{"store": false}
	if h.store != nil && h.store.Available() {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		deps["store"] = h.store.Ping(ctx) == nil
		cancel()
	}
	uptime := time.Since(startTime).String()
	if !deps["store"] {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
}

func presence(v string) string {
	if v != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
