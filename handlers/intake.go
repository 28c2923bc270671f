package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/eclatdining/eclat-api/internal/schema"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/gin-gonic/gin"
)

// IntakeHandler accepts the website forms. Every route is create-only.
type IntakeHandler struct {
	store store.Store
	now   func() time.Time
}

func NewIntakeHandler(s store.Store) *IntakeHandler {
	return &IntakeHandler{store: s, now: time.Now}
}

// Register adds the intake routes; guards (rate limiting) run before each.
func (h *IntakeHandler) Register(r gin.IRouter, guards ...gin.HandlerFunc) {
	r.POST("/api/contact", chain(guards, h.Contact)...)
	r.POST("/api/reservations", chain(guards, h.Reservation)...)
	r.POST("/api/analytics", chain(guards, h.Analytics)...)
}

func (h *IntakeHandler) Contact(c *gin.Context) {
	msg, ok := bindEntity[schema.ContactMessage](c)
	if !ok {
		return
	}
	ref, err := h.store.CreateDocument(c.Request.Context(), msg.Kind().Collection(), msg)
	if err != nil {
		writeFailed(c, err, "contact message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "reference": ref})
}

// Reservation stores a booking. With pay_now a placeholder payment reference
// is generated; no payment provider is contacted.
func (h *IntakeHandler) Reservation(c *gin.Context) {
	req, ok := bindEntity[schema.ReservationRequest](c)
	if !ok {
		return
	}
	req.PaymentReference = nil
	if req.PayNow {
		pay := fmt.Sprintf("PAY-%d", h.now().UTC().Unix())
		req.PaymentReference = &pay
	}
	ref, err := h.store.CreateDocument(c.Request.Context(), req.Kind().Collection(), req)
	if err != nil {
		writeFailed(c, err, "reservation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "reference": ref, "payment_reference": req.PaymentReference})
}

// Analytics records a telemetry event. ip and received_at always come from
// the server.
func (h *IntakeHandler) Analytics(c *gin.Context) {
	ev, ok := bindEntity[schema.AnalyticsEvent](c)
	if !ok {
		return
	}
	ip := c.ClientIP()
	received := h.now().UTC()
	ev.IP = &ip
	ev.ReceivedAt = &received
	ref, err := h.store.CreateDocument(c.Request.Context(), ev.Kind().Collection(), ev)
	if err != nil {
		writeFailed(c, err, "analytics event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ref": ref})
}
