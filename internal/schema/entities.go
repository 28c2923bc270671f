package schema

import (
	"encoding/json"
	"time"
)

// Core content

type MenuItem struct {
	Name        string   `json:"name" bson:"name" validate:"required"`
	Description *string  `json:"description" bson:"description"`
	Price       *float64 `json:"price" bson:"price" validate:"required,gte=0"`
	// Category is one of Pizzas | Pastas | Starters | Desserts | Drinks by
	// convention only.
	Category   string  `json:"category" bson:"category" validate:"required"`
	ImageURL   *string `json:"image_url" bson:"image_url"`
	Featured   bool    `json:"featured" bson:"featured"`
	Vegetarian bool    `json:"vegetarian" bson:"vegetarian"`
}

func (MenuItem) Kind() Kind { return KindMenuItem }

func (m *MenuItem) SetDefaults() {
	m.Vegetarian = true
}

// UnmarshalJSON applies the field defaults before decoding so that items
// nested in a MenuImport get them as well.
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	type plain MenuItem
	var p plain
	(*MenuItem)(&p).SetDefaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = MenuItem(p)
	return nil
}

type Special struct {
	Title           string     `json:"title" bson:"title" validate:"required"`
	Description     *string    `json:"description" bson:"description"`
	DiscountPercent *int       `json:"discount_percent" bson:"discount_percent" validate:"omitempty,gte=0,lte=100"`
	ValidUntil      *time.Time `json:"valid_until" bson:"valid_until"`
	HeroImageURL    *string    `json:"hero_image_url" bson:"hero_image_url"`
	CTAText         *string    `json:"cta_text" bson:"cta_text"`
	Active          bool       `json:"active" bson:"active"`
}

func (Special) Kind() Kind { return KindSpecial }

func (s *Special) SetDefaults() {
	cta := "Reserve Now"
	s.CTAText = &cta
	s.Active = true
}

func (s *Special) UnmarshalJSON(data []byte) error {
	type plain Special
	var p plain
	(*Special)(&p).SetDefaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Special(p)
	return nil
}

type GalleryImage struct {
	URL     string  `json:"url" bson:"url" validate:"required"`
	Caption *string `json:"caption" bson:"caption"`
	Order   *int    `json:"order" bson:"order"`
}

func (GalleryImage) Kind() Kind { return KindGalleryImage }

func (g *GalleryImage) SetDefaults() {
	order := 0
	g.Order = &order
}

func (g *GalleryImage) UnmarshalJSON(data []byte) error {
	type plain GalleryImage
	var p plain
	(*GalleryImage)(&p).SetDefaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*g = GalleryImage(p)
	return nil
}

type Testimonial struct {
	Name      string  `json:"name" bson:"name" validate:"required"`
	Rating    int     `json:"rating" bson:"rating" validate:"gte=1,lte=5"`
	Comment   string  `json:"comment" bson:"comment" validate:"required"`
	AvatarURL *string `json:"avatar_url" bson:"avatar_url"`
	Featured  bool    `json:"featured" bson:"featured"`
}

func (Testimonial) Kind() Kind { return KindTestimonial }

func (t *Testimonial) SetDefaults() {
	t.Rating = 5
}

func (t *Testimonial) UnmarshalJSON(data []byte) error {
	type plain Testimonial
	var p plain
	(*Testimonial)(&p).SetDefaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*t = Testimonial(p)
	return nil
}

// Interactions

type ContactMessage struct {
	Name    string `json:"name" bson:"name" validate:"required"`
	Email   string `json:"email" bson:"email" validate:"required,email"`
	Message string `json:"message" bson:"message" validate:"required"`
}

func (ContactMessage) Kind() Kind { return KindContactMessage }

// Reservation is a booking request. Date ("YYYY-MM-DD") and Time ("HH:MM")
// are kept as the strings the guest typed; nothing checks capacity.
type Reservation struct {
	Name             string  `json:"name" bson:"name" validate:"required"`
	Email            string  `json:"email" bson:"email" validate:"required,email"`
	Phone            *string `json:"phone" bson:"phone"`
	Date             string  `json:"date" bson:"date" validate:"required"`
	Time             string  `json:"time" bson:"time" validate:"required"`
	Guests           *int    `json:"guests" bson:"guests" validate:"required,gte=1,lte=20"`
	Notes            *string `json:"notes" bson:"notes"`
	Paid             bool    `json:"paid" bson:"paid"`
	PaymentReference *string `json:"payment_reference" bson:"payment_reference"`
}

func (Reservation) Kind() Kind { return KindReservation }

// ReservationRequest is the body of POST /api/reservations.
type ReservationRequest struct {
	Reservation `bson:",inline"`
	PayNow      bool `json:"pay_now" bson:"pay_now"`
}

// Admin & telemetry

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

type AdminUser struct {
	Email        string `json:"email" bson:"email" validate:"required,email"`
	PasswordHash string `json:"password_hash" bson:"password_hash" validate:"required"`
	Role         string `json:"role" bson:"role" validate:"oneof=admin editor viewer"`
	Active       bool   `json:"active" bson:"active"`
}

func (AdminUser) Kind() Kind { return KindAdminUser }

func (a *AdminUser) SetDefaults() {
	a.Role = RoleAdmin
	a.Active = true
}

func (a *AdminUser) UnmarshalJSON(data []byte) error {
	type plain AdminUser
	var p plain
	(*AdminUser)(&p).SetDefaults()
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = AdminUser(p)
	return nil
}

// AnalyticsEvent is a telemetry record. Type is page_view,
// reservation_submit, contact_submit, conversion or custom by convention.
// IP and ReceivedAt are always overwritten by the server.
type AnalyticsEvent struct {
	Type       string         `json:"type" bson:"type" validate:"required"`
	Path       *string        `json:"path" bson:"path"`
	Metadata   map[string]any `json:"metadata" bson:"metadata" validate:"omitempty,metadata"`
	UserAgent  *string        `json:"user_agent" bson:"user_agent"`
	IP         *string        `json:"ip" bson:"ip"`
	ReceivedAt *time.Time     `json:"-" bson:"received_at,omitempty"`
}

func (AnalyticsEvent) Kind() Kind { return KindAnalyticsEvent }

// MenuImport is the body of POST /admin/import-menu.
type MenuImport struct {
	Items []MenuItem `json:"items" validate:"required,dive"`
}
