package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Éclat Dining API — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// OpenAPI document for the public and admin routes.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "Éclat Dining API", "version": "1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "MenuItem": { "type": "object", "required": ["name","price","category"], "properties": { "name": {"type":"string"}, "description": {"type":"string","nullable":true}, "price": {"type":"number","minimum":0}, "category": {"type":"string"}, "image_url": {"type":"string","nullable":true}, "featured": {"type":"boolean","default":false}, "vegetarian": {"type":"boolean","default":true} } },
      "Special": { "type": "object", "required": ["title"], "properties": { "title": {"type":"string"}, "description": {"type":"string","nullable":true}, "discount_percent": {"type":"integer","minimum":0,"maximum":100,"nullable":true}, "valid_until": {"type":"string","format":"date-time","nullable":true}, "hero_image_url": {"type":"string","nullable":true}, "cta_text": {"type":"string","default":"Reserve Now"}, "active": {"type":"boolean","default":true} } },
      "GalleryImage": { "type": "object", "required": ["url"], "properties": { "url": {"type":"string"}, "caption": {"type":"string","nullable":true}, "order": {"type":"integer","default":0} } },
      "Testimonial": { "type": "object", "required": ["name","comment"], "properties": { "name": {"type":"string"}, "rating": {"type":"integer","minimum":1,"maximum":5,"default":5}, "comment": {"type":"string"}, "avatar_url": {"type":"string","nullable":true}, "featured": {"type":"boolean","default":false} } },
      "ContactMessage": { "type": "object", "required": ["name","email","message"], "properties": { "name": {"type":"string"}, "email": {"type":"string","format":"email"}, "message": {"type":"string"} } },
      "ReservationRequest": { "type": "object", "required": ["name","email","date","time","guests"], "properties": { "name": {"type":"string"}, "email": {"type":"string","format":"email"}, "phone": {"type":"string","nullable":true}, "date": {"type":"string","example":"2026-12-24"}, "time": {"type":"string","example":"19:30"}, "guests": {"type":"integer","minimum":1,"maximum":20}, "notes": {"type":"string","nullable":true}, "pay_now": {"type":"boolean","default":false} } },
      "AnalyticsEvent": { "type": "object", "required": ["type"], "properties": { "type": {"type":"string"}, "path": {"type":"string","nullable":true}, "metadata": {"type":"object","nullable":true}, "user_agent": {"type":"string","nullable":true} } },
      "ValidationError": { "type": "object", "properties": { "error": {"type":"string"}, "details": { "type":"array", "items": { "type":"object", "properties": { "field": {"type":"string"}, "message": {"type":"string"} } } } } }
    }
  },
  "paths": {
    "/": { "get": { "summary": "Liveness message", "responses": { "200": { "description": "running" } } } },
    "/api/menu": { "get": { "summary": "List menu items", "parameters": [ {"name":"category","in":"query","schema":{"type":"string"}}, {"name":"featured","in":"query","schema":{"type":"boolean"}} ], "responses": { "200": { "description": "menu items", "content": { "application/json": { "schema": {"type":"array","items":{"$ref":"#/components/schemas/MenuItem"}} } } } } } },
    "/api/specials": { "get": { "summary": "List specials (active only unless active=false)", "parameters": [ {"name":"active","in":"query","schema":{"type":"boolean","default":true}} ], "responses": { "200": { "description": "specials", "content": { "application/json": { "schema": {"type":"array","items":{"$ref":"#/components/schemas/Special"}} } } } } } },
    "/api/gallery": { "get": { "summary": "List gallery images", "responses": { "200": { "description": "images", "content": { "application/json": { "schema": {"type":"array","items":{"$ref":"#/components/schemas/GalleryImage"}} } } } } } },
    "/api/testimonials": { "get": { "summary": "List featured testimonials", "responses": { "200": { "description": "testimonials", "content": { "application/json": { "schema": {"type":"array","items":{"$ref":"#/components/schemas/Testimonial"}} } } } } } },
    "/api/contact": { "post": { "summary": "Submit the contact form", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/ContactMessage"} } } }, "responses": { "200": { "description": "stored" }, "422": { "description": "validation failed" }, "503": { "description": "database not available" } } } },
    "/api/reservations": { "post": { "summary": "Request a reservation", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/ReservationRequest"} } } }, "responses": { "200": { "description": "stored, with payment_reference when pay_now" }, "422": { "description": "validation failed" }, "503": { "description": "database not available" } } } },
    "/api/analytics": { "post": { "summary": "Record an analytics event", "requestBody": { "content": { "application/json": { "schema": {"$ref":"#/components/schemas/AnalyticsEvent"} } } }, "responses": { "200": { "description": "stored" }, "422": { "description": "validation failed" } } } },
    "/admin/login": { "post": { "summary": "Exchange admin credentials for a bearer token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}} } } }, "responses": { "200": { "description": "access_token, expires_in, role" }, "401": { "description": "invalid credentials" } } } },
    "/admin/logout": { "post": { "summary": "Revoke the presented admin token", "security": [ {"bearer": []} ], "responses": { "200": { "description": "logged out" }, "401": { "description": "missing or invalid token" } } } },
    "/admin/import-menu": { "post": { "summary": "Bulk import menu items", "security": [ {"bearer": []} ], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"items":{"type":"array","items":{"$ref":"#/components/schemas/MenuItem"}}}} } } }, "responses": { "200": { "description": "imported" }, "500": { "description": "database not available" } } } },
    "/admin/reservations": { "get": { "summary": "List reservations newest first", "security": [ {"bearer": []} ], "parameters": [ {"name":"limit","in":"query","schema":{"type":"integer","default":100}} ], "responses": { "200": { "description": "raw reservation records" } } } },
    "/admin/gallery": { "post": { "summary": "Upload a gallery image", "security": [ {"bearer": []} ], "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","properties":{"file":{"type":"string","format":"binary"},"caption":{"type":"string"},"order":{"type":"integer"}}} } } }, "responses": { "201": { "description": "uploaded" }, "503": { "description": "media storage not configured" } } } },
    "/test": { "get": { "summary": "Database diagnostics", "responses": { "200": { "description": "snapshot" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
