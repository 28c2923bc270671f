package handlers

import (
	"errors"
	"net/http"

	"github.com/eclatdining/eclat-api/internal/schema"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/eclatdining/eclat-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ContentHandler serves the public read-only content of the website.
type ContentHandler struct {
	store store.Store
}

func NewContentHandler(s store.Store) *ContentHandler {
	return &ContentHandler{store: s}
}

func (h *ContentHandler) Register(r gin.IRouter) {
	r.GET("/api/menu", h.Menu)
	r.GET("/api/specials", h.Specials)
	r.GET("/api/gallery", h.Gallery)
	r.GET("/api/testimonials", h.Testimonials)
}

// Menu lists menu items, optionally narrowed by category and featured.
func (h *ContentHandler) Menu(c *gin.Context) {
	filter := store.Filter{}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}
	featured, ok := queryBool(c, "featured")
	if !ok {
		return
	}
	if featured != nil {
		filter["featured"] = *featured
	}
	listEntities[schema.MenuItem](c, h.store, schema.KindMenuItem, filter)
}

// Specials lists active specials unless the caller explicitly passes a
// falsy active value, in which case every special is returned.
func (h *ContentHandler) Specials(c *gin.Context) {
	active, ok := queryBool(c, "active")
	if !ok {
		return
	}
	filter := store.Filter{}
	if active == nil || *active {
		filter["active"] = true
	}
	listEntities[schema.Special](c, h.store, schema.KindSpecial, filter)
}

func (h *ContentHandler) Gallery(c *gin.Context) {
	listEntities[schema.GalleryImage](c, h.store, schema.KindGalleryImage, nil)
}

// Testimonials only ever returns featured reviews.
func (h *ContentHandler) Testimonials(c *gin.Context) {
	listEntities[schema.Testimonial](c, h.store, schema.KindTestimonial, store.Filter{"featured": true})
}

// listEntities fetches a collection, strips the store identifier and runs
// every record back through the schema before responding.
func listEntities[T any](c *gin.Context, s store.Store, kind schema.Kind, filter store.Filter) {
	docs := s.GetDocuments(c.Request.Context(), kind.Collection(), filter, 0)
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		v, err := schema.FromDocument[T](store.StripID(d))
		if err != nil {
			var drift *schema.DriftError
			if errors.As(err, &drift) {
				logger.Errorf("list %s: %v", kind.Collection(), drift)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "stored " + kind.String() + " record is invalid"})
				return
			}
			logger.Errorf("list %s: %v", kind.Collection(), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read " + kind.String()})
			return
		}
		out = append(out, v)
	}
	c.JSON(http.StatusOK, out)
}
