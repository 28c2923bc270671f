package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eclatdining/eclat-api/internal/schema"
	"github.com/eclatdining/eclat-api/internal/storage"
	"github.com/eclatdining/eclat-api/internal/store"
	"github.com/eclatdining/eclat-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// MediaUploader stores an uploaded file and returns its public URL.
type MediaUploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// AdminHandler holds the operator-only routes.
type AdminHandler struct {
	store store.Store
	media MediaUploader
	now   func() time.Time
}

// NewAdminHandler builds the handler; media may be nil when object storage
// is not configured.
func NewAdminHandler(s store.Store, media MediaUploader) *AdminHandler {
	return &AdminHandler{store: s, media: media, now: time.Now}
}

// Register adds the admin routes. readers guard the listing, editors guard
// the routes that create content.
func (h *AdminHandler) Register(r gin.IRouter, readers, editors []gin.HandlerFunc) {
	r.POST("/admin/import-menu", chain(editors, h.ImportMenu)...)
	r.POST("/admin/gallery", chain(editors, h.UploadGallery)...)
	r.GET("/admin/reservations", chain(readers, h.ListReservations)...)
}

// ImportMenu bulk-inserts menu items. Items are never deduplicated.
func (h *AdminHandler) ImportMenu(c *gin.Context) {
	payload, ok := bindEntity[schema.MenuImport](c)
	if !ok {
		return
	}
	if !h.store.Available() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database not available"})
		return
	}
	docs := make([]any, 0, len(payload.Items))
	for _, it := range payload.Items {
		docs = append(docs, it)
	}
	n, err := h.store.CreateDocuments(c.Request.Context(), schema.KindMenuItem.Collection(), docs)
	if err != nil {
		if errors.Is(err, store.ErrStoreUnavailable) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database not available"})
			return
		}
		logger.Errorf("import menu: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to import menu items"})
		return
	}
	logger.Infof("imported %d menu items", n)
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Imported %d menu items", n)})
}

// ListReservations returns raw reservation records, newest first. Records
// without created_at come last.
func (h *AdminHandler) ListReservations(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	docs := h.store.GetDocuments(c.Request.Context(), schema.KindReservation.Collection(), nil, limit)
	for i := range docs {
		docs[i] = store.StripID(docs[i])
	}
	store.SortNewestFirst(docs)
	c.JSON(http.StatusOK, docs)
}

// UploadGallery stores a multipart image in object storage and records it
// as a GalleryImage.
func (h *AdminHandler) UploadGallery(c *gin.Context) {
	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media storage not configured"})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		validationFailed(c, []schema.FieldError{{Field: "file", Message: "field required"}})
		return
	}
	order, err := strconv.Atoi(strings.TrimSpace(c.DefaultPostForm("order", "0")))
	if err != nil {
		validationFailed(c, []schema.FieldError{{Field: "order", Message: "value is not a valid integer"}})
		return
	}
	if !h.store.Available() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not available"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		logger.Errorf("gallery upload: open %s: %v", fh.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer f.Close()

	key := storage.GalleryKey(fh.Filename, h.now())
	url, err := h.media.Upload(c.Request.Context(), key, f, fh.Size, fh.Header.Get("Content-Type"))
	if err != nil {
		logger.Errorf("gallery upload: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to upload image"})
		return
	}

	img := schema.GalleryImage{URL: url, Order: &order}
	if caption := strings.TrimSpace(c.PostForm("caption")); caption != "" {
		img.Caption = &caption
	}
	if errs := schema.Validate(&img); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}
	ref, err := h.store.CreateDocument(c.Request.Context(), img.Kind().Collection(), img)
	if err != nil {
		writeFailed(c, err, "gallery image")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "reference": ref, "url": url})
}
