package handlers

import (
	"net/http"

	"distance-backend/internal/middleware"
	"distance-backend/internal/models"
	"distance-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ImageHandler handles the pairwise shared background images.
type ImageHandler struct {
	imageService *services.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService *services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// ImagesResponse lists the pair's shared images.
type ImagesResponse struct {
	Images []*models.Image `json:"images"`
}

// List handles GET /friends/{friend_id}/add_images/
func (h *ImageHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "friend_id")

	images, err := h.imageService.ListFor(ctx, userID, friendID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ImagesResponse{Images: images})
}

// Confirm handles POST /friends/{friend_id}/image_confirm/ with field
// image_url
func (h *ImageHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "friend_id")

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	if _, err := h.imageService.Add(ctx, userID, friendID, r.FormValue("image_url")); err != nil {
		log.Error().Err(err).
			Str("user_id", userID).
			Str("friend_id", friendID).
			Msg("Failed to add shared image")
		respondAppError(w, err)
		return
	}

	respondNotice(w, "You have successfully added an image.")
}

// Delete handles POST /friends/{friend_id}/del_img/ with per-image
// field <image_url>=X. A form matching no image is a no-op.
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	friendID := chi.URLParam(r, "friend_id")

	if err := r.ParseForm(); err != nil {
		respondError(w, "Invalid form body", http.StatusBadRequest)
		return
	}

	images, err := h.imageService.ListFor(ctx, userID, friendID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	for _, img := range images {
		if r.PostForm.Get(img.ImageURL) != "X" {
			continue
		}
		removed, err := h.imageService.DeleteByURL(ctx, userID, friendID, img.ImageURL)
		if err != nil {
			respondAppError(w, err)
			return
		}
		if removed {
			respondNotice(w, "Image deleted.")
			return
		}
	}

	respondNotice(w, "No matching image.")
}
