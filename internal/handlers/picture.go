package handlers

import (
	"encoding/json"
	"net/http"

	"locket-backend/internal/middleware"
	"locket-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 20 << 20 // 20 MiB

// PictureHandler handles picture upload, feed and detail endpoints
type PictureHandler struct {
	pictureService *services.PictureService
}

// NewPictureHandler creates a new picture handler
func NewPictureHandler(pictureService *services.PictureService) *PictureHandler {
	return &PictureHandler{pictureService: pictureService}
}

// Upload handles POST /picture/upload (multipart)
func (h *PictureHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondBadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, "No image file provided")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	pic, err := h.pictureService.Upload(
		ctx, user.ID, file, header.Filename, contentType,
		r.FormValue("message"), r.FormValue("time"), r.FormValue("location"),
	)
	if err != nil {
		respondError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("picture_id", pic.ID).
		Msg("Picture uploaded")
	respondSuccess(w, "Upload successfully", pic)
}

// List handles GET /picture/list
func (h *PictureHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)
	page, limit := pageParams(r)

	pictures, meta, err := h.pictureService.List(ctx, user.ID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Pictures retrieved successfully",
		Meta:    meta,
		Data:    pictures,
	})
}

// Detail handles GET /picture/detail/{id}
func (h *PictureHandler) Detail(w http.ResponseWriter, r *http.Request) {
	pic, err := h.pictureService.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Picture retrieved successfully", pic)
}

type reactionBody struct {
	PictureID string `json:"pictureId"`
	Icon      string `json:"icon"`
}

// React handles POST /picture/reaction
func (h *PictureHandler) React(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	var req reactionBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	if err := h.pictureService.React(ctx, req.PictureID, user.ID, req.Icon); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Reaction added", nil)
}
