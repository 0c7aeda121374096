package review

import (
	"net/http"

	"bookreview/internal/auth"
	"bookreview/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Add handles POST /api/books/{id}/reviews
// @Summary Add a review to a book
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Book ID"
// @Param request body AddInput true "Review"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 401 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /api/books/{id}/reviews [post]
func (h *HTTPHandler) Add(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req AddInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	rv, err := h.service.Add(r.Context(), r.PathValue("id"), id.UserID, req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, "Review added successfully", rv)
}

// Update handles PUT /api/reviews/{id}
// @Summary Update your review
// @Tags reviews
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Review ID"
// @Param request body Patch true "Fields to change"
// @Success 200 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 403 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /api/reviews/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req Patch
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	rv, err := h.service.Update(r.Context(), r.PathValue("id"), id.UserID, req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "Review updated successfully", rv)
}

// Delete handles DELETE /api/reviews/{id}
// @Summary Delete your review
// @Tags reviews
// @Produce json
// @Security Bearer
// @Param id path string true "Review ID"
// @Success 200 {object} httpx.Envelope
// @Failure 403 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /api/reviews/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	if err := h.service.Delete(r.Context(), r.PathValue("id"), id.UserID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "Review deleted successfully", nil)
}
