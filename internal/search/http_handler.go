package search

import (
	"fmt"
	"net/http"

	"bookreview/internal/book"
	"bookreview/internal/httpx"
	"bookreview/internal/pagination"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type resultPagination struct {
	pagination.Meta
	TotalResults int `json:"totalResults"`
}

type response struct {
	Books       []book.WithRating `json:"books"`
	SearchQuery string            `json:"searchQuery"`
	Pagination  resultPagination  `json:"pagination"`
}

// Search handles GET /api/search
// @Summary Search books by title or author
// @Tags search
// @Produce json
// @Param query query string true "Search text"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Router /api/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	res, err := h.svc.Search(r.Context(), query.Get("query"), pagination.Parse(query))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, fmt.Sprintf("Found %d books matching \"%s\"", res.Total, res.Query), response{
		Books:       res.Books,
		SearchQuery: res.Query,
		Pagination:  resultPagination{Meta: res.Meta(), TotalResults: res.Total},
	})
}
