package book

import (
	"net/http"
	"strconv"
	"strings"

	"bookreview/internal/auth"
	"bookreview/internal/httpx"
	"bookreview/internal/pagination"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type listPagination struct {
	pagination.Meta
	TotalBooks int `json:"totalBooks"`
}

type listResponse struct {
	Books      []WithRating   `json:"books"`
	Pagination listPagination `json:"pagination"`
}

// Create handles POST /api/books
// @Summary Add a new book
// @Tags books
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreateInput true "Book"
// @Success 201 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 401 {object} httpx.Envelope
// @Router /api/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req CreateInput
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	b, err := h.service.Create(r.Context(), req, id.UserID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, "Book added successfully", b)
}

// List handles GET /api/books
// @Summary List books
// @Tags books
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param author query string false "Author contains"
// @Param genre query string false "Genre contains"
// @Param year query int false "Published year"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Success 200 {object} httpx.Envelope
// @Router /api/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := Query{
		Author: strings.TrimSpace(query.Get("author")),
		Genre:  strings.TrimSpace(query.Get("genre")),
		Sort:   query.Get("sort"),
		Desc:   true,
	}
	if params.Sort != "" {
		params.Desc = query.Get("order") != "asc"
	}

	if val, ok := leadingInt(query.Get("year")); ok {
		params.Year = &val
	}

	page, err := h.service.List(r.Context(), params, pagination.Parse(query))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, "Books retrieved successfully", listResponse{
		Books:      page.Books,
		Pagination: listPagination{Meta: page.Meta(), TotalBooks: page.Total},
	})
}

// Get handles GET /api/books/{id}
// @Summary Get a book with its rating and reviews
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Param page query int false "Review page"
// @Param limit query int false "Reviews per page"
// @Success 200 {object} httpx.Envelope
// @Failure 400 {object} httpx.Envelope
// @Failure 404 {object} httpx.Envelope
// @Router /api/books/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetByID(r.Context(), r.PathValue("id"), pagination.Parse(r.URL.Query()))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, "Book details retrieved successfully", detail)
}

// leadingInt reads the integer at the start of s, ignoring trailing
// characters, so "2001abc" is 2001. ok is false when s has no leading digits.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
