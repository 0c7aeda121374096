package review

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookreview/internal/auth"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestHTTPHandler_Add(t *testing.T) {
	svc, repo := newService(t)
	handler := NewHTTPHandler(svc)
	caller := auth.Identity{UserID: ownerID, Username: "owner"}

	t.Run("created", func(t *testing.T) {
		repo.EXPECT().BookExists(gomock.Any(), bookID).Return(true, nil)
		repo.EXPECT().ExistsForUserAndBook(gomock.Any(), ownerID, bookID).Return(false, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		repo.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(stored(), nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books/"+bookID+"/reviews",
			strings.NewReader(`{"rating":5,"comment":"Loved every single page."}`))
		r.SetPathValue("id", bookID)

		handler.Add(w, r, caller)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Review added successfully")
	})

	t.Run("duplicate", func(t *testing.T) {
		repo.EXPECT().BookExists(gomock.Any(), bookID).Return(true, nil)
		repo.EXPECT().ExistsForUserAndBook(gomock.Any(), ownerID, bookID).Return(true, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books/"+bookID+"/reviews",
			strings.NewReader(`{"rating":5,"comment":"Loved every single page."}`))
		r.SetPathValue("id", bookID)

		handler.Add(w, r, caller)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Use PUT to update your review")
	})

	t.Run("fractional rating", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books/"+bookID+"/reviews",
			strings.NewReader(`{"rating":3.5,"comment":"Loved every single page."}`))
		r.SetPathValue("id", bookID)

		handler.Add(w, r, caller)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "rating must be a whole number")
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	svc, repo := newService(t)
	handler := NewHTTPHandler(svc)

	t.Run("forbidden", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), reviewID).Return(stored(), nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/reviews/"+reviewID, strings.NewReader(`{"rating":1}`))
		r.SetPathValue("id", reviewID)

		handler.Update(w, r, auth.Identity{UserID: otherID})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "You can only update your own reviews")
	})

	t.Run("not found", func(t *testing.T) {
		repo.EXPECT().GetByID(gomock.Any(), reviewID).Return(Review{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/api/reviews/"+reviewID, strings.NewReader(`{"rating":1}`))
		r.SetPathValue("id", reviewID)

		handler.Update(w, r, auth.Identity{UserID: ownerID})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	svc, repo := newService(t)
	handler := NewHTTPHandler(svc)

	repo.EXPECT().GetByID(gomock.Any(), reviewID).Return(stored(), nil)
	repo.EXPECT().Delete(gomock.Any(), reviewID, ownerID).Return(nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/api/reviews/"+reviewID, nil)
	r.SetPathValue("id", reviewID)

	handler.Delete(w, r, auth.Identity{UserID: ownerID})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Review deleted successfully")
}
