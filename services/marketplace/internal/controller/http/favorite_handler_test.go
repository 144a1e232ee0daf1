package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"classifieds/services/marketplace/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestAddFavorite(t *testing.T) {
	tests := []struct {
		name    string
		added   bool
		err     error
		code    int
		message string
	}{
		{"added", true, nil, http.StatusOK, "Added to favorites"},
		{"duplicate", false, nil, http.StatusOK, "Already favorited"},
		{"unknown listing", false, fmt.Errorf("listing: %w", entity.ErrNotFound), http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := new(MockFavoriteUseCase)
			handler := NewFavoriteHandler(mockUseCase, testLogger())

			router := setupTestRouter()
			router.POST("/favorites", withActor("user-1", entity.RoleUser, handler.AddFavorite))

			actor := entity.Actor{UserID: "user-1", Role: entity.RoleUser}
			mockUseCase.On("AddFavorite", actor, "listing-1").Return(tt.added, tt.err)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/favorites", strings.NewReader("listing_id=listing-1"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
			if tt.message != "" {
				assert.Contains(t, w.Body.String(), tt.message)
			}
			mockUseCase.AssertExpectations(t)
		})
	}
}

func TestAddFavorite_MissingListingID(t *testing.T) {
	handler := NewFavoriteHandler(new(MockFavoriteUseCase), testLogger())

	router := setupTestRouter()
	router.POST("/favorites", withActor("user-1", entity.RoleUser, handler.AddFavorite))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/favorites", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListFavorites_EmptyIsArray(t *testing.T) {
	mockUseCase := new(MockFavoriteUseCase)
	handler := NewFavoriteHandler(mockUseCase, testLogger())

	router := setupTestRouter()
	router.GET("/favorites", withActor("user-1", entity.RoleUser, handler.ListFavorites))
	mockUseCase.On("ListFavorites", entity.Actor{UserID: "user-1", Role: entity.RoleUser}).Return(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/favorites", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
