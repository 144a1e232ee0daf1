package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"classifieds/services/marketplace/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestModerateListing_Success(t *testing.T) {
	mockModeration := new(MockModerationUseCase)
	handler := NewAdminHandler(mockModeration, nil, nil, nil, testLogger())

	router := setupTestRouter()
	router.POST("/admin/listings/:id/status", withActor("admin-1", entity.RoleAdmin, handler.ModerateListing))

	admin := entity.Actor{UserID: "admin-1", Role: entity.RoleAdmin}
	mockModeration.On("ModerateListing", admin, "listing-1", entity.StatusApproved).
		Return(&entity.Listing{ID: "listing-1", Status: entity.StatusApproved}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/listings/listing-1/status", strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Listing approved"`)
	mockModeration.AssertExpectations(t)
}

func TestModerateListing_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{"non admin", `{"status":"approved"}`, fmt.Errorf("admin access required: %w", entity.ErrForbidden), http.StatusForbidden},
		{"unknown status", `{"status":"archived"}`, fmt.Errorf("unknown status: %w", entity.ErrValidation), http.StatusBadRequest},
		{"missing listing", `{"status":"approved"}`, fmt.Errorf("listing: %w", entity.ErrNotFound), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockModeration := new(MockModerationUseCase)
			handler := NewAdminHandler(mockModeration, nil, nil, nil, testLogger())

			router := setupTestRouter()
			router.POST("/admin/listings/:id/status", withActor("user-1", entity.RoleUser, handler.ModerateListing))
			mockModeration.On("ModerateListing", mock.Anything, "listing-1", mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/admin/listings/listing-1/status", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestModerateListing_MissingStatus(t *testing.T) {
	mockModeration := new(MockModerationUseCase)
	handler := NewAdminHandler(mockModeration, nil, nil, nil, testLogger())

	router := setupTestRouter()
	router.POST("/admin/listings/:id/status", withActor("admin-1", entity.RoleAdmin, handler.ModerateListing))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/listings/listing-1/status", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockModeration.AssertNotCalled(t, "ModerateListing", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminListListings_PassesStatus(t *testing.T) {
	mockModeration := new(MockModerationUseCase)
	handler := NewAdminHandler(mockModeration, nil, nil, nil, testLogger())

	router := setupTestRouter()
	router.GET("/admin/listings", withActor("admin-1", entity.RoleAdmin, handler.ListListings))
	mockModeration.On("ListByStatus", mock.Anything, entity.ListingStatus("")).
		Return([]*entity.Listing{{ID: "a", Status: entity.StatusPending}}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin/listings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"a"`)
	mockModeration.AssertExpectations(t)
}

func TestSetFeatured_RequiresFlag(t *testing.T) {
	mockListing := new(MockListingUseCase)
	handler := NewAdminHandler(nil, mockListing, nil, nil, testLogger())

	router := setupTestRouter()
	router.PUT("/admin/listings/:id/featured", withActor("admin-1", entity.RoleAdmin, handler.SetFeatured))
	mockListing.On("SetFeatured", mock.Anything, "listing-1", false).Return(&entity.Listing{ID: "listing-1"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PUT", "/admin/listings/listing-1/featured", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("PUT", "/admin/listings/listing-1/featured", strings.NewReader(`{"featured":false}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	mockListing.AssertExpectations(t)
}
