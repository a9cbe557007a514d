package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"locket-backend/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageParams(t *testing.T) {
	tests := []struct {
		url                 string
		wantPage, wantLimit int
	}{
		{"/x", 1, 20},
		{"/x?page=3&limit=10", 3, 10},
		{"/x?page=0&limit=-5", 1, 20},
		{"/x?page=abc&limit=def", 1, 20},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.url, nil)
		page, limit := pageParams(req)
		assert.Equal(t, tt.wantPage, page, tt.url)
		assert.Equal(t, tt.wantLimit, limit, tt.url)
	}
}

func TestRespondErrorMapsDomainKinds(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantMsg    string
	}{
		{apperr.NotFound("Conversation not found"), http.StatusNotFound, "Conversation not found"},
		{apperr.Conflict("Friend request already exists"), http.StatusConflict, "Friend request already exists"},
		{apperr.Forbidden("Only the receiver can accept a friend request"), http.StatusForbidden, "Only the receiver can accept a friend request"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		respondError(rec, tt.err)

		assert.Equal(t, tt.wantStatus, rec.Code)

		var resp Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, tt.wantMsg, resp.Message)
	}
}

func TestRespondSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondSuccess(rec, "Users found", []string{"a"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Users found", resp.Message)
	assert.NotNil(t, resp.Data)
}
