package handlers

import (
	"encoding/json"
	"net/http"

	"locket-backend/internal/middleware"
	"locket-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles search, the friend-request lifecycle and account endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type friendRequestBody struct {
	ReceiverID string `json:"receiverId"`
}

type requestActionBody struct {
	RequestID string `json:"requestId"`
}

// Search handles GET /user/search?search=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)
	query := r.URL.Query().Get("search")

	results, err := h.userService.Search(ctx, user.ID, query)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Users found", results)
}

// SendFriendRequest handles POST /user/friend-request
func (h *UserHandler) SendFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	var req friendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	if err := h.userService.SendFriendRequest(ctx, user.ID, req.ReceiverID); err != nil {
		respondError(w, err)
		return
	}

	log.Info().
		Str("sender_id", user.ID).
		Str("receiver_id", req.ReceiverID).
		Msg("Friend request sent")
	respondSuccess(w, "Friend request sent", nil)
}

// AcceptFriendRequest handles POST /user/friend-request/accept
func (h *UserHandler) AcceptFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	var req requestActionBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	if err := h.userService.AcceptFriendRequest(ctx, req.RequestID, user.ID); err != nil {
		respondError(w, err)
		return
	}

	log.Info().
		Str("request_id", req.RequestID).
		Str("user_id", user.ID).
		Msg("Friend request accepted")
	respondSuccess(w, "Friend request accepted", nil)
}

// RejectFriendRequest handles POST /user/friend-request/reject
func (h *UserHandler) RejectFriendRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	var req requestActionBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	if err := h.userService.RejectFriendRequest(ctx, req.RequestID, user.ID); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Friend request rejected", nil)
}

// ListFriends handles GET /user/friends
func (h *UserHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	friends, err := h.userService.ListFriends(ctx, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Friends retrieved successfully", friends)
}

// ListReceivedRequests handles GET /user/friend-requests-recived
func (h *UserHandler) ListReceivedRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	requests, err := h.userService.ListReceivedRequests(ctx, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Received friend requests retrieved successfully", requests)
}

// ListSentRequests handles GET /user/friend-requests-sent
func (h *UserHandler) ListSentRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	requests, err := h.userService.ListSentRequests(ctx, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Sent friend requests retrieved successfully", requests)
}

// Profile handles GET /user/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	profile, err := h.userService.Profile(ctx, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Profile retrieved successfully", profile)
}

// DeleteAccount handles DELETE /user/delete
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	if err := h.userService.DeleteAccount(ctx, user.ID); err != nil {
		respondError(w, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("Account deleted")
	respondSuccess(w, "Account deleted successfully", nil)
}
