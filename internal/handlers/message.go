package handlers

import (
	"encoding/json"
	"net/http"

	"locket-backend/internal/middleware"
	"locket-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// MessageHandler handles conversation and message endpoints
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type sendMessageBody struct {
	ReceiverID        string `json:"receiverId"`
	Content           string `json:"content"`
	AttachedPictureID string `json:"attachedPictureId"`
}

// GetConversations handles GET /message/get-conversations
func (h *MessageHandler) GetConversations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)
	page, limit := pageParams(r)

	conversations, err := h.messageService.Conversations(ctx, user.ID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Conversations retrieved successfully", conversations)
}

// SendMessage handles POST /message/send-message
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetAuthUser(ctx)

	var req sendMessageBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	if err := h.messageService.Send(ctx, user.ID, req.ReceiverID, req.Content, req.AttachedPictureID); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Message sent successfully", nil)
}

// GetMessages handles GET /message/conversation/{id}
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "id")
	page, limit := pageParams(r)

	result, err := h.messageService.Messages(ctx, conversationID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Messages retrieved successfully",
		Meta: map[string]int{
			"total": result.Total,
			"page":  result.Page,
			"limit": result.Limit,
		},
		Data: map[string]interface{}{
			"messages": result.Messages,
		},
	})
}
