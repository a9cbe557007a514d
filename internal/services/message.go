package services

import (
	"context"
	"strings"
	"time"

	"locket-backend/internal/apperr"
	"locket-backend/internal/models"
	"locket-backend/internal/repository"

	"github.com/google/uuid"
)

const pairKeySeparator = ":"

// DerivePairKey returns the canonical key for a two-party thread: both ids
// sorted lexicographically and joined. It must be used identically on read
// and write paths; any divergence would let threads fragment per direction.
func DerivePairKey(idA, idB string) string {
	if idA > idB {
		idA, idB = idB, idA
	}
	return idA + pairKeySeparator + idB
}

// MessagePage is one page of a thread's log with its pagination meta
type MessagePage struct {
	Messages []models.Message
	Total    int
	Page     int
	Limit    int
}

// MessageService handles two-party message threads
type MessageService struct {
	conversationRepo *repository.ConversationRepository
	userRepo         *repository.UserRepository
	pictureRepo      *repository.PictureRepository
}

// NewMessageService creates a new message service
func NewMessageService(conversationRepo *repository.ConversationRepository, userRepo *repository.UserRepository, pictureRepo *repository.PictureRepository) *MessageService {
	return &MessageService{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		pictureRepo:      pictureRepo,
	}
}

// Send appends a message to the thread between sender and receiver,
// creating the thread on first contact. The pair_key unique constraint
// guarantees concurrent first-sends land in a single thread.
func (s *MessageService) Send(ctx context.Context, senderID, receiverID, content, attachedPictureID string) error {
	if receiverID == "" {
		return apperr.Validation("receiverId is required")
	}
	if senderID == receiverID {
		return apperr.InvalidOperation("Cannot send a message to yourself")
	}
	if strings.TrimSpace(content) == "" && attachedPictureID == "" {
		return apperr.Validation("Message content or attachment is required")
	}

	exists, err := s.userRepo.Exists(ctx, receiverID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Receiver not found")
	}

	var attached *string
	if attachedPictureID != "" {
		ok, err := s.pictureRepo.Exists(ctx, attachedPictureID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("Attached picture not found")
		}
		attached = &attachedPictureID
	}

	now := time.Now().UTC()
	pairKey := DerivePairKey(senderID, receiverID)
	return s.conversationRepo.AppendToPair(ctx, uuid.New().String(), pairKey, senderID, receiverID, uuid.New().String(), content, attached, now)
}

// Conversations returns thread summaries for the acting user, most recently
// active first.
func (s *MessageService) Conversations(ctx context.Context, userID string, page, limit int) ([]models.Conversation, error) {
	page, limit = normalizePage(page, limit)
	conversations, err := s.conversationRepo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}
	return conversations, nil
}

// Messages returns one newest-first page of a thread's log
func (s *MessageService) Messages(ctx context.Context, conversationID string, page, limit int) (*MessagePage, error) {
	if _, err := s.conversationRepo.GetByID(ctx, conversationID); err != nil {
		return nil, err
	}

	page, limit = normalizePage(page, limit)
	messages, total, err := s.conversationRepo.Messages(ctx, conversationID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.Message{}
	}

	return &MessagePage{
		Messages: messages,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// normalizePage clamps paging parameters to sane values
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
