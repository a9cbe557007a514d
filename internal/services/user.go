package services

import (
	"context"
	"time"

	"locket-backend/internal/apperr"
	"locket-backend/internal/models"
	"locket-backend/internal/repository"

	"github.com/google/uuid"
)

// UserService is the relationship engine: it answers "what is my
// relationship to user X" for search results and mediates the friend-request
// lifecycle.
type UserService struct {
	userRepo    *repository.UserRepository
	requestRepo *repository.FriendRequestRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, requestRepo *repository.FriendRequestRepository) *UserService {
	return &UserService{
		userRepo:    userRepo,
		requestRepo: requestRepo,
	}
}

// ResolveRelationship classifies how requesterID relates to candidateID
// given the requester's friend set and their requests keyed by the other
// party. Friendship always wins: a stale request row under a now-friend
// pair must not override it.
func ResolveRelationship(requesterID, candidateID string, friends map[string]struct{}, requests map[string]models.FriendRequest) models.RelationshipStatus {
	if _, ok := friends[candidateID]; ok {
		return models.RelationFriend
	}
	if req, ok := requests[candidateID]; ok {
		if req.SenderID == requesterID {
			return models.RelationSent
		}
		return models.RelationReceived
	}
	return models.RelationNone
}

// Search returns all users except the requester whose username contains
// query (case-insensitive, empty matches all), each annotated with the
// requester's relationship to them.
func (s *UserService) Search(ctx context.Context, requesterID, query string) ([]models.UserSummary, error) {
	candidates, err := s.userRepo.Search(ctx, requesterID, query)
	if err != nil {
		return nil, err
	}

	friendIDs, err := s.userRepo.FriendIDs(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	friends := make(map[string]struct{}, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = struct{}{}
	}

	involving, err := s.requestRepo.ListInvolving(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	// At most one request per pair, so keying by the other party is lossless.
	requests := make(map[string]models.FriendRequest, len(involving))
	for _, req := range involving {
		other := req.SenderID
		if other == requesterID {
			other = req.ReceiverID
		}
		requests[other] = req
	}

	for i := range candidates {
		candidates[i].RelationshipStatus = ResolveRelationship(requesterID, candidates[i].ID, friends, requests)
	}
	if candidates == nil {
		candidates = []models.UserSummary{}
	}
	return candidates, nil
}

// SendFriendRequest creates a pending request from sender to receiver
func (s *UserService) SendFriendRequest(ctx context.Context, senderID, receiverID string) error {
	if receiverID == "" {
		return apperr.Validation("receiverId is required")
	}
	if senderID == receiverID {
		return apperr.InvalidOperation("Cannot send friend request to yourself")
	}

	exists, err := s.userRepo.Exists(ctx, receiverID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Receiver not found")
	}

	req := &models.FriendRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.RequestPending,
		CreatedAt:  time.Now().UTC(),
	}
	return s.requestRepo.Create(ctx, req)
}

// AcceptFriendRequest transitions a pending request to accepted and makes
// the friendship symmetric. Only the receiver may accept.
func (s *UserService) AcceptFriendRequest(ctx context.Context, requestID, actingUserID string) error {
	if requestID == "" {
		return apperr.Validation("requestId is required")
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != actingUserID {
		return apperr.Forbidden("Only the receiver can accept a friend request")
	}

	return s.requestRepo.Accept(ctx, requestID)
}

// RejectFriendRequest deletes a request entirely so the sender can
// re-request later. Only the receiver may reject.
func (s *UserService) RejectFriendRequest(ctx context.Context, requestID, actingUserID string) error {
	if requestID == "" {
		return apperr.Validation("requestId is required")
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ReceiverID != actingUserID {
		return apperr.Forbidden("Only the receiver can reject a friend request")
	}

	return s.requestRepo.Delete(ctx, requestID)
}

// ListFriends returns the acting user's friends
func (s *UserService) ListFriends(ctx context.Context, userID string) ([]models.UserSummary, error) {
	friends, err := s.userRepo.Friends(ctx, userID)
	if err != nil {
		return nil, err
	}
	if friends == nil {
		friends = []models.UserSummary{}
	}
	return friends, nil
}

// ListReceivedRequests returns pending requests addressed to the acting user
func (s *UserService) ListReceivedRequests(ctx context.Context, userID string) ([]models.ReceivedRequest, error) {
	requests, err := s.requestRepo.ListReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.ReceivedRequest{}
	}
	return requests, nil
}

// ListSentRequests returns pending requests sent by the acting user
func (s *UserService) ListSentRequests(ctx context.Context, userID string) ([]models.SentRequest, error) {
	requests, err := s.requestRepo.ListSent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []models.SentRequest{}
	}
	return requests, nil
}

// Profile returns the acting user's own identity
func (s *UserService) Profile(ctx context.Context, userID string) (*models.UserSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserSummary{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// DeleteAccount removes the user and cascades over friend links, requests,
// conversations, pictures and reactions in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	return s.userRepo.Delete(ctx, userID)
}
