package models

import "time"

// RelationshipStatus classifies how the acting user relates to another user.
// It is derived on read, never stored.
type RelationshipStatus string

const (
	RelationNone     RelationshipStatus = "none"
	RelationFriend   RelationshipStatus = "friend"
	RelationSent     RelationshipStatus = "sent"
	RelationReceived RelationshipStatus = "received"
)

// Friend request lifecycle. Rejection deletes the row, so only pending and
// accepted are ever persisted.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
)

// User represents a registered user
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the projection embedded in search results, friend lists
// and populated request views
type UserSummary struct {
	ID                 string             `json:"id"`
	Username           string             `json:"username"`
	Email              string             `json:"email,omitempty"`
	RelationshipStatus RelationshipStatus `json:"relationshipStatus,omitempty"`
}

// FriendRequest represents a pending or accepted friend request between two users
type FriendRequest struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ReceivedRequest is a FriendRequest with the sender resolved, served to the receiver
type ReceivedRequest struct {
	ID         string      `json:"id"`
	Sender     UserSummary `json:"sender"`
	ReceiverID string      `json:"receiverId"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// SentRequest is a FriendRequest with the receiver resolved, served to the sender
type SentRequest struct {
	ID        string      `json:"id"`
	SenderID  string      `json:"senderId"`
	Receiver  UserSummary `json:"receiver"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Conversation is the summary view of a two-party message thread.
// PairKey is the sorted participant ids joined with ":" and is unique,
// so at most one thread exists per unordered pair.
type Conversation struct {
	ID            string        `json:"id"`
	Participants  []UserSummary `json:"participants"`
	PairKey       string        `json:"pairKey"`
	LastMessageAt time.Time     `json:"lastMessageAt"`
}

// Message is a single entry in a conversation's append-log
type Message struct {
	ID              string      `json:"id"`
	Sender          string      `json:"sender"`
	Content         string      `json:"content"`
	AttachedPicture *PictureRef `json:"attachedPicture,omitempty"`
	AttachmentURL   string      `json:"attachmentUrl,omitempty"`
	ReadBy          []string    `json:"readBy"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// PictureRef is the denormalized attachment view embedded in messages
type PictureRef struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Picture represents an uploaded picture with optional annotations.
// Message, Time and Location default to empty strings, never null.
type Picture struct {
	ID        string      `json:"id"`
	URL       string      `json:"url"`
	Uploader  UserSummary `json:"uploader"`
	Message   string      `json:"message"`
	Time      string      `json:"time"`
	Location  string      `json:"location"`
	UploadAt  time.Time   `json:"uploadAt"`
	Reactions []Reaction  `json:"reactions,omitempty"`
}

// Reaction is a sub-record on a picture
type Reaction struct {
	Icon      string      `json:"icon"`
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
}
