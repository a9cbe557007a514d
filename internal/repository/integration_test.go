package repository

// These tests exercise the storage-level invariants against a real
// database. They are skipped unless LOCKET_TEST_DATABASE_URL points at a
// disposable PostgreSQL instance; the schema is reset on every run.

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"locket-backend/internal/apperr"
	"locket-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database tests in short mode")
	}
	dsn := os.Getenv("LOCKET_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LOCKET_TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	resetSchema(t, pool)
	return pool
}

func resetSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx, `DROP TABLE IF EXISTS conversation_messages, picture_reactions,
		pictures, conversations, friend_requests, friends, users CASCADE`)
	require.NoError(t, err)

	ddl, err := os.ReadFile(filepath.Join("..", "..", "schema.sql"))
	require.NoError(t, err)
	for _, stmt := range strings.Split(string(ddl), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := pool.Exec(ctx, stmt)
		require.NoError(t, err)
	}
}

func createUser(t *testing.T, repo *UserRepository, username string) string {
	t.Helper()
	id := uuid.New().String()
	err := repo.Create(context.Background(), &models.User{
		ID:           id,
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

func createRequest(t *testing.T, repo *FriendRequestRepository, senderID, receiverID string) string {
	t.Helper()
	id := uuid.New().String()
	err := repo.Create(context.Background(), &models.FriendRequest{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.RequestPending,
		CreatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	return id
}

// sortedPairKey mirrors the service-side key derivation for thread lookups
func sortedPairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestAcceptMakesFriendshipSymmetric(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	requests := NewFriendRequestRepository(pool)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	reqID := createRequest(t, requests, alice, bob)

	require.NoError(t, requests.Accept(ctx, reqID))

	aliceFriends, err := users.FriendIDs(ctx, alice)
	require.NoError(t, err)
	bobFriends, err := users.FriendIDs(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, []string{bob}, aliceFriends)
	assert.Equal(t, []string{alice}, bobFriends)

	// The check-and-set makes a second accept a conflict, not a double insert.
	err = requests.Accept(ctx, reqID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, 2, countRows(t, pool, "friends"))
}

func TestDuplicateRequestConflictsEitherDirection(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	requests := NewFriendRequestRepository(pool)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	createRequest(t, requests, alice, bob)

	same := &models.FriendRequest{
		ID: uuid.New().String(), SenderID: alice, ReceiverID: bob,
		Status: models.RequestPending, CreatedAt: time.Now().UTC(),
	}
	err := requests.Create(ctx, same)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	reversed := &models.FriendRequest{
		ID: uuid.New().String(), SenderID: bob, ReceiverID: alice,
		Status: models.RequestPending, CreatedAt: time.Now().UTC(),
	}
	err = requests.Create(ctx, reversed)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRejectFreesPairForReRequest(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	requests := NewFriendRequestRepository(pool)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	reqID := createRequest(t, requests, alice, bob)

	require.NoError(t, requests.Delete(ctx, reqID))

	// Nothing remains to collide with the pair index.
	createRequest(t, requests, alice, bob)
}

func TestRejectAfterAcceptKeepsPairRow(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	requests := NewFriendRequestRepository(pool)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	reqID := createRequest(t, requests, alice, bob)
	require.NoError(t, requests.Accept(ctx, reqID))

	err := requests.Delete(ctx, reqID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// The accepted row still blocks a repeat request between friends.
	repeat := &models.FriendRequest{
		ID: uuid.New().String(), SenderID: alice, ReceiverID: bob,
		Status: models.RequestPending, CreatedAt: time.Now().UTC(),
	}
	err = requests.Create(ctx, repeat)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestReceivedRequestListsSender(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	requests := NewFriendRequestRepository(pool)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	createRequest(t, requests, alice, bob)

	received, err := requests.ListReceived(ctx, bob)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, alice, received[0].Sender.ID)
	assert.Equal(t, "alice", received[0].Sender.Username)

	sent, err := requests.ListSent(ctx, alice)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, bob, sent[0].Receiver.ID)
}

func TestAppendToPairReusesThreadBothDirections(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	conversations := NewConversationRepository(pool)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	key := sortedPairKey(alice, bob)
	base := time.Now().UTC()

	err := conversations.AppendToPair(ctx,
		uuid.New().String(), key, alice, bob, uuid.New().String(), "hi", nil, base)
	require.NoError(t, err)

	err = conversations.AppendToPair(ctx,
		uuid.New().String(), key, bob, alice, uuid.New().String(), "hello", nil, base.Add(time.Second))
	require.NoError(t, err)

	assert.Equal(t, 1, countRows(t, pool, "conversations"))

	threads, err := conversations.ListByUser(ctx, alice, 10, 0)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, key, threads[0].PairKey)

	messages, total, err := conversations.Messages(ctx, threads[0].ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, messages, 2)
	// Newest first.
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "hi", messages[1].Content)
}

func TestAppendToPairBadAttachmentLeavesNoThread(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := NewUserRepository(pool)
	conversations := NewConversationRepository(pool)

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	bogus := uuid.New().String()

	err := conversations.AppendToPair(ctx,
		uuid.New().String(), sortedPairKey(alice, bob), alice, bob,
		uuid.New().String(), "look", &bogus, time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	assert.Equal(t, 0, countRows(t, pool, "conversations"))
	assert.Equal(t, 0, countRows(t, pool, "conversation_messages"))
}
