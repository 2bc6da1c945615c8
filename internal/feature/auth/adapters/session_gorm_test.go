package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"stock_portfolio/internal/feature/auth/domain/entity"
	"stock_portfolio/internal/feature/auth/usecase"
)

func seedSession(t *testing.T, db *gorm.DB, id string, userID uint, createdAt, expiresAt time.Time, revokedAt *time.Time) {
	t.Helper()

	require.NoError(t, db.Create(&SessionModel{
		ID:        id,
		UserID:    userID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
		RevokedAt: revokedAt,
	}).Error)
}

func TestSessionGorm_CreateAndFind(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t, &SessionModel{})
	repo := NewSessionRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	s := &entity.Session{
		ID:        "session-001",
		UserID:    7,
		UserAgent: "Mozilla/5.0",
		IPAddress: "192.168.1.1",
		CreatedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
	require.NoError(t, repo.Create(ctx, s))
	assert.Error(t, repo.Create(ctx, s), "duplicate id must fail")

	found, err := repo.FindByID(ctx, "session-001")
	require.NoError(t, err)
	assert.Equal(t, uint(7), found.UserID)
	assert.Equal(t, "Mozilla/5.0", found.UserAgent)
	assert.True(t, found.ExpiresAt.Equal(s.ExpiresAt))
	assert.False(t, found.IsRevoked())

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionGorm_Revoke(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t, &SessionModel{})
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	seedSession(t, db, "s1", 1, now, now.Add(time.Hour), nil)

	require.NoError(t, repo.Revoke(ctx, "s1"))
	found, err := repo.FindByID(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, found.IsRevoked())

	assert.ErrorIs(t, repo.Revoke(ctx, "missing"), usecase.ErrSessionNotFound)
}

func TestSessionGorm_RevokeAllByUserID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t, &SessionModel{})
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	seedSession(t, db, "u1-a", 1, now, now.Add(time.Hour), nil)
	seedSession(t, db, "u1-b", 1, now, now.Add(time.Hour), nil)
	seedSession(t, db, "u2-a", 2, now, now.Add(time.Hour), nil)

	require.NoError(t, repo.RevokeAllByUserID(ctx, 1))

	count, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = repo.CountByUserID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSessionGorm_CountByUserID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t, &SessionModel{})
	repo := NewSessionRepository(db)
	now := time.Now()
	revoked := now.Add(-time.Minute)

	seedSession(t, db, "active", 1, now, now.Add(time.Hour), nil)
	seedSession(t, db, "expired", 1, now.Add(-2*time.Hour), now.Add(-time.Hour), nil)
	seedSession(t, db, "revoked", 1, now, now.Add(time.Hour), &revoked)

	count, err := repo.CountByUserID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSessionGorm_DeleteExpired(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t, &SessionModel{})
	repo := NewSessionRepository(db)
	now := time.Now()

	seedSession(t, db, "expired-1", 1, now.Add(-3*time.Hour), now.Add(-2*time.Hour), nil)
	seedSession(t, db, "expired-2", 2, now.Add(-3*time.Hour), now.Add(-time.Hour), nil)
	seedSession(t, db, "live", 1, now, now.Add(time.Hour), nil)

	deleted, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining int64
	require.NoError(t, db.Model(&SessionModel{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestSessionGorm_DeleteOldestByUserID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t, &SessionModel{})
	repo := NewSessionRepository(db)
	ctx := context.Background()
	now := time.Now()

	seedSession(t, db, "newest", 1, now, now.Add(time.Hour), nil)
	seedSession(t, db, "oldest", 1, now.Add(-2*time.Hour), now.Add(time.Hour), nil)
	seedSession(t, db, "middle", 1, now.Add(-time.Hour), now.Add(time.Hour), nil)

	require.NoError(t, repo.DeleteOldestByUserID(ctx, 1))

	_, err := repo.FindByID(ctx, "oldest")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)

	count, err := repo.CountByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	assert.NoError(t, repo.DeleteOldestByUserID(ctx, 42), "no sessions is not an error")
}
