// Package session stores refresh sessions in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_portfolio/internal/feature/auth/domain/entity"
	"stock_portfolio/internal/feature/auth/usecase"
)

// SessionRedis implements usecase.SessionRepository on Redis.
//
// Each session lives under prefix:<id> with a TTL matching its expiry. A
// per-user sorted set prefix:user:<id> indexes session IDs by creation time;
// members whose session key has expired are pruned lazily.
type SessionRedis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a SessionRedis using prefix for every key.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	return &SessionRedis{client: client, prefix: prefix, now: time.Now}
}

type record struct {
	ID        string     `json:"id"`
	UserID    uint       `json:"user_id"`
	UserAgent string     `json:"user_agent,omitempty"`
	IPAddress string     `json:"ip_address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

func toRecord(s *entity.Session) record {
	return record(*s)
}

func (r record) toEntity() *entity.Session {
	s := entity.Session(r)
	return &s
}

func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

func (r *SessionRedis) userSessionsKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

// Create stores the session and indexes it under its user.
func (r *SessionRedis) Create(ctx context.Context, s *entity.Session) error {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", s.ID)
	}
	data, err := json.Marshal(toRecord(s))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	created, err := r.client.SetNX(ctx, r.sessionKey(s.ID), data, ttl).Result()
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("session %s already exists", s.ID)
	}

	userKey := r.userSessionsKey(s.UserID)
	if err := r.client.ZAdd(ctx, userKey, redis.Z{Score: float64(s.CreatedAt.UnixNano()), Member: s.ID}).Err(); err != nil {
		return err
	}
	// the index lives as long as its longest session
	cur, err := r.client.TTL(ctx, userKey).Result()
	if err != nil {
		return err
	}
	if cur < ttl {
		return r.client.Expire(ctx, userKey, ttl).Err()
	}
	return nil
}

func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return rec.toEntity(), nil
}

// Revoke marks the session revoked and keeps its remaining TTL so reuse of
// the token can still be detected until it would have expired.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s.IsRevoked() {
		return nil
	}

	now := r.now()
	s.RevokedAt = &now
	data, err := json.Marshal(toRecord(s))
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.SetArgs(ctx, r.sessionKey(id), data, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err()
}

func (r *SessionRedis) RevokeAllByUserID(ctx context.Context, userID uint) error {
	ids, err := r.client.ZRange(ctx, r.userSessionsKey(userID), 0, -1).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Revoke(ctx, id); err != nil && !errors.Is(err, usecase.ErrSessionNotFound) {
			return err
		}
	}
	return nil
}

// DeleteExpired prunes index entries whose session key has expired. Session
// keys themselves are removed by Redis TTL. It returns the number of
// entries pruned.
func (r *SessionRedis) DeleteExpired(ctx context.Context) (int64, error) {
	var pruned int64
	iter := r.client.Scan(ctx, 0, r.prefix+":user:*", 100).Iterator()
	for iter.Next(ctx) {
		n, err := r.prune(ctx, iter.Val())
		if err != nil {
			return pruned, err
		}
		pruned += n
	}
	return pruned, iter.Err()
}

func (r *SessionRedis) prune(ctx context.Context, userKey string) (int64, error) {
	ids, err := r.client.ZRange(ctx, userKey, 0, -1).Result()
	if err != nil {
		return 0, err
	}
	var stale []any
	for _, id := range ids {
		n, err := r.client.Exists(ctx, r.sessionKey(id)).Result()
		if err != nil {
			return 0, err
		}
		if n == 0 {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	return r.client.ZRem(ctx, userKey, stale...).Result()
}

// active returns the user's valid sessions, oldest first.
func (r *SessionRedis) active(ctx context.Context, userID uint) ([]*entity.Session, error) {
	userKey := r.userSessionsKey(userID)
	ids, err := r.client.ZRange(ctx, userKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	now := r.now()
	sessions := make([]*entity.Session, 0, len(ids))
	for _, id := range ids {
		s, err := r.FindByID(ctx, id)
		if errors.Is(err, usecase.ErrSessionNotFound) {
			r.client.ZRem(ctx, userKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		if s.IsValid(now) {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}

func (r *SessionRedis) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	sessions, err := r.active(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(sessions)), nil
}

func (r *SessionRedis) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	sessions, err := r.active(ctx, userID)
	if err != nil || len(sessions) == 0 {
		return err
	}
	oldest := sessions[0]

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(oldest.ID))
		pipe.ZRem(ctx, r.userSessionsKey(userID), oldest.ID)
		return nil
	})
	return err
}
