package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/token-launcher/backend/internal/models"
)

// SessionRepo keeps one JSON session document per user in Redis.
// Writes overwrite the whole document (last write wins).
type SessionRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionRepo; ttl <= 0 stores sessions without expiry.
func NewSessionRepo(rdb *redis.Client, ttl time.Duration) *SessionRepo {
	return &SessionRepo{rdb: rdb, ttl: ttl}
}

func SessionKey(userID int64) string {
	return "session:" + strconv.FormatInt(userID, 10)
}

func (r *SessionRepo) Get(ctx context.Context, userID int64) (*models.Session, error) {
	data, err := r.rdb.Get(ctx, SessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.MessageIDs == nil {
		s.MessageIDs = map[models.Slot]int{}
	}
	return &s, nil
}

func (r *SessionRepo) Save(ctx context.Context, userID int64, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	return r.rdb.Set(ctx, SessionKey(userID), data, ttl).Err()
}

// Create stores a fresh all-defaulted session, replacing any existing one.
func (r *SessionRepo) Create(ctx context.Context, userID int64) (*models.Session, error) {
	s := models.NewSession()
	if err := r.Save(ctx, userID, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, userID int64) error {
	return r.rdb.Del(ctx, SessionKey(userID)).Err()
}

func (r *SessionRepo) Exists(ctx context.Context, userID int64) (bool, error) {
	n, err := r.rdb.Exists(ctx, SessionKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
