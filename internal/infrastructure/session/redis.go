package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/leadflow/crm-import/internal/domain/company"
)

const keyPrefix = "crm-import:preview:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string { return keyPrefix + id }
func claimKey(id string) string   { return keyPrefix + id + ":claimed" }

func (s *RedisStore) Save(ctx context.Context, session domain.PreviewSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	// the claim must not expire before the session it guards
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), payload, s.ttl)
		pipe.Expire(ctx, claimKey(session.ID), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save preview: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.PreviewSession, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPreviewNotFound
		}
		return nil, fmt.Errorf("get preview: %w", err)
	}

	var session domain.PreviewSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	return &session, nil
}

// ClaimSubmission sets the claim key only if it is absent, so concurrent
// submits of the same preview across instances see exactly one winner.
func (s *RedisStore) ClaimSubmission(ctx context.Context, id string) error {
	exists, err := s.client.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("claim preview: %w", err)
	}
	if exists == 0 {
		return domain.ErrPreviewNotFound
	}

	ok, err := s.client.SetNX(ctx, claimKey(id), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("claim preview: %w", err)
	}
	if !ok {
		return domain.ErrAlreadySubmitted
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id), claimKey(id)).Err(); err != nil {
		return fmt.Errorf("delete preview: %w", err)
	}
	return nil
}
