package reputation

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisRepPrefix = "rep/"

// Reputation store backed by redis hashes, for deployments which need actor
// standing to survive process restarts and be shared between engine
// instances. Per-actor synchronization comes from redis itself (single-key
// hash operations).
type RedisStore struct {
	Client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(context.TODO()).Result()
	if err != nil {
		return nil, err
	}
	return &RedisStore{Client: rdb}, nil
}

func (s *RedisStore) GetReputation(ctx context.Context, actorID string) (*Reputation, error) {
	vals, err := s.Client.HGetAll(ctx, redisRepPrefix+actorID).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return newReputation(actorID), nil
	}
	return repFromHash(actorID, vals), nil
}

func (s *RedisStore) RecordViolations(ctx context.Context, actorID string, count int, spamSignal float64) (*Reputation, error) {
	key := redisRepPrefix + actorID

	var out *Reputation
	// optimistic transaction: watch the hash, recompute, write back
	txf := func(tx *redis.Tx) error {
		vals, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		rep := newReputation(actorID)
		if len(vals) > 0 {
			rep = repFromHash(actorID, vals)
		}
		rep.SpamScore = blendSpamScore(rep.SpamScore, spamSignal)
		if count > 0 {
			now := time.Now().UTC()
			rep.ViolationCount += count
			rep.TrustScore = decayTrust(rep.TrustScore, count)
			rep.LastViolationAt = &now
		}
		out = rep
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, repToHash(rep))
			return nil
		})
		return err
	}

	for i := 0; i < 5; i++ {
		err := s.Client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if err != redis.TxFailedErr {
			return nil, err
		}
	}
	return nil, redis.TxFailedErr
}

func (s *RedisStore) ResetReputation(ctx context.Context, actorID string) error {
	return s.Client.Del(ctx, redisRepPrefix+actorID).Err()
}

func repToHash(rep *Reputation) map[string]any {
	h := map[string]any{
		"spam_score":      rep.SpamScore,
		"violation_count": rep.ViolationCount,
		"trust_score":     rep.TrustScore,
	}
	if rep.LastViolationAt != nil {
		h["last_violation_at"] = rep.LastViolationAt.Unix()
	}
	return h
}

func repFromHash(actorID string, vals map[string]string) *Reputation {
	rep := newReputation(actorID)
	if v, ok := vals["spam_score"]; ok {
		rep.SpamScore = parseFloat(v)
	}
	if v, ok := vals["violation_count"]; ok {
		rep.ViolationCount = int(parseInt(v))
	}
	if v, ok := vals["trust_score"]; ok {
		rep.TrustScore = parseFloat(v)
	}
	if v, ok := vals["last_violation_at"]; ok {
		t := time.Unix(parseInt(v), 0).UTC()
		rep.LastViolationAt = &t
	}
	return rep
}
