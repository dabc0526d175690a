package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

// keyPrefix namespaces conversation history keys.
const keyPrefix = "mem:"

// RedisStore keeps per-user history in a Redis list, trimmed to the cap on
// every append. When Redis is unreachable, operations log and return zero
// values instead of failing the pipeline.
type RedisStore struct {
	client *redis.Client
	cap    int
	logger *slog.Logger
}

// NewRedisStore connects to the Redis at url (redis://host:port form).
func NewRedisStore(url string, limit int, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 1
	}
	return &RedisStore{
		client: redis.NewClient(opts),
		cap:    limit,
		logger: logger,
	}, nil
}

func key(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10)
}

func (s *RedisStore) Get(ctx context.Context, userID int64) []domain.Turn {
	vals, err := s.client.LRange(ctx, key(userID), 0, -1).Result()
	if err != nil {
		s.logger.Warn("redis get failed, treating history as empty", "user_id", userID, "err", err)
		return nil
	}
	turns := make([]domain.Turn, 0, len(vals))
	for _, v := range vals {
		var t domain.Turn
		if err := json.Unmarshal([]byte(v), &t); err != nil {
			continue
		}
		turns = append(turns, t)
	}
	if len(turns) == 0 {
		return nil
	}
	return turns
}

func (s *RedisStore) Append(ctx context.Context, userID int64, turn domain.Turn) {
	data, err := json.Marshal(turn)
	if err != nil {
		return
	}
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key(userID), data)
	pipe.LTrim(ctx, key(userID), int64(-s.cap), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("redis append failed, turn dropped", "user_id", userID, "err", err)
	}
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		s.logger.Warn("redis clear failed", "user_id", userID, "err", err)
	}
}
