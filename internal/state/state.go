package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RunSummary is the outcome of one harvest run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	Produced   int       `json:"produced"`   // Records persisted
	Discovered int       `json:"discovered"` // Product refs collected
	Total      int       `json:"total"`      // Catalog size reported by the listing
	FinishedAt time.Time `json:"finished_at"`
}

// Coverage returns Produced as a percentage of Total.
func (s RunSummary) Coverage() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Produced) / float64(s.Total) * 100
}

// StateManager keeps the summary of the most recent run. It is informational only;
// runs never resume from it.
type StateManager interface {
	LastSummary(ctx context.Context) (*RunSummary, error)
	SaveSummary(ctx context.Context, summary RunSummary) error
}

type redisStateManager struct {
	redisClient *redis.Client
	key         string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		key:         "harvester:run:last",
	}
}

func (s *redisStateManager) LastSummary(ctx context.Context) (*RunSummary, error) {
	val, err := s.redisClient.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // No run recorded yet
		}
		return nil, fmt.Errorf("failed to get last run summary: %w", err)
	}

	var summary RunSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, fmt.Errorf("failed to decode last run summary: %w", err)
	}

	return &summary, nil
}

func (s *redisStateManager) SaveSummary(ctx context.Context, summary RunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode run summary: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.key, string(payload), 0).Err(); err != nil { // No expiration
		return fmt.Errorf("failed to save run summary: %w", err)
	}
	return nil
}

type noopStateManager struct{}

// NewNoopStateManager returns a StateManager that remembers nothing.
func NewNoopStateManager() StateManager {
	return noopStateManager{}
}

func (noopStateManager) LastSummary(context.Context) (*RunSummary, error) {
	return nil, nil
}

func (noopStateManager) SaveSummary(context.Context, RunSummary) error {
	return nil
}
