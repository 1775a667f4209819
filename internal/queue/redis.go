package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"catalog/harvester/internal/domain/task"
)

// Queue records pipeline failures for operators. Entries are not consumed by the
// harvester itself.
type Queue interface {
	AddTask(ctx context.Context, task task.Task) (string, error) // Returns message ID
}

// RedisQueue appends tasks to one stream per task type, trimmed to roughly
// maxLen entries. A maxLen of 0 keeps every entry.
type RedisQueue struct {
	redisClient  *redis.Client
	streamPrefix string
	maxLen       int64
}

func NewRedisQueue(redisClient *redis.Client, streamPrefix string, maxLen int64) Queue {
	return &RedisQueue{
		redisClient:  redisClient,
		streamPrefix: streamPrefix,
		maxLen:       maxLen,
	}
}

func (q *RedisQueue) AddTask(ctx context.Context, t task.Task) (string, error) {
	stream := q.streamPrefix + t.TaskType()

	payload, err := t.TaskValue()
	if err != nil {
		return "", fmt.Errorf("failed to serialize %s: %w", t.TaskType(), err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: []string{
			"task_type", t.TaskType(),
			"task_data", string(payload),
		},
	}
	if q.maxLen > 0 {
		args.MaxLen = q.maxLen
		args.Approx = true
	}

	id, err := q.redisClient.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("failed to append to stream %s: %w", stream, err)
	}

	log.WithFields(log.Fields{"stream": stream, "id": id}).Debug("Recorded failure")
	return id, nil
}

type noopQueue struct{}

// NewNoopQueue returns a Queue that discards every task, used when Redis is disabled.
func NewNoopQueue() Queue {
	return noopQueue{}
}

func (noopQueue) AddTask(context.Context, task.Task) (string, error) {
	return "", nil
}
