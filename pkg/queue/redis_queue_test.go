package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type samplePayload struct {
	UserID uint `json:"user_id"`
}

func newTestQueue(t *testing.T, maxRetries int) *RedisQueue {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	q, err := NewRedisQueue(client, Config{
		Stream:     "test:tasks",
		Group:      "test-group",
		Consumer:   "consumer",
		MaxRetries: maxRetries,
		RetryDelay: time.Millisecond,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)
	return q
}

func readOne(t *testing.T, q *RedisQueue) redis.XMessage {
	t.Helper()
	ctx := context.Background()
	q.ensureGroup(ctx)
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.group,
		Consumer: "reader",
		Streams:  []string{q.stream, ">"},
		Count:    1,
		Block:    10 * time.Millisecond,
	}).Result()
	require.NoError(t, err)
	require.Len(t, streams, 1)
	require.Len(t, streams[0].Messages, 1)
	return streams[0].Messages[0]
}

func TestEnqueueWritesStatusAndStream(t *testing.T) {
	q := newTestQueue(t, 3)
	ctx := context.Background()

	task, err := q.Enqueue(ctx, "provision_analytics", samplePayload{UserID: 9})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)

	stored, ok, err := q.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusQueued, stored.Status)
	assert.Equal(t, "provision_analytics", stored.Type)

	msg := readOne(t, q)
	assert.Equal(t, task.ID, msg.Values["task_id"])
}

func TestEnqueueRequiresType(t *testing.T) {
	q := newTestQueue(t, 3)
	_, err := q.Enqueue(context.Background(), " ", nil)
	assert.Error(t, err)
}

func TestHandleMessageRetriesThenSucceeds(t *testing.T) {
	q := newTestQueue(t, 3)
	ctx := context.Background()

	task, err := q.Enqueue(ctx, "provision_analytics", samplePayload{UserID: 5})
	require.NoError(t, err)
	msg := readOne(t, q)

	calls := 0
	q.handleMessage(ctx, msg, func(ctx context.Context, got Task) error {
		calls++
		var p samplePayload
		require.NoError(t, got.Decode(&p))
		assert.Equal(t, uint(5), p.UserID)
		if calls < 2 {
			return errors.New("temporary")
		}
		return nil
	})

	assert.Equal(t, 2, calls)
	stored, _, err := q.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, stored.Status)
	assert.Equal(t, 2, stored.Attempts)

	pending, err := q.client.XPending(ctx, q.stream, q.group).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestHandleMessageMarksFailedAfterMaxRetries(t *testing.T) {
	q := newTestQueue(t, 2)
	ctx := context.Background()

	task, err := q.Enqueue(ctx, "contact_notification", samplePayload{UserID: 1})
	require.NoError(t, err)
	msg := readOne(t, q)

	calls := 0
	q.handleMessage(ctx, msg, func(ctx context.Context, got Task) error {
		calls++
		return errors.New("smtp down")
	})

	assert.Equal(t, 2, calls)
	stored, _, err := q.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Equal(t, "smtp down", stored.ErrorMessage)
}
