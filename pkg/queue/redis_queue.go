package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/dualpascal/blog-api/pkg/idgen"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 任务状态
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// Task 任务
type Task struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Payload      json.RawMessage `json:"payload"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Attempts     int             `json:"attempts"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Decode 解析任务载荷
func (t Task) Decode(v any) error {
	return json.Unmarshal(t.Payload, v)
}

// Handler 任务处理函数
type Handler func(ctx context.Context, task Task) error

// Config 队列配置
type Config struct {
	Stream     string
	Group      string
	Consumer   string
	TaskTTL    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Block      time.Duration
	ClaimIdle  time.Duration
	MaxLen     int64
	ReadCount  int64
}

// RedisQueue 基于Redis Streams的任务队列
type RedisQueue struct {
	client       *redis.Client
	logger       *zap.SugaredLogger
	stream       string
	group        string
	consumerBase string
	taskTTL      time.Duration
	maxRetries   int
	retryDelay   time.Duration
	block        time.Duration
	claimIdle    time.Duration
	maxLen       int64
	readCount    int64
	once         sync.Once
	wg           sync.WaitGroup
}

// NewRedisQueue 创建任务队列
func NewRedisQueue(client *redis.Client, cfg Config, logger *zap.SugaredLogger) (*RedisQueue, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	stream := strings.TrimSpace(cfg.Stream)
	if stream == "" {
		return nil, errors.New("queue stream required")
	}
	q := &RedisQueue{
		client:       client,
		logger:       logger,
		stream:       stream,
		group:        cfg.Group,
		consumerBase: strings.TrimSpace(cfg.Consumer),
		taskTTL:      cfg.TaskTTL,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
		block:        cfg.Block,
		claimIdle:    cfg.ClaimIdle,
		maxLen:       cfg.MaxLen,
		readCount:    cfg.ReadCount,
	}
	if q.group == "" {
		q.group = "default"
	}
	if q.consumerBase == "" {
		q.consumerBase = idgen.NewID()
	}
	if q.taskTTL <= 0 {
		q.taskTTL = 24 * time.Hour
	}
	if q.maxRetries <= 0 {
		q.maxRetries = 3
	}
	if q.retryDelay < 0 {
		q.retryDelay = 0
	}
	if q.block <= 0 {
		q.block = 5 * time.Second
	}
	if q.claimIdle <= 0 {
		q.claimIdle = time.Minute
	}
	if q.maxLen <= 0 {
		q.maxLen = 10000
	}
	if q.readCount <= 0 {
		q.readCount = 10
	}
	return q, nil
}

// Enqueue 投递任务
func (q *RedisQueue) Enqueue(ctx context.Context, taskType string, payload any) (Task, error) {
	taskType = strings.TrimSpace(taskType)
	if taskType == "" {
		return Task{}, errors.New("task type required")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("marshal payload: %w", err)
	}

	now := time.Now().UTC()
	task := Task{
		ID:        idgen.NewID(),
		Type:      taskType,
		Payload:   data,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := q.writeStatus(ctx, task); err != nil {
		return Task{}, err
	}
	if err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		MaxLen: q.maxLen,
		Approx: true,
		Values: map[string]any{
			"task_id": task.ID,
			"type":    task.Type,
			"payload": string(task.Payload),
		},
	}).Err(); err != nil {
		return Task{}, err
	}
	return task, nil
}

// GetTask 查询任务状态
func (q *RedisQueue) GetTask(ctx context.Context, taskID string) (Task, bool, error) {
	data, err := q.client.HGetAll(ctx, q.taskKey(taskID)).Result()
	if err != nil {
		return Task{}, false, err
	}
	if len(data) == 0 {
		return Task{}, false, nil
	}
	return decodeTask(taskID, data), true, nil
}

// Start 启动 concurrency 个消费协程，ctx 取消后退出
func (q *RedisQueue) Start(ctx context.Context, concurrency int, handler Handler) {
	if concurrency <= 0 {
		concurrency = 1
	}
	q.ensureGroup(ctx)
	for i := 0; i < concurrency; i++ {
		consumer := fmt.Sprintf("%s-%d", q.consumerBase, i)
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			q.consumeLoop(ctx, consumer, handler)
		}()
	}
}

// Wait 等待所有消费协程退出
func (q *RedisQueue) Wait() {
	q.wg.Wait()
}

func (q *RedisQueue) ensureGroup(ctx context.Context) {
	q.once.Do(func() {
		err := q.client.XGroupCreateMkStream(ctx, q.stream, q.group, "0").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			q.logger.Warnf("创建消费组失败: %v", err)
		}
	})
}

func (q *RedisQueue) consumeLoop(ctx context.Context, consumer string, handler Handler) {
	for {
		if ctx.Err() != nil {
			return
		}

		if msgs, err := q.claimPending(ctx, consumer); err == nil {
			for _, msg := range msgs {
				q.handleMessage(ctx, msg, handler)
			}
		}

		streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.group,
			Consumer: consumer,
			Streams:  []string{q.stream, ">"},
			Count:    q.readCount,
			Block:    q.block,
		}).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				q.logger.Warnf("读取任务失败: %v", err)
				time.Sleep(time.Second)
			}
			continue
		}
		for _, stream := range streams {
			for _, msg := range stream.Messages {
				q.handleMessage(ctx, msg, handler)
			}
		}
	}
}

func (q *RedisQueue) claimPending(ctx context.Context, consumer string) ([]redis.XMessage, error) {
	res, _, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   q.stream,
		Group:    q.group,
		Consumer: consumer,
		MinIdle:  q.claimIdle,
		Start:    "0-0",
		Count:    q.readCount,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return res, err
}

// handleMessage 执行任务，失败时按 maxRetries 重试，最终标记完成或失败后确认消息
func (q *RedisQueue) handleMessage(ctx context.Context, msg redis.XMessage, handler Handler) {
	taskID, _ := msg.Values["task_id"].(string)
	taskType, _ := msg.Values["type"].(string)
	payload, _ := msg.Values["payload"].(string)
	if taskID == "" || taskType == "" {
		q.ackAndDel(ctx, msg.ID)
		return
	}

	task, _, err := q.GetTask(ctx, taskID)
	if err != nil {
		q.logger.Errorf("读取任务状态失败: %v", err)
		return
	}
	task.ID = taskID
	task.Type = taskType
	task.Payload = json.RawMessage(payload)

	err = retry.Do(
		func() error {
			task.Attempts++
			task.Status = StatusProcessing
			task.UpdatedAt = time.Now().UTC()
			_ = q.writeStatus(ctx, task)
			return handler(ctx, task)
		},
		retry.Context(ctx),
		retry.Attempts(uint(q.maxRetries)),
		retry.Delay(q.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			q.logger.Warnf("任务执行失败，准备重试: id=%s type=%s attempt=%d err=%v", task.ID, task.Type, n+1, err)
		}),
	)

	task.UpdatedAt = time.Now().UTC()
	if err != nil {
		if ctx.Err() != nil {
			// 进程退出，留给其他消费者认领
			return
		}
		task.Status = StatusFailed
		task.ErrorMessage = err.Error()
		q.logger.Errorf("任务最终失败: id=%s type=%s attempts=%d err=%v", task.ID, task.Type, task.Attempts, err)
	} else {
		task.Status = StatusDone
		task.ErrorMessage = ""
	}
	_ = q.writeStatus(ctx, task)
	q.ackAndDel(ctx, msg.ID)
}

func (q *RedisQueue) ackAndDel(ctx context.Context, msgID string) {
	pipe := q.client.TxPipeline()
	pipe.XAck(ctx, q.stream, q.group, msgID)
	pipe.XDel(ctx, q.stream, msgID)
	_, _ = pipe.Exec(ctx)
}

func (q *RedisQueue) writeStatus(ctx context.Context, task Task) error {
	key := q.taskKey(task.ID)
	fields := map[string]any{
		"type":      task.Type,
		"status":    task.Status,
		"error":     task.ErrorMessage,
		"attempts":  strconv.Itoa(task.Attempts),
		"createdAt": task.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt": task.UpdatedAt.Format(time.RFC3339Nano),
	}
	if err := q.client.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}
	_ = q.client.Expire(ctx, key, q.taskTTL).Err()
	return nil
}

func (q *RedisQueue) taskKey(taskID string) string {
	return fmt.Sprintf("task:%s:%s", q.stream, taskID)
}

func decodeTask(taskID string, data map[string]string) Task {
	task := Task{
		ID:           taskID,
		Type:         data["type"],
		Status:       data["status"],
		ErrorMessage: data["error"],
	}
	if n, err := strconv.Atoi(data["attempts"]); err == nil {
		task.Attempts = n
	}
	if t, err := time.Parse(time.RFC3339Nano, data["createdAt"]); err == nil {
		task.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, data["updatedAt"]); err == nil {
		task.UpdatedAt = t
	}
	return task
}
