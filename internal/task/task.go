package task

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/dualpascal/blog-api/pkg/idgen"
	"github.com/dualpascal/blog-api/pkg/queue"
	"go.uber.org/zap"
)

// 任务类型
const (
	TypeProvisionAnalytics  = "provision_analytics"
	TypeContactNotification = "contact_notification"
)

// ProvisionAnalyticsPayload 开通统计任务载荷
type ProvisionAnalyticsPayload struct {
	UserID uint `json:"user_id"`
}

// ContactNotificationPayload 联系表单通知任务载荷
type ContactNotificationPayload struct {
	ContactID uint `json:"contact_id"`
}

// Dispatcher 投递后台任务，调用方不等待执行结果
type Dispatcher interface {
	Dispatch(ctx context.Context, taskType string, payload any) error
}

// Runner 按任务类型分发到处理函数
type Runner struct {
	mu       sync.RWMutex
	handlers map[string]queue.Handler
	logger   *zap.SugaredLogger
}

// NewRunner 创建任务执行器
func NewRunner(logger *zap.SugaredLogger) *Runner {
	return &Runner{
		handlers: make(map[string]queue.Handler),
		logger:   logger,
	}
}

// Register 注册处理函数
func (r *Runner) Register(taskType string, h queue.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[taskType] = h
}

// Handle 执行任务，未知类型不重试
func (r *Runner) Handle(ctx context.Context, t queue.Task) error {
	r.mu.RLock()
	h, ok := r.handlers[t.Type]
	r.mu.RUnlock()
	if !ok {
		return retry.Unrecoverable(fmt.Errorf("未知任务类型: %s", t.Type))
	}
	r.logger.Debugw("执行后台任务", "id", t.ID, "type", t.Type, "attempt", t.Attempts)
	return h(ctx, t)
}

// QueueDispatcher 投递到Redis Streams队列
type QueueDispatcher struct {
	queue *queue.RedisQueue
}

// NewQueueDispatcher 创建队列投递器
func NewQueueDispatcher(q *queue.RedisQueue) *QueueDispatcher {
	return &QueueDispatcher{queue: q}
}

// Dispatch 入队
func (d *QueueDispatcher) Dispatch(ctx context.Context, taskType string, payload any) error {
	_, err := d.queue.Enqueue(ctx, taskType, payload)
	return err
}

// AsyncDispatcher 未启用Redis时在独立goroutine中执行，失败只记录日志
type AsyncDispatcher struct {
	runner     *Runner
	logger     *zap.SugaredLogger
	attempts   uint
	retryDelay time.Duration
	timeout    time.Duration
	wg         sync.WaitGroup
}

// NewAsyncDispatcher 创建进程内投递器
func NewAsyncDispatcher(runner *Runner, logger *zap.SugaredLogger, attempts int, retryDelay time.Duration) *AsyncDispatcher {
	if attempts <= 0 {
		attempts = 3
	}
	return &AsyncDispatcher{
		runner:     runner,
		logger:     logger,
		attempts:   uint(attempts),
		retryDelay: retryDelay,
		timeout:    time.Minute,
	}
}

// Dispatch 异步执行任务
func (d *AsyncDispatcher) Dispatch(_ context.Context, taskType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化任务载荷失败: %w", err)
	}
	t := queue.Task{
		ID:        idgen.NewID(),
		Type:      taskType,
		Payload:   data,
		Status:    queue.StatusQueued,
		CreatedAt: time.Now().UTC(),
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// 与触发请求的上下文解耦
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		err := retry.Do(
			func() error {
				t.Attempts++
				return d.runner.Handle(ctx, t)
			},
			retry.Context(ctx),
			retry.Attempts(d.attempts),
			retry.Delay(d.retryDelay),
			retry.LastErrorOnly(true),
		)
		if err != nil {
			d.logger.Errorf("后台任务失败: id=%s type=%s attempts=%d err=%v", t.ID, t.Type, t.Attempts, err)
		}
	}()
	return nil
}

// Wait 等待进程内任务结束
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}
