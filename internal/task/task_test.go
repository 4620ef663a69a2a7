package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dualpascal/blog-api/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunnerUnknownType(t *testing.T) {
	r := NewRunner(zap.NewNop().Sugar())
	err := r.Handle(context.Background(), queue.Task{Type: "nope"})
	assert.ErrorContains(t, err, "未知任务类型")
}

func TestAsyncDispatcherRetriesAndDecodes(t *testing.T) {
	r := NewRunner(zap.NewNop().Sugar())
	var calls int32
	var got ProvisionAnalyticsPayload
	r.Register(TypeProvisionAnalytics, func(ctx context.Context, tk queue.Task) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return errors.New("temporary")
		}
		return tk.Decode(&got)
	})

	d := NewAsyncDispatcher(r, zap.NewNop().Sugar(), 3, time.Millisecond)
	require.NoError(t, d.Dispatch(context.Background(), TypeProvisionAnalytics, ProvisionAnalyticsPayload{UserID: 7}))
	d.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, uint(7), got.UserID)
}

func TestAsyncDispatcherGivesUp(t *testing.T) {
	r := NewRunner(zap.NewNop().Sugar())
	var calls int32
	r.Register(TypeContactNotification, func(ctx context.Context, tk queue.Task) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("smtp down")
	})

	d := NewAsyncDispatcher(r, zap.NewNop().Sugar(), 2, time.Millisecond)
	require.NoError(t, d.Dispatch(context.Background(), TypeContactNotification, ContactNotificationPayload{ContactID: 1}))
	d.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
