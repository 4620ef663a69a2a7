package service

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/internal/task"
	"github.com/dualpascal/blog-api/pkg/auth"
	"github.com/dualpascal/blog-api/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDispatcher struct {
	mu    sync.Mutex
	types []string
}

func (d *recordingDispatcher) Dispatch(_ context.Context, taskType string, _ any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.types = append(d.types, taskType)
	return nil
}

func newTestUserService(t *testing.T, dispatcher task.Dispatcher, filter *cache.BloomFilter) *UserService {
	t.Helper()
	db := newTestDB(t)
	jwt := auth.NewManager(auth.Options{SecretKey: "test-secret", Issuer: "test"}, nil)
	return NewUserService(db, zap.NewNop().Sugar(), jwt, dispatcher, filter)
}

func TestRegisterAndLogin(t *testing.T) {
	d := &recordingDispatcher{}
	users := newTestUserService(t, d, nil)
	ctx := context.Background()

	u, tokens, err := users.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "Alice@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.Password)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, []string{task.TypeProvisionAnalytics}, d.types)

	_, _, err = users.Login(ctx, &dto.LoginRequest{Login: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, _, err = users.Login(ctx, &dto.LoginRequest{Login: "alice", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = users.Login(ctx, &dto.LoginRequest{Login: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = users.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret1"})
	ve, ok := IsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "username")
}

func TestSuspendedUserCannotLogin(t *testing.T) {
	users := newTestUserService(t, nil, nil)
	ctx := context.Background()
	u, _, err := users.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, users.db.Model(u).Update("status", model.UserStatusSuspended).Error)

	_, _, err = users.Login(ctx, &dto.LoginRequest{Login: "alice", Password: "secret1"})
	assert.ErrorIs(t, err, ErrAccountSuspended)

	_, err = users.FindPublic(ctx, "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindPublicWithUserFilter(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	filter := cache.NewUserFilter(client)

	users := newTestUserService(t, nil, filter)
	ctx := context.Background()
	_, _, err := users.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := users.FindPublic(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	// 注册后已同步到Redis，其他进程可以合并
	other := cache.NewUserFilter(client)
	require.NoError(t, other.LoadFromRedis(ctx))
	assert.True(t, other.Test("alice"))

	// 其他进程写入的用户不在本进程过滤器中，仍以数据库为准
	require.NoError(t, users.db.Create(&model.User{Username: "admin2", Email: "g@example.com", Password: "x", Role: model.RoleAdmin}).Error)
	require.False(t, filter.Test("admin2"))
	got, err = users.FindPublic(ctx, "admin2")
	require.NoError(t, err)
	assert.Equal(t, "admin2", got.Username)
	assert.True(t, filter.Test("admin2"))

	_, err = users.FindPublic(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	users := newTestUserService(t, nil, nil)
	ctx := context.Background()
	_, tokens, err := users.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	refreshed, err := users.RefreshToken(tokens.RefreshToken)
	require.NoError(t, err)
	require.NoError(t, users.Logout(refreshed.AccessToken, refreshed.RefreshToken))

	_, err = users.RefreshToken(refreshed.RefreshToken)
	assert.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	users := newTestUserService(t, nil, nil)
	ctx := context.Background()
	u, _, err := users.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = users.UpdateProfile(ctx, u.ID, &dto.ProfileUpdateRequest{Website: "example.com"})
	_, ok := IsValidation(err)
	assert.True(t, ok)

	updated, err := users.UpdateProfile(ctx, u.ID, &dto.ProfileUpdateRequest{NicknameJa: "アリス", GithubHandle: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "アリス", updated.DisplayName(model.LocaleJA))
	assert.Equal(t, "アリス", updated.DisplayName(model.LocaleEN))
	assert.Equal(t, "alice", updated.GithubHandle)
}

func TestCreateAdmin(t *testing.T) {
	users := newTestUserService(t, nil, nil)
	admin, err := users.CreateAdmin(context.Background(), "root", "root@example.com", "secret1")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
}
