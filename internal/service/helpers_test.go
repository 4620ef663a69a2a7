package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dualpascal/blog-api/internal/database"
	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/pkg/auth"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), database.GormConfig("silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, model.InitTables(db))
	return db
}

func newTestServices(t *testing.T) (*Services, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := New(Deps{
		DB:      db,
		Logger:  zap.NewNop().Sugar(),
		JWT:     auth.NewManager(auth.Options{SecretKey: "test-secret", Issuer: "test"}, nil),
		ESIndex: "articles",
	})
	return svc, db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     model.RoleUser,
		Status:   model.UserStatusActive,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createArticle(t *testing.T, svc *Services, userID uint, req dto.ArticleRequest) *model.Article {
	t.Helper()
	a, err := svc.Article.Create(context.Background(), userID, &req)
	require.NoError(t, err)
	return a
}

func published(title, locale string) dto.ArticleRequest {
	return dto.ArticleRequest{
		Title:   title,
		Content: "本文 " + title,
		Locale:  locale,
		Status:  model.ArticleStatusPublished,
	}
}
