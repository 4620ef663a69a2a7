package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dualpascal/blog-api/internal/database"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), database.GormConfig("silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, model.InitTables(db))

	log := zap.NewNop().Sugar()
	jwt := auth.NewManager(auth.Options{SecretKey: "test-secret", Issuer: "test"}, nil)
	svc := service.New(service.Deps{DB: db, Logger: log, JWT: jwt, ESIndex: "articles"})

	engine := gin.New()
	Setup(engine, Options{Services: svc, JWT: jwt, Logger: log})
	return &testServer{t: t, engine: engine, db: db}
}

func (s *testServer) do(method, path, token string, body any, header ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// register 注册并返回访问令牌
func (s *testServer) register(username string) string {
	s.t.Helper()
	w := s.do(http.MethodPost, "/api/users/register", "", gin.H{
		"username": username, "email": username + "@example.com", "password": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		Tokens auth.TokenPair `json:"tokens"`
	}
	decode(s.t, w, &resp)
	return resp.Tokens.AccessToken
}

func TestRootRedirectsByAcceptLanguage(t *testing.T) {
	s := newTestServer(t)

	cases := map[string]string{
		"en-US,en;q=0.9": "/api/en",
		"ja,en;q=0.5":    "/api/ja",
		"fr-FR":          "/api/ja",
		"":               "/api/ja",
	}
	for header, want := range cases {
		w := s.do(http.MethodGet, "/api", "", nil, "Accept-Language", header)
		assert.Equal(t, http.StatusFound, w.Code, header)
		assert.Equal(t, want, w.Header().Get("Location"), header)
	}
}

func TestUnsupportedLocaleIsNotFound(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")

	w := s.do(http.MethodGet, "/api/fr/u/alice/articles", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/ja/u/nobody/articles", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArticlePublishingFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.register("alice")

	w := s.do(http.MethodPost, "/api/dashboard/articles", token, gin.H{
		"title": "こんにちは", "content": "# Hello\n\nbody", "locale": "ja", "status": "published", "tag_list": "go, rails",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID   uint `json:"id"`
		Tags []struct {
			Name string `json:"name"`
		} `json:"tags"`
	}
	decode(t, w, &created)
	assert.Len(t, created.Tags, 2)

	var list struct {
		List []struct {
			ID uint `json:"id"`
		} `json:"list"`
		Total int64 `json:"total"`
	}
	w = s.do(http.MethodGet, "/api/ja/u/alice/articles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.EqualValues(t, 1, list.Total)

	w = s.do(http.MethodGet, "/api/en/u/alice/articles", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Zero(t, list.Total)

	detailPath := fmt.Sprintf("/api/ja/u/alice/articles/%d", created.ID)
	var detail struct {
		ContentHTML string `json:"content_html"`
	}
	w = s.do(http.MethodGet, detailPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &detail)
	assert.Contains(t, detail.ContentHTML, "<h1")

	w = s.do(http.MethodGet, fmt.Sprintf("/api/en/u/alice/articles/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, detailPath+"/comments", "", gin.H{"author_name": "Bob", "content": "いいね"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, detailPath+"/comments", "", gin.H{"author_name": "Bob", "content": "x", "website": "ftp://x"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestTranslationConflict(t *testing.T) {
	s := newTestServer(t)
	token := s.register("alice")

	w := s.do(http.MethodPost, "/api/dashboard/articles", token, gin.H{"title": "原文", "content": "本文", "locale": "ja"})
	require.Equal(t, http.StatusCreated, w.Code)
	var original struct {
		ID uint `json:"id"`
	}
	decode(t, w, &original)

	path := fmt.Sprintf("/api/dashboard/articles/%d/translation", original.ID)
	w = s.do(http.MethodPost, path, token, gin.H{"title": "Original", "content": "Body"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var translation struct {
		Locale string `json:"locale"`
	}
	decode(t, w, &translation)
	assert.Equal(t, model.LocaleEN, translation.Locale)

	w = s.do(http.MethodPost, path, token, gin.H{"title": "Again", "content": "Body"})
	assert.Equal(t, http.StatusConflict, w.Code)

	other := s.register("bob")
	w = s.do(http.MethodGet, path, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthBoundaries(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/dashboard/articles", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := s.register("alice")
	w = s.do(http.MethodGet, "/api/admin/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/users/register", "", gin.H{"username": "bob", "email": "bad", "password": "secret123"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var fields struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, w, &fields)
	assert.Contains(t, fields.Errors, "email")

	w = s.do(http.MethodPost, "/api/users/login", "", gin.H{"login": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/users/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = s.do(http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	s.register("alice")
	require.NoError(t, s.db.Model(&model.User{}).Where("username = ?", "alice").Update("role", model.RoleAdmin).Error)

	w := s.do(http.MethodPost, "/api/users/login", "", gin.H{"login": "alice", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Tokens auth.TokenPair `json:"tokens"`
	}
	decode(t, w, &resp)

	w = s.do(http.MethodGet, "/api/admin/dashboard", resp.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var stats struct {
		TotalUsers int64 `json:"total_users"`
	}
	decode(t, w, &stats)
	assert.EqualValues(t, 1, stats.TotalUsers)
}
