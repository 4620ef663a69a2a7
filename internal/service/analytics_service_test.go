package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/pkg/umami"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newFakeUmami(t *testing.T, failWebsite bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
		case r.URL.Path == "/api/websites":
			if failWebsite {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "site-1", "name": body["name"], "domain": body["domain"]})
		case strings.HasPrefix(r.URL.Path, "/api/websites/"):
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "site-1"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProvisionAnalytics(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "alice")
	srv := newFakeUmami(t, false)
	svc := NewAnalyticsService(db, zap.NewNop().Sugar(), umami.NewClient(srv.URL, "admin", "pw", time.Second), "blog.example.com")

	require.NoError(t, svc.Provision(context.Background(), u.ID))

	status, err := svc.Status(context.Background(), u.ID)
	require.NoError(t, err)
	assert.True(t, status.Enabled)
	assert.True(t, status.SetupCompleted)
	assert.True(t, strings.HasPrefix(status.ShareURL, srv.URL+"/share/"))
}

func TestProvisionFailureKeepsFlagFalse(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "alice")
	srv := newFakeUmami(t, true)
	svc := NewAnalyticsService(db, zap.NewNop().Sugar(), umami.NewClient(srv.URL, "admin", "pw", time.Second), "blog.example.com")

	assert.Error(t, svc.Provision(context.Background(), u.ID))

	var got model.User
	require.NoError(t, db.First(&got, u.ID).Error)
	assert.False(t, got.AnalyticsSetupCompleted)
	assert.Empty(t, got.UmamiShareURL)
}

func TestProvisionDisabledIsNoop(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "alice")
	svc := NewAnalyticsService(db, zap.NewNop().Sugar(), nil, "")

	require.NoError(t, svc.Provision(context.Background(), u.ID))
	status, err := svc.Status(context.Background(), u.ID)
	require.NoError(t, err)
	assert.False(t, status.Enabled)
	assert.False(t, status.SetupCompleted)
}
