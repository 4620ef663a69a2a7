package umami

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionWebsite(t *testing.T) {
	var gotShareID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/auth/login":
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
		case r.URL.Path == "/api/websites":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice - Dual Pascal", body["name"])
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "site-1", "name": body["name"]})
		case strings.HasPrefix(r.URL.Path, "/api/websites/site-1"):
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			gotShareID = body["shareId"]
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "site-1", "shareId": gotShareID})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "admin", "secret", time.Second)
	site, err := c.ProvisionWebsite(context.Background(), "alice - Dual Pascal", "blog.example.com")
	require.NoError(t, err)
	assert.Equal(t, "site-1", site.ID)
	assert.Len(t, gotShareID, 10)
	assert.Equal(t, srv.URL+"/share/"+gotShareID, site.ShareURL)
}

func TestLoginFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "admin", "wrong", time.Second).ProvisionWebsite(context.Background(), "x", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "a", "b", 20*time.Millisecond).Login(context.Background())
	assert.Error(t, err)
}
