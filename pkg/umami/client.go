package umami

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"
)

// Client Umami统计服务客户端
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// Website Umami站点
type Website struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	ShareID  string `json:"shareId"`
	ShareURL string `json:"-"`
}

// NewClient 创建客户端，timeout 作用于单次请求
func NewClient(baseURL, username, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		http:     &http.Client{Timeout: timeout},
	}
}

// Login 登录获取访问令牌
func (c *Client) Login(ctx context.Context) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": c.username, "password": c.password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &resp); err != nil {
		return "", fmt.Errorf("umami登录失败: %w", err)
	}
	if resp.Token == "" {
		return "", errors.New("umami登录未返回令牌")
	}
	return resp.Token, nil
}

// CreateWebsite 创建站点
func (c *Client) CreateWebsite(ctx context.Context, token, name, domain string) (*Website, error) {
	var site Website
	body := map[string]string{"name": name, "domain": domain}
	if err := c.do(ctx, http.MethodPost, "/api/websites", token, body, &site); err != nil {
		return nil, fmt.Errorf("创建umami站点失败: %w", err)
	}
	if site.ID == "" {
		return nil, errors.New("umami未返回站点ID")
	}
	return &site, nil
}

// EnableShare 开启公开分享，返回分享页地址
func (c *Client) EnableShare(ctx context.Context, token, websiteID string) (string, error) {
	shareID, err := randomShareID(10)
	if err != nil {
		return "", err
	}
	body := map[string]string{"id": websiteID, "shareId": shareID}
	var site Website
	if err := c.do(ctx, http.MethodPost, "/api/websites/"+websiteID, token, body, &site); err != nil {
		return "", fmt.Errorf("开启umami分享失败: %w", err)
	}
	if site.ShareID != "" {
		shareID = site.ShareID
	}
	return c.baseURL + "/share/" + shareID, nil
}

// ProvisionWebsite 登录、创建站点并开启分享
func (c *Client) ProvisionWebsite(ctx context.Context, name, domain string) (*Website, error) {
	token, err := c.Login(ctx)
	if err != nil {
		return nil, err
	}
	site, err := c.CreateWebsite(ctx, token, name, domain)
	if err != nil {
		return nil, err
	}
	shareURL, err := c.EnableShare(ctx, token, site.ID)
	if err != nil {
		return nil, err
	}
	site.ShareURL = shareURL
	return site, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

const shareAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomShareID(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(shareAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = shareAlphabet[idx.Int64()]
	}
	return string(b), nil
}
