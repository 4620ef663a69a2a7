package auth

import (
	"errors"
	"time"

	"github.com/dualpascal/blog-api/pkg/idgen"
	"github.com/golang-jwt/jwt/v5"
)

// TokenType 定义token类型
type TokenType string

const (
	// AccessToken 访问令牌，用于访问资源
	AccessToken TokenType = "access"
	// RefreshToken 刷新令牌，用于获取新的访问令牌
	RefreshToken TokenType = "refresh"
)

var (
	// ErrTokenRevoked 令牌已撤销
	ErrTokenRevoked = errors.New("令牌已被撤销")
	// ErrInvalidToken 令牌无效
	ErrInvalidToken = errors.New("无效的令牌")
	// ErrWrongTokenType 令牌类型错误
	ErrWrongTokenType = errors.New("使用了错误类型的令牌")
)

// Claims 自定义JWT声明结构体
type Claims struct {
	UserID   uint      `json:"user_id"`
	Role     string    `json:"role"`
	Type     TokenType `json:"type"`
	Previous string    `json:"previous,omitempty"` // 前一个刷新令牌的ID，用于令牌轮换
	jwt.RegisteredClaims
}

// TokenPair 包含访问令牌和刷新令牌
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // 访问令牌过期时间（秒）
	TokenID      string `json:"token_id"`
}

// Options 令牌签发参数
type Options struct {
	SecretKey     string
	Issuer        string
	AccessExpire  time.Duration
	RefreshExpire time.Duration
}

// Manager 令牌签发与校验
type Manager struct {
	secret        []byte
	issuer        string
	accessExpire  time.Duration
	refreshExpire time.Duration
	blacklist     Blacklist
}

// NewManager 创建令牌管理器，blacklist 为空时使用内存黑名单
func NewManager(opts Options, blacklist Blacklist) *Manager {
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}
	if opts.AccessExpire <= 0 {
		opts.AccessExpire = 2 * time.Hour
	}
	if opts.RefreshExpire <= 0 {
		opts.RefreshExpire = 7 * 24 * time.Hour
	}
	return &Manager{
		secret:        []byte(opts.SecretKey),
		issuer:        opts.Issuer,
		accessExpire:  opts.AccessExpire,
		refreshExpire: opts.RefreshExpire,
		blacklist:     blacklist,
	}
}

// GenerateTokenPair 生成访问令牌和刷新令牌对
func (m *Manager) GenerateTokenPair(userID uint, role string) (*TokenPair, error) {
	return m.generatePair(userID, role, "")
}

func (m *Manager) generatePair(userID uint, role, previous string) (*TokenPair, error) {
	tokenID := idgen.NewID()

	accessToken, err := m.generateToken(userID, role, AccessToken, m.accessExpire, tokenID, "")
	if err != nil {
		return nil, err
	}
	refreshToken, err := m.generateToken(userID, role, RefreshToken, m.refreshExpire, tokenID, previous)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(m.accessExpire.Seconds()),
		TokenID:      tokenID,
	}, nil
}

// generateToken 创建指定类型的JWT令牌
func (m *Manager) generateToken(userID uint, role string, tokenType TokenType, expiration time.Duration, tokenID, previous string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Role:     role,
		Type:     tokenType,
		Previous: previous,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseToken 解析并校验令牌，包含黑名单检查
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	if m.blacklist.IsBlacklisted(tokenString) {
		return nil, ErrTokenRevoked
	}
	return m.parse(tokenString)
}

// RefreshAccessToken 使用刷新令牌换取新令牌对，旧刷新令牌作废
func (m *Manager) RefreshAccessToken(refreshTokenString string) (*TokenPair, error) {
	claims, err := m.ParseToken(refreshTokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != RefreshToken {
		return nil, ErrWrongTokenType
	}

	pair, err := m.generatePair(claims.UserID, claims.Role, claims.ID)
	if err != nil {
		return nil, err
	}

	if err := m.blacklist.AddToBlacklist(refreshTokenString, claims.ExpiresAt.Time); err != nil {
		return nil, err
	}
	return pair, nil
}

// RevokeToken 撤销令牌（登出时使用）
func (m *Manager) RevokeToken(tokenString string) error {
	claims, err := m.parse(tokenString)
	if err != nil {
		return err
	}
	return m.blacklist.AddToBlacklist(tokenString, claims.ExpiresAt.Time)
}
