package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/internal/task"
	"github.com/dualpascal/blog-api/pkg/auth"
	"github.com/dualpascal/blog-api/pkg/cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 用户服务
type UserService struct {
	db         *gorm.DB
	log        *zap.SugaredLogger
	jwt        *auth.Manager
	dispatcher task.Dispatcher
	userFilter *cache.BloomFilter
}

// NewUserService 创建用户服务实例，dispatcher 与 userFilter 可为nil
func NewUserService(db *gorm.DB, log *zap.SugaredLogger, jwt *auth.Manager, dispatcher task.Dispatcher, userFilter *cache.BloomFilter) *UserService {
	return &UserService{
		db:         db,
		log:        log,
		jwt:        jwt,
		dispatcher: dispatcher,
		userFilter: userFilter,
	}
}

// Register 用户注册，成功后异步开通统计
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, *auth.TokenPair, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateStruct(req); err != nil {
		return nil, nil, err
	}

	user, err := s.createUser(ctx, req.Username, req.Email, req.Password, model.RoleUser)
	if err != nil {
		return nil, nil, err
	}

	if s.dispatcher != nil {
		// 开通失败不影响注册
		if err := s.dispatcher.Dispatch(ctx, task.TypeProvisionAnalytics, task.ProvisionAnalyticsPayload{UserID: user.ID}); err != nil {
			s.log.Errorf("投递统计开通任务失败: user_id=%d err=%v", user.ID, err)
		}
	}

	tokens, err := s.jwt.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// CreateAdmin 创建管理员，供命令行使用
func (s *UserService) CreateAdmin(ctx context.Context, username, email, password string) (*model.User, error) {
	req := &dto.RegisterRequest{
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.createUser(ctx, req.Username, req.Email, req.Password, model.RoleAdmin)
}

func (s *UserService) createUser(ctx context.Context, username, email, password, role string) (*model.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		Status:   model.UserStatusActive,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]string{}
		var count int64
		if err := tx.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			fields["username"] = "用户名已存在"
		}
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			fields["email"] = "邮箱已被注册"
		}
		if len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		return tx.Create(user).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, invalid("username", "用户名或邮箱已存在")
	}
	if err != nil {
		return nil, err
	}

	s.rememberUsername(ctx, user.Username)
	return user, nil
}

// rememberUsername 记入过滤器并同步到Redis，供其他进程合并
func (s *UserService) rememberUsername(ctx context.Context, username string) {
	if s.userFilter == nil {
		return
	}
	s.userFilter.Add(username)
	if err := s.userFilter.SaveToRedis(ctx); err != nil {
		s.log.Warnf("保存用户过滤器失败: %v", err)
	}
}

// Login 用户名或邮箱登录，停用账号不能登录
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*model.User, *auth.TokenPair, error) {
	if err := validateStruct(req); err != nil {
		return nil, nil, err
	}

	login := strings.TrimSpace(req.Login)
	var user model.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if user.IsSuspended() {
		return nil, nil, ErrAccountSuspended
	}

	tokens, err := s.jwt.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, nil, err
	}
	return &user, tokens, nil
}

// RefreshToken 刷新令牌
func (s *UserService) RefreshToken(refreshToken string) (*auth.TokenPair, error) {
	return s.jwt.RefreshAccessToken(refreshToken)
}

// Logout 撤销访问令牌与刷新令牌
func (s *UserService) Logout(accessToken, refreshToken string) error {
	if accessToken != "" {
		if err := s.jwt.RevokeToken(accessToken); err != nil {
			s.log.Warnf("撤销访问令牌失败: %v", err)
		}
	}
	if refreshToken != "" {
		return s.jwt.RevokeToken(refreshToken)
	}
	return nil
}

// GetByID 根据ID获取用户
func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// FindPublic 按用户名查找公开博客的所有者，停用用户视为不存在
func (s *UserService) FindPublic(ctx context.Context, username string) (*model.User, error) {
	// 过滤器可能落后于其他进程创建的用户，未命中时仍以数据库为准
	known := s.userFilter != nil && s.userFilter.Test(username)
	var user model.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND status <> ?", username, model.UserStatusSuspended).
		First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	if s.userFilter != nil && !known {
		s.userFilter.Add(user.Username)
	}
	return &user, nil
}

// UpdateProfile 更新个人资料
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *dto.ProfileUpdateRequest) (*model.User, error) {
	req.Website = strings.TrimSpace(req.Website)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"nickname_ja":     req.NicknameJa,
		"nickname_en":     req.NicknameEn,
		"bio_ja":          req.BioJa,
		"bio_en":          req.BioEn,
		"location_ja":     req.LocationJa,
		"location_en":     req.LocationEn,
		"website":         req.Website,
		"avatar":          req.Avatar,
		"twitter_handle":  req.TwitterHandle,
		"facebook_handle": req.FacebookHandle,
		"linkedin_handle": req.LinkedinHandle,
		"github_handle":   req.GithubHandle,
		"qiita_handle":    req.QiitaHandle,
		"zenn_handle":     req.ZennHandle,
		"hatena_handle":   req.HatenaHandle,
	}).Error
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}
