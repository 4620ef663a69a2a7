package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/internal/task"
	"github.com/dualpascal/blog-api/pkg/mailer"
	"github.com/mojocn/base64Captcha"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CaptchaConfig 验证码尺寸
type CaptchaConfig struct {
	Enabled bool
	Height  int
	Width   int
	Length  int
}

// ContactService 联系表单
type ContactService struct {
	db         *gorm.DB
	log        *zap.SugaredLogger
	captcha    *base64Captcha.Captcha
	captchaOn  bool
	dispatcher task.Dispatcher
	mail       mailer.Mailer
	operator   string
}

// NewContactService 创建联系表单服务，dispatcher 为nil时不发送通知
func NewContactService(db *gorm.DB, log *zap.SugaredLogger, cc CaptchaConfig, dispatcher task.Dispatcher, mail mailer.Mailer, operator string) *ContactService {
	driver := base64Captcha.NewDriverDigit(cc.Height, cc.Width, cc.Length, 0.7, 70)
	return &ContactService{
		db:         db,
		log:        log,
		captcha:    base64Captcha.NewCaptcha(driver, base64Captcha.DefaultMemStore),
		captchaOn:  cc.Enabled,
		dispatcher: dispatcher,
		mail:       mail,
		operator:   operator,
	}
}

// NewCaptcha 生成图片验证码
func (s *ContactService) NewCaptcha() (*dto.CaptchaResponse, error) {
	id, b64s, _, err := s.captcha.Generate()
	if err != nil {
		s.log.Errorf("生成验证码失败: %v", err)
		return nil, err
	}
	return &dto.CaptchaResponse{CaptchaID: id, Image: b64s}, nil
}

// Submit 保存联系表单并通知管理员
func (s *ContactService) Submit(ctx context.Context, req *dto.ContactRequest) (*model.Contact, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if s.captchaOn && !s.captcha.Verify(req.CaptchaID, req.CaptchaAnswer, true) {
		return nil, ErrCaptcha
	}

	contact := &model.Contact{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.db.WithContext(ctx).Create(contact).Error; err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.Dispatch(ctx, task.TypeContactNotification, task.ContactNotificationPayload{ContactID: contact.ID}); err != nil {
			s.log.Errorf("投递联系通知任务失败: contact_id=%d err=%v", contact.ID, err)
		}
	}
	return contact, nil
}

// Notify 把联系内容发送给管理员
func (s *ContactService) Notify(ctx context.Context, contactID uint) error {
	if s.mail == nil || s.operator == "" {
		return nil
	}
	var contact model.Contact
	if err := s.db.WithContext(ctx).First(&contact, contactID).Error; err != nil {
		return notFound(err)
	}

	body := fmt.Sprintf("名前: %s\nメール: %s\n件名: %s\n\n%s\n",
		contact.Name, contact.Email, contact.Subject, contact.Message)
	return s.mail.Send(ctx, mailer.Message{
		To:      []string{s.operator},
		ReplyTo: contact.Email,
		Subject: "[問い合わせ] " + contact.Subject,
		Body:    body,
	})
}

// List 后台联系列表，最新在前
func (s *ContactService) List(ctx context.Context, q *dto.ContactListQuery) ([]model.Contact, int64, int, error) {
	page, offset := pageOffset(q.PageOrFirst(), DashboardPageSize)
	scope := func() *gorm.DB {
		db := s.db.WithContext(ctx).Model(&model.Contact{})
		if q.Resolved != nil {
			db = db.Where("resolved = ?", *q.Resolved)
		}
		return db
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, page, err
	}
	list := []model.Contact{}
	if int64(offset) >= total {
		return list, total, page, nil
	}
	err := scope().Order("created_at DESC, id DESC").Offset(offset).Limit(DashboardPageSize).Find(&list).Error
	return list, total, page, err
}

// Get 获取联系记录
func (s *ContactService) Get(ctx context.Context, id uint) (*model.Contact, error) {
	var contact model.Contact
	if err := s.db.WithContext(ctx).First(&contact, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &contact, nil
}

// SetResolved 修改处理状态
func (s *ContactService) SetResolved(ctx context.Context, id uint, resolved bool) (*model.Contact, error) {
	contact, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(contact).Update("resolved", resolved).Error; err != nil {
		return nil, err
	}
	contact.Resolved = resolved
	return contact, nil
}
