package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"time"

	"github.com/dualpascal/blog-api/internal/model"
	"github.com/dualpascal/blog-api/pkg/idgen"
	"github.com/dualpascal/blog-api/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"gorm.io/gorm"
)

// 图片变体尺寸，等比缩小到不超过该尺寸
const (
	VariantWidth    = 800
	VariantHeight   = 600
	ThumbnailWidth  = 400
	ThumbnailHeight = 300
)

// 解码前允许的最大像素数
const maxImagePixels = 40_000_000

// ImageService 图片上传
type ImageService struct {
	db           *gorm.DB
	log          *zap.SugaredLogger
	store        storage.Storage
	maxSize      int64
	allowedTypes map[string]bool
}

// NewImageService 创建图片服务实例
func NewImageService(db *gorm.DB, log *zap.SugaredLogger, store storage.Storage, maxSize int64, allowedTypes []string) *ImageService {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}
	return &ImageService{
		db:           db,
		log:          log,
		store:        store,
		maxSize:      maxSize,
		allowedTypes: allowed,
	}
}

// UploadInput 上传的文件
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Upload 上传图片并生成缩放变体
func (s *ImageService) Upload(ctx context.Context, userID uint, in *UploadInput) (*model.Image, error) {
	if err := s.validateImageFile(in); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(in.Reader, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("读取文件数据失败: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, invalid("file", fmt.Sprintf("文件大小超过限制，最大允许 %d MB", s.maxSize>>20))
	}

	// 先读尺寸，避免按声明的超大尺寸分配内存
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, invalid("file", "无法识别的图片")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, invalid("file", fmt.Sprintf("图片尺寸过大: %dx%d", cfg.Width, cfg.Height))
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, invalid("file", "无法识别的图片")
	}

	base := path.Join("images", fmt.Sprintf("%d", userID), time.Now().Format("200601"), idgen.NewID())
	url, err := s.store.Put(ctx, base+extension(format), bytes.NewReader(data), int64(len(data)), in.ContentType)
	if err != nil {
		return nil, fmt.Errorf("上传图片失败: %w", err)
	}

	img := &model.Image{
		UserID:      userID,
		Key:         base + extension(format),
		URL:         url,
		Filename:    in.Filename,
		MimeType:    in.ContentType,
		Size:        int64(len(data)),
		Width:       src.Bounds().Dx(),
		Height:      src.Bounds().Dy(),
		StorageType: s.store.Type(),
	}

	keys := []string{img.Key}
	variantURL, variantKey, err := s.putVariant(ctx, src, format, base+"_800x600", VariantWidth, VariantHeight)
	if err != nil {
		s.log.Warnf("生成图片变体失败: key=%s err=%v", img.Key, err)
		variantURL = url
	} else {
		keys = append(keys, variantKey)
	}
	img.VariantURL = variantURL

	thumbURL, thumbKey, err := s.putVariant(ctx, src, format, base+"_400x300", ThumbnailWidth, ThumbnailHeight)
	if err != nil {
		s.log.Warnf("生成缩略图失败: key=%s err=%v", img.Key, err)
		thumbURL = url
	} else {
		keys = append(keys, thumbKey)
	}
	img.ThumbnailURL = thumbURL

	if err := s.db.WithContext(ctx).Create(img).Error; err != nil {
		// 数据库保存失败时删除原图和变体
		for _, key := range keys {
			if derr := s.store.Delete(ctx, key); derr != nil {
				s.log.Warnf("删除图片失败: key=%s err=%v", key, derr)
			}
		}
		return nil, fmt.Errorf("保存图片信息失败: %w", err)
	}
	return img, nil
}

// validateImageFile 验证图片文件
func (s *ImageService) validateImageFile(in *UploadInput) error {
	if in.Size > s.maxSize {
		return invalid("file", fmt.Sprintf("文件大小超过限制，最大允许 %d MB", s.maxSize>>20))
	}
	if !s.allowedTypes[in.ContentType] {
		return invalid("file", "不支持的文件类型: "+in.ContentType)
	}
	return nil
}

// putVariant 上传缩放后的图片，返回URL和存储键
func (s *ImageService) putVariant(ctx context.Context, src image.Image, format, key string, maxW, maxH int) (string, string, error) {
	dst := ResizeToLimit(src, maxW, maxH)
	var buf bytes.Buffer
	contentType := "image/png"
	if format == "jpeg" {
		contentType = "image/jpeg"
		if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
			return "", "", err
		}
		key += ".jpg"
	} else {
		if err := png.Encode(&buf, dst); err != nil {
			return "", "", err
		}
		key += ".png"
	}
	url, err := s.store.Put(ctx, key, &buf, int64(buf.Len()), contentType)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// ResizeToLimit 等比缩小到不超过 maxW x maxH，小图保持原尺寸
func ResizeToLimit(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return src
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func extension(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png":
		return ".png"
	case "gif":
		return ".gif"
	default:
		return ""
	}
}
