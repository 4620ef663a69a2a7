package controller

import (
	"net/http"

	"github.com/dualpascal/blog-api/internal/dto"
	"github.com/dualpascal/blog-api/internal/service"
	"github.com/dualpascal/blog-api/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageApi 图片控制器
type ImageApi struct {
	logger       *zap.SugaredLogger
	imageService *service.ImageService
}

// NewImageApi 创建图片控制器实例
func NewImageApi(svc *service.Services, logger *zap.SugaredLogger) *ImageApi {
	return &ImageApi{logger: logger, imageService: svc.Image}
}

// Upload 上传图片，返回原图、缩放图和可直接插入正文的Markdown
func (api *ImageApi) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if api.imageService == nil {
		response.Error(c, http.StatusServiceUnavailable, "未配置图片存储", nil)
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "请选择要上传的图片", err)
		return
	}
	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "读取图片失败", err)
		return
	}
	defer src.Close()

	img, err := api.imageService.Upload(c.Request.Context(), userID, &service.UploadInput{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Reader:      src,
	})
	if err != nil {
		handleError(c, api.logger, "上传图片", err)
		return
	}
	response.Created(c, "上传成功", dto.ToImageUploadResponse(img))
}
