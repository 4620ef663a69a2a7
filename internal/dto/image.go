package dto

import "github.com/dualpascal/blog-api/internal/model"

// ImageUploadResponse 上传结果
type ImageUploadResponse struct {
	ID           uint   `json:"id"`
	URL          string `json:"url"`
	VariantURL   string `json:"variant_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Markdown     string `json:"markdown"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

// ToImageUploadResponse 转换上传结果，Markdown 引用使用缩放后的地址
func ToImageUploadResponse(img *model.Image) *ImageUploadResponse {
	ref := img.VariantURL
	if ref == "" {
		ref = img.URL
	}
	return &ImageUploadResponse{
		ID:           img.ID,
		URL:          img.URL,
		VariantURL:   img.VariantURL,
		ThumbnailURL: img.ThumbnailURL,
		Markdown:     "![" + img.Filename + "](" + ref + ")",
		Width:        img.Width,
		Height:       img.Height,
		Size:         img.Size,
		MimeType:     img.MimeType,
	}
}
