package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/service"
)

var errImageTooLarge = errors.New("image is too large")

// imageFromForm 读取 multipart 的 image 字段；未上传时返回 nil。
// Content-Type 以内容嗅探为准，不信任客户端
func (h *Handler) imageFromForm(c *gin.Context) (*service.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", service.ErrInvalidImage, err)
	}
	if fh.Size > h.maxUploadBytes {
		return nil, errImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	data, err := io.ReadAll(f)
	_ = f.Close()
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	return &service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: http.DetectContentType(data),
		Size:        int64(len(data)),
		Reader:      bytes.NewReader(data),
	}, nil
}
