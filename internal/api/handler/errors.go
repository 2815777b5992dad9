package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/response"
)

var badRequestErrors = []error{
	service.ErrEmptyText,
	service.ErrGroupNotFound,
	service.ErrInvalidImage,
	service.ErrImagesDisabled,
	service.ErrUsernameTaken,
	service.ErrInvalidUsername,
	service.ErrWeakPassword,
	service.ErrInvalidCredentials,
	service.ErrSlugTaken,
	service.ErrInvalidSlug,
	service.ErrInvalidTitle,
	errImageTooLarge,
	errSelfFollow,
}

// writeError 把服务层错误映射为 API 响应
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNotFollowing):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		response.Unauthorized(c, "authentication credentials were not provided")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, "you do not have permission to perform this action")
	case isBadRequest(err):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func isBadRequest(err error) bool {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
