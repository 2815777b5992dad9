package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/policy"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthenticated    = policy.ErrUnauthenticated
	ErrForbidden          = policy.ErrForbidden
	ErrEmptyText          = errors.New("text must not be empty")
	ErrGroupNotFound      = errors.New("group not found")
	ErrNotFollowing       = errors.New("not following this author")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUsername    = errors.New("username may contain only letters, digits and @/./+/-/_")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrSlugTaken          = errors.New("group slug already taken")
	ErrInvalidSlug        = errors.New("slug may contain only lowercase letters, digits, - and _")
	ErrInvalidTitle       = errors.New("title must be 1 to 200 characters")
	ErrInvalidImage       = errors.New("upload a valid image")
	ErrImagesDisabled     = errors.New("image uploads are disabled")
)

// notFound 把 gorm 的未找到错误转换为 ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
