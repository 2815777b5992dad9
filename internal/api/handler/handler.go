package handler

import (
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/token"
)

// Handler 站点与 /v1 API 共用的处理器
type Handler struct {
	postService    service.PostService
	commentService service.CommentService
	groupService   service.GroupService
	userService    service.UserService
	relService     service.RelationshipService
	tokens         *token.Manager
	images         storage.ImageStore
	loginURL       string
	maxUploadBytes int64
	secureCookie   bool
}

// Options 构造 Handler 所需的依赖；Images 为 nil 时图片地址原样返回
type Options struct {
	Posts          service.PostService
	Comments       service.CommentService
	Groups         service.GroupService
	Users          service.UserService
	Relations      service.RelationshipService
	Tokens         *token.Manager
	Images         storage.ImageStore
	LoginURL       string
	MaxUploadBytes int64
	SecureCookie   bool
}

func NewHandler(opts Options) *Handler {
	if opts.LoginURL == "" {
		opts.LoginURL = "/auth/login/"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 5 << 20
	}
	return &Handler{
		postService:    opts.Posts,
		commentService: opts.Comments,
		groupService:   opts.Groups,
		userService:    opts.Users,
		relService:     opts.Relations,
		tokens:         opts.Tokens,
		images:         opts.Images,
		loginURL:       opts.LoginURL,
		maxUploadBytes: opts.MaxUploadBytes,
		secureCookie:   opts.SecureCookie,
	}
}
