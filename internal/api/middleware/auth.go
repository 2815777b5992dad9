package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/response"
	"github.com/d60-Lab/yatube/pkg/token"
)

const (
	currentUserKey = "currentUser"
	// TokenCookie 站点登录后写入的 cookie
	TokenCookie = "yatube_token"
)

// Authenticate 解析 Authorization（Bearer / Token）或登录 cookie，
// 成功时把用户放进上下文；失败不拦截，由 RequireAPIAuth / RequireSiteAuth 决定
func Authenticate(tokens *token.Manager, users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c.GetHeader("Authorization"))
		if raw == "" {
			raw, _ = c.Cookie(TokenCookie)
		}
		if raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			logger.Debug("token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Next()
			return
		}
		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Warn("token user not found", zap.String("user_id", claims.UserID), zap.Error(err))
			c.Next()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func bearer(header string) string {
	for _, scheme := range []string{"Bearer ", "Token "} {
		if strings.HasPrefix(header, scheme) {
			return strings.TrimSpace(header[len(scheme):])
		}
	}
	return ""
}

// RequireAPIAuth 未登录返回 401
func RequireAPIAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			response.Unauthorized(c, "authentication credentials were not provided")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSiteAuth 未登录重定向到登录页，next 为当前路径
func RequireSiteAuth(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginRedirect(loginURL, c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

func LoginRedirect(loginURL, next string) string {
	return loginURL + "?next=" + url.QueryEscape(next)
}

// CurrentUser 未登录时返回 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

// CurrentUserID 未登录时返回空串
func CurrentUserID(c *gin.Context) string {
	if u := CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}
