package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/pkg/response"
)

// safeNext 只允许站内相对路径
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (h *Handler) setTokenCookie(c *gin.Context, tok string, exp time.Time) {
	maxAge := int(time.Until(exp).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, tok, maxAge, "/", "", h.secureCookie, true)
}

// LoginForm 登录页只回显 next
func (h *Handler) LoginForm(c *gin.Context) {
	response.Success(c, gin.H{"next": safeNext(c.Query("next"))})
}

// Login 校验成功写 cookie 并跳转到 next
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, formMessage(err))
		return
	}
	tok, exp, err := h.login(c, req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.setTokenCookie(c, tok, exp)
	next := c.PostForm("next")
	if next == "" {
		next = c.Query("next")
	}
	c.Redirect(http.StatusFound, safeNext(next))
}

// Signup 注册后直接登录
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, formMessage(err))
		return
	}
	if _, err := h.userService.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		writeError(c, err)
		return
	}
	tok, exp, err := h.login(c, req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	h.setTokenCookie(c, tok, exp)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, "/")
}
