package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/response"
)

type credentialsRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=150"`
	Password string `json:"password" form:"password" binding:"required"`
}

// signupRequest 注册时额外校验用户名字符集
type signupRequest struct {
	Username string `json:"username" form:"username" binding:"required,username"`
	Password string `json:"password" form:"password" binding:"required"`
}

// CreateUser 注册
// @Summary 注册用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body signupRequest true "用户名与密码"
// @Success 201 {object} response.Response{data=userResponse}
// @Failure 400 {object} response.Response
// @Router /v1/createuser/ [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, formMessage(err))
		return
	}
	u, err := h.userService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, toUser(u))
}

// ObtainToken 用户名密码换取 JWT
// @Summary 获取令牌
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "用户名与密码"
// @Success 200 {object} response.Response{data=tokenResponse}
// @Failure 400 {object} response.Response
// @Router /v1/api-token-auth/ [post]
func (h *Handler) ObtainToken(c *gin.Context) {
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
	response.Success(c, tokenResponse{Token: tok, ExpiresAt: exp})
}

func (h *Handler) login(c *gin.Context, username, password string) (string, time.Time, error) {
	u, err := h.userService.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		return "", time.Time{}, err
	}
	tok, exp, err := h.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return "", time.Time{}, err
	}
	logger.Info("token issued", zap.String("user_id", u.ID))
	return tok, exp, nil
}
