package handler

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/pagination"
	"github.com/d60-Lab/yatube/pkg/response"
	"github.com/d60-Lab/yatube/pkg/validation"
)

type postRequest struct {
	Text  string  `json:"text" form:"text" binding:"required,notblank"`
	Group *string `json:"group" form:"group"`
}

// patchPostRequest 未出现或为 null 的字段保持原值
type patchPostRequest struct {
	Text  *string         `json:"text" form:"text"`
	Group json.RawMessage `json:"group"`
}

// ListPosts 帖子列表
// @Summary 帖子列表（分页）
// @Tags 帖子
// @Produce json
// @Param page query int false "页码" default(1)
// @Param group query string false "分组 ID"
// @Success 200 {object} response.Response{data=pagination.Page[postResponse]}
// @Router /v1/posts/ [get]
func (h *Handler) ListPosts(c *gin.Context) {
	page := pagination.ParsePage(c.Query("page"))
	res, err := h.postService.ListPosts(c.Request.Context(), service.PostFilter{GroupID: c.Query("group")}, page)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, pagination.Map(res, h.toPost))
}

// GetPost 帖子详情
// @Summary 帖子详情
// @Tags 帖子
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response{data=postResponse}
// @Failure 404 {object} response.Response
// @Router /v1/posts/{post_id}/ [get]
func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.postService.GetPost(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, h.toPost(p))
}

// CreatePost 发帖，支持 JSON 或带 image 的 multipart
// @Summary 创建帖子
// @Tags 帖子
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body postRequest true "帖子"
// @Success 201 {object} response.Response{data=postResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /v1/posts/ [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, formMessage(err))
		return
	}
	img, err := h.imageFromForm(c)
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.postService.CreatePost(c.Request.Context(), middleware.CurrentUser(c), service.CreatePostInput{
		Text:    req.Text,
		GroupID: emptyToNil(req.Group),
		Image:   img,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, h.toPost(p))
}

// UpdatePost 全量更新，group 为空时清除分组
// @Summary 更新帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Param request body postRequest true "帖子"
// @Success 200 {object} response.Response{data=postResponse}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /v1/posts/{post_id}/ [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, formMessage(err))
		return
	}
	img, err := h.imageFromForm(c)
	if err != nil {
		writeError(c, err)
		return
	}
	h.editPost(c, service.EditPostInput{
		Text:     &req.Text,
		GroupID:  emptyToNil(req.Group),
		SetGroup: true,
		Image:    img,
	})
}

// PatchPost 部分更新
// @Summary 部分更新帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Param request body patchPostRequest true "需要修改的字段"
// @Success 200 {object} response.Response{data=postResponse}
// @Failure 403 {object} response.Response
// @Router /v1/posts/{post_id}/ [patch]
func (h *Handler) PatchPost(c *gin.Context) {
	var req patchPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formMessage(err))
		return
	}
	in := service.EditPostInput{Text: req.Text}
	if len(req.Group) > 0 && string(req.Group) != "null" {
		var group string
		if err := json.Unmarshal(req.Group, &group); err != nil {
			response.BadRequest(c, "group must be a string id")
			return
		}
		in.GroupID = emptyToNil(&group)
		in.SetGroup = in.GroupID != nil
	}
	h.editPost(c, in)
}

func (h *Handler) editPost(c *gin.Context, in service.EditPostInput) {
	p, err := h.postService.EditPost(c.Request.Context(), middleware.CurrentUser(c), c.Param("post_id"), in)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, h.toPost(p))
}

// DeletePost 删除帖子
// @Summary 删除帖子
// @Tags 帖子
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Success 204
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /v1/posts/{post_id}/ [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.postService.DeletePost(c.Request.Context(), middleware.CurrentUser(c), c.Param("post_id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// formMessage 把绑定错误压成一行
func formMessage(err error) string {
	msgs := validation.Messages(err)
	parts := make([]string, 0, len(msgs))
	for field, msg := range msgs {
		if field == "non_field_errors" {
			parts = append(parts, msg)
			continue
		}
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
