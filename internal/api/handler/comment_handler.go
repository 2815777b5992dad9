package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/pkg/response"
)

type commentRequest struct {
	Text string `json:"text" form:"text" binding:"required,notblank"`
}

// ListComments 帖子下的全部评论，按时间正序
// @Summary 评论列表
// @Tags 评论
// @Produce json
// @Param post_id path string true "帖子ID"
// @Success 200 {object} response.Response{data=[]commentResponse}
// @Failure 404 {object} response.Response
// @Router /v1/posts/{post_id}/comments/ [get]
func (h *Handler) ListComments(c *gin.Context) {
	list, err := h.commentService.ListComments(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, toComments(list))
}

// GetComment 单条评论
// @Summary 评论详情
// @Tags 评论
// @Produce json
// @Param post_id path string true "帖子ID"
// @Param comment_id path string true "评论ID"
// @Success 200 {object} response.Response{data=commentResponse}
// @Failure 404 {object} response.Response
// @Router /v1/posts/{post_id}/comments/{comment_id}/ [get]
func (h *Handler) GetComment(c *gin.Context) {
	cm, err := h.commentService.GetComment(c.Request.Context(), c.Param("post_id"), c.Param("comment_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, toComment(cm))
}

// CreateComment 发表评论
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Param request body commentRequest true "评论"
// @Success 201 {object} response.Response{data=commentResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /v1/posts/{post_id}/comments/ [post]
func (h *Handler) CreateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, formMessage(err))
		return
	}
	cm, err := h.commentService.AddComment(c.Request.Context(), middleware.CurrentUser(c), c.Param("post_id"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, toComment(cm))
}

// UpdateComment PUT 与 PATCH 共用，评论只有 text 可改
// @Summary 修改评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Param comment_id path string true "评论ID"
// @Param request body commentRequest true "评论"
// @Success 200 {object} response.Response{data=commentResponse}
// @Failure 403 {object} response.Response
// @Router /v1/posts/{post_id}/comments/{comment_id}/ [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, formMessage(err))
		return
	}
	cm, err := h.commentService.EditComment(c.Request.Context(), middleware.CurrentUser(c), c.Param("post_id"), c.Param("comment_id"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, toComment(cm))
}

// DeleteComment 删除评论
// @Summary 删除评论
// @Tags 评论
// @Security BearerAuth
// @Param post_id path string true "帖子ID"
// @Param comment_id path string true "评论ID"
// @Success 204
// @Failure 403 {object} response.Response
// @Router /v1/posts/{post_id}/comments/{comment_id}/ [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.commentService.DeleteComment(c.Request.Context(), middleware.CurrentUser(c), c.Param("post_id"), c.Param("comment_id")); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}
