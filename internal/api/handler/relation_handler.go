package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/pkg/pagination"
	"github.com/d60-Lab/yatube/pkg/response"
)

var errSelfFollow = errors.New("you cannot follow yourself")

type followRequest struct {
	Following string `json:"following" form:"following" binding:"required"`
}

type followResponse struct {
	User      string `json:"user"`
	Following string `json:"following"`
}

// Follow 关注作者（粉丝表异步冗余）
// @Summary 关注作者
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body followRequest true "被关注者用户名"
// @Success 201 {object} response.Response{data=followResponse}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /v1/follow/ [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, formMessage(err))
		return
	}
	me := middleware.CurrentUser(c)
	author, err := h.userService.GetByUsername(c.Request.Context(), req.Following)
	if err != nil {
		writeError(c, err)
		return
	}
	if author.ID == me.ID {
		writeError(c, errSelfFollow)
		return
	}
	if err := h.relService.Follow(c.Request.Context(), me.ID, author.ID); err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, followResponse{User: me.Username, Following: author.Username})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Security BearerAuth
// @Param username path string true "被关注者用户名"
// @Success 204
// @Failure 404 {object} response.Response
// @Router /v1/follow/{username}/ [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	author, err := h.userService.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.relService.Unfollow(c.Request.Context(), middleware.CurrentUserID(c), author.ID); err != nil {
		writeError(c, err)
		return
	}
	response.NoContent(c)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /v1/users/{username}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	h.listRelations(c, h.relService.ListFollowing)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表（来自冗余表）
// @Tags 关系链
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /v1/users/{username}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	h.listRelations(c, h.relService.ListFans)
}

const (
	defaultRelationPageSize = 10
	maxRelationPageSize     = 100
)

type listFunc func(ctx context.Context, userID string, page, pageSize int) ([]string, error)

func (h *Handler) listRelations(c *gin.Context, list listFunc) {
	ctx := c.Request.Context()
	user, err := h.userService.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	size, _ := strconv.Atoi(c.Query("page_size"))
	p := pagination.New(pagination.ParsePage(c.Query("page")), min(size, maxRelationPageSize), defaultRelationPageSize)
	ids, err := list(ctx, user.ID, p.Page, p.PageSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	users := make([]userResponse, 0, len(ids))
	for _, id := range ids {
		u, err := h.userService.GetByID(ctx, id)
		if err != nil {
			// 冗余表可能短暂落后于用户删除
			continue
		}
		users = append(users, toUser(u))
	}
	response.Success(c, gin.H{"page": p.Page, "page_size": p.PageSize, "list": users})
}
