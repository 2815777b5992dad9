package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/api/middleware"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/pagination"
	"github.com/d60-Lab/yatube/pkg/response"
	"github.com/d60-Lab/yatube/pkg/validation"
)

// postForm 站点发帖/编辑表单，group 为空表示不分组
type postForm struct {
	Text  string `form:"text" json:"text" binding:"required,notblank"`
	Group string `form:"group" json:"group"`
}

func profileURL(username string) string { return "/profile/" + username + "/" }

func postURL(id string) string { return "/posts/" + id + "/" }

func (h *Handler) page(c *gin.Context) int {
	return pagination.ParsePage(c.Query("page"))
}

// Index 首页，结果走缓存
func (h *Handler) Index(c *gin.Context) {
	res, err := h.postService.ListIndex(c.Request.Context(), h.page(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"page_obj": pagination.Map(res, h.toPost)})
}

type groupURI struct {
	Slug string `uri:"slug" binding:"required,slug"`
}

func (h *Handler) GroupPosts(c *gin.Context) {
	ctx := c.Request.Context()
	var uri groupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		// 不合法的 slug 不可能存在
		writeError(c, service.ErrNotFound)
		return
	}
	g, err := h.groupService.GetBySlug(ctx, uri.Slug)
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.postService.ListPosts(ctx, service.PostFilter{GroupID: g.ID}, h.page(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"group": toGroup(g), "page_obj": pagination.Map(res, h.toPost)})
}

// Profile 作者页：帖子、帖子数、当前用户是否已关注
func (h *Handler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.userService.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.postService.ListPosts(ctx, service.PostFilter{AuthorID: author.ID}, h.page(c))
	if err != nil {
		writeError(c, err)
		return
	}
	following, err := h.relService.IsFollowing(ctx, middleware.CurrentUserID(c), author.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	followers, err := h.relService.CountFollowers(ctx, author.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{
		"author":     toUser(author),
		"post_count": res.Total,
		"followers":  followers,
		"following":  following,
		"page_obj":   pagination.Map(res, h.toPost),
	})
}

func (h *Handler) PostDetail(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.postService.GetPost(ctx, c.Param("post_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	count, err := h.postService.CountByAuthor(ctx, p.AuthorID)
	if err != nil {
		writeError(c, err)
		return
	}
	comments, err := h.commentService.ListComments(ctx, p.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{
		"post":       h.toPost(p),
		"post_count": count,
		"comments":   toComments(comments),
	})
}

// CreateForm 返回发帖表单需要的分组列表
func (h *Handler) CreateForm(c *gin.Context) {
	h.renderForm(c, nil)
}

func (h *Handler) renderForm(c *gin.Context, post *model.Post) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	opts := make([]groupResponse, len(groups))
	for i, g := range groups {
		opts[i] = toGroup(g)
	}
	data := gin.H{"groups": opts, "is_edit": post != nil}
	if post != nil {
		data["post"] = h.toPost(post)
	}
	response.Success(c, data)
}

func (h *Handler) CreatePostForm(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, response.Response{Code: http.StatusBadRequest, Message: "invalid form", Data: validation.Messages(err)})
		return
	}
	img, err := h.imageFromForm(c)
	if err != nil {
		h.formError(c, err)
		return
	}
	me := middleware.CurrentUser(c)
	_, err = h.postService.CreatePost(c.Request.Context(), me, service.CreatePostInput{
		Text:    form.Text,
		GroupID: emptyToNil(&form.Group),
		Image:   img,
	})
	if err != nil {
		h.formError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(me.Username))
}

// EditForm 非作者直接跳回帖子详情
func (h *Handler) EditForm(c *gin.Context) {
	p, err := h.postService.GetPost(c.Request.Context(), c.Param("post_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if p.AuthorID != middleware.CurrentUserID(c) {
		c.Redirect(http.StatusFound, postURL(p.ID))
		return
	}
	h.renderForm(c, p)
}

func (h *Handler) EditPostForm(c *gin.Context) {
	id := c.Param("post_id")
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		// 非作者即使表单无效也只跳转
		if p, gerr := h.postService.GetPost(c.Request.Context(), id); gerr == nil && p.AuthorID != middleware.CurrentUserID(c) {
			c.Redirect(http.StatusFound, postURL(id))
			return
		}
		c.JSON(http.StatusBadRequest, response.Response{Code: http.StatusBadRequest, Message: "invalid form", Data: validation.Messages(err)})
		return
	}
	img, err := h.imageFromForm(c)
	if err != nil {
		h.formError(c, err)
		return
	}
	_, err = h.postService.EditPost(c.Request.Context(), middleware.CurrentUser(c), id, service.EditPostInput{
		Text:     &form.Text,
		GroupID:  emptyToNil(&form.Group),
		SetGroup: true,
		Image:    img,
	})
	switch {
	case err == nil, errors.Is(err, service.ErrForbidden):
		c.Redirect(http.StatusFound, postURL(id))
	default:
		h.formError(c, err)
	}
}

// AddCommentForm 无效评论被忽略，始终跳回帖子详情
func (h *Handler) AddCommentForm(c *gin.Context) {
	id := c.Param("post_id")
	var form commentRequest
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, postURL(id))
		return
	}
	_, err := h.commentService.AddComment(c.Request.Context(), middleware.CurrentUser(c), id, form.Text)
	if err != nil && !errors.Is(err, service.ErrEmptyText) {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, postURL(id))
}

// FollowIndex 关注的作者的帖子
func (h *Handler) FollowIndex(c *gin.Context) {
	res, err := h.postService.ListFeed(c.Request.Context(), middleware.CurrentUserID(c), h.page(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"page_obj": pagination.Map(res, h.toPost)})
}

func (h *Handler) ProfileFollow(c *gin.Context) {
	h.toggleFollow(c, true)
}

func (h *Handler) ProfileUnfollow(c *gin.Context) {
	h.toggleFollow(c, false)
}

func (h *Handler) toggleFollow(c *gin.Context, follow bool) {
	ctx := c.Request.Context()
	username := c.Param("username")
	author, err := h.userService.GetByUsername(ctx, username)
	if err != nil {
		writeError(c, err)
		return
	}
	me := middleware.CurrentUserID(c)
	if follow {
		err = h.relService.Follow(ctx, me, author.ID)
	} else {
		err = h.relService.Unfollow(ctx, me, author.ID)
		if errors.Is(err, service.ErrNotFollowing) {
			logger.Debug("unfollow of non-followed author", zap.String("author", username))
			err = nil
		}
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profileURL(username))
}

// formError 表单类错误返回 400，其余按 API 规则处理
func (h *Handler) formError(c *gin.Context, err error) {
	if isBadRequest(err) {
		c.JSON(http.StatusBadRequest, response.Response{Code: http.StatusBadRequest, Message: "invalid form", Data: gin.H{"non_field_errors": err.Error()}})
		return
	}
	writeError(c, err)
}
