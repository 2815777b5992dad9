package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/yatube/pkg/response"
)

// ListGroups 分组只读
// @Summary 分组列表
// @Tags 分组
// @Produce json
// @Success 200 {object} response.Response{data=[]groupResponse}
// @Router /v1/groups/ [get]
func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.groupService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	res := make([]groupResponse, len(groups))
	for i, g := range groups {
		res[i] = toGroup(g)
	}
	response.Success(c, res)
}

// GetGroup 分组详情
// @Summary 分组详情
// @Tags 分组
// @Produce json
// @Param group_id path string true "分组ID"
// @Success 200 {object} response.Response{data=groupResponse}
// @Failure 404 {object} response.Response
// @Router /v1/groups/{group_id}/ [get]
func (h *Handler) GetGroup(c *gin.Context) {
	g, err := h.groupService.Get(c.Request.Context(), c.Param("group_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, toGroup(g))
}
