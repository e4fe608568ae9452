package handler

import (
	"net/http"
	"strconv"

	"Pulse/config"
	"Pulse/middleware"
	"Pulse/pkg/context"
	"Pulse/pkg/response"
	"Pulse/service"
	"Pulse/types"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	Config          *config.Config
	ReactionService service.IReactionService
}

func (h *ReactionHandler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	reactions := r.Group("/v1/reactions")
	reactions.POST("/toggle", authorize, context.Wrap(h.Toggle)) //切换反应
	reactions.GET("/summary", authorize, context.Wrap(h.Summary))
	reactions.GET("/list", authorize, context.Wrap(h.List))
}

// Toggle 切换反应: 新增/取消/替换由服务端判定
func (h *ReactionHandler) Toggle(c *gin.Context) error {
	var req types.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}

	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	result, err := h.ReactionService.Toggle(c.Request.Context(), userID, &req)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, result)
	return nil
}

// Summary 目标的反应聚合, 附带当前用户自己的反应
func (h *ReactionHandler) Summary(c *gin.Context) error {
	targetID, err := strconv.ParseUint(c.Query("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		return response.NewError(http.StatusBadRequest, "target_id参数错误")
	}
	target := types.TargetRef{
		Kind: types.TargetKind(c.Query("target_type")),
		ID:   targetID,
	}

	userID, _ := context.GetUserID(c)

	summary, err := h.ReactionService.Summary(c.Request.Context(), userID, target)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, summary)
	return nil
}

// List 目标的反应明细, 按类型分组
func (h *ReactionHandler) List(c *gin.Context) error {
	targetID, err := strconv.ParseUint(c.Query("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		return response.NewError(http.StatusBadRequest, "target_id参数错误")
	}
	target := types.TargetRef{
		Kind: types.TargetKind(c.Query("target_type")),
		ID:   targetID,
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	list, err := h.ReactionService.List(c.Request.Context(), target, limit)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, list)
	return nil
}
