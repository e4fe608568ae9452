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

type CommentHandler struct {
	Config         *config.Config
	CommentService service.ICommentService
}

func (h *CommentHandler) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(h.Config.Jwt.Secret))
	comments := r.Group("/v1/comments")
	comments.POST("/create", authorize, context.Wrap(h.Create)) //发评论或回复
	comments.GET("/list/:post_id", authorize, context.Wrap(h.List))
	comments.GET("/replies/:root_id", authorize, context.Wrap(h.Replies))
	comments.POST("/delete", authorize, context.Wrap(h.Delete))
}

// Create 发评论, root_id > 0 时是回复
func (h *CommentHandler) Create(c *gin.Context) error {
	var req types.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}

	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	comment, err := h.CommentService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, comment)
	return nil
}

// List 帖子下的顶级评论(游标分页)
func (h *CommentHandler) List(c *gin.Context) error {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		return response.NewError(http.StatusBadRequest, "post_id参数错误")
	}

	cursor, limit := pageParams(c)
	userID, _ := context.GetUserID(c)

	result, err := h.CommentService.ListRoots(c.Request.Context(), userID, postID, cursor, limit)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, result)
	return nil
}

// Replies 顶级评论下的回复(按时间正序)
func (h *CommentHandler) Replies(c *gin.Context) error {
	rootID, err := strconv.ParseUint(c.Param("root_id"), 10, 64)
	if err != nil || rootID == 0 {
		return response.NewError(http.StatusBadRequest, "root_id参数错误")
	}

	cursor, limit := pageParams(c)
	userID, _ := context.GetUserID(c)

	result, err := h.CommentService.ListReplies(c.Request.Context(), userID, rootID, cursor, limit)
	if err != nil {
		return asBizError(err)
	}

	response.Success(c, result)
	return nil
}

// Delete 删评论
func (h *CommentHandler) Delete(c *gin.Context) error {
	var req types.DeleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return response.NewError(http.StatusBadRequest, err.Error())
	}

	userID, err := context.GetUserID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, "未登录")
	}

	if err := h.CommentService.Delete(c.Request.Context(), userID, req.CommentID); err != nil {
		return asBizError(err)
	}

	response.Success(c, gin.H{"comment_id": strconv.FormatUint(req.CommentID, 10)})
	return nil
}

func pageParams(c *gin.Context) (int64, int) {
	cursor := int64(0)
	if cursorStr := c.Query("cursor"); cursorStr != "" {
		if v, err := strconv.ParseInt(cursorStr, 10, 64); err == nil {
			cursor = v
		}
	}
	limit := 20
	if ls := c.Query("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil {
			limit = v
		}
	}
	return cursor, limit
}
